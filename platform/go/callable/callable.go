package callable

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
)

// MaxBodyBytes bounds the request envelope.
const MaxBodyBytes = 1 << 20

type requestEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type resultEnvelope struct {
	Result any `json:"result"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Handler adapts a procedure to HTTP using the callable protocol:
// POST {"data": ...} → 200 {"result": ...} or {"error": {"status", "message"}}.
// fn receives the decoded data member and returns the result member.
func Handler[Req, Res any](fn func(ctx context.Context, data Req) (Res, error)) http.Handler {
	if fn == nil {
		panic("callable.Handler: fn must not be nil")
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var data Req
		if err := DecodeRequest(r, &data); err != nil {
			WriteError(w, err)
			return
		}

		res, err := fn(r.Context(), data)
		if err != nil {
			WriteError(w, err)
			return
		}

		WriteResult(w, res)
	})
}

// DecodeRequest validates the envelope and unmarshals its data member into dst.
func DecodeRequest(r *http.Request, dst any) error {
	if r.Method != http.MethodPost {
		return NewError(CodeInvalidArgument, "Request has invalid method. "+r.Method)
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return NewError(CodeInvalidArgument, "Request has incorrect Content-Type.")
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return NewError(CodeInvalidArgument, "Request body could not be read.")
	}
	if len(body) > MaxBodyBytes {
		return NewError(CodeInvalidArgument, "Request body is too large.")
	}

	var env requestEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return NewError(CodeInvalidArgument, "Request body is not valid JSON.")
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return NewError(CodeInvalidArgument, "Bad Request")
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return NewError(CodeInvalidArgument, "Request data has an invalid shape.")
	}

	return nil
}

// WriteResult writes a successful response envelope.
func WriteResult(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, resultEnvelope{Result: result})
}

// WriteError writes an error envelope; unclassified errors become INTERNAL.
func WriteError(w http.ResponseWriter, err error) {
	ce := AsError(err)
	writeJSON(w, ce.Code.HTTPStatus(), errorEnvelope{Error: errorBody{
		Status:  ce.Code.Status(),
		Message: ce.Message,
		Details: ce.Details,
	}})
}

// RejectUnauthenticated has the shape of auth.RejectFunc and answers invalid bearer tokens in protocol form.
func RejectUnauthenticated(w http.ResponseWriter, _ *http.Request, _ error) {
	WriteError(w, NewError(CodeUnauthenticated, "Unauthenticated"))
}

// WriteMiddlewareError adapts status/message pairs produced by HTTP middleware (contract validation, timeouts).
func WriteMiddlewareError(w http.ResponseWriter, message string, statusCode int) {
	WriteError(w, NewError(CodeForHTTPStatus(statusCode), message))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
