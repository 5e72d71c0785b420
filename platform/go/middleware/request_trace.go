package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/palmyra-admins/platform/go/auth"
	"github.com/zenGate-Global/palmyra-admins/platform/go/callable"
	platformlogging "github.com/zenGate-Global/palmyra-admins/platform/go/logging"
	"github.com/zenGate-Global/palmyra-admins/platform/go/requesttrace"
)

// RequestTrace attaches the caller of the request as AuditInfo. Requests without verified
// credentials get an anonymous record, which is how handlers see an absent caller.
// It must run after the JWT middleware.
func RequestTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := platformlogging.FromRequest(r, nil)
		requestID := middleware.GetReqID(r.Context())

		var audit requesttrace.AuditInfo
		if creds, ok := platformauth.UserFromContext(r.Context()); ok && creds != nil {
			var err error
			audit, err = requesttrace.FromCredentials(creds, requestID)
			if err != nil {
				if logger != nil {
					logger.Error("build audit info from credentials", zap.Error(err))
				}
				callable.WriteError(w, callable.NewError(callable.CodeUnauthenticated, "Unauthenticated"))
				return
			}
		} else {
			audit = requesttrace.Anonymous(requestID)
		}

		ctx := requesttrace.IntoContext(r.Context(), audit)
		if logger != nil {
			fields := []zap.Field{zap.String("actor_kind", string(audit.ActorKind))}
			if audit.UserID != nil && *audit.UserID != "" {
				fields = append(fields, zap.String("user_id", *audit.UserID))
			}
			if audit.IsAdmin {
				fields = append(fields, zap.Bool("caller_admin", true))
			}
			logger = logger.With(fields...)
			ctx = platformlogging.WithLogger(ctx, logger)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
