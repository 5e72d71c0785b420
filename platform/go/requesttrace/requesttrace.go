package requesttrace

import (
	"context"
	"errors"

	platformauth "github.com/zenGate-Global/palmyra-admins/platform/go/auth"
)

type contextKey string

const (
	ctxAuditInfo contextKey = "PALMYRA_REQUEST_TRACE"
)

// ActorKind represents who initiated a request.
type ActorKind string

const (
	ActorKindUser      ActorKind = "user"
	ActorKindAnonymous ActorKind = "anonymous"
	ActorKindSystem    ActorKind = "system"
)

// AuditInfo captures the caller of a request.
// An anonymous AuditInfo is the absent-caller case: no verified token was presented.
// IsAdmin and Name mirror the verified token's admin and name claims.
type AuditInfo struct {
	ActorKind ActorKind
	UserID    *string
	Name      *string
	IsAdmin   bool
	RequestID string
}

// HasCaller reports whether a verified caller identity is attached.
func (a AuditInfo) HasCaller() bool {
	return a.ActorKind != ActorKindAnonymous && a.ActorKind != ""
}

// CallerName returns the caller's name claim, or "" when absent.
func (a AuditInfo) CallerName() string {
	if a.Name == nil {
		return ""
	}
	return *a.Name
}

// IntoContext stores the AuditInfo in the provided context.
func IntoContext(ctx context.Context, audit AuditInfo) context.Context {
	return context.WithValue(ctx, ctxAuditInfo, audit)
}

// FromContext extracts the AuditInfo from context, returning false when not present.
func FromContext(ctx context.Context) (AuditInfo, bool) {
	if ctx == nil {
		return AuditInfo{}, false
	}
	audit, ok := ctx.Value(ctxAuditInfo).(AuditInfo)
	return audit, ok
}

// FromContextOrAnonymous returns the AuditInfo stored on the context, or an anonymous record when absent.
func FromContextOrAnonymous(ctx context.Context) AuditInfo {
	if audit, ok := FromContext(ctx); ok {
		return audit
	}
	return Anonymous("")
}

// FromCredentials builds an AuditInfo from verified user credentials and a request ID.
func FromCredentials(creds *platformauth.UserCredentials, requestID string) (AuditInfo, error) {
	if creds == nil {
		return AuditInfo{}, errors.New("credentials are required to build audit info")
	}
	if creds.Id == "" {
		return AuditInfo{}, errors.New("user id is required to build audit info")
	}

	id := creds.Id
	return AuditInfo{
		ActorKind: ActorKindUser,
		UserID:    &id,
		Name:      creds.Name,
		IsAdmin:   creds.IsAdmin,
		RequestID: requestID,
	}, nil
}

// Anonymous builds an AuditInfo for calls made without a verified token.
func Anonymous(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindAnonymous, RequestID: requestID}
}

// System builds an AuditInfo for operator tooling that runs outside the RPC path.
func System(requestID string, isAdmin bool, name string) AuditInfo {
	audit := AuditInfo{ActorKind: ActorKindSystem, IsAdmin: isAdmin, RequestID: requestID}
	if name != "" {
		audit.Name = &name
	}
	return audit
}
