package service

import "context"

// NewIdentity is the account the identity provider is asked to create.
type NewIdentity struct {
	Email       string
	Password    string
	DisplayName string
}

// Identity is the provider's record of a created account.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// IdentityProvider creates accounts and attaches custom claims to them.
// Each call is expected to succeed or fail atomically.
type IdentityProvider interface {
	CreateUser(ctx context.Context, identity NewIdentity) (Identity, error)
	SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error
}
