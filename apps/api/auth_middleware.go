package main

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/palmyra-admins/platform/go/auth"
	"github.com/zenGate-Global/palmyra-admins/platform/go/callable"
	"github.com/zenGate-Global/palmyra-admins/platform/go/gcp"
)

// buildAuthMiddleware constructs the JWT middleware for the configured provider.
// Calls without a bearer token continue anonymously; invalid tokens are answered as unauthenticated.
func buildAuthMiddleware(cfg config, clients *gcp.Clients, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	var verify platformauth.VerifyFunc
	switch cfg.AuthProvider {
	case "firebase":
		if clients == nil || clients.Auth == nil {
			return nil, errors.New("firebase auth client is required for AUTH_PROVIDER=firebase")
		}
		verify = platformauth.FirebaseTokenVerifier(clients.Auth)
	case "dev":
		logger.Warn("using dev auth middleware; do not use in production")
		verify = platformauth.UnsignedTokenVerifier()
	default:
		return nil, fmt.Errorf("unsupported AUTH_PROVIDER %q (use firebase or dev)", cfg.AuthProvider)
	}

	return platformauth.JWT(verify, platformauth.DefaultCredentialExtractor, callable.RejectUnauthenticated), nil
}
