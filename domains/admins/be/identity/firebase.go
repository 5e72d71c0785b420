package identity

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"github.com/zenGate-Global/palmyra-admins/domains/admins/be/service"
)

// FirebaseProvider creates admin accounts in Firebase Authentication.
type FirebaseProvider struct {
	client *auth.Client
}

func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	if client == nil {
		panic("firebase auth client is required")
	}
	return &FirebaseProvider{client: client}
}

// CreateUser registers the account. Email policy, password policy and uniqueness are
// enforced by Firebase; its error is returned as is.
func (p *FirebaseProvider) CreateUser(ctx context.Context, identity service.NewIdentity) (service.Identity, error) {
	params := (&auth.UserToCreate{}).
		Email(identity.Email).
		Password(identity.Password)
	if identity.DisplayName != "" {
		params = params.DisplayName(identity.DisplayName)
	}

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return service.Identity{}, err
	}

	return service.Identity{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
	}, nil
}

// SetCustomClaims replaces the custom claims of uid; they show up in ID tokens minted afterwards.
func (p *FirebaseProvider) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	return p.client.SetCustomUserClaims(ctx, uid, claims)
}

var _ service.IdentityProvider = (*FirebaseProvider)(nil)
