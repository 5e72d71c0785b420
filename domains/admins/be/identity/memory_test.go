package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/palmyra-admins/domains/admins/be/service"
)

func TestMemoryProviderCreateUser(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()
	ctx := context.Background()

	created, err := p.CreateUser(ctx, service.NewIdentity{Email: "A@X.com", Password: "secret1", DisplayName: "Ann"})
	require.NoError(t, err)
	require.NotEmpty(t, created.UID)
	require.Equal(t, "a@x.com", created.Email)
	require.Equal(t, "Ann", created.DisplayName)

	_, err = p.CreateUser(ctx, service.NewIdentity{Email: "a@x.com", Password: "secret2"})
	require.ErrorIs(t, err, ErrEmailExists)
	require.Equal(t, 1, p.Count())
}

func TestMemoryProviderPolicies(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()
	ctx := context.Background()

	_, err := p.CreateUser(ctx, service.NewIdentity{Email: "not-an-email", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = p.CreateUser(ctx, service.NewIdentity{Email: "a@x.com", Password: "p"})
	require.ErrorIs(t, err, ErrWeakPassword)

	require.Zero(t, p.Count())
}

func TestMemoryProviderClaims(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()
	ctx := context.Background()

	require.ErrorIs(t, p.SetCustomClaims(ctx, "missing", map[string]interface{}{"admin": true}), ErrUserNotFound)

	created, err := p.CreateUser(ctx, service.NewIdentity{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	claims := map[string]interface{}{"admin": true}
	require.NoError(t, p.SetCustomClaims(ctx, created.UID, claims))
	claims["admin"] = false

	stored, ok := p.Claims(created.UID)
	require.True(t, ok)
	require.Equal(t, true, stored["admin"])
}
