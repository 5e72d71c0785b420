package identity

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zenGate-Global/palmyra-admins/domains/admins/be/service"
)

// Errors mirror the messages Firebase Authentication returns for the same conditions.
var (
	ErrEmailExists  = errors.New("The email address is already in use by another account.")
	ErrInvalidEmail = errors.New("The email address is improperly formatted.")
	ErrWeakPassword = errors.New("The password must be a string with at least 6 characters.")
	ErrUserNotFound = errors.New("There is no user record corresponding to the provided identifier.")
)

const minPasswordLength = 6

type memoryUser struct {
	identity service.Identity
	claims   map[string]interface{}
}

// MemoryProvider is an in-process identity provider for local runs and tests.
type MemoryProvider struct {
	mu      sync.Mutex
	users   map[string]*memoryUser
	byEmail map[string]string
	newUID  func() string
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		users:   make(map[string]*memoryUser),
		byEmail: make(map[string]string),
		newUID:  uuid.NewString,
	}
}

func (p *MemoryProvider) CreateUser(_ context.Context, identity service.NewIdentity) (service.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" || !strings.Contains(email, "@") {
		return service.Identity{}, ErrInvalidEmail
	}
	if len(identity.Password) < minPasswordLength {
		return service.Identity{}, ErrWeakPassword
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, taken := p.byEmail[email]; taken {
		return service.Identity{}, ErrEmailExists
	}

	created := service.Identity{
		UID:         p.newUID(),
		Email:       email,
		DisplayName: identity.DisplayName,
	}
	p.users[created.UID] = &memoryUser{identity: created}
	p.byEmail[email] = created.UID

	return created, nil
}

func (p *MemoryProvider) SetCustomClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[uid]
	if !ok {
		return ErrUserNotFound
	}
	user.claims = maps.Clone(claims)
	return nil
}

// Claims returns the custom claims recorded for uid.
func (p *MemoryProvider) Claims(uid string) (map[string]interface{}, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[uid]
	if !ok {
		return nil, false
	}
	return maps.Clone(user.claims), true
}

// Count returns the number of accounts created so far.
func (p *MemoryProvider) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.users)
}

var _ service.IdentityProvider = (*MemoryProvider)(nil)
