package repo

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zenGate-Global/palmyra-admins/platform/go/persistence"
)

// MemoryStore is an in-process admin store for local runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]persistence.AdminProfile
	now      func() time.Time
}

// NewMemoryStore returns an empty store stamping timestamps with the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock lets tests pin the "server" timestamps.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{profiles: make(map[string]persistence.AdminProfile), now: now}
}

func (m *MemoryStore) IsEmpty(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles) == 0, nil
}

func (m *MemoryStore) PutAdmin(_ context.Context, id string, params persistence.PutAdminParams) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("admin id is required")
	}

	ts := m.now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[id] = persistence.AdminProfile{
		UserID:      id,
		Email:       params.Email,
		Name:        params.Name,
		Role:        params.Role,
		Permissions: slices.Clone(params.Permissions),
		IsActive:    params.IsActive,
		CreatedBy:   params.CreatedBy,
		CreatedAt:   ts,
		LastLogin:   ts,
	}
	return nil
}

func (m *MemoryStore) GetAdmin(_ context.Context, id string) (persistence.AdminProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[id]
	if !ok {
		return persistence.AdminProfile{}, persistence.ErrAdminNotFound
	}
	profile.Permissions = slices.Clone(profile.Permissions)
	return profile, nil
}

// Profiles returns a snapshot of every stored profile ordered by id.
func (m *MemoryStore) Profiles() []persistence.AdminProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]persistence.AdminProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		p.Permissions = slices.Clone(p.Permissions)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

var _ persistence.AdminStore = (*MemoryStore)(nil)
