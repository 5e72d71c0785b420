package repo

import (
	"context"

	"github.com/zenGate-Global/palmyra-admins/platform/go/persistence"
)

// Repository defines the persistence operations required by the admins service.
type Repository interface {
	IsEmpty(ctx context.Context) (bool, error)
	Put(ctx context.Context, id string, params persistence.PutAdminParams) error
	Get(ctx context.Context, id string) (persistence.AdminProfile, error)
}

type storeRepository struct {
	store     persistence.AdminStore
	validator *persistence.ProfileValidator
}

// New constructs a repository over any admin store backend. Profiles are
// schema-checked before they reach the store.
func New(store persistence.AdminStore, validator *persistence.ProfileValidator) Repository {
	if store == nil {
		panic("admin store is required")
	}
	if validator == nil {
		panic("profile validator is required")
	}
	return &storeRepository{store: store, validator: validator}
}

func (r *storeRepository) IsEmpty(ctx context.Context) (bool, error) {
	return r.store.IsEmpty(ctx)
}

func (r *storeRepository) Put(ctx context.Context, id string, params persistence.PutAdminParams) error {
	if err := r.validator.Validate(params); err != nil {
		return err
	}
	return r.store.PutAdmin(ctx, id, params)
}

func (r *storeRepository) Get(ctx context.Context, id string) (persistence.AdminProfile, error) {
	return r.store.GetAdmin(ctx, id)
}
