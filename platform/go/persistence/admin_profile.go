package persistence

import (
	"context"
	"errors"
	"time"
)

// AdminsCollection is the default collection/table holding admin profiles.
const AdminsCollection = "admins"

// ErrAdminNotFound indicates a missing admin profile.
var ErrAdminNotFound = errors.New("admin profile not found")

// AdminProfile is a stored admin profile, keyed by the identity provider's uid.
type AdminProfile struct {
	UserID      string    `db:"user_id" json:"-" firestore:"-"`
	Email       string    `db:"email" json:"email" firestore:"email"`
	Name        string    `db:"name" json:"name" firestore:"name"`
	Role        string    `db:"role" json:"role" firestore:"role"`
	Permissions []string  `db:"permissions" json:"permissions" firestore:"permissions"`
	IsActive    bool      `db:"is_active" json:"isActive" firestore:"isActive"`
	CreatedBy   string    `db:"created_by" json:"createdBy" firestore:"createdBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt" firestore:"createdAt"`
	LastLogin   time.Time `db:"last_login" json:"lastLogin" firestore:"lastLogin"`
}

// PutAdminParams carries the caller-supplied profile fields. createdAt and lastLogin are
// always assigned by the store at write time.
type PutAdminParams struct {
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"isActive"`
	CreatedBy   string   `json:"createdBy"`
}

// AdminStore is implemented by every admin profile backend.
type AdminStore interface {
	// IsEmpty reports whether no admin profile exists, reading the whole collection.
	IsEmpty(ctx context.Context) (bool, error)
	// PutAdmin writes the profile under id, replacing any previous document.
	PutAdmin(ctx context.Context, id string, params PutAdminParams) error
	GetAdmin(ctx context.Context, id string) (AdminProfile, error)
}
