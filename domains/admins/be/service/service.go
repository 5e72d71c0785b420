package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zenGate-Global/palmyra-admins/domains/admins/be/repo"
	platformauth "github.com/zenGate-Global/palmyra-admins/platform/go/auth"
	"github.com/zenGate-Global/palmyra-admins/platform/go/metrics"
	"github.com/zenGate-Global/palmyra-admins/platform/go/persistence"
	"github.com/zenGate-Global/palmyra-admins/platform/go/requesttrace"
)

const (
	// RoleSuperAdmin is forced onto the bootstrap admin.
	RoleSuperAdmin = "superAdmin"

	CreatedBySystem  = "System"
	CreatedByUnknown = "Unknown"
)

// Step names the external call a provisioning failure happened in.
type Step string

const (
	StepCheckBootstrap Step = "check_bootstrap"
	StepCreateIdentity Step = "create_identity"
	StepSetClaims      Step = "set_claims"
	StepWriteProfile   Step = "write_profile"
)

// ErrPermissionDenied is returned before any mutation when a non-admin caller
// tries to create an admin once the first admin exists.
var ErrPermissionDenied = errors.New("admin privileges are required")

// InternalError wraps a collaborator failure after the authorization gate.
// Error() is the collaborator's message unchanged; Step is for logs and metrics only.
// Nothing created by earlier steps is rolled back.
type InternalError struct {
	Step Step
	Err  error
}

func (e *InternalError) Error() string { return e.Err.Error() }

func (e *InternalError) Unwrap() error { return e.Err }

// CreateInput is the createAdmin payload.
type CreateInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
	Permissions []string
}

// Result is returned once every step completed.
type Result struct {
	Success bool
	ID      string
}

// Service provisions admin accounts.
type Service interface {
	// Create runs the bootstrap check, the authorization gate, identity creation,
	// claim assignment and the profile write, strictly in that order.
	Create(ctx context.Context, audit requesttrace.AuditInfo, input CreateInput) (Result, error)
}

// Option customizes the service.
type Option func(*service)

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.Provisioning) Option {
	return func(s *service) { s.metrics = m }
}

type service struct {
	repo       repo.Repository
	identities IdentityProvider
	metrics    *metrics.Provisioning
}

// New constructs the admins Service over a profile repository and an identity provider.
func New(r repo.Repository, identities IdentityProvider, opts ...Option) Service {
	if r == nil {
		panic("admins repository is required")
	}
	if identities == nil {
		panic("identity provider is required")
	}

	s := &service{repo: r, identities: identities}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, audit requesttrace.AuditInfo, input CreateInput) (Result, error) {
	start := time.Now()

	// Read-then-act: concurrent bootstrap calls can all observe an empty store.
	isFirstAdmin, err := s.repo.IsEmpty(ctx)
	if err != nil {
		s.metrics.Failed(string(StepCheckBootstrap))
		s.metrics.Observe(metrics.OutcomeFailed, time.Since(start))
		return Result{}, fmt.Errorf("check existing admins: %w", err)
	}

	if err := authorize(isFirstAdmin, audit); err != nil {
		s.metrics.Observe(metrics.OutcomeDenied, time.Since(start))
		return Result{}, err
	}

	uid, err := s.provision(ctx, audit, input, isFirstAdmin)
	if err != nil {
		var internal *InternalError
		if errors.As(err, &internal) {
			s.metrics.Failed(string(internal.Step))
		}
		s.metrics.Observe(metrics.OutcomeFailed, time.Since(start))
		return Result{}, err
	}

	outcome := metrics.OutcomeCreated
	if isFirstAdmin {
		outcome = metrics.OutcomeBootstrap
	}
	s.metrics.Observe(outcome, time.Since(start))

	return Result{Success: true, ID: uid}, nil
}

func (s *service) provision(ctx context.Context, audit requesttrace.AuditInfo, input CreateInput, isFirstAdmin bool) (string, error) {
	identity, err := s.identities.CreateUser(ctx, NewIdentity{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		return "", &InternalError{Step: StepCreateIdentity, Err: err}
	}

	if err := s.identities.SetCustomClaims(ctx, identity.UID, map[string]interface{}{platformauth.AdminClaim: true}); err != nil {
		return "", &InternalError{Step: StepSetClaims, Err: err}
	}

	if err := s.repo.Put(ctx, identity.UID, buildProfile(input, audit, isFirstAdmin)); err != nil {
		return "", &InternalError{Step: StepWriteProfile, Err: err}
	}

	return identity.UID, nil
}

// authorize lets the bootstrap call through unconditionally; afterwards the caller
// must present a verified admin claim.
func authorize(isFirstAdmin bool, audit requesttrace.AuditInfo) error {
	if isFirstAdmin {
		return nil
	}
	if !audit.HasCaller() || !audit.IsAdmin {
		return ErrPermissionDenied
	}
	return nil
}

func buildProfile(input CreateInput, audit requesttrace.AuditInfo, isFirstAdmin bool) persistence.PutAdminParams {
	profile := persistence.PutAdminParams{
		Email:       input.Email,
		Name:        input.DisplayName,
		Role:        input.Role,
		Permissions: slices.Clone(input.Permissions),
		IsActive:    true,
		CreatedBy:   resolveCreatedBy(isFirstAdmin, audit),
	}

	if isFirstAdmin {
		profile.Role = RoleSuperAdmin
		profile.Permissions = AllPermissions()
	}

	return profile
}

func resolveCreatedBy(isFirstAdmin bool, audit requesttrace.AuditInfo) string {
	if isFirstAdmin {
		return CreatedBySystem
	}
	if name := audit.CallerName(); name != "" {
		return name
	}
	return CreatedByUnknown
}
