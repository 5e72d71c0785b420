package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/palmyra-admins/platform/go/metrics"
	"github.com/zenGate-Global/palmyra-admins/platform/go/persistence"
	"github.com/zenGate-Global/palmyra-admins/platform/go/requesttrace"
)

type mockRepository struct {
	isEmptyFn func(ctx context.Context) (bool, error)
	putFn     func(ctx context.Context, id string, params persistence.PutAdminParams) error
	getFn     func(ctx context.Context, id string) (persistence.AdminProfile, error)
}

func (m *mockRepository) IsEmpty(ctx context.Context) (bool, error) {
	if m.isEmptyFn == nil {
		panic("isEmptyFn not configured")
	}
	return m.isEmptyFn(ctx)
}

func (m *mockRepository) Put(ctx context.Context, id string, params persistence.PutAdminParams) error {
	if m.putFn == nil {
		panic("putFn not configured")
	}
	return m.putFn(ctx, id, params)
}

func (m *mockRepository) Get(ctx context.Context, id string) (persistence.AdminProfile, error) {
	if m.getFn == nil {
		panic("getFn not configured")
	}
	return m.getFn(ctx, id)
}

type mockIdentityProvider struct {
	createUserFn func(ctx context.Context, identity NewIdentity) (Identity, error)
	setClaimsFn  func(ctx context.Context, uid string, claims map[string]interface{}) error
}

func (m *mockIdentityProvider) CreateUser(ctx context.Context, identity NewIdentity) (Identity, error) {
	if m.createUserFn == nil {
		panic("createUserFn not configured")
	}
	return m.createUserFn(ctx, identity)
}

func (m *mockIdentityProvider) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	if m.setClaimsFn == nil {
		panic("setClaimsFn not configured")
	}
	return m.setClaimsFn(ctx, uid, claims)
}

func storeWithAdmins(exists bool) *mockRepository {
	return &mockRepository{
		isEmptyFn: func(ctx context.Context) (bool, error) { return !exists, nil },
	}
}

func sampleInput() CreateInput {
	return CreateInput{
		Email:       "a@x.com",
		Password:    "p",
		DisplayName: "Ann",
		Role:        "editor",
		Permissions: []string{PermissionViewAdmins},
	}
}

func adminCaller(name string) requesttrace.AuditInfo {
	audit := requesttrace.AuditInfo{ActorKind: requesttrace.ActorKindUser, IsAdmin: true}
	if name != "" {
		audit.Name = &name
	}
	return audit
}

func TestServiceCreateDeniedWithoutCaller(t *testing.T) {
	t.Parallel()

	// Unconfigured identity and put mocks panic, so reaching them would fail the test.
	svc := New(storeWithAdmins(true), &mockIdentityProvider{})

	_, err := svc.Create(context.Background(), requesttrace.Anonymous("req"), sampleInput())
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestServiceCreateDeniedForNonAdminCaller(t *testing.T) {
	t.Parallel()

	svc := New(storeWithAdmins(true), &mockIdentityProvider{})
	caller := adminCaller("Bo")
	caller.IsAdmin = false

	_, err := svc.Create(context.Background(), caller, sampleInput())
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestServiceCreateBootstrapOverridesRoleAndPermissions(t *testing.T) {
	t.Parallel()

	repository := storeWithAdmins(false)
	identities := &mockIdentityProvider{}
	var calls []string

	identities.createUserFn = func(ctx context.Context, identity NewIdentity) (Identity, error) {
		calls = append(calls, "createUser")
		require.Equal(t, NewIdentity{Email: "a@x.com", Password: "p", DisplayName: "Ann"}, identity)
		return Identity{UID: "uid-1", Email: identity.Email}, nil
	}
	identities.setClaimsFn = func(ctx context.Context, uid string, claims map[string]interface{}) error {
		calls = append(calls, "setClaims")
		require.Equal(t, "uid-1", uid)
		require.Equal(t, map[string]interface{}{"admin": true}, claims)
		return nil
	}
	repository.putFn = func(ctx context.Context, id string, params persistence.PutAdminParams) error {
		calls = append(calls, "put")
		require.Equal(t, "uid-1", id)
		require.Equal(t, persistence.PutAdminParams{
			Email:       "a@x.com",
			Name:        "Ann",
			Role:        RoleSuperAdmin,
			Permissions: AllPermissions(),
			IsActive:    true,
			CreatedBy:   CreatedBySystem,
		}, params)
		return nil
	}

	svc := New(repository, identities)

	result, err := svc.Create(context.Background(), requesttrace.Anonymous("req"), sampleInput())
	require.NoError(t, err)
	require.Equal(t, Result{Success: true, ID: "uid-1"}, result)
	require.Equal(t, []string{"createUser", "setClaims", "put"}, calls)
}

func TestServiceCreateByAdminKeepsRequestedRole(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		caller        requesttrace.AuditInfo
		wantCreatedBy string
	}{
		{name: "named caller", caller: adminCaller("Bo"), wantCreatedBy: "Bo"},
		{name: "caller without name", caller: adminCaller(""), wantCreatedBy: CreatedByUnknown},
		{name: "system caller", caller: requesttrace.System("req", true, "ops"), wantCreatedBy: "ops"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repository := storeWithAdmins(true)
			identities := &mockIdentityProvider{
				createUserFn: func(ctx context.Context, identity NewIdentity) (Identity, error) {
					return Identity{UID: "uid-2"}, nil
				},
				setClaimsFn: func(ctx context.Context, uid string, claims map[string]interface{}) error { return nil },
			}

			var stored persistence.PutAdminParams
			repository.putFn = func(ctx context.Context, id string, params persistence.PutAdminParams) error {
				stored = params
				return nil
			}

			result, err := New(repository, identities).Create(context.Background(), tc.caller, sampleInput())
			require.NoError(t, err)
			require.Equal(t, "uid-2", result.ID)
			require.Equal(t, "editor", stored.Role)
			require.Equal(t, []string{PermissionViewAdmins}, stored.Permissions)
			require.Equal(t, tc.wantCreatedBy, stored.CreatedBy)
			require.True(t, stored.IsActive)
		})
	}
}

func TestServiceCreateIdentityFailure(t *testing.T) {
	t.Parallel()

	identities := &mockIdentityProvider{
		createUserFn: func(ctx context.Context, identity NewIdentity) (Identity, error) {
			return Identity{}, errors.New("The email address is already in use by another account.")
		},
	}

	_, err := New(storeWithAdmins(true), identities).Create(context.Background(), adminCaller("Bo"), sampleInput())
	require.Error(t, err)

	var internal *InternalError
	require.True(t, errors.As(err, &internal))
	require.Equal(t, StepCreateIdentity, internal.Step)
	require.Equal(t, "The email address is already in use by another account.", err.Error())
}

func TestServiceCreateClaimFailureLeavesIdentityOrphaned(t *testing.T) {
	t.Parallel()

	created := 0
	identities := &mockIdentityProvider{
		createUserFn: func(ctx context.Context, identity NewIdentity) (Identity, error) {
			created++
			return Identity{UID: "uid-3"}, nil
		},
		setClaimsFn: func(ctx context.Context, uid string, claims map[string]interface{}) error {
			return errors.New("quota exceeded")
		},
	}

	_, err := New(storeWithAdmins(true), identities).Create(context.Background(), adminCaller("Bo"), sampleInput())

	var internal *InternalError
	require.True(t, errors.As(err, &internal))
	require.Equal(t, StepSetClaims, internal.Step)
	require.Equal(t, "quota exceeded", err.Error())
	require.Equal(t, 1, created)
}

func TestServiceCreateProfileWriteFailure(t *testing.T) {
	t.Parallel()

	repository := storeWithAdmins(false)
	repository.putFn = func(ctx context.Context, id string, params persistence.PutAdminParams) error {
		return errors.New("store unavailable")
	}
	identities := &mockIdentityProvider{
		createUserFn: func(ctx context.Context, identity NewIdentity) (Identity, error) {
			return Identity{UID: "uid-4"}, nil
		},
		setClaimsFn: func(ctx context.Context, uid string, claims map[string]interface{}) error { return nil },
	}

	_, err := New(repository, identities).Create(context.Background(), requesttrace.Anonymous(""), sampleInput())

	var internal *InternalError
	require.True(t, errors.As(err, &internal))
	require.Equal(t, StepWriteProfile, internal.Step)
	require.Equal(t, "store unavailable", err.Error())
}

func TestServiceCreateBootstrapCheckFailure(t *testing.T) {
	t.Parallel()

	repository := &mockRepository{
		isEmptyFn: func(ctx context.Context) (bool, error) { return false, errors.New("deadline exceeded") },
	}

	_, err := New(repository, &mockIdentityProvider{}).Create(context.Background(), adminCaller("Bo"), sampleInput())
	require.Error(t, err)

	var internal *InternalError
	require.False(t, errors.As(err, &internal))
	require.NotErrorIs(t, err, ErrPermissionDenied)
}

func TestServiceCreateRecordsMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := metrics.NewProvisioning(reg)
	require.NoError(t, err)

	identities := &mockIdentityProvider{
		createUserFn: func(ctx context.Context, identity NewIdentity) (Identity, error) {
			return Identity{UID: "uid-5"}, nil
		},
		setClaimsFn: func(ctx context.Context, uid string, claims map[string]interface{}) error {
			return errors.New("boom")
		},
	}

	svc := New(storeWithAdmins(true), identities, WithMetrics(m))
	_, _ = svc.Create(context.Background(), requesttrace.Anonymous(""), sampleInput())
	_, _ = svc.Create(context.Background(), adminCaller("Bo"), sampleInput())

	expected := `
# HELP admin_provisioning_failures_total createAdmin failures by the step that failed.
# TYPE admin_provisioning_failures_total counter
admin_provisioning_failures_total{step="set_claims"} 1
# HELP admin_provisioning_total createAdmin calls by outcome.
# TYPE admin_provisioning_total counter
admin_provisioning_total{outcome="denied"} 1
admin_provisioning_total{outcome="failed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "admin_provisioning_total", "admin_provisioning_failures_total"))
}

func TestAllPermissionsReturnsFreshCopy(t *testing.T) {
	t.Parallel()

	perms := AllPermissions()
	require.Len(t, perms, 7)
	perms[0] = "mutated"
	require.Equal(t, PermissionViewAdmins, AllPermissions()[0])
}

func TestNewPanicsWithoutCollaborators(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { New(nil, &mockIdentityProvider{}) })
	require.Panics(t, func() { New(&mockRepository{}, nil) })
}
