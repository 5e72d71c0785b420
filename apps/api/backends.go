package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	adminsidentity "github.com/zenGate-Global/palmyra-admins/domains/admins/be/identity"
	adminsrepo "github.com/zenGate-Global/palmyra-admins/domains/admins/be/repo"
	adminsservice "github.com/zenGate-Global/palmyra-admins/domains/admins/be/service"
	"github.com/zenGate-Global/palmyra-admins/platform/go/gcp"
	"github.com/zenGate-Global/palmyra-admins/platform/go/persistence"
	"github.com/zenGate-Global/palmyra-admins/platform/go/setups"
)

// backends holds the long-lived clients selected by configuration.
type backends struct {
	firebase   *gcp.Clients
	pool       *pgxpool.Pool
	store      persistence.AdminStore
	identities adminsservice.IdentityProvider
}

func (b *backends) Close() {
	if b.pool != nil {
		persistence.ClosePool(b.pool)
	}
	_ = b.firebase.Close()
}

// Ready reports whether the profile store can be reached.
func (b *backends) Ready(ctx context.Context) error {
	if b.pool != nil {
		return b.pool.Ping(ctx)
	}
	return nil
}

func buildBackends(ctx context.Context, cfg config, logger *zap.Logger) (*backends, error) {
	deps := &backends{}

	needsFirebase := cfg.AuthProvider == "firebase" || cfg.IdentityProvider == "firebase" || cfg.ProfileStore == "firestore"
	if needsFirebase {
		settings, err := setups.FirebaseFromEnv()
		if err != nil {
			return nil, fmt.Errorf("read firebase settings: %w", err)
		}
		deps.firebase, err = gcp.InitFirebase(ctx, settings, cfg.ProfileStore == "firestore")
		if err != nil {
			return nil, err
		}
	}

	switch cfg.ProfileStore {
	case "firestore":
		store, err := persistence.NewFirestoreAdminStore(deps.firebase.Firestore, cfg.AdminsCollection)
		if err != nil {
			return nil, fmt.Errorf("init firestore admin store: %w", err)
		}
		deps.store = store
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when PROFILE_STORE=postgres")
		}
		pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.DatabaseURL})
		if err != nil {
			return nil, fmt.Errorf("init postgres pool: %w", err)
		}
		deps.pool = pool
		if err := persistence.EnsureAdminsTable(ctx, pool); err != nil {
			deps.Close()
			return nil, err
		}
		store, err := persistence.NewPostgresAdminStore(pool)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.store = store
	case "memory":
		logger.Warn("using in-memory admin profile store; profiles are lost on restart")
		deps.store = adminsrepo.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported PROFILE_STORE %q (use firestore, postgres or memory)", cfg.ProfileStore)
	}

	switch cfg.IdentityProvider {
	case "firebase":
		deps.identities = adminsidentity.NewFirebaseProvider(deps.firebase.Auth)
	case "memory":
		logger.Warn("using in-memory identity provider; do not use in production")
		deps.identities = adminsidentity.NewMemoryProvider()
	default:
		deps.Close()
		return nil, fmt.Errorf("unsupported IDENTITY_PROVIDER %q (use firebase or memory)", cfg.IdentityProvider)
	}

	return deps, nil
}
