package admins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	adminsidentity "github.com/zenGate-Global/palmyra-admins/domains/admins/be/identity"
	adminsrepo "github.com/zenGate-Global/palmyra-admins/domains/admins/be/repo"
	adminsservice "github.com/zenGate-Global/palmyra-admins/domains/admins/be/service"
	"github.com/zenGate-Global/palmyra-admins/platform/go/gcp"
	platformlogging "github.com/zenGate-Global/palmyra-admins/platform/go/logging"
	"github.com/zenGate-Global/palmyra-admins/platform/go/persistence"
	"github.com/zenGate-Global/palmyra-admins/platform/go/requesttrace"
	"github.com/zenGate-Global/palmyra-admins/platform/go/setups"
)

// Notes/constraints:
// - create runs the same provisioning chain as the createAdmin callable, as the System actor.
// - Without --as-admin the command only succeeds against an empty store (bootstrap).
// - Like the callable, a failure after the account exists leaves it in place.

// Command groups admin account helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admins",
		Short: "Admin account helpers",
	}

	cmd.AddCommand(createCommand())
	return cmd
}

type createOptions struct {
	input       adminsservice.CreateInput
	asAdmin     bool
	operator    string
	dryRun      bool
	databaseURL string
	collection  string
}

func createCommand() *cobra.Command {
	var opts createOptions

	c := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account directly against Firebase",
		Long: "Create an admin account without going through the HTTP callable.\n" +
			"Profiles go to Firestore unless --database-url selects Postgres; --dry-run uses in-memory backends.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			logger, err := platformlogging.NewLogger(platformlogging.Config{
				Component: "admin-cli",
				Level:     "warn",
				Output:    cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			svc, cleanup, err := buildService(ctx, opts, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			return runCreate(ctx, cmd.OutOrStdout(), svc, opts, logger)
		},
	}

	c.Flags().StringVar(&opts.input.Email, "email", "", "Admin email")
	c.Flags().StringVar(&opts.input.Password, "password", "", "Initial password")
	c.Flags().StringVar(&opts.input.DisplayName, "display-name", "", "Display name")
	c.Flags().StringVar(&opts.input.Role, "role", "", "Role label; ignored for the first admin")
	c.Flags().StringSliceVar(&opts.input.Permissions, "permissions", []string{}, "Permissions (comma-separated); ignored for the first admin")
	c.Flags().BoolVar(&opts.asAdmin, "as-admin", false, "Act with admin privileges so admins can be added after bootstrap")
	c.Flags().StringVar(&opts.operator, "operator", "", "Name recorded as createdBy when --as-admin is set")
	c.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Use in-memory identity and profile backends")
	c.Flags().StringVar(&opts.databaseURL, "database-url", "", "Store profiles in Postgres instead of Firestore")
	c.Flags().StringVar(&opts.collection, "collection", persistence.AdminsCollection, "Firestore collection for profiles")

	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")

	return c
}

func buildService(ctx context.Context, opts createOptions, logger *zap.Logger) (adminsservice.Service, func(), error) {
	validator, err := persistence.NewProfileValidator()
	if err != nil {
		return nil, nil, fmt.Errorf("init profile validator: %w", err)
	}

	if opts.dryRun {
		logger.Warn("dry run: nothing is written to Firebase or the profile store")
		svc := adminsservice.New(adminsrepo.New(adminsrepo.NewMemoryStore(), validator), adminsidentity.NewMemoryProvider())
		return svc, func() {}, nil
	}

	settings, err := setups.FirebaseFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("read firebase settings: %w", err)
	}

	useFirestore := strings.TrimSpace(opts.databaseURL) == ""
	clients, err := gcp.InitFirebase(ctx, settings, useFirestore)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = clients.Close() }

	var store persistence.AdminStore
	if useFirestore {
		store, err = persistence.NewFirestoreAdminStore(clients.Firestore, opts.collection)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("init firestore admin store: %w", err)
		}
	} else {
		pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: opts.databaseURL})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("init pool: %w", err)
		}
		cleanup = func() {
			persistence.ClosePool(pool)
			_ = clients.Close()
		}
		if err := persistence.EnsureAdminsTable(ctx, pool); err != nil {
			cleanup()
			return nil, nil, err
		}
		if store, err = persistence.NewPostgresAdminStore(pool); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	svc := adminsservice.New(adminsrepo.New(store, validator), adminsidentity.NewFirebaseProvider(clients.Auth))
	return svc, cleanup, nil
}

func runCreate(ctx context.Context, out io.Writer, svc adminsservice.Service, opts createOptions, logger *zap.Logger) error {
	audit := requesttrace.System(uuid.NewString(), opts.asAdmin, opts.operator)

	result, err := svc.Create(ctx, audit, opts.input)
	if err != nil {
		if errors.Is(err, adminsservice.ErrPermissionDenied) {
			return errors.New("admins already exist; rerun with --as-admin to add another")
		}
		var internal *adminsservice.InternalError
		if errors.As(err, &internal) {
			logger.Error("create admin failed", zap.String("step", string(internal.Step)), zap.Error(err))
		}
		return fmt.Errorf("create admin: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"success": result.Success, "id": result.ID})
}
