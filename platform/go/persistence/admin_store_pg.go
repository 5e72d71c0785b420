package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sqlassets "github.com/zenGate-Global/palmyra-admins/database"
)

const AdminsTable = "admins"

// PostgresAdminStore keeps admin profiles in the admins table.
type PostgresAdminStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAdminStore returns a store instance backed by pool.
func NewPostgresAdminStore(pool *pgxpool.Pool) (*PostgresAdminStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &PostgresAdminStore{pool: pool}, nil
}

// EnsureAdminsTable applies the embedded admins DDL; it is idempotent.
func EnsureAdminsTable(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, sqlassets.AdminsSQL); err != nil {
		return fmt.Errorf("apply admins ddl: %w", err)
	}
	return nil
}

// IsEmpty reads every row id, mirroring the full collection read of the document store.
func (s *PostgresAdminStore) IsEmpty(ctx context.Context) (bool, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT user_id FROM %s`, AdminsTable))
	if err != nil {
		return false, err
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return false, err
	}

	return len(ids) == 0, nil
}

// PutAdmin upserts the profile; created_at and last_login take the database clock.
func (s *PostgresAdminStore) PutAdmin(ctx context.Context, id string, params PutAdminParams) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("admin id is required")
	}

	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
        INSERT INTO %s (user_id, email, name, role, permissions, is_active, created_by, created_at, last_login)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
        ON CONFLICT (user_id) DO UPDATE SET
            email = EXCLUDED.email,
            name = EXCLUDED.name,
            role = EXCLUDED.role,
            permissions = EXCLUDED.permissions,
            is_active = EXCLUDED.is_active,
            created_by = EXCLUDED.created_by,
            created_at = EXCLUDED.created_at,
            last_login = EXCLUDED.last_login
    `, AdminsTable),
		id,
		params.Email,
		params.Name,
		params.Role,
		params.Permissions,
		params.IsActive,
		params.CreatedBy,
	)
	return err
}

func (s *PostgresAdminStore) GetAdmin(ctx context.Context, id string) (AdminProfile, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT user_id, email, name, role, permissions, is_active, created_by, created_at, last_login
        FROM %s
        WHERE user_id = $1
    `, AdminsTable), id)
	if err != nil {
		return AdminProfile{}, err
	}

	profile, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[AdminProfile])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AdminProfile{}, ErrAdminNotFound
		}
		return AdminProfile{}, err
	}

	return profile, nil
}

var _ AdminStore = (*PostgresAdminStore)(nil)
