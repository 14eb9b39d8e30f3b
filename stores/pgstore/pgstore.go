// Package pgstore provides a PostgreSQL-backed credgate.UserStore using
// database/sql over the pgx stdlib driver. Schema migrations are embedded
// and applied with goose via [RunMigrations].
package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/MrEthical07/credgate"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const uniqueViolation = "23505"

// Store is a PostgreSQL-backed [credgate.UserStore].
type Store struct {
	db *sql.DB
}

// New wraps an open database handle. The caller owns the handle's lifecycle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL with the pgx stdlib driver and verifies the
// connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db), nil
}

// RunMigrations applies the embedded schema migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	goose.SetBaseFS(sub)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) FindByID(ctx context.Context, id string) (credgate.UserRecord, error) {
	const query = `
		SELECT id, email, password_hash, role, refresh_token
		FROM users
		WHERE id = $1`

	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) FindByEmail(ctx context.Context, email string) (credgate.UserRecord, error) {
	const query = `
		SELECT id, email, password_hash, role, refresh_token
		FROM users
		WHERE email = $1`

	return s.scanOne(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) Create(ctx context.Context, input credgate.CreateUserInput) (credgate.UserRecord, error) {
	const query = `
		INSERT INTO users (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)`

	record := credgate.UserRecord{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
	}

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.Email, record.PasswordHash, string(record.Role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return credgate.UserRecord{}, credgate.ErrStoreDuplicateEmail
		}
		return credgate.UserRecord{}, fmt.Errorf("insert user: %w", err)
	}

	return record, nil
}

func (s *Store) SetRefreshToken(ctx context.Context, userID, token string) error {
	const query = `
		UPDATE users
		SET refresh_token = $2, updated_at = now()
		WHERE id = $1`

	return s.updateOne(ctx, query, userID, token)
}

func (s *Store) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_at = now()
		WHERE id = $1`

	return s.updateOne(ctx, query, userID, newHash)
}

func (s *Store) scanOne(row *sql.Row) (credgate.UserRecord, error) {
	var record credgate.UserRecord
	var role string

	err := row.Scan(&record.ID, &record.Email, &record.PasswordHash, &role, &record.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return credgate.UserRecord{}, credgate.ErrStoreNotFound
		}
		return credgate.UserRecord{}, fmt.Errorf("query user: %w", err)
	}

	record.Role = credgate.Role(role)
	return record, nil
}

func (s *Store) updateOne(ctx context.Context, query, userID, value string) error {
	result, err := s.db.ExecContext(ctx, query, userID, value)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return credgate.ErrStoreNotFound
	}
	return nil
}
