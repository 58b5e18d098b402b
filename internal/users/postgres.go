package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists user accounts in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initUserSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initUserSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			is_subscriber BOOLEAN NOT NULL DEFAULT FALSE,
			query_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users (email);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init user schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, is_subscriber, query_count FROM users WHERE id=$1`,
		userID,
	).Scan(&u.ID, &u.Email, &u.Subscriber, &u.QueryCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetOrCreate(ctx context.Context, userID, email string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET email = users.email
		 RETURNING id, email, is_subscriber, query_count`,
		userID, email,
	).Scan(&u.ID, &u.Email, &u.Subscriber, &u.QueryCount)
	if err != nil {
		return User{}, fmt.Errorf("get or create user: %w", err)
	}
	return u, nil
}

// IncrementQueryCount applies the increment in a single statement so that
// concurrent queries for the same user never read a stale counter.
func (s *PostgresStore) IncrementQueryCount(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET query_count = query_count + 1 WHERE id=$1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("increment query count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetSubscriber(ctx context.Context, userID string, subscriber bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET is_subscriber=$2 WHERE id=$1`,
		userID, subscriber,
	)
	if err != nil {
		return fmt.Errorf("set subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ResetAllQueryCounts(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `UPDATE users SET query_count = 0`); err != nil {
		return fmt.Errorf("reset query counts: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
