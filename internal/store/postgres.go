package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return newPostgresStore(db)
}

// newPostgresStore migrates db and closes it when migration fails.
func newPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	// Advisory lock keeps the assistant and recorder from migrating concurrently.
	const lockID = 731045281

	var acquired bool
	err := s.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired)
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}

	if !acquired {
		// Another service is running migrations; wait briefly and skip
		time.Sleep(2 * time.Second)
		return nil
	}
	defer func() {
		_, _ = s.db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS assistant_settings (
			user_id TEXT PRIMARY KEY,
			enable_module BOOLEAN NOT NULL DEFAULT TRUE,
			api_key TEXT NOT NULL DEFAULT '',
			default_model TEXT NOT NULL DEFAULT 'gpt-3.5-turbo',
			max_tokens INT NOT NULL DEFAULT 2000,
			updated_at TIMESTAMPTZ DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS assistant_requests (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			request_type TEXT NOT NULL,
			input_content TEXT,
			output_content TEXT,
			tokens_used INT NOT NULL DEFAULT 0,
			model TEXT,
			parameters JSONB,
			created_at TIMESTAMPTZ DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS assistant_requests_user_idx
			ON assistant_requests (user_id, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) GetSettings(ctx context.Context, userID string) (Settings, error) {
	var st Settings
	row := s.db.QueryRowContext(ctx, `
		SELECT enable_module, api_key, default_model, max_tokens
		FROM assistant_settings WHERE user_id=$1`, userID)
	if err := row.Scan(&st.EnableModule, &st.APIKey, &st.DefaultModel, &st.MaxTokens); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, ErrSettingsNotFound
		}
		return Settings{}, fmt.Errorf("failed to get settings for user %s: %w", userID, err)
	}
	return st, nil
}

func (s *PostgresStore) SaveSettings(ctx context.Context, userID string, st Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assistant_settings(user_id, enable_module, api_key, default_model, max_tokens, updated_at)
		VALUES($1,$2,$3,$4,$5,now())
		ON CONFLICT (user_id) DO UPDATE SET
			enable_module=excluded.enable_module,
			api_key=excluded.api_key,
			default_model=excluded.default_model,
			max_tokens=excluded.max_tokens,
			updated_at=excluded.updated_at`,
		userID, st.EnableModule, st.APIKey, st.DefaultModel, st.MaxTokens)
	return err
}

func (s *PostgresStore) SaveRecord(ctx context.Context, rec Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	var params any
	if len(rec.Parameters) > 0 {
		params = []byte(rec.Parameters)
	}
	// Redelivered tasks carry the same id; the first insert wins.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assistant_requests(id, user_id, request_type, input_content, output_content, tokens_used, model, parameters, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.UserID, rec.RequestType, rec.InputContent, rec.OutputContent, rec.TokensUsed, rec.Model, params, rec.CreatedAt)
	return err
}

func (s *PostgresStore) ListRecords(ctx context.Context, userID string, types []RequestType, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_type, input_content, output_content, tokens_used, model, COALESCE(parameters::text, ''), created_at
		FROM assistant_requests
		WHERE user_id=$1 AND (cardinality($2::text[]) = 0 OR request_type = ANY($2::text[]))
		ORDER BY created_at DESC
		LIMIT $3`,
		userID, pq.Array(requestTypeStrings(types)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec    Record
			rtype  string
			params string
		)
		if err := rows.Scan(&rec.ID, &rtype, &rec.InputContent, &rec.OutputContent, &rec.TokensUsed, &rec.Model, &params, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.UserID = userID
		rec.RequestType = RequestType(rtype)
		if params != "" {
			rec.Parameters = []byte(params)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func requestTypeStrings(types []RequestType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
