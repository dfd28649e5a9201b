package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hmendes/linkly/internal/shortener"
)

const uniqueViolationCode = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
// Code uniqueness is enforced by a unique index; click increments are a
// single atomic UPDATE so concurrent visits never lose counts.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the short_links table and its indexes if missing.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS short_links (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL,
			original_url TEXT NOT NULL,
			owner_email TEXT NOT NULL,
			clicks BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS short_links_code_key ON short_links (code)`,
		`CREATE INDEX IF NOT EXISTS short_links_owner_idx ON short_links (owner_email, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (p *PostgresStore) Create(
	ctx context.Context, originalURL string, code shortener.Code, owner string,
) (*shortener.Link, error) {
	query := `
		INSERT INTO short_links (code, original_url, owner_email)
		VALUES ($1, $2, $3)
		RETURNING id, clicks, created_at
	`

	link := &shortener.Link{
		OriginalURL: originalURL,
		Code:        code,
		OwnerEmail:  owner,
	}

	err := p.pool.QueryRow(ctx, query, string(code), originalURL, owner).Scan(
		&link.ID,
		&link.Clicks,
		&link.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, shortener.ErrCodeTaken
		}

		return nil, err
	}

	return link, nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	query := `
		SELECT id, code, original_url, owner_email, clicks, created_at
		FROM short_links
		WHERE code = $1
	`

	var link shortener.Link

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&link.ID,
		&link.Code,
		&link.OriginalURL,
		&link.OwnerEmail,
		&link.Clicks,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

func (p *PostgresStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM short_links WHERE code = $1)`,
		string(code),
	).Scan(&exists)

	return exists, err
}

func (p *PostgresStore) ListByOwner(ctx context.Context, owner string, limit int) ([]*shortener.Link, error) {
	query := `
		SELECT id, code, original_url, owner_email, clicks, created_at
		FROM short_links
		WHERE owner_email = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*shortener.Link, 0, limit)

	for rows.Next() {
		var link shortener.Link

		if err := rows.Scan(
			&link.ID,
			&link.Code,
			&link.OriginalURL,
			&link.OwnerEmail,
			&link.Clicks,
			&link.CreatedAt,
		); err != nil {
			return nil, err
		}

		links = append(links, &link)
	}

	return links, rows.Err()
}

func (p *PostgresStore) IncrementClicks(ctx context.Context, code shortener.Code) error {
	// Zero rows affected means the link was deleted in the meantime; that
	// is a silent no-op, not an error.
	_, err := p.pool.Exec(ctx,
		`UPDATE short_links SET clicks = clicks + 1 WHERE code = $1`,
		string(code),
	)

	return err
}

func (p *PostgresStore) DeleteByOwner(ctx context.Context, owner string, code shortener.Code) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM short_links WHERE code = $1 AND owner_email = $2`,
		string(code), owner,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
