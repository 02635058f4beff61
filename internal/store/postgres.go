package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/shortener"
)

// Schema is the reference DDL for the Postgres store. The clicks table
// cascades on link deletion even though no delete operation is exposed
// today; the relationship is part of the store contract.
const Schema = `
CREATE TABLE IF NOT EXISTS links (
    code       TEXT PRIMARY KEY,
    original_url TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS clicks (
    id         BIGSERIAL PRIMARY KEY,
    code       TEXT NOT NULL REFERENCES links(code) ON DELETE CASCADE,
    clicked_at TIMESTAMPTZ NOT NULL,
    referrer   TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    ip         TEXT NOT NULL DEFAULT '',
    country    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS clicks_code_clicked_at_idx ON clicks (code, clicked_at DESC);
`

// PostgresStore is the authoritative shortener.Repository backed by pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// InsertLink writes the link. The primary key on code makes the uniqueness
// check and the write a single atomic operation; a violation maps to
// shortener.ErrCodeTaken.
func (p *PostgresStore) InsertLink(ctx context.Context, link *shortener.Link) error {
	query := `
		INSERT INTO links (code, original_url, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query,
		string(link.Code),
		link.OriginalURL,
		link.CreatedAt,
		link.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shortener.ErrCodeTaken
		}

		return err
	}

	return nil
}

func (p *PostgresStore) GetLink(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	query := `
		SELECT code, original_url, created_at, expires_at
		FROM links
		WHERE code = $1
	`

	var link shortener.Link

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&link.Code,
		&link.OriginalURL,
		&link.CreatedAt,
		&link.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

func (p *PostgresStore) InsertClick(ctx context.Context, click *shortener.ClickEvent) error {
	query := `
		INSERT INTO clicks (code, clicked_at, referrer, user_agent, ip, country)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		string(click.Code),
		click.Timestamp,
		click.Referrer,
		click.UserAgent,
		click.IP,
		click.Country,
	)

	return err
}

func (p *PostgresStore) CountClicks(ctx context.Context, code shortener.Code) (int64, error) {
	query := `SELECT COUNT(*) FROM clicks WHERE code = $1`

	var total int64
	if err := p.pool.QueryRow(ctx, query, string(code)).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (p *PostgresStore) RecentClicks(
	ctx context.Context, code shortener.Code, limit int,
) ([]shortener.ClickEvent, error) {
	query := `
		SELECT code, clicked_at, referrer, user_agent, ip, country
		FROM clicks
		WHERE code = $1
		ORDER BY clicked_at DESC, id DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, string(code), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clicks []shortener.ClickEvent

	for rows.Next() {
		var click shortener.ClickEvent

		err := rows.Scan(
			&click.Code,
			&click.Timestamp,
			&click.Referrer,
			&click.UserAgent,
			&click.IP,
			&click.Country,
		)
		if err != nil {
			return nil, err
		}

		clicks = append(clicks, click)
	}

	return clicks, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
