package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shortlinks/internal/domain"
	"shortlinks/internal/metrics"
	"shortlinks/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// linkRepository is the PostgreSQL implementation of repository.LinkRepository
type linkRepository struct {
	db *pgxpool.Pool
}

// NewLinkRepository creates a new PostgreSQL link repository
func NewLinkRepository(db *pgxpool.Pool) repository.LinkRepository {
	return &linkRepository{db: db}
}

// Create inserts a new link and returns the stored row
// The unique constraint on code closes the check-then-insert race:
// a concurrent insert of the same code surfaces as domain.ErrCodeConflict
func (r *linkRepository) Create(ctx context.Context, code, url string) (*domain.Link, error) {
	query := `
		INSERT INTO links (code, url)
		VALUES ($1, $2)
		RETURNING id, code, url, created_at, clicks, last_clicked_at
	`

	start := time.Now()
	link := &domain.Link{}
	err := r.db.QueryRow(ctx, query, code, url).Scan(
		&link.ID,
		&link.Code,
		&link.URL,
		&link.CreatedAt,
		&link.Clicks,
		&link.LastClickedAt, // pgx handles NULL -> nil conversion automatically
	)
	metrics.DatabaseQueryDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrCodeConflict
		}
		metrics.DatabaseErrorsTotal.WithLabelValues("create").Inc()
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return link, nil
}

// GetByCode retrieves a link by its short code
func (r *linkRepository) GetByCode(ctx context.Context, code string) (*domain.Link, error) {
	query := `
		SELECT id, code, url, created_at, clicks, last_clicked_at
		FROM links
		WHERE code = $1
	`

	start := time.Now()
	link := &domain.Link{}
	err := r.db.QueryRow(ctx, query, code).Scan(
		&link.ID,
		&link.Code,
		&link.URL,
		&link.CreatedAt,
		&link.Clicks,
		&link.LastClickedAt,
	)
	metrics.DatabaseQueryDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		metrics.DatabaseErrorsTotal.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

// List returns all links ordered by creation time, newest first
func (r *linkRepository) List(ctx context.Context) ([]*domain.Link, error) {
	query := `
		SELECT id, code, url, created_at, clicks, last_clicked_at
		FROM links
		ORDER BY created_at DESC
	`

	start := time.Now()
	rows, err := r.db.Query(ctx, query)
	metrics.DatabaseQueryDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := []*domain.Link{}
	for rows.Next() {
		link := &domain.Link{}
		err := rows.Scan(
			&link.ID,
			&link.Code,
			&link.URL,
			&link.CreatedAt,
			&link.Clicks,
			&link.LastClickedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// Delete permanently removes a link
func (r *linkRepository) Delete(ctx context.Context, code string) error {
	query := `DELETE FROM links WHERE code = $1`

	start := time.Now()
	result, err := r.db.Exec(ctx, query, code)
	metrics.DatabaseQueryDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// IncrementClicks atomically increases the click counter and stamps the
// last-clicked time in a single UPDATE, preventing lost updates when
// multiple requests click the same code simultaneously
func (r *linkRepository) IncrementClicks(ctx context.Context, code string) error {
	query := `
		UPDATE links
		SET clicks = clicks + 1, last_clicked_at = now()
		WHERE code = $1
	`

	start := time.Now()
	result, err := r.db.Exec(ctx, query, code)
	metrics.DatabaseQueryDuration.WithLabelValues("increment").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("increment").Inc()
		return fmt.Errorf("failed to increment clicks: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Exists checks if a code is already taken
func (r *linkRepository) Exists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE code = $1)`

	var exists bool
	err := r.db.QueryRow(ctx, query, code).Scan(&exists)
	if err != nil {
		metrics.DatabaseErrorsTotal.WithLabelValues("exists").Inc()
		return false, fmt.Errorf("failed to check code existence: %w", err)
	}

	return exists, nil
}

// InitDB initializes the database connection pool
// This is called once at application startup
func InitDB(ctx context.Context, dsn string, maxConns, minConns int, maxLifetime time.Duration) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Connection pool settings
	config.MaxConns = int32(maxConns)
	config.MinConns = int32(minConns)
	config.MaxConnLifetime = maxLifetime
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
