package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied idempotently on startup.
// The unique constraint on code is what enforces link uniqueness under
// concurrent inserts; the service-level existence check is only an optimization.
const schema = `
CREATE TABLE IF NOT EXISTS links (
	id              BIGSERIAL PRIMARY KEY,
	code            TEXT NOT NULL UNIQUE,
	url             TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	clicks          BIGINT NOT NULL DEFAULT 0,
	last_clicked_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_links_created_at ON links (created_at DESC);
`

// EnsureSchema creates the links table if it does not exist yet
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
