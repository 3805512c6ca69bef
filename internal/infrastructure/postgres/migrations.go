package postgres

import (
	"context"
	"fmt"
)

// shareIDKey nombre que PostgreSQL asigna a la PK de share_snapshots.
const shareIDKey = "share_snapshots_pkey"

// migrations esquema del almacén. Cada sentencia es idempotente.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS ledger_states (
		user_id    TEXT PRIMARY KEY,
		state      JSONB NOT NULL,
		version    BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS share_snapshots (
		share_id      TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		customer_id   TEXT NOT NULL,
		customer_name TEXT NOT NULL DEFAULT '',
		business_name TEXT NOT NULL DEFAULT '',
		currency      TEXT NOT NULL,
		total_debt    NUMERIC(18,2) NOT NULL,
		total_payment NUMERIC(18,2) NOT NULL,
		balance       NUMERIC(18,2) NOT NULL,
		lines         JSONB NOT NULL DEFAULT '[]'::jsonb,
		published_at  TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, customer_id)
	)`,
}

// Migrate aplica el esquema.
func Migrate(ctx context.Context, q Querier) error {
	for i, stmt := range migrations {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migración %d: %w", i+1, err)
		}
	}
	return nil
}
