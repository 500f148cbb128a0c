package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed migrations/001_init.sql
var schemaSQL string

// ApplySchema ejecuta el esquema base. Todas las sentencias son idempotentes
// (IF NOT EXISTS), así que puede correrse en cada despliegue del seed.
func ApplySchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}
