package persist

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// schemaFS holds the goose files that create the saves table (one row per
// slot) and save_log (one row per write of a slot).
//
//go:embed migrations/*.sql
var schemaFS embed.FS

// saveSchema returns the migration files rooted at their directory.
func saveSchema() (fs.FS, error) {
	return fs.Sub(schemaFS, "migrations")
}

// RunMigrations brings the save schema up to date.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	schema, err := saveSchema()
	if err != nil {
		return fmt.Errorf("save schema: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, schema)
	if err != nil {
		return fmt.Errorf("save schema: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply save schema: %w", err)
	}
	for _, r := range results {
		log.Info("save schema applied",
			zap.String("file", r.Source.Path),
			zap.Int64("version", r.Source.Version),
			zap.Duration("took", r.Duration),
		)
	}
	return nil
}
