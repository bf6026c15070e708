package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type schemaMigration struct {
	bun.BaseModel `bun:"table:schema_migrations"`

	Version   string    `bun:"version,pk"`
	AppliedAt time.Time `bun:"applied_at,notnull"`
}

// RunMigrations applies pending .sql files from migrationsFS in name order.
// Each file runs in its own transaction together with its version record.
// It returns the names of the files applied by this call.
func RunMigrations(ctx context.Context, db *bun.DB, migrationsFS fs.FS) ([]string, error) {
	_, err := db.NewCreateTable().
		Model((*schemaMigration)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var rows []schemaMigration
	if err := db.NewSelect().Model(&rows).Column("version").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(rows))
	for _, row := range rows {
		applied[row.Version] = true
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrationFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			migrationFiles = append(migrationFiles, entry.Name())
		}
	}
	sort.Strings(migrationFiles)

	var done []string
	for _, filename := range migrationFiles {
		if applied[filename] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, filename)
		if err != nil {
			return done, fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", filename, err)
			}
			_, err := tx.NewInsert().
				Model(&schemaMigration{Version: filename, AppliedAt: time.Now().UTC()}).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to record migration %s: %w", filename, err)
			}
			return nil
		})
		if err != nil {
			return done, err
		}

		done = append(done, filename)
	}

	return done, nil
}
