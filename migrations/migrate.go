package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/lib/pq"
)

//go:embed *.sql
var files embed.FS

const migrationsTable = "schema_migrations_appointments"

// Up применяет встроенные миграции по порядку имён файлов
func Up(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("migrations: db is required")
	}

	if err := ensureMigrationsTable(ctx, db); err != nil {
		return err
	}

	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return fmt.Errorf("list embedded migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		applied, err := isApplied(ctx, db, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		sqlBytes, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx for %s: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			if !isIgnorableMigrationError(err) {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
			if err := markApplied(ctx, db, name); err != nil {
				return fmt.Errorf("record migration %s after ignored error: %w", name, err)
			}
			continue
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+migrationsTable+` (filename) VALUES ($1)`,
			name,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}

	return nil
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS ` + migrationsTable + ` (
	filename text PRIMARY KEY,
	applied_at timestamptz NOT NULL DEFAULT now()
)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure migration table %s: %w", migrationsTable, err)
	}
	return nil
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+migrationsTable+` WHERE filename = $1)`,
		name,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check migration %s: %w", name, err)
	}
	return exists, nil
}

func markApplied(ctx context.Context, db *sql.DB, name string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO `+migrationsTable+` (filename) VALUES ($1) ON CONFLICT (filename) DO NOTHING`,
		name,
	)
	return err
}

func isIgnorableMigrationError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	switch pqErr.Code {
	case "42P07", // duplicate_table
		"42710", // duplicate_object
		"42P06": // duplicate_schema
		return true
	default:
		return false
	}
}
