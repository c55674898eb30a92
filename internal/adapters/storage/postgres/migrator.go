package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"pet-shop-api/internal/platform/logger"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migrator aplica en orden los scripts NNNN_nombre.sql que todavía no figuran
// en schema_migrations. Cada script corre en su propia transacción.
type Migrator struct {
	db     *sqlx.DB
	log    logger.Logger
	source fs.FS
}

func NewMigrator(db *sqlx.DB, log logger.Logger) *Migrator {
	if log == nil {
		log = logger.NewNop()
	}
	sub, _ := fs.Sub(migrationFiles, "migrations")
	return &Migrator{db: db, log: log, source: sub}
}

type migration struct {
	version int
	name    string
}

// Up devuelve cuántas migraciones se aplicaron.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if _, err := m.db.ExecContext(ctx, createMigrationsTable); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	list, err := m.list()
	if err != nil {
		return 0, err
	}

	var applied []int
	if err := m.db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("read schema_migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	n := 0
	for _, mg := range list {
		if done[mg.version] {
			continue
		}

		m.log.Info("applying migration", map[string]any{"migration_name": mg.name, "version": mg.version})
		script, err := fs.ReadFile(m.source, mg.name)
		if err != nil {
			return n, err
		}
		if err := m.apply(ctx, mg, string(script)); err != nil {
			return n, fmt.Errorf("migration %s: %w", mg.name, err)
		}
		n++
	}

	if n == 0 {
		m.log.Debug("schema up to date", nil)
	}
	return n, nil
}

func (m *Migrator) apply(ctx context.Context, mg migration, script string) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, script); err != nil {
		_ = tx.Rollback()
		return err
	}

	q, args, err := psql.Insert("schema_migrations").
		Columns("version", "name").
		Values(mg.version, mg.name).
		ToSql()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (m *Migrator) list() ([]migration, error) {
	entries, err := fs.ReadDir(m.source, ".")
	if err != nil {
		return nil, err
	}

	out := make([]migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		v, err := scriptVersion(e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, migration{version: v, name: e.Name()})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// scriptVersion extrae el número de un archivo tipo "0002_add_notes.sql".
func scriptVersion(filename string) (int, error) {
	v, err := strconv.Atoi(strings.SplitN(filename, "_", 2)[0])
	if err != nil {
		return 0, fmt.Errorf("invalid migration file name %q", filename)
	}
	return v, nil
}
