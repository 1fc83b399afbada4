package database

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// BunSchemaMigration records a sqlite migration that has been applied
type BunSchemaMigration struct {
	bun.BaseModel `bun:"table:bun_schema_migrations"`

	Version   string    `bun:"version,pk"`
	Name      string    `bun:"name,notnull"`
	AppliedAt time.Time `bun:"applied_at,notnull"`
}

type bunMigration struct {
	version string
	name    string
	up      func(ctx context.Context, tx bun.Tx) error
}

// sqliteMigrations mirror migrations/*.sql, which postgres applies through golang-migrate
var sqliteMigrations = []bunMigration{
	{"001", "create_presenter_state", func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewCreateTable().Model((*BunPresenterState)(nil)).IfNotExists().Exec(ctx)
		return err
	}},
	{"002", "create_recent_documents", func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewCreateTable().Model((*BunRecentDocument)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewCreateIndex().
			Model((*BunRecentDocument)(nil)).
			Index("idx_recent_documents_opened_at").
			Column("opened_at").
			IfNotExists().
			Exec(ctx)
		return err
	}},
}

// runMigrations applies every pending sqlite migration, each in its own transaction
func (b *BunDB) runMigrations(ctx context.Context) error {
	if _, err := b.db.NewCreateTable().Model((*BunSchemaMigration)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []BunSchemaMigration
	if err := b.db.NewSelect().Model(&applied).Scan(ctx); err != nil {
		return fmt.Errorf("failed to check applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, m := range applied {
		done[m.Version] = true
	}

	for _, m := range sqliteMigrations {
		if done[m.version] {
			continue
		}
		Logger.Info("Running migration", "version", m.version, "name", m.name)

		err := b.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := m.up(ctx, tx); err != nil {
				return err
			}
			_, err := tx.NewInsert().
				Model(&BunSchemaMigration{Version: m.version, Name: m.name, AppliedAt: time.Now().UTC()}).
				Exec(ctx)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to run migration %s %s: %w", m.version, m.name, err)
		}
	}
	return nil
}
