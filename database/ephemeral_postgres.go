package database

import (
	"context"
	"fmt"

	"github.com/stapelberg/postgrestest"
)

// startEphemeralPostgres starts a throwaway PostgreSQL server and creates a fresh database on it.
// The returned cleanup stops the server and removes its data directory.
func startEphemeralPostgres(ctx context.Context) (string, func(), error) {
	Logger.Info("Starting ephemeral PostgreSQL server...")

	// Uses a temporary directory by default for simplicity
	pgt, err := postgrestest.Start(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start ephemeral postgres: %w", err)
	}
	Logger.Info("Ephemeral PostgreSQL server started", "dsn", pgt.DefaultDatabase())

	dsn, err := pgt.CreateDatabase(ctx)
	if err != nil {
		pgt.Cleanup()
		return "", nil, fmt.Errorf("failed to create pdfpresenter database: %w", err)
	}
	Logger.Info("Created ephemeral database", "dsn", dsn)

	return dsn, pgt.Cleanup, nil
}
