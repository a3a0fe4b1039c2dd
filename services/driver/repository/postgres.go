package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/driver"
)

// PostgresDirectory reads driver flags from the drivers table
type PostgresDirectory struct {
	db *sqlx.DB
}

// NewPostgresDirectory creates a directory backed by PostgreSQL
func NewPostgresDirectory(db *sqlx.DB) driver.Directory {
	return &PostgresDirectory{db: db}
}

// DriverExists checks if a driver row exists
func (r *PostgresDirectory) DriverExists(ctx context.Context, driverID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM drivers WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, driverID); err != nil {
		return false, fmt.Errorf("failed to check driver existence: %w", err)
	}
	return exists, nil
}

// IsEligible loads the driver flags. An unknown driver is never eligible.
func (r *PostgresDirectory) IsEligible(ctx context.Context, driverID string) (bool, error) {
	query := `
		SELECT id, is_online, is_active, is_blocked
		FROM drivers
		WHERE id = $1
	`

	var d models.Driver
	err := r.db.GetContext(ctx, &d, query, driverID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load driver %s: %w", driverID, err)
	}
	return d.Eligible(), nil
}
