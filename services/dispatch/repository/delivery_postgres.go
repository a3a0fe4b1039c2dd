package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/dispatch"
)

// deliveryRow is the deliveries table projection read by the engine
type deliveryRow struct {
	ID               string         `db:"id"`
	PickupLatitude   float64        `db:"pickup_latitude"`
	PickupLongitude  float64        `db:"pickup_longitude"`
	Status           string         `db:"status"`
	AssignedDriverID sql.NullString `db:"assigned_driver_id"`
	UpdatedAt        sql.NullTime   `db:"updated_at"`
}

func (r deliveryRow) toModel() *models.DeliveryRequest {
	return &models.DeliveryRequest{
		ID:               r.ID,
		Pickup:           models.Location{Latitude: r.PickupLatitude, Longitude: r.PickupLongitude},
		Status:           models.DeliveryStatus(r.Status),
		AssignedDriverID: r.AssignedDriverID.String,
		UpdatedAt:        r.UpdatedAt.Time,
	}
}

// PostgresDeliveryStore persists delivery status in the deliveries table
type PostgresDeliveryStore struct {
	db *sqlx.DB
}

// NewPostgresDeliveryStore creates a delivery store backed by PostgreSQL
func NewPostgresDeliveryStore(db *sqlx.DB) *PostgresDeliveryStore {
	return &PostgresDeliveryStore{db: db}
}

// CreateDelivery inserts the delivery as CREATED; an existing id is left untouched
func (s *PostgresDeliveryStore) CreateDelivery(ctx context.Context, d models.DeliveryRequest) (bool, error) {
	query := `
		INSERT INTO deliveries (id, pickup_latitude, pickup_longitude, status, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		d.ID, d.Pickup.Latitude, d.Pickup.Longitude, string(models.DeliveryStatusCreated), models.Now())
	if err != nil {
		return false, fmt.Errorf("failed to create delivery: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows == 1, nil
}

// LoadDelivery reads one delivery
func (s *PostgresDeliveryStore) LoadDelivery(ctx context.Context, deliveryID string) (*models.DeliveryRequest, error) {
	query := `
		SELECT id, pickup_latitude, pickup_longitude, status, assigned_driver_id, updated_at
		FROM deliveries
		WHERE id = $1
	`

	var row deliveryRow
	err := s.db.GetContext(ctx, &row, query, deliveryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dispatch.ErrDeliveryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery: %w", err)
	}
	return row.toModel(), nil
}

// SaveDeliveryStatus locks the row, checks the transition and updates it in
// one transaction, so concurrent writers across instances serialize on the row
func (s *PostgresDeliveryStore) SaveDeliveryStatus(ctx context.Context, deliveryID string, status models.DeliveryStatus, assignedDriverID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.GetContext(ctx, &raw, `SELECT status FROM deliveries WHERE id = $1 FOR UPDATE`, deliveryID)
	if errors.Is(err, sql.ErrNoRows) {
		return dispatch.ErrDeliveryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock delivery: %w", err)
	}

	current := models.DeliveryStatus(raw)
	if !current.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", dispatch.ErrInvalidTransition, current, status)
	}

	var driver sql.NullString
	if status == models.DeliveryStatusAssigned {
		driver = sql.NullString{String: assignedDriverID, Valid: assignedDriverID != ""}
	}

	updateQuery := `
		UPDATE deliveries
		SET status = $1, assigned_driver_id = $2, updated_at = $3
		WHERE id = $4
	`
	if _, err := tx.ExecContext(ctx, updateQuery, string(status), driver, models.Now(), deliveryID); err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
