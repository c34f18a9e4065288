package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Kusa331/ORBIT/internal/models"
)

const equipmentColumns = `id, booking_id, user_id, items, others_text, status, admin_response, created_at`

func (d *DB) CreateEquipmentRequest(ctx context.Context, r models.EquipmentRequest) error {
	query := `
        INSERT INTO equipment_requests (` + equipmentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := d.Pool.Exec(ctx, query,
		r.ID, r.BookingID, r.UserID, r.Items, r.OthersText,
		r.Status, r.AdminResponse, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create equipment request: %w", err)
	}
	return nil
}

func (d *DB) EquipmentRequestByID(ctx context.Context, id string) (models.EquipmentRequest, error) {
	var r models.EquipmentRequest
	query := `SELECT ` + equipmentColumns + ` FROM equipment_requests WHERE id = $1`
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&r.ID, &r.BookingID, &r.UserID, &r.Items, &r.OthersText,
		&r.Status, &r.AdminResponse, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.EquipmentRequest{}, fmt.Errorf("no equipment request found for id %s", id)
		}
		return models.EquipmentRequest{}, fmt.Errorf("failed to get equipment request %s: %w", id, err)
	}
	return r, nil
}

func (d *DB) EquipmentRequestsByUser(ctx context.Context, userID string) ([]models.EquipmentRequest, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment_requests WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment requests for user %s: %w", userID, err)
	}
	defer rows.Close()
	return scanEquipmentRequests(rows)
}

func (d *DB) AllEquipmentRequests(ctx context.Context) ([]models.EquipmentRequest, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment_requests ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment requests: %w", err)
	}
	defer rows.Close()
	return scanEquipmentRequests(rows)
}

// RespondEquipmentRequest records the admin's per-item decision text and moves
// the request out of pending.
func (d *DB) RespondEquipmentRequest(ctx context.Context, id, adminResponse string) error {
	query := `UPDATE equipment_requests SET status = 'responded', admin_response = $1 WHERE id = $2`
	result, err := d.Pool.Exec(ctx, query, adminResponse, id)
	if err != nil {
		return fmt.Errorf("failed to respond to equipment request %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no equipment request found for id %s", id)
	}
	return nil
}

func scanEquipmentRequests(rows pgx.Rows) ([]models.EquipmentRequest, error) {
	var requests []models.EquipmentRequest
	for rows.Next() {
		var r models.EquipmentRequest
		err := rows.Scan(
			&r.ID, &r.BookingID, &r.UserID, &r.Items, &r.OthersText,
			&r.Status, &r.AdminResponse, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, nil
}
