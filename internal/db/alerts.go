package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Kusa331/ORBIT/internal/models"
)

// CreateAlert inserts an alert record. A NULL user_id marks an admin-scope
// alert; structured_note is stored as JSONB when present.
func (d *DB) CreateAlert(ctx context.Context, a models.AlertRecord) error {
	var note []byte
	if a.StructuredNote != nil {
		var err error
		note, err = json.Marshal(a.StructuredNote)
		if err != nil {
			return fmt.Errorf("failed to encode structured note for alert %s: %w", a.ID, err)
		}
	}

	var userID *string
	if a.UserID != "" {
		userID = &a.UserID
	}

	query := `
        INSERT INTO alerts (id, title, message, details, structured_note, user_id, is_read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := d.Pool.Exec(ctx, query,
		a.ID, a.Title, a.Message, a.Details, note, userID, a.IsRead, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// AdminAlerts returns the admin-scope feed, newest first.
func (d *DB) AdminAlerts(ctx context.Context) ([]models.AlertRecord, error) {
	query := `
        SELECT id, title, message, details, structured_note, user_id, is_read, created_at
        FROM alerts
        WHERE user_id IS NULL
        ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// UserAlerts returns one user's feed, newest first.
func (d *DB) UserAlerts(ctx context.Context, userID string) ([]models.AlertRecord, error) {
	query := `
        SELECT id, title, message, details, structured_note, user_id, is_read, created_at
        FROM alerts
        WHERE user_id = $1
        ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts for user %s: %w", userID, err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// MarkAlertRead flips is_read for one alert. Marking an already-read alert is
// a no-op, not an error.
func (d *DB) MarkAlertRead(ctx context.Context, id string) error {
	result, err := d.Pool.Exec(ctx, `UPDATE alerts SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark alert %s read: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no alert found for id %s", id)
	}
	return nil
}

func scanAlerts(rows pgx.Rows) ([]models.AlertRecord, error) {
	var alerts []models.AlertRecord
	for rows.Next() {
		var a models.AlertRecord
		var note []byte
		var userID *string
		err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.Details, &note, &userID, &a.IsRead, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		if userID != nil {
			a.UserID = *userID
		}
		if len(note) > 0 {
			if err := json.Unmarshal(note, &a.StructuredNote); err != nil {
				// A corrupt note degrades to text parsing, same as no note.
				a.StructuredNote = nil
			}
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}
