package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Kusa331/ORBIT/internal/models"
)

const bookingColumns = `id, facility_id, user_id, user_email, purpose, start_time, end_time, status, admin_response, created_at`

func (d *DB) CreateBooking(ctx context.Context, b models.Booking) error {
	query := `
        INSERT INTO bookings (` + bookingColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := d.Pool.Exec(ctx, query,
		b.ID, b.FacilityID, b.UserID, b.UserEmail, b.Purpose,
		b.StartTime, b.EndTime, b.Status, b.AdminResponse, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (d *DB) BookingByID(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.FacilityID, &b.UserID, &b.UserEmail, &b.Purpose,
		&b.StartTime, &b.EndTime, &b.Status, &b.AdminResponse, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Booking{}, fmt.Errorf("no booking found for id %s", id)
		}
		return models.Booking{}, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return b, nil
}

func (d *DB) BookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings for user %s: %w", userID, err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (d *DB) AllBookings(ctx context.Context) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// UpdateBookingStatus sets the approval state and the admin's response text.
func (d *DB) UpdateBookingStatus(ctx context.Context, id, status, adminResponse string) error {
	query := `UPDATE bookings SET status = $1, admin_response = $2 WHERE id = $3`
	result, err := d.Pool.Exec(ctx, query, status, adminResponse, id)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no booking found for id %s", id)
	}
	return nil
}

func scanBookings(rows pgx.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(
			&b.ID, &b.FacilityID, &b.UserID, &b.UserEmail, &b.Purpose,
			&b.StartTime, &b.EndTime, &b.Status, &b.AdminResponse, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}
