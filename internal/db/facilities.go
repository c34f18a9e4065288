package db

import (
	"context"
	"fmt"

	"github.com/Kusa331/ORBIT/internal/models"
)

// ListFacilities returns every bookable room and station.
func (d *DB) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	query := `SELECT id, name, type, capacity, status FROM facilities ORDER BY name`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get facilities: %w", err)
	}
	defer rows.Close()

	var facilities []models.Facility
	for rows.Next() {
		var f models.Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.Type, &f.Capacity, &f.Status); err != nil {
			return nil, fmt.Errorf("failed to scan facility: %w", err)
		}
		facilities = append(facilities, f)
	}
	return facilities, nil
}
