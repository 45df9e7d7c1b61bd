package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roadwatch/roadwatch/internal/database"
	"github.com/roadwatch/roadwatch/internal/model"
)

// AccidentRepository reads accident records from PostgreSQL
type AccidentRepository struct {
	db *database.Postgres
}

// NewAccidentRepository creates a new AccidentRepository
func NewAccidentRepository(db *database.Postgres) *AccidentRepository {
	return &AccidentRepository{db: db}
}

// Get retrieves an accident by ID. It satisfies accident.Provider.
func (r *AccidentRepository) Get(ctx context.Context, id string) (*model.Accident, error) {
	if id == "" {
		return nil, ErrInvalid
	}

	query := `
		SELECT id, address, city, latitude, longitude, severity,
		    severity_percentage, reported_at, image_url
		FROM accidents
		WHERE id = $1
	`
	var (
		a          model.Accident
		lat, lng   sql.NullString
		percentage sql.NullString
		reportedAt time.Time
		imageURL   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.Address,
		&a.City,
		&lat,
		&lng,
		&a.Severity,
		&percentage,
		&reportedAt,
		&imageURL,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get accident: %w", err)
	}

	a.Latitude = model.FlexString(lat.String)
	a.Longitude = model.FlexString(lng.String)
	a.SeverityInPercentage = model.FlexString(percentage.String)
	a.Date = reportedAt.Format("2006-01-02 15:04:05")
	if imageURL.Valid {
		a.ImageURL = &imageURL.String
	}
	return &a, nil
}
