package repository

import (
	"context"
	"fmt"

	"github.com/roadwatch/roadwatch/internal/database"
	"github.com/roadwatch/roadwatch/internal/model"
)

// RescueTeamRepository reads the rescue-team directory from PostgreSQL
type RescueTeamRepository struct {
	db *database.Postgres
}

// NewRescueTeamRepository creates a new RescueTeamRepository
func NewRescueTeamRepository(db *database.Postgres) *RescueTeamRepository {
	return &RescueTeamRepository{db: db}
}

// List returns every rescue team in display order
func (r *RescueTeamRepository) List(ctx context.Context) ([]model.RescueTeamContact, error) {
	query := `
		SELECT id, name, email, selected_by_default
		FROM rescue_teams
		ORDER BY position, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rescue teams: %w", err)
	}
	defer rows.Close()

	var teams []model.RescueTeamContact
	for rows.Next() {
		var t model.RescueTeamContact
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.IsSelected); err != nil {
			return nil, fmt.Errorf("failed to scan rescue team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rescue teams: %w", err)
	}
	return teams, nil
}
