package service

import (
	"context"
	"fmt"

	"github.com/roadwatch/roadwatch/internal/alert"
	"github.com/roadwatch/roadwatch/internal/config"
	"github.com/roadwatch/roadwatch/internal/model"
)

// RescueTeamLister lists rescue teams from storage.
// *repository.RescueTeamRepository implements it.
type RescueTeamLister interface {
	List(ctx context.Context) ([]model.RescueTeamContact, error)
}

// LoadDirectory builds the rescue-team directory from config or storage.
// An empty config list falls back to the built-in teams.
func LoadDirectory(ctx context.Context, cfg config.DirectoryConfig, teams RescueTeamLister) (*alert.Directory, error) {
	var contacts []model.RescueTeamContact

	switch cfg.Source {
	case "database":
		if teams == nil {
			return nil, fmt.Errorf("directory source is database but no repository is configured")
		}
		list, err := teams.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list rescue teams: %w", err)
		}
		contacts = list
	default:
		for _, c := range cfg.Contacts {
			contacts = append(contacts, model.RescueTeamContact{
				ID:         c.ID,
				Name:       c.Name,
				Email:      c.Email,
				IsSelected: c.Selected,
			})
		}
		if len(contacts) == 0 {
			contacts = alert.DefaultContacts()
		}
	}

	dir, err := alert.NewDirectory(contacts)
	if err != nil {
		return nil, fmt.Errorf("invalid rescue-team directory: %w", err)
	}
	return dir, nil
}
