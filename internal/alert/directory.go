package alert

import (
	"fmt"

	"github.com/roadwatch/roadwatch/internal/model"
)

// Directory is the process-wide, read-only template of rescue teams.
// Sessions copy it; nothing mutates it after construction.
type Directory struct {
	contacts []model.RescueTeamContact
}

// NewDirectory validates contacts and builds a Directory
func NewDirectory(contacts []model.RescueTeamContact) (*Directory, error) {
	seen := make(map[string]struct{}, len(contacts))
	for _, c := range contacts {
		if c.ID == "" {
			return nil, ErrInvalidContact
		}
		if _, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateContact, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	return &Directory{contacts: append([]model.RescueTeamContact(nil), contacts...)}, nil
}

// Contacts returns a copy of the template in directory order
func (d *Directory) Contacts() []model.RescueTeamContact {
	return append([]model.RescueTeamContact(nil), d.contacts...)
}

// Len returns the number of contacts
func (d *Directory) Len() int {
	return len(d.contacts)
}

// DefaultContacts is the built-in rescue-team template
func DefaultContacts() []model.RescueTeamContact {
	return []model.RescueTeamContact{
		{ID: "ambulance", Name: "Ambulance", Email: "ambulance@rescue.example.org", IsSelected: true},
		{ID: "firebrigade", Name: "Fire Brigade", Email: "fire@rescue.example.org", IsSelected: true},
		{ID: "police", Name: "Police", Email: "police@rescue.example.org", IsSelected: true},
	}
}
