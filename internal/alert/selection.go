package alert

import "github.com/roadwatch/roadwatch/internal/model"

// Selection tracks which recipients are chosen in one alert session.
// It is not safe for concurrent use; the owning session serializes access.
type Selection struct {
	contacts []model.RescueTeamContact
}

// NewSelection seeds a selection from the directory defaults
func NewSelection(dir *Directory) *Selection {
	return &Selection{contacts: dir.Contacts()}
}

// ToggleOne flips the contact with the given id. Unknown ids are ignored and
// reported by the return value.
func (s *Selection) ToggleOne(id string) bool {
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts[i].IsSelected = !s.contacts[i].IsSelected
			return true
		}
	}
	return false
}

// ToggleAll sets every contact to next
func (s *Selection) ToggleAll(next bool) {
	for i := range s.contacts {
		s.contacts[i].IsSelected = next
	}
}

// Selected returns the selected contacts in directory order
func (s *Selection) Selected() []model.RescueTeamContact {
	var out []model.RescueTeamContact
	for _, c := range s.contacts {
		if c.IsSelected {
			out = append(out, c)
		}
	}
	return out
}

// AllSelected reports whether every contact is selected.
// An empty selection is never all-selected.
func (s *Selection) AllSelected() bool {
	if len(s.contacts) == 0 {
		return false
	}
	for _, c := range s.contacts {
		if !c.IsSelected {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of every contact with its current state
func (s *Selection) Snapshot() []model.RescueTeamContact {
	return append([]model.RescueTeamContact(nil), s.contacts...)
}
