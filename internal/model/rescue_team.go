package model

// RescueTeamContact is a recipient that may receive an accident alert
type RescueTeamContact struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsSelected bool   `json:"isSelected"`
}
