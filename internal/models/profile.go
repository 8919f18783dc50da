package models

import "time"

// Profile is the local user record that owns the point balance.
// Balance only changes through points.Service.Award.
type Profile struct {
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Balance   int       `json:"balance"`
	Level     string    `json:"level"`
	Favorites []string  `json:"favorites,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Award is a single point award applied to the profile
type Award struct {
	ID          string    `json:"id"`
	Day         string    `json:"day"` // YYYY-MM-DD format
	Source      string    `json:"source"`
	Points      int       `json:"points"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
