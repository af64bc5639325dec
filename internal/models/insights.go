package models

import "time"

// WeeklyInsights is the rule-based summary of the trailing week.
type WeeklyInsights struct {
	HasData         bool      `json:"has_data"`
	Summary         string    `json:"summary"`
	KeyInsights     []string  `json:"key_insights"`
	Recommendations []string  `json:"recommendations"`
	Encouragement   string    `json:"encouragement,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
}
