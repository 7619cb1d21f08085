package dto

import "time"

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status       string     `json:"status"`
	Database     string     `json:"database"`
	Scheduler    string     `json:"scheduler"`
	NextBonusRun *time.Time `json:"next_bonus_run,omitempty"`
}
