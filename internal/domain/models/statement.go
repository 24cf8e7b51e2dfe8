package models

import "time"

// StatementView is the transport representation of a composite statement.
// Absent metrics carry a nil series.
type StatementView struct {
	Ticker     string               `json:"ticker"`
	Kind       string               `json:"kind"`
	Currency   string               `json:"currency"`
	LastUpdate string               `json:"last_update"`
	Dates      []string             `json:"dates"`
	Metrics    map[string][]float64 `json:"metrics"`
}

// ForecastResult is the outcome of fitting one metric row and
// extrapolating future reporting periods.
type ForecastResult struct {
	Ticker      string    `json:"ticker"`
	Kind        string    `json:"kind"`
	Metric      string    `json:"metric"`
	Family      string    `json:"family"`
	Horizon     int       `json:"horizon"`
	Predictions []float64 `json:"predictions"`
	GeneratedAt time.Time `json:"generated_at"`
}

// StatementEvent announces a persisted statement to downstream consumers.
type StatementEvent struct {
	Ticker     string    `json:"ticker"`
	Kind       string    `json:"kind"`
	LastUpdate string    `json:"last_update"`
	SavedAt    time.Time `json:"saved_at"`
}

// SyncResult summarizes one statement-sync run for a ticker.
type SyncResult struct {
	Ticker string   `json:"ticker"`
	Synced []string `json:"synced"`
	Failed []string `json:"failed,omitempty"`
}
