package models

// StatementRequest reads one stored statement.
type StatementRequest struct {
	Ticker string `param:"ticker" validate:"required"`
	Kind   string `query:"kind" default:"income" validate:"oneof=income balance cashflow"`
}

// SyncRequest refreshes statements for a ticker from the provider. An
// empty kind list means every statement kind.
type SyncRequest struct {
	Ticker string   `param:"ticker" validate:"required"`
	Kinds  []string `json:"kinds" validate:"omitempty,dive,oneof=income balance cashflow"`
}

// ForecastRequest extrapolates one stored metric series. Family and
// periods fall back to the configured forecast defaults when omitted.
type ForecastRequest struct {
	Ticker  string `query:"ticker" validate:"required"`
	Kind    string `query:"kind" default:"income" validate:"oneof=income balance cashflow"`
	Metric  string `query:"metric" validate:"required"`
	Family  string `query:"family" validate:"omitempty,oneof=linear exponential logarithmic"`
	Periods int    `query:"periods" validate:"omitempty,gte=1"`
}
