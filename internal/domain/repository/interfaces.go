package repository

import (
	"context"

	"FinCast/internal/domain/models"
)

// Record is one stored statement row, field order matching the schema
// column order.
type Record []string

// ColumnValue pairs a column name with its new text value for an update.
type ColumnValue struct {
	Column string
	Value  string
}

// RecordStore is the relational storage collaborator. Statements treat it
// as a keyed record store; a handle is always passed in explicitly, never
// held as package state.
type RecordStore interface {
	// FindByKey returns the records whose column equals key.
	FindByKey(ctx context.Context, collection, column, key string) ([]Record, error)
	// Insert adds one record to a collection.
	Insert(ctx context.Context, collection string, rec Record) error
	// UpdateByKey updates the given columns on records whose column
	// equals key.
	UpdateByKey(ctx context.Context, collection, column, key string, sets []ColumnValue) error
}

// MarketData supplies periodic financial statements as tabular frames with
// columns already mapped to schema metric keys.
type MarketData interface {
	// Statement fetches the frame for one statement kind
	// ("income", "balance" or "cashflow").
	Statement(ctx context.Context, ticker, kind string) (*models.Frame, error)
}

// EventPublisher announces persisted statements to downstream consumers.
type EventPublisher interface {
	StatementSaved(ctx context.Context, ev models.StatementEvent) error
	Close() error
}

// Metrics records operational counters for observability.
type Metrics interface {
	RecordStatementSynced(ticker, kind string)
	RecordForecast(family string)
	RecordFitFailure(family string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
