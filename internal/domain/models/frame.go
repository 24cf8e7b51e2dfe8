package models

import (
	"fmt"
	"time"
)

// Frame is a tabular slice of market data: named numeric columns over a
// shared date row index. It is the exchange format between the market-data
// adapter and statement construction.
type Frame struct {
	Currency string
	Dates    []time.Time
	Columns  []string
	Data     map[string][]float64
}

// NewFrame creates an empty frame over a date index.
func NewFrame(dates []time.Time) *Frame {
	return &Frame{Dates: dates, Data: make(map[string][]float64)}
}

// AddColumn appends a column; the values must align with the date index.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != len(f.Dates) {
		return fmt.Errorf("column %q has %d values, frame has %d dates", name, len(values), len(f.Dates))
	}
	if _, exists := f.Data[name]; !exists {
		f.Columns = append(f.Columns, name)
	}
	f.Data[name] = values
	return nil
}

// Column returns the values of a named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	v, ok := f.Data[name]
	return v, ok
}
