package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinCast/internal/domain/models"
	"FinCast/internal/domain/repository"
	"FinCast/internal/statement"
)

// recordStoreStub holds one statement record per table.
type recordStoreStub struct {
	records map[string]repository.Record
}

func (s *recordStoreStub) FindByKey(_ context.Context, collection, column, key string) ([]repository.Record, error) {
	rec, ok := s.records[collection]
	if !ok || column != "ticker" || rec[0] != key {
		return nil, nil
	}
	return []repository.Record{rec}, nil
}

func (s *recordStoreStub) Insert(_ context.Context, collection string, rec repository.Record) error {
	if s.records == nil {
		s.records = make(map[string]repository.Record)
	}
	s.records[collection] = rec
	return nil
}

func (s *recordStoreStub) UpdateByKey(context.Context, string, string, string, []repository.ColumnValue) error {
	return nil
}

func storedIncome(t *testing.T) *recordStoreStub {
	t.Helper()
	dates := []time.Time{
		time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	f := models.NewFrame(dates)
	_ = f.AddColumn("totRevenue", []float64{100, 125, 150})

	st := statement.New(statement.IncomeStatement, "ACME", "USD")
	if err := st.ReadFrame(f, nil); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	store := &recordStoreStub{}
	if err := st.Save(context.Background(), store); err != nil {
		t.Fatalf("save: %v", err)
	}
	return store
}

func TestForecastAppliesConfiguredDefaults(t *testing.T) {
	defaults := ForecastDefaults{Family: "linear", Periods: 2, MaxPeriods: 4}
	uc := NewForecastUseCase(storedIncome(t), nil, nil, defaults)

	res, err := uc.Forecast(context.Background(), ForecastParams{
		Ticker: "ACME",
		Kind:   "income",
		Metric: "totRevenue",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Family != "linear" || res.Horizon != 2 {
		t.Fatalf("defaults not applied: family=%q horizon=%d", res.Family, res.Horizon)
	}
	if len(res.Predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %v", res.Predictions)
	}
}

func TestForecastRejectsHorizonOverMaximum(t *testing.T) {
	defaults := ForecastDefaults{Family: "linear", Periods: 2, MaxPeriods: 4}
	uc := NewForecastUseCase(storedIncome(t), nil, nil, defaults)

	_, err := uc.Forecast(context.Background(), ForecastParams{
		Ticker:  "ACME",
		Kind:    "income",
		Metric:  "totRevenue",
		Periods: 9,
	})
	if !errors.Is(err, ErrPeriodsExceeded) {
		t.Fatalf("expected ErrPeriodsExceeded, got %v", err)
	}
}
