package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FinCast/internal/domain/models"
	domrepo "FinCast/internal/domain/repository"
	"FinCast/internal/forecast"
	"FinCast/internal/statement"
	applogger "FinCast/pkg/logger"
)

// ErrMetricAbsent is returned when a stored statement has no data for the
// requested metric.
var ErrMetricAbsent = errors.New("metric has no data")

// ErrPeriodsExceeded is returned when a request asks for more forecast
// periods than the configured maximum.
var ErrPeriodsExceeded = errors.New("forecast periods exceed the configured maximum")

// ForecastDefaults are the configured fallbacks for requests that omit a
// curve family or horizon, and the hard cap on the horizon.
type ForecastDefaults struct {
	Family     string
	Periods    int
	MaxPeriods int
}

// ForecastUseCase loads a stored statement and extrapolates one metric row.
type ForecastUseCase struct {
	store    domrepo.RecordStore
	metrics  domrepo.Metrics
	l        *applogger.Logger
	defaults ForecastDefaults
}

func NewForecastUseCase(store domrepo.RecordStore, metrics domrepo.Metrics, l *applogger.Logger, defaults ForecastDefaults) *ForecastUseCase {
	return &ForecastUseCase{store: store, metrics: metrics, l: l, defaults: defaults}
}

type ForecastParams struct {
	Ticker  string
	Kind    string
	Metric  string
	Family  string
	Periods int
}

// Forecast fits the chosen curve family to the stored metric series and
// predicts the next reporting periods.
func (uc *ForecastUseCase) Forecast(ctx context.Context, p ForecastParams) (*models.ForecastResult, error) {
	schema, ok := statement.SchemaFor(p.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown statement kind %q", p.Kind)
	}
	if p.Family == "" {
		p.Family = uc.defaults.Family
	}
	if p.Periods == 0 {
		p.Periods = uc.defaults.Periods
	}
	if p.Periods <= 0 {
		return nil, fmt.Errorf("periods must be positive")
	}
	if uc.defaults.MaxPeriods > 0 && p.Periods > uc.defaults.MaxPeriods {
		return nil, fmt.Errorf("%w: %d > %d", ErrPeriodsExceeded, p.Periods, uc.defaults.MaxPeriods)
	}

	start := time.Now()
	st := statement.New(schema, p.Ticker, "")
	if err := st.Load(ctx, uc.store); err != nil {
		return nil, fmt.Errorf("load statement: %w", err)
	}

	row, err := st.Get(p.Metric)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s/%s %s", ErrMetricAbsent, p.Ticker, p.Kind, p.Metric)
	}

	preds, err := row.Predict(p.Periods, p.Family)
	if err != nil {
		if errors.Is(err, forecast.ErrFitFailure) && uc.metrics != nil {
			uc.metrics.RecordFitFailure(p.Family)
		}
		return nil, fmt.Errorf("predict %s: %w", p.Metric, err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordForecast(p.Family)
		uc.metrics.RecordLatency("forecast", time.Since(start).Seconds())
	}
	if uc.l != nil {
		uc.l.Info("forecast completed",
			applogger.String("ticker", p.Ticker),
			applogger.String("kind", p.Kind),
			applogger.String("metric", p.Metric),
			applogger.String("family", p.Family),
			applogger.Int("periods", p.Periods),
		)
	}

	return &models.ForecastResult{
		Ticker:      p.Ticker,
		Kind:        p.Kind,
		Metric:      p.Metric,
		Family:      p.Family,
		Horizon:     p.Periods,
		Predictions: preds,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
