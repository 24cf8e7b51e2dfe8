package usecase

import (
	"context"
	"fmt"
	"time"

	"FinCast/internal/domain/models"
	domrepo "FinCast/internal/domain/repository"
	"FinCast/internal/statement"
	applogger "FinCast/pkg/logger"
	pkgutil "FinCast/pkg/util"
)

// SyncUseCase fetches statements from the market-data provider and
// persists them, announcing each saved statement to downstream consumers.
type SyncUseCase struct {
	market  domrepo.MarketData
	store   domrepo.RecordStore
	events  domrepo.EventPublisher
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewSyncUseCase(market domrepo.MarketData, store domrepo.RecordStore, events domrepo.EventPublisher, metrics domrepo.Metrics, l *applogger.Logger) *SyncUseCase {
	return &SyncUseCase{
		market:  market,
		store:   store,
		events:  events,
		metrics: metrics,
		l:       l,
	}
}

// Sync refreshes the given statement kinds for a ticker. Kinds that fail
// are reported in the result; the call errors only when every kind fails.
func (uc *SyncUseCase) Sync(ctx context.Context, ticker string, kinds []string) (*models.SyncResult, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}
	if len(kinds) == 0 {
		kinds = []string{"income", "balance", "cashflow"}
	}

	start := time.Now()
	result := &models.SyncResult{Ticker: ticker}
	for _, kind := range kinds {
		if err := uc.syncOne(ctx, ticker, kind); err != nil {
			if uc.l != nil {
				uc.l.Error("statement sync failed",
					applogger.String("ticker", ticker),
					applogger.String("kind", kind),
					applogger.Error(err),
				)
			}
			if uc.metrics != nil {
				uc.metrics.RecordError("sync")
			}
			result.Failed = append(result.Failed, kind)
			continue
		}
		result.Synced = append(result.Synced, kind)
	}
	if uc.metrics != nil {
		uc.metrics.RecordLatency("sync", time.Since(start).Seconds())
	}

	if len(result.Synced) == 0 {
		return nil, fmt.Errorf("sync %s: all statement kinds failed", ticker)
	}
	return result, nil
}

func (uc *SyncUseCase) syncOne(ctx context.Context, ticker, kind string) error {
	schema, ok := statement.SchemaFor(kind)
	if !ok {
		return fmt.Errorf("unknown statement kind %q", kind)
	}

	frame, err := uc.market.Statement(ctx, ticker, kind)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	st := statement.New(schema, ticker, frame.Currency)
	if err := st.ReadFrame(frame, nil); err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	if err := st.Save(ctx, uc.store); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordStatementSynced(ticker, kind)
	}
	if uc.l != nil {
		uc.l.Info("statement synced",
			applogger.String("ticker", ticker),
			applogger.String("kind", kind),
			applogger.Int("periods", len(st.DateIndex())),
		)
	}

	if uc.events != nil {
		ev := models.StatementEvent{
			Ticker:     ticker,
			Kind:       kind,
			LastUpdate: pkgutil.FormatDay(st.LastUpdate()),
			SavedAt:    time.Now().UTC(),
		}
		if err := uc.events.StatementSaved(ctx, ev); err != nil {
			// persistence already succeeded; a lost event is not fatal
			if uc.l != nil {
				uc.l.Warn("statement event publish failed",
					applogger.String("ticker", ticker),
					applogger.String("kind", kind),
					applogger.Error(err),
				)
			}
			if uc.metrics != nil {
				uc.metrics.RecordError("event_publish")
			}
		}
	}
	return nil
}
