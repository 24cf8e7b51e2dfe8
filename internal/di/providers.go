package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"FinCast/internal/domain/repository"
	"FinCast/internal/handler/api"
	internalrepo "FinCast/internal/repository"
	"FinCast/internal/service/yahoo"
	"FinCast/internal/statement"
	"FinCast/internal/usecase"
	pkgcache "FinCast/pkg/cache"
	"FinCast/pkg/config"
	pkgdb "FinCast/pkg/db"
	xhttp "FinCast/pkg/http"
	pkgkafka "FinCast/pkg/kafka"
	applogger "FinCast/pkg/logger"
	"FinCast/pkg/metrics"
	"FinCast/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Logging.Output
	if output == "" {
		output = "stdout"
	}
	l, err := applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideDBClient opens the configured storage backend.
func ProvideDBClient(cfg *config.Config) (*pkgdb.Client, error) {
	opts := []pkgdb.ClientOption{pkgdb.WithDriver(cfg.Storage.Driver)}
	switch cfg.Storage.Driver {
	case pkgdb.DriverSQLite:
		opts = append(opts, pkgdb.WithPath(cfg.Storage.SQLite.Path))
	case pkgdb.DriverClickHouse:
		ch := cfg.Storage.ClickHouse
		opts = append(opts,
			pkgdb.WithHost(ch.Host),
			pkgdb.WithPort(ch.Port),
			pkgdb.WithDatabase(ch.Database),
			pkgdb.WithCredentials(ch.User, ch.Password),
			pkgdb.WithMaxConnections(10, 5),
			pkgdb.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
			pkgdb.WithMaxExecutionTime(ch.MaxExecutionTime),
		)
	}
	client, err := pkgdb.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("db client: %w", err)
	}
	return client, nil
}

// ProvideRecordStore creates the statement record store and ensures the
// statement tables exist.
func ProvideRecordStore(client *pkgdb.Client, l *applogger.Logger) (repository.RecordStore, error) {
	store := internalrepo.NewSQLRecordStore(client)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.InitSchema(ctx, statement.IncomeStatement, statement.BalanceSheet, statement.CashFlow); err != nil {
		return nil, fmt.Errorf("statement schema: %w", err)
	}
	return store, nil
}

// ProvideCache creates the provider-response cache.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Cache.Type != "redis" {
		return pkgcache.NewMemoryCache(), nil
	}

	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("cache.redis.addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("cache.redis.addr port: %w", err)
	}

	cache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache, nil
}

// ProvideMarketData creates the statement provider client.
func ProvideMarketData(cfg *config.Config, cache pkgcache.Service, l *applogger.Logger) repository.MarketData {
	timeout := cfg.Provider.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := xhttp.NewClient(xhttp.WithTimeout(timeout))
	md := yahoo.New(cfg.Provider.BaseURL, httpClient, cache, cfg.Provider.CacheTTL)
	if c, ok := md.(*yahoo.Client); ok {
		c.SetLogger(l)
	}
	return md
}

// ProvideEventPublisher creates the statement-saved event publisher.
// Publishing is optional; when disabled a no-op publisher is used.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.Events.Enabled {
		return internalrepo.NoopEventPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Events.Topic), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideStatementUseCase creates the statement read use case.
func ProvideStatementUseCase(store repository.RecordStore) *usecase.StatementUseCase {
	return usecase.NewStatementUseCase(store)
}

// ProvideSyncUseCase creates the statement sync use case.
func ProvideSyncUseCase(
	market repository.MarketData,
	store repository.RecordStore,
	events repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SyncUseCase {
	return usecase.NewSyncUseCase(market, store, events, m, l)
}

// ProvideForecastUseCase creates the forecast use case with the configured
// family/horizon defaults.
func ProvideForecastUseCase(cfg *config.Config, store repository.RecordStore, m repository.Metrics, l *applogger.Logger) *usecase.ForecastUseCase {
	defaults := usecase.ForecastDefaults{
		Family:     cfg.Forecast.DefaultFamily,
		Periods:    cfg.Forecast.DefaultPeriods,
		MaxPeriods: cfg.Forecast.MaxPeriods,
	}
	if defaults.Family == "" {
		defaults.Family = "linear"
	}
	if defaults.Periods <= 0 {
		defaults.Periods = 3
	}
	if defaults.MaxPeriods <= 0 {
		defaults.MaxPeriods = 12
	}
	return usecase.NewForecastUseCase(store, m, l, defaults)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	statements *usecase.StatementUseCase,
	sync *usecase.SyncUseCase,
	forecaster *usecase.ForecastUseCase,
) xhttp.Handler {
	return api.NewStatementsHandler(l, statements, sync, forecaster)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	dbClient *pkgdb.Client,
	events repository.EventPublisher,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, dbClient, events, handler)
}
