package api

import (
	"errors"

	models "FinCast/internal/domain/models"
	"FinCast/internal/forecast"
	"FinCast/internal/statement"
	"FinCast/internal/usecase"
	xhttp "FinCast/pkg/http"
	xlogger "FinCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StatementsHandler exposes statement storage, sync and forecasting over
// HTTP.
type StatementsHandler struct {
	logger     *xlogger.Logger
	statements *usecase.StatementUseCase
	sync       *usecase.SyncUseCase
	forecaster *usecase.ForecastUseCase
}

func NewStatementsHandler(logger *xlogger.Logger, statements *usecase.StatementUseCase, sync *usecase.SyncUseCase, forecaster *usecase.ForecastUseCase) *StatementsHandler {
	return &StatementsHandler{
		logger:     logger,
		statements: statements,
		sync:       sync,
		forecaster: forecaster,
	}
}

func (h *StatementsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/statements/:ticker", h.GetStatement)
	g.POST("/statements/:ticker/sync", h.SyncStatements)
	g.GET("/forecast", h.Forecast)
}

func (h *StatementsHandler) GetStatement(c echo.Context) error {
	req := &models.StatementRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	view, err := h.statements.Get(c.Request().Context(), req.Ticker, req.Kind)
	if err != nil {
		h.logger.Error("statement usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapStatementError(err))
	}
	return xhttp.SuccessResponse(c, view)
}

func (h *StatementsHandler) SyncStatements(c echo.Context) error {
	req := &models.SyncRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.sync.Sync(c.Request().Context(), req.Ticker, req.Kinds)
	if err != nil {
		h.logger.Error("sync usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapStatementError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StatementsHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.forecaster.Forecast(c.Request().Context(), usecase.ForecastParams{
		Ticker:  req.Ticker,
		Kind:    req.Kind,
		Metric:  req.Metric,
		Family:  req.Family,
		Periods: req.Periods,
	})
	if err != nil {
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapStatementError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// mapStatementError translates domain sentinels into transport errors.
func mapStatementError(err error) error {
	switch {
	case errors.Is(err, statement.ErrNotFound):
		return xhttp.NotFoundError("no stored statement for ticker").WithError(err)
	case errors.Is(err, usecase.ErrMetricAbsent):
		return xhttp.NotFoundError("metric has no stored data").WithError(err)
	case errors.Is(err, statement.ErrKeyNotFound):
		return xhttp.BadRequestError("unknown metric or curve family").WithError(err)
	case errors.Is(err, usecase.ErrPeriodsExceeded):
		return xhttp.BadRequestError("too many forecast periods requested").WithError(err)
	case errors.Is(err, forecast.ErrFitFailure):
		return xhttp.BadRequestError("curve fit failed for this series").WithError(err)
	case errors.Is(err, statement.ErrUninitialized),
		errors.Is(err, statement.ErrSchemaMismatch),
		errors.Is(err, statement.ErrDateConversion):
		return xhttp.InternalError("stored statement is unreadable").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
