package handler

import (
	"log/slog"
	"net/http"
	"time"

	"posledger/internal/delivery/http/response"
	"posledger/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ReportHandler holds dependencies for reporting handlers.
type ReportHandler struct {
	uc     usecase.ReportUsecase
	logger *slog.Logger
}

// NewReportHandler is the constructor for ReportHandler, injected by Fx.
func NewReportHandler(uc usecase.ReportUsecase, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		uc:     uc,
		logger: logger,
	}
}

// DailySummary aggregates the requested day (?date=2006-01-02, default today).
func (h *ReportHandler) DailySummary(c echo.Context) error {
	day := time.Now().UTC()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_DATE", "Date must be formatted as YYYY-MM-DD")
		}
		day = parsed
	}

	summary, err := h.uc.DailySummary(c.Request().Context(), day)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "")
}
