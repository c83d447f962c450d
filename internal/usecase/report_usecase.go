package usecase

import (
	"context"
	"time"

	"posledger/internal/domain/repository"
)

// ReportUsecase serves the dashboard's read-only aggregates.
type ReportUsecase interface {
	// DailySummary aggregates sale count, totals per tender type and profit
	// for the UTC calendar day containing the given instant.
	DailySummary(ctx context.Context, day time.Time) (*repository.SalesSummary, error)
}
