package impl

import (
	"context"
	"time"

	"posledger/internal/domain/repository"
	"posledger/internal/usecase"

	"github.com/pkg/errors"
)

type reportService struct {
	saleRepo repository.SaleRepository
}

// NewReportService creates a new report service instance.
func NewReportService(saleRepo repository.SaleRepository) usecase.ReportUsecase {
	return &reportService{saleRepo: saleRepo}
}

// DailySummary aggregates the UTC calendar day containing the given instant.
func (srv *reportService) DailySummary(ctx context.Context, day time.Time) (*repository.SalesSummary, error) {
	summary, err := srv.saleRepo.SummaryByDay(ctx, day)
	if err != nil {
		return nil, errors.Wrap(err, "failed to summarize sales")
	}

	return summary, nil
}
