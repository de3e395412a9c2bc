package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/aggregate"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
)

// balanceService exposes the aggregate engine behind a service interface.
type balanceService struct {
	engine *aggregate.Engine
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(engine *aggregate.Engine) BalanceServicer {
	return &balanceService{engine: engine}
}

func (s *balanceService) GetSummary(ctx context.Context, userID string) (*aggregate.Summary, error) {
	summary, err := s.engine.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *balanceService) GetMonthlyTotal(ctx context.Context, userID string, kind aggregate.Kind, month, year int) (decimal.Decimal, error) {
	return s.engine.MonthlyTotal(ctx, userID, kind, month, year)
}

func (s *balanceService) GetTotalDebts(ctx context.Context, userID string, debtType models.DebtType, status models.DebtStatus) (decimal.Decimal, error) {
	return s.engine.TotalDebts(ctx, userID, debtType, status)
}
