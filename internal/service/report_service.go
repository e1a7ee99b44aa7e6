package service

import (
	"time"

	"go-pos-ledger/internal/repository"
)

// ReportService is a read-only consumer of the ledger. It never mutates core
// state.
type ReportService interface {
	Reconciliation() ([]ReconciliationReport, error)
	StockMovement(startDate, endDate time.Time) ([]repository.DailyMovementData, error)
}

// ReconciliationReport is one product's ledger-vs-stock comparison. Drift is
// zero whenever every stock mutation was paired with its ledger event.
type ReconciliationReport struct {
	repository.ReconciliationRow
	Drift float64 `json:"drift"`
}

type reportService struct {
	eventRepo repository.StockEventRepository
}

func NewReportService(eRepo repository.StockEventRepository) ReportService {
	return &reportService{eventRepo: eRepo}
}

func (s *reportService) Reconciliation() ([]ReconciliationReport, error) {
	rows, err := s.eventRepo.Reconciliation()
	if err != nil {
		return nil, err
	}

	reports := make([]ReconciliationReport, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, ReconciliationReport{
			ReconciliationRow: row,
			Drift:             row.StockQty - row.LedgerSum,
		})
	}
	return reports, nil
}

func (s *reportService) StockMovement(startDate, endDate time.Time) ([]repository.DailyMovementData, error) {
	return s.eventRepo.DailyMovement(startDate, endDate)
}
