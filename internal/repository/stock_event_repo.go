package repository

import (
	"time"

	"go-pos-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockEventRepository is write-once by construction: Append is the only
// mutating method, and no Update/Delete exists in the contract.
type StockEventRepository interface {
	Append(tx *gorm.DB, productID uuid.UUID, delta float64, reason model.StockReason) error
	FindAll(limit int) ([]model.StockEvent, error)
	FindByProduct(productID uuid.UUID) ([]model.StockEvent, error)
	SumDeltas(productID uuid.UUID) (float64, error)
	Reconciliation() ([]ReconciliationRow, error)
	DailyMovement(startDate, endDate time.Time) ([]DailyMovementData, error)
}

// ReconciliationRow compares a product's ledger sum against its stored stock.
type ReconciliationRow struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	StockQty  float64   `json:"stock_qty"`
	LedgerSum float64   `json:"ledger_sum"`
}

// DailyMovementData aggregates ledger deltas per day for chart data.
type DailyMovementData struct {
	Date     string  `json:"date"`
	Inbound  float64 `json:"inbound"`
	Outbound float64 `json:"outbound"`
}

type stockEventRepo struct {
	db *gorm.DB
}

func NewStockEventRepo(db *gorm.DB) StockEventRepository {
	return &stockEventRepo{db}
}

func (r *stockEventRepo) Append(tx *gorm.DB, productID uuid.UUID, delta float64, reason model.StockReason) error {
	event := model.StockEvent{
		ProductID: productID,
		Delta:     delta,
		Reason:    reason,
	}
	return tx.Create(&event).Error
}

func (r *stockEventRepo) FindAll(limit int) ([]model.StockEvent, error) {
	var events []model.StockEvent
	q := r.db.Preload("Product").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&events).Error
	return events, err
}

func (r *stockEventRepo) FindByProduct(productID uuid.UUID) ([]model.StockEvent, error) {
	var events []model.StockEvent
	err := r.db.Where("product_id = ?", productID).Order("created_at ASC").Find(&events).Error
	return events, err
}

func (r *stockEventRepo) SumDeltas(productID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.Model(&model.StockEvent{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *stockEventRepo) Reconciliation() ([]ReconciliationRow, error) {
	var results []ReconciliationRow

	rows, err := r.db.Model(&model.Product{}).
		Select(`
			products.id,
			products.name,
			products.stock_qty,
			COALESCE(SUM(stock_events.delta), 0) as ledger_sum
		`).
		Joins("LEFT JOIN stock_events ON stock_events.product_id = products.id").
		Group("products.id, products.name, products.stock_qty").
		Order("products.name ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data ReconciliationRow
		if err := rows.Scan(&data.ProductID, &data.Name, &data.StockQty, &data.LedgerSum); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *stockEventRepo) DailyMovement(startDate, endDate time.Time) ([]DailyMovementData, error) {
	var results []DailyMovementData

	rows, err := r.db.Model(&model.StockEvent{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN delta > 0 THEN delta ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN delta < 0 THEN -delta ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}
