package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockReason says why a stock quantity changed.
type StockReason string

const (
	ReasonSale            StockReason = "SALE"
	ReasonBulkBreakSource StockReason = "BULK_BREAK_SOURCE"
	ReasonBulkBreakDest   StockReason = "BULK_BREAK_DEST"
	ReasonRestock         StockReason = "RESTOCK"
)

// StockEvent is one immutable row in the append-only stock ledger. Every
// stock mutation writes exactly one event; replaying the deltas for a product
// in creation order must reproduce its current StockQty. Rows are never
// updated or deleted (enforced by a trigger on Postgres, see pkg/database).
type StockEvent struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID   `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product    `json:"product,omitempty"`
	Delta     float64     `gorm:"not null" json:"delta"` // positive = stock added, negative = stock removed
	Reason    StockReason `gorm:"type:varchar(20);not null" json:"reason"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (e *StockEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
