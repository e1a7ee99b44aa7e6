package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentMobileMoney PaymentMethod = "MOBILE_MONEY"
)

// Sale is created exactly once per successful settlement and is immutable
// afterwards. Synced is reserved for a future remote-sync pipeline; the core
// never reads or writes it.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Total         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	Synced        bool            `gorm:"not null;default:false" json:"synced"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// SaleItem is one sold line. PriceAtSale snapshots the unit price at the time
// of sale so totals stay reproducible from stored line data alone, no matter
// how the catalog price moves later.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product        `json:"product,omitempty"`
	Quantity    float64         `gorm:"not null" json:"quantity"`
	PriceAtSale decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price_at_sale"`
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
