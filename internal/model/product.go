package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. A "child" product carries a ParentProductID and
// a ConversionFactor (child units produced by breaking one parent unit); both
// are meaningful only together. Nesting is one level deep: a parent is never
// itself a child of another bulk parent.
type Product struct {
	BaseModel
	Barcode          *string         `gorm:"type:varchar(64);uniqueIndex" json:"barcode,omitempty"`
	Name             string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"unit_price"`
	StockQty         float64         `gorm:"not null;default:0" json:"stock_qty"` // signed: oversell drives it negative
	IsBulkParent     bool            `gorm:"not null;default:false" json:"is_bulk_parent"`
	ConversionFactor *float64        `json:"conversion_factor,omitempty"`
	ParentProductID  *uuid.UUID      `gorm:"type:uuid;index" json:"parent_product_id,omitempty"`

	Parent *Product `gorm:"foreignKey:ParentProductID" json:"parent,omitempty"`
}

// CanBulkBreak reports whether a shortfall on this product may be covered by
// breaking parent units.
func (p *Product) CanBulkBreak() bool {
	return p.ParentProductID != nil && p.ConversionFactor != nil && *p.ConversionFactor > 0
}
