package repository

import (
	"go-pos-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleRepository creates sales inside the settlement transaction and serves
// read-only access afterwards. Sales are never updated or deleted here.
type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll() ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Items").Preload("Items.Product").Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").Preload("Items.Product").First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}
