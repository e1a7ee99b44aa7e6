package service

import (
	"errors"
	"fmt"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"
	"go-pos-ledger/internal/ws"
	"go-pos-ledger/pkg/apperr"
	"go-pos-ledger/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService manages product metadata. It never writes stock: all stock
// movement goes through SaleService or StockService so it stays paired with
// a ledger event.
type CatalogService interface {
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, hub *ws.Hub) CatalogService {
	return &catalogService{productRepo: pRepo, wsHub: hub}
}

func (s *catalogService) CreateProduct(req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return apperr.Newf(apperr.KindInvalidInput,
			"validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if err := s.checkBulkFields(req); err != nil {
		return err
	}

	if req.Barcode != nil {
		existing, _ := s.productRepo.FindByBarcode(*req.Barcode)
		if existing != nil && existing.ID != uuid.Nil {
			return apperr.Newf(apperr.KindInvalidInput, "barcode %q already exists", *req.Barcode)
		}
	}

	if err := s.productRepo.Create(req); err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "create product")
	}

	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "product_created",
		"product": map[string]interface{}{
			"id":        req.ID,
			"name":      req.Name,
			"stock_qty": req.StockQty,
		},
		"message": fmt.Sprintf("Product '%s' created", req.Name),
	})

	return nil
}

// UpdateProduct changes metadata and pricing only. StockQty is deliberately
// not copied from the request.
func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "product %s not found", id)
		}
		return nil, apperr.Wrap(apperr.KindPersistence, err, "load product")
	}

	if err := s.checkBulkFields(req); err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Barcode = req.Barcode
	existing.UnitPrice = req.UnitPrice
	existing.IsBulkParent = req.IsBulkParent
	existing.ConversionFactor = req.ConversionFactor
	existing.ParentProductID = req.ParentProductID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "update product")
	}
	return existing, nil
}

// checkBulkFields enforces that ConversionFactor and ParentProductID come as
// a pair, the factor is positive, and the referenced parent exists and is not
// itself a child (one level of nesting).
func (s *catalogService) checkBulkFields(req *model.Product) error {
	if req.UnitPrice.IsNegative() {
		return apperr.New(apperr.KindInvalidInput, "unit price must not be negative")
	}
	if (req.ParentProductID == nil) != (req.ConversionFactor == nil) {
		return apperr.New(apperr.KindInvalidInput, "parent_product_id and conversion_factor must be set together")
	}
	if req.ConversionFactor != nil && *req.ConversionFactor <= 0 {
		return apperr.New(apperr.KindInvalidInput, "conversion_factor must be positive")
	}
	if req.ParentProductID != nil {
		parent, err := s.productRepo.FindByID(*req.ParentProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Newf(apperr.KindNotFound, "parent product %s not found", *req.ParentProductID)
			}
			return apperr.Wrap(apperr.KindPersistence, err, "load parent product")
		}
		if parent.ParentProductID != nil {
			return apperr.New(apperr.KindInvalidInput, "parent product is itself a child; only one level of nesting is supported")
		}
	}
	return nil
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "product %s not found", id)
		}
		return nil, apperr.Wrap(apperr.KindPersistence, err, "load product")
	}
	return product, nil
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}
