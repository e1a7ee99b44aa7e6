package service

import (
	"errors"
	"math"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"
	"go-pos-ledger/internal/ws"
	"go-pos-ledger/pkg/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxSaleAttempts bounds internal retries on serialization conflicts before
// the failure is surfaced to the caller.
const maxSaleAttempts = 3

// SaleLine is one requested line of a sale.
type SaleLine struct {
	ProductID uuid.UUID
	Quantity  float64
	UnitPrice decimal.Decimal
}

type SaleService interface {
	ProcessSale(lines []SaleLine, method model.PaymentMethod) (*model.Sale, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
	GetAllSales() ([]model.Sale, error)
}

type saleService struct {
	productRepo repository.ProductRepository
	eventRepo   repository.StockEventRepository
	saleRepo    repository.SaleRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewSaleService(pRepo repository.ProductRepository, eRepo repository.StockEventRepository, sRepo repository.SaleRepository, db *gorm.DB, hub *ws.Hub) SaleService {
	return &saleService{
		productRepo: pRepo,
		eventRepo:   eRepo,
		saleRepo:    sRepo,
		db:          db,
		wsHub:       hub,
	}
}

// ProcessSale settles a cart as one atomic transaction: per line it resolves
// any shortfall by breaking parent units, decrements stock (negative stock is
// allowed, a sale is never rejected for insufficient stock), appends ledger
// events for every mutation, and creates the Sale with price snapshots. On a
// serialization conflict the whole transaction is retried a bounded number of
// times.
func (s *saleService) ProcessSale(lines []SaleLine, method model.PaymentMethod) (*model.Sale, error) {
	if err := validateSaleInput(lines, method); err != nil {
		return nil, err
	}

	var sale *model.Sale
	var err error
	for attempt := 1; attempt <= maxSaleAttempts; attempt++ {
		sale, err = s.processOnce(lines, method)
		if err == nil || !isRetryableConflict(err) {
			break
		}
	}
	if err != nil {
		if isRetryableConflict(err) {
			conflict := apperr.Wrap(apperr.KindConflict, err, "sale transaction conflicted")
			return nil, apperr.Wrap(apperr.KindPersistence, conflict, "retries exhausted")
		}
		return nil, err
	}

	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "sale_completed",
		"sale": map[string]interface{}{
			"id":             sale.ID,
			"total":          sale.Total,
			"payment_method": sale.PaymentMethod,
			"line_count":     len(sale.Items),
		},
	})

	return sale, nil
}

func (s *saleService) processOnce(lines []SaleLine, method model.PaymentMethod) (*model.Sale, error) {
	var sale *model.Sale

	err := s.db.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]model.SaleItem, 0, len(lines))

		for _, line := range lines {
			// Resolve the product and its parent first; locks are then
			// taken parent-before-child so concurrent sales on the same
			// pair cannot deadlock or both break against stale stock.
			resolved, err := s.productRepo.FindByIDWithParent(tx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Newf(apperr.KindNotFound, "product %s not found", line.ProductID)
				}
				return apperr.Wrap(apperr.KindPersistence, err, "load product")
			}

			var parent *model.Product
			if resolved.ParentProductID != nil {
				parent, err = s.productRepo.LockByID(tx, *resolved.ParentProductID)
				if err != nil {
					return apperr.Wrap(apperr.KindPersistence, err, "lock parent product")
				}
			}
			product, err := s.productRepo.LockByID(tx, line.ProductID)
			if err != nil {
				return apperr.Wrap(apperr.KindPersistence, err, "lock product")
			}

			stock := product.StockQty

			// Bulk break: cover the shortfall from the parent, rounding up
			// to whole parent units. The parent may go negative; excess
			// child stock beyond the sale's need simply remains.
			if stock < line.Quantity && parent != nil && resolved.CanBulkBreak() {
				factor := *resolved.ConversionFactor
				shortfall := line.Quantity - stock
				units := math.Ceil(shortfall / factor)

				if err := s.productRepo.UpdateStock(tx, parent.ID, parent.StockQty-units); err != nil {
					return apperr.Wrap(apperr.KindPersistence, err, "decrement parent stock")
				}
				if err := s.eventRepo.Append(tx, parent.ID, -units, model.ReasonBulkBreakSource); err != nil {
					return apperr.Wrap(apperr.KindPersistence, err, "append break-source event")
				}

				stock += units * factor
				if err := s.productRepo.UpdateStock(tx, product.ID, stock); err != nil {
					return apperr.Wrap(apperr.KindPersistence, err, "increment child stock")
				}
				if err := s.eventRepo.Append(tx, product.ID, units*factor, model.ReasonBulkBreakDest); err != nil {
					return apperr.Wrap(apperr.KindPersistence, err, "append break-dest event")
				}
			}

			stock -= line.Quantity
			if err := s.productRepo.UpdateStock(tx, product.ID, stock); err != nil {
				return apperr.Wrap(apperr.KindPersistence, err, "decrement stock")
			}
			if err := s.eventRepo.Append(tx, product.ID, -line.Quantity, model.ReasonSale); err != nil {
				return apperr.Wrap(apperr.KindPersistence, err, "append sale event")
			}

			total = total.Add(line.UnitPrice.Mul(decimal.NewFromFloat(line.Quantity)))
			items = append(items, model.SaleItem{
				ProductID:   product.ID,
				Quantity:    line.Quantity,
				PriceAtSale: line.UnitPrice,
			})
		}

		sale = &model.Sale{
			Total:         total,
			PaymentMethod: method,
			Items:         items,
		}
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return apperr.Wrap(apperr.KindPersistence, err, "create sale")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *saleService) GetSale(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "sale %s not found", id)
		}
		return nil, apperr.Wrap(apperr.KindPersistence, err, "load sale")
	}
	return sale, nil
}

func (s *saleService) GetAllSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func validateSaleInput(lines []SaleLine, method model.PaymentMethod) error {
	if len(lines) == 0 {
		return apperr.New(apperr.KindInvalidInput, "sale must contain at least one line")
	}
	if method != model.PaymentCash && method != model.PaymentMobileMoney {
		return apperr.Newf(apperr.KindInvalidInput, "unknown payment method %q", method)
	}
	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			return apperr.Newf(apperr.KindInvalidInput, "line %d: product id is required", i)
		}
		if math.IsNaN(line.Quantity) || math.IsInf(line.Quantity, 0) || line.Quantity <= 0 {
			return apperr.Newf(apperr.KindInvalidInput, "line %d: quantity must be a positive finite number", i)
		}
		if line.UnitPrice.IsNegative() {
			return apperr.Newf(apperr.KindInvalidInput, "line %d: unit price must not be negative", i)
		}
	}
	return nil
}

// isRetryableConflict matches Postgres serialization_failure (40001) and
// deadlock_detected (40P01).
func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
