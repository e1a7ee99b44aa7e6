package service

import (
	"errors"
	"log"
	"math"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"
	"go-pos-ledger/internal/ws"
	"go-pos-ledger/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReceiveEntry is one inbound stock line.
type ReceiveEntry struct {
	ProductID uuid.UUID
	Quantity  float64
}

// ReceiveResult reports what happened to one entry of a receive batch.
type ReceiveResult struct {
	ProductID uuid.UUID `json:"product_id"`
	Applied   bool      `json:"applied"`
	Reason    string    `json:"reason,omitempty"`
}

type StockService interface {
	ReceiveStock(entries []ReceiveEntry) ([]ReceiveResult, error)
	GetLedger(productID *uuid.UUID, limit int) ([]model.StockEvent, error)
}

type stockService struct {
	productRepo repository.ProductRepository
	eventRepo   repository.StockEventRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewStockService(pRepo repository.ProductRepository, eRepo repository.StockEventRepository, db *gorm.DB, hub *ws.Hub) StockService {
	return &stockService{
		productRepo: pRepo,
		eventRepo:   eRepo,
		db:          db,
		wsHub:       hub,
	}
}

// ReceiveStock applies each valid entry as its own transaction: increment
// stock, append a RESTOCK event. Entries with a non-positive or non-finite
// quantity are skipped, not failed as a batch; a failed entry never affects
// its siblings.
func (s *stockService) ReceiveStock(entries []ReceiveEntry) ([]ReceiveResult, error) {
	results := make([]ReceiveResult, 0, len(entries))

	for _, entry := range entries {
		if math.IsNaN(entry.Quantity) || math.IsInf(entry.Quantity, 0) || entry.Quantity <= 0 {
			log.Printf("receive: skipping product %s, quantity %v is not a positive finite number", entry.ProductID, entry.Quantity)
			results = append(results, ReceiveResult{ProductID: entry.ProductID, Applied: false, Reason: "quantity must be a positive finite number"})
			continue
		}

		if err := s.applyEntry(entry); err != nil {
			results = append(results, ReceiveResult{ProductID: entry.ProductID, Applied: false, Reason: err.Error()})
			continue
		}
		results = append(results, ReceiveResult{ProductID: entry.ProductID, Applied: true})

		qty := entry.Quantity
		productID := entry.ProductID
		go s.wsHub.BroadcastJSON(map[string]interface{}{
			"type":   "stock_update",
			"action": "stock_received",
			"entry": map[string]interface{}{
				"product_id": productID,
				"quantity":   qty,
			},
		})
	}

	return results, nil
}

func (s *stockService) applyEntry(entry ReceiveEntry) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(tx, entry.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Newf(apperr.KindNotFound, "product %s not found", entry.ProductID)
			}
			return apperr.Wrap(apperr.KindPersistence, err, "lock product")
		}

		if err := s.productRepo.UpdateStock(tx, product.ID, product.StockQty+entry.Quantity); err != nil {
			return apperr.Wrap(apperr.KindPersistence, err, "increment stock")
		}
		if err := s.eventRepo.Append(tx, product.ID, entry.Quantity, model.ReasonRestock); err != nil {
			return apperr.Wrap(apperr.KindPersistence, err, "append restock event")
		}
		return nil
	})
}

func (s *stockService) GetLedger(productID *uuid.UUID, limit int) ([]model.StockEvent, error) {
	if productID != nil {
		return s.eventRepo.FindByProduct(*productID)
	}
	return s.eventRepo.FindAll(limit)
}
