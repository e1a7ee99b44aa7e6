package service

import (
	"fmt"
	"strings"
	"testing"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"
	"go-pos-ledger/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	products repository.ProductRepository
	events   repository.StockEventRepository
	sales    repository.SaleRepository

	saleSvc   SaleService
	stockSvc  StockService
	reportSvc ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// A named shared-cache DB so every connection in GORM's pool sees the
	// same in-memory database, unique per test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.StockEvent{}, &model.Sale{}, &model.SaleItem{}, &model.User{}))

	hub := ws.NewHub()
	go hub.Run()

	products := repository.NewProductRepo(db)
	events := repository.NewStockEventRepo(db)
	sales := repository.NewSaleRepo(db)

	return &testEnv{
		db:        db,
		products:  products,
		events:    events,
		sales:     sales,
		saleSvc:   NewSaleService(products, events, sales, db, hub),
		stockSvc:  NewStockService(products, events, db, hub),
		reportSvc: NewReportService(events),
	}
}

func (e *testEnv) createProduct(t *testing.T, name string, stock float64, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:      name,
		StockQty:  stock,
		UnitPrice: decimal.RequireFromString(price),
	}
	require.NoError(t, e.products.Create(p))
	return p
}

func (e *testEnv) createChildProduct(t *testing.T, name string, stock float64, price string, parent *model.Product, factor float64) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:             name,
		StockQty:         stock,
		UnitPrice:        decimal.RequireFromString(price),
		ConversionFactor: &factor,
		ParentProductID:  &parent.ID,
	}
	require.NoError(t, e.products.Create(p))
	return p
}

func (e *testEnv) stockOf(t *testing.T, id uuid.UUID) float64 {
	t.Helper()
	p, err := e.products.FindByID(id)
	require.NoError(t, err)
	return p.StockQty
}

func (e *testEnv) eventsFor(t *testing.T, id uuid.UUID) []model.StockEvent {
	t.Helper()
	events, err := e.events.FindByProduct(id)
	require.NoError(t, err)
	return events
}

func eventsByReason(events []model.StockEvent, reason model.StockReason) []model.StockEvent {
	var out []model.StockEvent
	for _, e := range events {
		if e.Reason == reason {
			out = append(out, e)
		}
	}
	return out
}
