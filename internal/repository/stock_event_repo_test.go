package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go-pos-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.StockEvent{}))
	return db
}

func TestStockEventRepo_AppendAndSum(t *testing.T) {
	db := newRepoTestDB(t)
	products := NewProductRepo(db)
	events := NewStockEventRepo(db)

	p := &model.Product{Name: "Maize 1kg", UnitPrice: decimal.RequireFromString("2500")}
	require.NoError(t, products.Create(p))

	require.NoError(t, events.Append(db, p.ID, 100, model.ReasonRestock))
	require.NoError(t, events.Append(db, p.ID, -60, model.ReasonSale))
	require.NoError(t, events.Append(db, p.ID, 50, model.ReasonBulkBreakDest))

	sum, err := events.SumDeltas(p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 90, sum, 1e-9)

	list, err := events.FindByProduct(p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, e := range list {
		assert.Equal(t, p.ID, e.ProductID)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestStockEventRepo_Reconciliation(t *testing.T) {
	db := newRepoTestDB(t)
	products := NewProductRepo(db)
	events := NewStockEventRepo(db)

	a := &model.Product{Name: "A", StockQty: 40, UnitPrice: decimal.Zero}
	b := &model.Product{Name: "B", StockQty: 10, UnitPrice: decimal.Zero}
	require.NoError(t, products.Create(a))
	require.NoError(t, products.Create(b))

	// a's ledger matches its stock, b's is missing an event
	require.NoError(t, events.Append(db, a.ID, 100, model.ReasonRestock))
	require.NoError(t, events.Append(db, a.ID, -60, model.ReasonSale))

	rows, err := events.Reconciliation()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]ReconciliationRow{}
	for _, row := range rows {
		byName[row.Name] = row
	}
	assert.InDelta(t, 40, byName["A"].LedgerSum, 1e-9)
	assert.InDelta(t, 40, byName["A"].StockQty, 1e-9)
	assert.InDelta(t, 0, byName["B"].LedgerSum, 1e-9)
	assert.InDelta(t, 10, byName["B"].StockQty, 1e-9)
}

func TestStockEventRepo_DailyMovement(t *testing.T) {
	db := newRepoTestDB(t)
	products := NewProductRepo(db)
	events := NewStockEventRepo(db)

	p := &model.Product{Name: "C", UnitPrice: decimal.Zero}
	require.NoError(t, products.Create(p))

	require.NoError(t, events.Append(db, p.ID, 30, model.ReasonRestock))
	require.NoError(t, events.Append(db, p.ID, -12, model.ReasonSale))

	now := time.Now()
	movement, err := events.DailyMovement(now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, movement, 1)
	assert.InDelta(t, 30, movement[0].Inbound, 1e-9)
	assert.InDelta(t, 12, movement[0].Outbound, 1e-9)
}
