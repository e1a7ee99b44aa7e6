package service

import (
	"math"
	"testing"

	"go-pos-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiveStock_AppliesEntryWithRestockEvent(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, "Milk 500ml", 5, "2800")

	results, err := env.stockSvc.ReceiveStock([]ReceiveEntry{
		{ProductID: p.ID, Quantity: 24},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Applied)

	assert.InDelta(t, 29, env.stockOf(t, p.ID), 1e-9)

	events := env.eventsFor(t, p.ID)
	require.Len(t, events, 1)
	assert.Equal(t, model.ReasonRestock, events[0].Reason)
	assert.InDelta(t, 24, events[0].Delta, 1e-9)
}

// Non-positive and non-finite quantities are skipped per entry, never failed
// as a batch.
func TestReceiveStock_SkipsInvalidEntries(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, "Eggs Tray", 10, "12000")

	results, err := env.stockSvc.ReceiveStock([]ReceiveEntry{
		{ProductID: p.ID, Quantity: 0},
		{ProductID: p.ID, Quantity: -5},
		{ProductID: p.ID, Quantity: math.NaN()},
		{ProductID: p.ID, Quantity: math.Inf(1)},
		{ProductID: p.ID, Quantity: 6},
	})
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i := 0; i < 4; i++ {
		assert.False(t, results[i].Applied, "entry %d should be skipped", i)
	}
	assert.True(t, results[4].Applied)

	assert.InDelta(t, 16, env.stockOf(t, p.ID), 1e-9)
	require.Len(t, env.eventsFor(t, p.ID), 1)
}

// An unknown product fails only its own entry; siblings still apply.
func TestReceiveStock_UnknownProductFailsEntryOnly(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, "Candles", 2, "1000")

	results, err := env.stockSvc.ReceiveStock([]ReceiveEntry{
		{ProductID: uuid.New(), Quantity: 10},
		{ProductID: p.ID, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Applied)
	assert.NotEmpty(t, results[0].Reason)
	assert.True(t, results[1].Applied)

	assert.InDelta(t, 5, env.stockOf(t, p.ID), 1e-9)
}

func TestGetLedger_FiltersByProduct(t *testing.T) {
	env := newTestEnv(t)
	a := env.createProduct(t, "Pencil", 0, "300")
	b := env.createProduct(t, "Pen", 0, "700")

	_, err := env.stockSvc.ReceiveStock([]ReceiveEntry{
		{ProductID: a.ID, Quantity: 50},
		{ProductID: b.ID, Quantity: 20},
	})
	require.NoError(t, err)

	onlyA, err := env.stockSvc.GetLedger(&a.ID, 0)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, a.ID, onlyA[0].ProductID)

	all, err := env.stockSvc.GetLedger(nil, 100)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
