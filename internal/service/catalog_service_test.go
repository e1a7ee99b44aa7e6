package service

import (
	"testing"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/ws"
	"go-pos-ledger/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogSvc(env *testEnv) CatalogService {
	hub := ws.NewHub()
	go hub.Run()
	return NewCatalogService(env.products, hub)
}

func TestCreateProduct_RejectsDuplicateBarcode(t *testing.T) {
	env := newTestEnv(t)
	svc := newCatalogSvc(env)

	barcode := "6291041500213"
	first := &model.Product{Name: "Biscuits", Barcode: &barcode, UnitPrice: decimal.RequireFromString("2000")}
	require.NoError(t, svc.CreateProduct(first))

	dup := &model.Product{Name: "Other Biscuits", Barcode: &barcode, UnitPrice: decimal.RequireFromString("2500")}
	err := svc.CreateProduct(dup)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestCreateProduct_BulkFieldsMustComeAsPair(t *testing.T) {
	env := newTestEnv(t)
	svc := newCatalogSvc(env)
	parent := env.createProduct(t, "Crate", 0, "10000")

	factor := 12.0
	cases := []struct {
		name string
		p    *model.Product
		kind apperr.Kind
	}{
		{
			"factor without parent",
			&model.Product{Name: "A", ConversionFactor: &factor},
			apperr.KindInvalidInput,
		},
		{
			"parent without factor",
			&model.Product{Name: "B", ParentProductID: &parent.ID},
			apperr.KindInvalidInput,
		},
		{
			"unknown parent",
			&model.Product{Name: "C", ConversionFactor: &factor, ParentProductID: ptrUUID(uuid.New())},
			apperr.KindNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.CreateProduct(tc.p)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}

	zero := 0.0
	err := svc.CreateProduct(&model.Product{Name: "D", ConversionFactor: &zero, ParentProductID: &parent.ID})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestCreateProduct_RejectsGrandparentNesting(t *testing.T) {
	env := newTestEnv(t)
	svc := newCatalogSvc(env)

	grandparent := env.createProduct(t, "Pallet", 0, "500000")
	parent := env.createChildProduct(t, "Crate", 0, "30000", grandparent, 10)

	factor := 12.0
	err := svc.CreateProduct(&model.Product{
		Name:             "Bottle",
		ConversionFactor: &factor,
		ParentProductID:  &parent.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

// Catalog updates change metadata only; stock stays untouched no matter what
// the request carries.
func TestUpdateProduct_NeverWritesStock(t *testing.T) {
	env := newTestEnv(t)
	svc := newCatalogSvc(env)
	p := env.createProduct(t, "Notebook", 40, "3000")

	updated, err := svc.UpdateProduct(p.ID, &model.Product{
		Name:      "Notebook A5",
		UnitPrice: decimal.RequireFromString("3200"),
		StockQty:  9999,
	})
	require.NoError(t, err)

	assert.Equal(t, "Notebook A5", updated.Name)
	assert.InDelta(t, 40, env.stockOf(t, p.ID), 1e-9)
	assert.Empty(t, env.eventsFor(t, p.ID))
}

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }
