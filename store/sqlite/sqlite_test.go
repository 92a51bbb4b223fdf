package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmkhata/ledger-engine/ledger"
	"github.com/farmkhata/ledger-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func storedSale(entity, id string, date ledger.TimePoint, amount int64, items ...ledger.LineItem) ledger.SaleRecord {
	return ledger.SaleRecord{
		ID:       id,
		EntityID: ledger.EntityID(entity),
		Date:     date,
		Amount:   decimal.NewNullDecimal(decimal.NewFromInt(amount)),
		Items:    items,
	}
}

// =============================================================================
// CUSTOMER CRUD
// =============================================================================

func TestStore_Customers_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCustomer(ctx, sqlite.Customer{
		ID: "cust-1", Name: "Ramesh Patel", Phone: "98765", Village: "Anand",
	}))

	got, err := store.GetCustomer(ctx, "cust-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ramesh Patel", got.Name)
	assert.Equal(t, "Anand", got.Village)
	assert.False(t, got.CreatedAt.IsZero())

	missing, err := store.GetCustomer(ctx, "cust-ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)

	exists, err := store.EntityExists(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.EntityExists(ctx, "cust-ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

// =============================================================================
// RECORD ROUND TRIPS
// =============================================================================

func TestStore_SaleWithItems_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sale := storedSale("cust-1", "s-1", ledger.Date(2025, time.March, 5), 450,
		ledger.LineItem{Category: "milk", Quantity: decimal.NewFromInt(5), Unit: "litre", Amount: decimal.NewFromInt(300)},
		ledger.LineItem{Category: "eggs", Quantity: decimal.NewFromInt(30), Unit: "piece", Amount: decimal.NewFromInt(150)},
	)
	require.NoError(t, store.InsertSale(ctx, sale))

	sales, err := store.SalesUpTo(ctx, "cust-1", ledger.Date(2025, time.December, 31).EndOfDay())
	require.NoError(t, err)
	require.Len(t, sales, 1)

	got := sales[0]
	require.True(t, got.Amount.Valid)
	assert.True(t, got.Amount.Decimal.Equal(decimal.NewFromInt(450)))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "milk", got.Items[0].Category)
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "litre", got.Items[0].Unit)
}

func TestStore_DateUpperBound_Inclusive(t *testing.T) {
	// The completeness contract: every record with date <= end, nothing after.
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertSale(ctx, storedSale("cust-1", "s-on", ledger.Date(2025, time.March, 15), 100)))
	require.NoError(t, store.InsertSale(ctx, storedSale("cust-1", "s-after", ledger.Date(2025, time.March, 16), 200)))

	sales, err := store.SalesUpTo(ctx, "cust-1", ledger.Date(2025, time.March, 15).EndOfDay())
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "s-on", sales[0].ID)
}

func TestStore_MissingAmount_SurfacesAsInvalid(t *testing.T) {
	// A NULL stored amount must come back as an invalid decimal so the
	// engine skips and counts it.
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertTransaction(ctx, ledger.TransactionRecord{
		ID:       "p-broken",
		EntityID: "cust-1",
		Date:     ledger.Date(2025, time.March, 5),
		Mode:     ledger.ModeCash,
	}))

	txs, err := store.TransactionsUpTo(ctx, "cust-1", ledger.Date(2025, time.December, 31))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.False(t, txs[0].Amount.Valid)
}

// =============================================================================
// ENGINE OVER SQLITE
// =============================================================================

func TestEngine_OverSqliteStore(t *testing.T) {
	// GIVEN: A customer with sales and payments persisted in SQLite
	// WHEN: Computing an all-time statement through the store
	// THEN: Balances match the in-memory semantics exactly

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCustomer(ctx, sqlite.Customer{ID: "cust-1", Name: "Lakshmi Devi"}))
	require.NoError(t, store.InsertSale(ctx, storedSale("cust-1", "s-1", ledger.Date(2025, time.January, 10), 1000)))
	require.NoError(t, store.InsertSale(ctx, storedSale("cust-1", "s-2", ledger.Date(2025, time.February, 10), 500)))
	require.NoError(t, store.InsertTransaction(ctx, ledger.TransactionRecord{
		ID:       "p-1",
		EntityID: "cust-1",
		Date:     ledger.Date(2025, time.January, 20),
		Amount:   decimal.NewNullDecimal(decimal.NewFromInt(700)),
		Mode:     ledger.ModeUPI,
	}))

	engine := ledger.NewEngine(store)
	result, err := engine.ComputeLedger(ctx, "cust-1", ledger.Window{End: ledger.Date(2025, time.December, 31).EndOfDay()})
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	assert.True(t, result.OpeningBalance.IsZero())
	assert.True(t, result.ClosingBalance.Equal(decimal.NewFromInt(800)))

	// Unknown customer surfaces as not-found through the store too.
	_, err = engine.ComputeLedger(ctx, "cust-ghost", ledger.Window{End: ledger.Now()})
	assert.True(t, ledger.IsNotFound(err))
}
