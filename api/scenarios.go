/*
scenarios.go - Demo data loaders

PURPOSE:
  Seeds the store with realistic sample books so the read-side endpoints
  have something to show without manual data entry. Each scenario is a
  small, self-contained farm ledger.

SCENARIOS:
  dairy-route:  A milk-route customer with daily sales and periodic UPI
                payments, including one payment with no recorded mode
  mixed-farm:   A customer buying milk, eggs and feed with mixed payment
                modes, plus one historical row with a missing amount to
                exercise skip accounting

SEE ALSO:
  - handlers.go: Other endpoints
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmkhata/ledger-engine/ledger"
	"github.com/farmkhata/ledger-engine/store/sqlite"
)

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ID string `json:"id"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "dairy-route",
		Name:        "Dairy route customer",
		Description: "Daily milk sales with periodic UPI payments",
	},
	{
		ID:          "mixed-farm",
		Name:        "Mixed farm customer",
		Description: "Milk, eggs and feed with mixed payment modes and one corrupt row",
	},
}

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario seeds the store with the selected scenario's data.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var err error
	switch req.ID {
	case "dairy-route":
		err = loadDairyRoute(r.Context(), h.Store)
	case "mixed-farm":
		err = loadMixedFarm(r.Context(), h.Store)
	default:
		writeError(w, http.StatusNotFound, "Unknown scenario", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ID})
}

// =============================================================================
// SCENARIO DATA
// =============================================================================

func loadDairyRoute(ctx context.Context, store *sqlite.Store) error {
	const entity = "cust-ramesh"
	if err := store.SaveCustomer(ctx, sqlite.Customer{
		ID: entity, Name: "Ramesh Patel", Phone: "98765-43210", Village: "Anand",
	}); err != nil {
		return err
	}

	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 30; day++ {
		date := start.AddDate(0, 0, day)
		sale := ledger.SaleRecord{
			ID:       fmt.Sprintf("sale-dr-%02d", day+1),
			EntityID: entity,
			Date:     ledger.At(date),
			Amount:   decimal.NewNullDecimal(decimal.NewFromInt(120)),
			Items: []ledger.LineItem{
				{Category: "milk", Quantity: decimal.NewFromInt(2), Unit: "litre", Amount: decimal.NewFromInt(120)},
			},
		}
		if err := store.InsertSale(ctx, sale); err != nil {
			return err
		}
	}

	payments := []ledger.TransactionRecord{
		{ID: "pay-dr-1", EntityID: entity, Date: ledger.At(start.AddDate(0, 0, 9)),
			Amount: decimal.NewNullDecimal(decimal.NewFromInt(1000)), Mode: ledger.ModeUPI, Notes: "Weekly settlement"},
		{ID: "pay-dr-2", EntityID: entity, Date: ledger.At(start.AddDate(0, 0, 19)),
			Amount: decimal.NewNullDecimal(decimal.NewFromInt(1200)), Mode: ledger.ModeUPI},
		// No mode recorded; lands in the "unspecified" bucket.
		{ID: "pay-dr-3", EntityID: entity, Date: ledger.At(start.AddDate(0, 0, 27)),
			Amount: decimal.NewNullDecimal(decimal.NewFromInt(800))},
	}
	for _, p := range payments {
		if err := store.InsertTransaction(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func loadMixedFarm(ctx context.Context, store *sqlite.Store) error {
	const entity = "cust-lakshmi"
	if err := store.SaveCustomer(ctx, sqlite.Customer{
		ID: entity, Name: "Lakshmi Devi", Village: "Hosur",
	}); err != nil {
		return err
	}

	sales := []ledger.SaleRecord{
		{ID: "sale-mf-1", EntityID: entity, Date: ledger.Date(2025, time.May, 3),
			Amount: decimal.NewNullDecimal(decimal.NewFromInt(450)),
			Items: []ledger.LineItem{
				{Category: "milk", Quantity: decimal.NewFromInt(5), Unit: "litre", Amount: decimal.NewFromInt(300)},
				{Category: "eggs", Quantity: decimal.NewFromInt(30), Unit: "piece", Amount: decimal.NewFromInt(150)},
			}},
		{ID: "sale-mf-2", EntityID: entity, Date: ledger.Date(2025, time.May, 17),
			Amount: decimal.NewNullDecimal(decimal.NewFromInt(2000)),
			Items: []ledger.LineItem{
				{Category: "feed", Quantity: decimal.NewFromInt(2), Unit: "bag", Amount: decimal.NewFromInt(2000)},
			}},
		// Corrupt historical row: no amount. Skipped and counted, never fatal.
		{ID: "sale-mf-3", EntityID: entity, Date: ledger.Date(2025, time.May, 20)},
	}
	for _, s := range sales {
		if err := store.InsertSale(ctx, s); err != nil {
			return err
		}
	}

	payments := []ledger.TransactionRecord{
		{ID: "pay-mf-1", EntityID: entity, Date: ledger.Date(2025, time.May, 10),
			Amount: decimal.NewNullDecimal(decimal.NewFromInt(450)), Mode: ledger.ModeCash, Notes: "Cleared milk dues"},
		{ID: "pay-mf-2", EntityID: entity, Date: ledger.Date(2025, time.May, 25),
			Amount: decimal.NewNullDecimal(decimal.NewFromInt(1500)), Mode: ledger.ModeBankTransfer},
	}
	for _, p := range payments {
		if err := store.InsertTransaction(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
