package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmkhata/ledger-engine/api"
	"github.com/farmkhata/ledger-engine/report"
	"github.com/farmkhata/ledger-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(store)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) *http.Response {
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	resp.Body.Close()
	return resp
}

// createCustomer seeds a customer and fails the test on any non-201.
func createCustomer(t *testing.T, srv *httptest.Server, id, name string) {
	resp := postJSON(t, srv, "/api/customers", api.CreateCustomerRequest{ID: id, Name: name})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func recordSale(t *testing.T, srv *httptest.Server, customerID string, req api.CreateSaleRequest) {
	resp := postJSON(t, srv, fmt.Sprintf("/api/customers/%s/sales", customerID), req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func recordPayment(t *testing.T, srv *httptest.Server, customerID string, req api.CreateTransactionRequest) {
	resp := postJSON(t, srv, fmt.Sprintf("/api/customers/%s/transactions", customerID), req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// =============================================================================
// CUSTOMER ENDPOINTS
// =============================================================================

func TestAPI_CustomerLifecycle(t *testing.T) {
	srv := newTestServer(t)

	createCustomer(t, srv, "cust-1", "Ramesh Patel")

	var got api.CustomerDTO
	resp := getJSON(t, srv, "/api/customers/cust-1", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ramesh Patel", got.Name)

	var list []api.CustomerDTO
	resp = getJSON(t, srv, "/api/customers", &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 1)

	resp = getJSON(t, srv, "/api/customers/cust-ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_CreateCustomer_RejectsMissingFields(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/api/customers", api.CreateCustomerRequest{ID: "cust-1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// LEDGER / SUMMARY / STATEMENT
// =============================================================================

func TestAPI_Ledger_RunningBalance(t *testing.T) {
	srv := newTestServer(t)
	createCustomer(t, srv, "cust-1", "Lakshmi Devi")

	recordSale(t, srv, "cust-1", api.CreateSaleRequest{
		ID: "s-1", Date: "2025-03-05", Amount: 500, Mode: "cash",
		Items: []api.SaleItemRequest{{Category: "milk", Quantity: 5, Unit: "litre", Amount: 500}},
	})
	recordPayment(t, srv, "cust-1", api.CreateTransactionRequest{
		ID: "p-1", Date: "2025-03-10", Amount: 300, Mode: "upi",
	})

	var ledgerResp report.LedgerResponse
	resp := getJSON(t, srv, "/api/customers/cust-1/ledger?preset=custom&start=2025-03-01&end=2025-03-31", &ledgerResp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 0.0, ledgerResp.OpeningBalance)
	assert.Equal(t, 200.0, ledgerResp.ClosingBalance)
	require.Len(t, ledgerResp.Entries, 2)
	assert.Equal(t, "DR", ledgerResp.Entries[0].Indicator)
	assert.Equal(t, 500.0, ledgerResp.Entries[0].BalanceAfterEntry)
	assert.Equal(t, "CR", ledgerResp.Entries[1].Indicator)
	assert.Equal(t, 200.0, ledgerResp.Entries[1].BalanceAfterEntry)
}

func TestAPI_Summary_BucketsByModeAndCategory(t *testing.T) {
	srv := newTestServer(t)
	createCustomer(t, srv, "cust-1", "Lakshmi Devi")

	recordSale(t, srv, "cust-1", api.CreateSaleRequest{
		ID: "s-1", Date: "2025-03-05", Amount: 450,
		Items: []api.SaleItemRequest{
			{Category: "milk", Quantity: 5, Amount: 300},
			{Category: "hen", Quantity: 2, Amount: 150},
		},
	})
	recordPayment(t, srv, "cust-1", api.CreateTransactionRequest{ID: "p-1", Date: "2025-03-10", Amount: 100, Mode: "cash"})
	recordPayment(t, srv, "cust-1", api.CreateTransactionRequest{ID: "p-2", Date: "2025-03-12", Amount: 50})

	var summary report.SummaryResponse
	resp := getJSON(t, srv, "/api/customers/cust-1/summary?preset=custom&start=2025-03-01&end=2025-03-31", &summary)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 2, summary.Transactions.TotalTransactions)
	assert.Equal(t, 150.0, summary.Transactions.TotalAmount)
	assert.Equal(t, 100.0, summary.Transactions.ByMode["cash"])
	assert.Equal(t, 50.0, summary.Transactions.ByMode["unspecified"])

	assert.Equal(t, 1, summary.Sales.TotalCount)
	assert.Equal(t, 450.0, summary.Sales.TotalAmount)
	// "hen" maps into the poultry bucket.
	assert.Equal(t, 300.0, summary.Categories["milk"].Amount)
	assert.Equal(t, 150.0, summary.Categories["poultry"].Amount)
}

func TestAPI_Statement_CombinesBothViews(t *testing.T) {
	srv := newTestServer(t)
	createCustomer(t, srv, "cust-1", "Ramesh Patel")

	recordSale(t, srv, "cust-1", api.CreateSaleRequest{ID: "s-1", Date: "2025-03-05", Amount: 1000})
	recordPayment(t, srv, "cust-1", api.CreateTransactionRequest{ID: "p-1", Date: "2025-03-10", Amount: 400, Mode: "cash"})

	var stmt api.StatementResponse
	resp := getJSON(t, srv, "/api/customers/cust-1/statement?preset=custom&start=2025-03-01&end=2025-03-31", &stmt)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Both halves describe the same period and must agree.
	assert.Equal(t, stmt.Ledger.ClosingBalance, stmt.Summary.Balances.Current)
	assert.Equal(t, 600.0, stmt.Ledger.ClosingBalance)
	assert.Equal(t, 600.0, stmt.Summary.Balances.Net)
}

// =============================================================================
// ERROR PATHS
// =============================================================================

func TestAPI_Ledger_UnknownCustomer(t *testing.T) {
	srv := newTestServer(t)

	resp := getJSON(t, srv, "/api/customers/cust-ghost/ledger", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Ledger_InvalidWindow(t *testing.T) {
	srv := newTestServer(t)
	createCustomer(t, srv, "cust-1", "Ramesh Patel")

	// Custom preset without boundaries.
	resp := getJSON(t, srv, "/api/customers/cust-1/ledger?preset=custom", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Reversed range.
	resp = getJSON(t, srv, "/api/customers/cust-1/ledger?preset=custom&start=2025-03-31&end=2025-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown preset.
	resp = getJSON(t, srv, "/api/customers/cust-1/ledger?preset=fortnightly", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CreateSale_RejectsBadDate(t *testing.T) {
	srv := newTestServer(t)
	createCustomer(t, srv, "cust-1", "Ramesh Patel")

	resp := postJSON(t, srv, "/api/customers/cust-1/sales", api.CreateSaleRequest{
		ID: "s-1", Date: "05/03/2025", Amount: 100,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestAPI_Scenarios_LoadAndQuery(t *testing.T) {
	srv := newTestServer(t)

	var list []api.ScenarioDTO
	resp := getJSON(t, srv, "/api/scenarios", &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, list)

	loadResp := postJSON(t, srv, "/api/scenarios/load", api.LoadScenarioRequest{ID: list[0].ID})
	defer loadResp.Body.Close()
	require.Equal(t, http.StatusOK, loadResp.StatusCode)

	var customers []api.CustomerDTO
	resp = getJSON(t, srv, "/api/customers", &customers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, customers)
}
