/*
handlers.go - HTTP API handlers for the farm ledger engine

PURPOSE:
  Exposes the reconciliation engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates every computation to the ledger package.
  No balance arithmetic lives here.

ENDPOINTS:
  Customers:
    GET    /api/customers                    List all customers
    POST   /api/customers                    Create customer
    GET    /api/customers/{id}               Get customer details
    POST   /api/customers/{id}/sales         Record a sale
    POST   /api/customers/{id}/transactions  Record a payment

  Read side (the reason this service exists):
    GET    /api/customers/{id}/ledger        Chronological statement
    GET    /api/customers/{id}/summary       Period summary
    GET    /api/customers/{id}/statement     Both, computed concurrently

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid window, malformed dates or body
  - 404: Customer not found
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo data loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/farmkhata/ledger-engine/ledger"
	"github.com/farmkhata/ledger-engine/report"
	"github.com/farmkhata/ledger-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Engine     *ledger.Engine
	Aggregator *ledger.Aggregator
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:      store,
		Engine:     ledger.NewEngine(store),
		Aggregator: ledger.NewAggregator(store),
	}
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns all customers.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Store.ListCustomers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list customers", err)
		return
	}

	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = toCustomerDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCustomer creates a customer record.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	customer := sqlite.Customer{
		ID:      req.ID,
		Name:    req.Name,
		Phone:   req.Phone,
		Village: req.Village,
	}
	if err := h.Store.SaveCustomer(r.Context(), customer); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerDTO(customer))
}

// GetCustomer returns one customer.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	customer, err := h.Store.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get customer", err)
		return
	}
	if customer == nil {
		writeError(w, http.StatusNotFound, "Customer not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDTO(*customer))
}

// =============================================================================
// RECORD CAPTURE HANDLERS
// =============================================================================

// CreateSale records a sale (invoice) against a customer.
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	entityID := ledger.EntityID(chi.URLParam(r, "id"))

	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	items := make([]ledger.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = ledger.LineItem{
			Category: item.Category,
			Quantity: decimal.NewFromFloat(item.Quantity),
			Unit:     item.Unit,
			Amount:   decimal.NewFromFloat(item.Amount),
		}
	}

	record := ledger.SaleRecord{
		ID:       req.ID,
		EntityID: entityID,
		Date:     ledger.At(date),
		Amount:   decimal.NewNullDecimal(decimal.NewFromFloat(req.Amount)),
		Items:    items,
		Mode:     ledger.PaymentMode(req.Mode),
	}
	if err := h.Store.InsertSale(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record sale", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

// CreateTransaction records a payment against a customer.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	entityID := ledger.EntityID(chi.URLParam(r, "id"))

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	record := ledger.TransactionRecord{
		ID:       req.ID,
		EntityID: entityID,
		Date:     ledger.At(date),
		Amount:   decimal.NewNullDecimal(decimal.NewFromFloat(req.Amount)),
		Mode:     ledger.PaymentMode(req.Mode),
		Notes:    req.Notes,
	}
	if err := h.Store.InsertTransaction(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

// =============================================================================
// READ-SIDE HANDLERS
// =============================================================================

// GetLedger returns the chronological statement for a customer and window.
// GET /api/customers/{id}/ledger?preset=monthly
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	entityID := ledger.EntityID(chi.URLParam(r, "id"))

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid window", err)
		return
	}

	result, err := h.Engine.ComputeLedger(r.Context(), entityID, window)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.FormatLedger(result))
}

// GetSummary returns the period summary for a customer and window.
// GET /api/customers/{id}/summary?preset=monthly
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	entityID := ledger.EntityID(chi.URLParam(r, "id"))

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid window", err)
		return
	}

	summary, err := h.Aggregator.ComputeSummary(r.Context(), entityID, window)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.FormatSummary(summary))
}

// GetStatement returns ledger and summary together. The two computations
// share no mutable state, so they run concurrently and join before
// formatting.
// GET /api/customers/{id}/statement?preset=monthly
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	entityID := ledger.EntityID(chi.URLParam(r, "id"))

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid window", err)
		return
	}

	var (
		wg         sync.WaitGroup
		result     ledger.Result
		summary    ledger.PeriodSummary
		ledgerErr  error
		summaryErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		result, ledgerErr = h.Engine.ComputeLedger(r.Context(), entityID, window)
	}()
	go func() {
		defer wg.Done()
		summary, summaryErr = h.Aggregator.ComputeSummary(r.Context(), entityID, window)
	}()
	wg.Wait()

	if ledgerErr != nil {
		writeComputeError(w, ledgerErr)
		return
	}
	if summaryErr != nil {
		writeComputeError(w, summaryErr)
		return
	}

	writeJSON(w, http.StatusOK, StatementResponse{
		Ledger:  report.FormatLedger(result),
		Summary: report.FormatSummary(summary),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func toCustomerDTO(c sqlite.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Village: c.Village,
	}
	if !c.CreatedAt.IsZero() {
		dto.CreatedAt = c.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// writeComputeError maps engine errors onto HTTP statuses.
func writeComputeError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Customer not found", err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid window", err)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to compute statement", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
