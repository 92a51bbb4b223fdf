/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
  The computed statement/summary shapes come from the report package and
  are not redefined here.

SEE ALSO:
  - handlers.go: Uses these types
  - report/formatter.go: LedgerResponse / SummaryResponse
*/
package api

import (
	"net/http"
	"time"

	"github.com/farmkhata/ledger-engine/ledger"
	"github.com/farmkhata/ledger-engine/report"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CustomerDTO represents a customer in API responses.
type CustomerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Village   string `json:"village,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateCustomerRequest is the request to create a customer.
type CreateCustomerRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Village string `json:"village,omitempty"`
}

// SaleItemRequest is one invoice line in a sale.
type SaleItemRequest struct {
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
	Amount   float64 `json:"amount"`
}

// CreateSaleRequest is the request to record a sale.
type CreateSaleRequest struct {
	ID     string            `json:"id"`
	Date   string            `json:"date"` // YYYY-MM-DD
	Amount float64           `json:"amount"`
	Mode   string            `json:"mode,omitempty"`
	Items  []SaleItemRequest `json:"items,omitempty"`
}

// CreateTransactionRequest is the request to record a payment.
type CreateTransactionRequest struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"` // YYYY-MM-DD
	Amount float64 `json:"amount"`
	Mode   string  `json:"mode,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

// StatementResponse bundles the ledger and summary for one request.
type StatementResponse struct {
	Ledger  report.LedgerResponse  `json:"ledger"`
	Summary report.SummaryResponse `json:"summary"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// WINDOW QUERY PARSING
// =============================================================================

// parseWindow resolves the window query parameters:
//
//	preset = weekly|monthly|quarterly|yearly|custom|all_time (default monthly)
//	start  = YYYY-MM-DD (custom preset)
//	end    = YYYY-MM-DD (custom preset; optional upper bound for all_time)
func parseWindow(r *http.Request) (ledger.Window, error) {
	q := r.URL.Query()

	preset := ledger.Preset(q.Get("preset"))
	if preset == "" {
		preset = ledger.PresetMonthly
	}

	start, err := parseDateParam(q.Get("start"))
	if err != nil {
		return ledger.Window{}, err
	}
	end, err := parseDateParam(q.Get("end"))
	if err != nil {
		return ledger.Window{}, err
	}

	return ledger.ResolveWindow(preset, ledger.Now(), start, end)
}

func parseDateParam(s string) (*ledger.TimePoint, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	tp := ledger.At(t)
	return &tp, nil
}
