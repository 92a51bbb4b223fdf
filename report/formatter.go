/*
Package report shapes engine output into the stable response schema.

PURPOSE:
  Pure mapping from ledger.Result / ledger.PeriodSummary to the
  JSON-serializable shapes consumed by presentation layers (UI, export,
  print). No business logic lives here.

WHY A SEPARATE LAYER:
  The formatter never touches SignedAmount/BalanceAfter arithmetic - it only
  converts precision and renders labels. That makes a formatting bug
  distinguishable from a computation bug by construction: if a number is
  wrong here, the engine already produced it wrong.

PRECISION BOUNDARY:
  This is the single place decimals become display floats. Everything
  upstream accumulates exactly.

SEE ALSO:
  - ledger/engine.go: Produces Result
  - ledger/summary.go: Produces PeriodSummary
*/
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmkhata/ledger-engine/ledger"
)

// =============================================================================
// RESPONSE SCHEMA
// =============================================================================

// LedgerResponse is the externally consumed statement shape.
type LedgerResponse struct {
	EntityID       string        `json:"entityId"`
	WindowStart    *string       `json:"windowStart"` // nil for all-time
	WindowEnd      string        `json:"windowEnd"`
	OpeningBalance float64       `json:"openingBalance"`
	ClosingBalance float64       `json:"closingBalance"`
	Entries        []EntryLine   `json:"entries"`
	SkippedRecords int           `json:"skippedRecords,omitempty"`
}

// EntryLine is one statement row.
type EntryLine struct {
	Date              string  `json:"date"`
	Type              string  `json:"type"` // "Sale" | "Transaction"
	Amount            float64 `json:"amount"`
	Mode              string  `json:"mode,omitempty"`
	ModeLabel         string  `json:"modeLabel,omitempty"`
	Description       string  `json:"description"`
	BalanceAfterEntry float64 `json:"balanceAfterEntry"`
	// Debit/credit marker under the canonical convention:
	// sales are DR (increase receivable), payments are CR.
	Indicator string `json:"indicator"`
}

// SummaryResponse is the externally consumed summary shape.
type SummaryResponse struct {
	Period       PeriodDTO               `json:"period"`
	Balances     BalancesDTO             `json:"balances"`
	Transactions TransactionsDTO         `json:"transactions"`
	Sales        SalesDTO                `json:"sales"`
	Categories   map[string]CategoryDTO  `json:"categories"`
}

type PeriodDTO struct {
	From *string `json:"from"` // nil for all-time
	To   string  `json:"to"`
}

type BalancesDTO struct {
	Opening float64 `json:"opening"`
	Current float64 `json:"current"`
	Net     float64 `json:"net"`
}

type TransactionsDTO struct {
	TotalTransactions int                `json:"totalTransactions"`
	TotalAmount       float64            `json:"totalAmount"`
	ByMode            map[string]float64 `json:"byMode"`
}

type SalesDTO struct {
	TotalCount  int     `json:"totalCount"`
	TotalAmount float64 `json:"totalAmount"`
}

type CategoryDTO struct {
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// =============================================================================
// MODE LABELS
// =============================================================================

var modeLabels = map[ledger.PaymentMode]string{
	ledger.ModeCash:         "Cash",
	ledger.ModeUPI:          "UPI",
	ledger.ModeBankTransfer: "Bank transfer",
	ledger.ModeCheque:       "Cheque",
	ledger.ModeUnspecified:  "Unspecified",
}

// ModeLabel renders a human-readable payment mode.
func ModeLabel(mode ledger.PaymentMode) string {
	if label, ok := modeLabels[mode.OrDefault()]; ok {
		return label
	}
	return string(mode)
}

// =============================================================================
// FORMATTERS
// =============================================================================

// FormatLedger maps a computed statement onto the response schema.
func FormatLedger(result ledger.Result) LedgerResponse {
	entries := make([]EntryLine, len(result.Entries))
	for i, e := range result.Entries {
		entries[i] = formatEntry(e)
	}

	return LedgerResponse{
		EntityID:       string(result.EntityID),
		WindowStart:    formatOptional(result.Window.Start),
		WindowEnd:      formatTime(result.Window.End),
		OpeningBalance: toDisplay(result.OpeningBalance),
		ClosingBalance: toDisplay(result.ClosingBalance),
		Entries:        entries,
		SkippedRecords: result.SkippedCount,
	}
}

func formatEntry(e ledger.Entry) EntryLine {
	indicator := "DR"
	if e.SourceType == ledger.SourceTransaction {
		indicator = "CR"
	}
	return EntryLine{
		Date:              formatTime(e.Date),
		Type:              string(e.SourceType),
		Amount:            toDisplay(e.RawAmount),
		Mode:              string(e.Mode),
		ModeLabel:         ModeLabel(e.Mode),
		Description:       e.Description,
		BalanceAfterEntry: toDisplay(e.BalanceAfter),
		Indicator:         indicator,
	}
}

// FormatSummary maps a period summary onto the response schema.
func FormatSummary(summary ledger.PeriodSummary) SummaryResponse {
	byMode := make(map[string]float64, len(summary.Transactions.ByMode))
	for mode, amount := range summary.Transactions.ByMode {
		byMode[string(mode)] = toDisplay(amount)
	}

	categories := make(map[string]CategoryDTO, len(summary.Categories))
	for key, totals := range summary.Categories {
		categories[string(key)] = CategoryDTO{
			Quantity: toDisplay(totals.Quantity),
			Amount:   toDisplay(totals.Amount),
		}
	}

	return SummaryResponse{
		Period: PeriodDTO{
			From: formatOptional(summary.Window.Start),
			To:   formatTime(summary.Window.End),
		},
		Balances: BalancesDTO{
			Opening: toDisplay(summary.Balances.Opening),
			Current: toDisplay(summary.Balances.Current),
			Net:     toDisplay(summary.Balances.Net),
		},
		Transactions: TransactionsDTO{
			TotalTransactions: summary.Transactions.Count,
			TotalAmount:       toDisplay(summary.Transactions.Total),
			ByMode:            byMode,
		},
		Sales: SalesDTO{
			TotalCount:  summary.Sales.Count,
			TotalAmount: toDisplay(summary.Sales.Total),
		},
		Categories: categories,
	}
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func formatTime(tp ledger.TimePoint) string {
	return tp.Time.Format(time.RFC3339)
}

func formatOptional(tp *ledger.TimePoint) *string {
	if tp == nil {
		return nil
	}
	s := formatTime(*tp)
	return &s
}

func toDisplay(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
