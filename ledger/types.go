/*
Package ledger provides the core balance reconciliation engine.

PURPOSE:
  This package turns two independently written record streams - sales
  (invoices) and transactions (payments) - into a single chronological
  statement with a correct running balance, opening/closing balances for an
  arbitrary date window, and category-level period summaries.

KEY CONCEPTS IN THIS FILE (types.go):
  - PaymentMode: How a payment was made (cash, upi, ...)
  - Entry: The sign-normalized view of one sale or transaction
  - Result: A computed statement for one entity and window
  - PeriodSummary: Bucketed totals for one entity and window

SIGN CONVENTION:
  A sale is a debit (DR): it increases what the entity owes, so its signed
  amount is +raw. A transaction is a credit (CR): it reduces what the entity
  owes, so its signed amount is -raw. The convention is applied exactly once,
  at normalization, and nothing downstream re-derives it.

DESIGN PRINCIPLES:
  1. Read-only: The engine never mutates stored records
  2. Precision: Uses decimal.Decimal to avoid floating-point drift
  3. Determinism: Identical inputs always produce identical results
  4. Resilience: A corrupt historical row is skipped and counted, never fatal

SEE ALSO:
  - records.go: Raw record types and normalization
  - engine.go: Running-balance computation
  - summary.go: Period aggregation
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EntityID identifies a customer or a general ledger account.
type EntityID string

// =============================================================================
// PAYMENT MODE
// =============================================================================

type PaymentMode string

const (
	ModeCash         PaymentMode = "cash"
	ModeUPI          PaymentMode = "upi"
	ModeBankTransfer PaymentMode = "bank_transfer"
	ModeCheque       PaymentMode = "cheque"

	// ModeUnspecified is the documented default for records that carry no
	// mode. The default is applied once, at normalization, so byMode buckets
	// never see an empty key.
	ModeUnspecified PaymentMode = "unspecified"
)

// OrDefault returns the mode, or ModeUnspecified when empty.
func (m PaymentMode) OrDefault() PaymentMode {
	if m == "" {
		return ModeUnspecified
	}
	return m
}

// =============================================================================
// ENTRY - Sign-normalized view of one record
// =============================================================================

type SourceType string

const (
	SourceSale        SourceType = "Sale"
	SourceTransaction SourceType = "Transaction"
)

// Entry is the unified view of one SaleRecord or TransactionRecord.
// Entries are derived, never persisted.
type Entry struct {
	SourceID   string
	SourceType SourceType
	Date       TimePoint

	// SignedAmount is +RawAmount for sales, -RawAmount for transactions.
	SignedAmount decimal.Decimal
	RawAmount    decimal.Decimal

	Mode        PaymentMode
	Description string

	// BalanceAfter is the running balance after applying this entry.
	// Populated by the engine for entries inside the requested window.
	BalanceAfter decimal.Decimal
}

// =============================================================================
// RESULT - Computed statement for one entity and window
// =============================================================================

// Result is a full statement computation.
//
// INVARIANTS:
//   - Entries are non-decreasing by date, ties broken by source id
//   - Entries[0].BalanceAfter = OpeningBalance + Entries[0].SignedAmount,
//     and each subsequent BalanceAfter chains from the previous one
//   - ClosingBalance = last BalanceAfter, or OpeningBalance when empty
type Result struct {
	EntityID EntityID
	Window   Window

	// OpeningBalance is the net of every record strictly before the window
	// start. Zero when the window has no lower bound.
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal

	Entries []Entry

	// SkippedCount counts records excluded because their amount was missing
	// or unreadable. Diagnostic only; a bad row never aborts the statement.
	SkippedCount int
}

// =============================================================================
// PERIOD SUMMARY - Bucketed totals for one entity and window
// =============================================================================

// BalanceTotals reports how the balance moved across the window.
type BalanceTotals struct {
	Opening decimal.Decimal
	Current decimal.Decimal
	Net     decimal.Decimal // Current - Opening
}

// TransactionTotals aggregates payments in the window.
type TransactionTotals struct {
	Count  int
	Total  decimal.Decimal
	ByMode map[PaymentMode]decimal.Decimal
}

// SaleTotals aggregates invoices in the window.
type SaleTotals struct {
	Count int
	Total decimal.Decimal
}

// CategoryTotals accumulates line items bucketed by product category.
type CategoryTotals struct {
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// PeriodSummary is computed fresh per request. The underlying records remain
// authoritative; this is never cached as a source of truth.
type PeriodSummary struct {
	EntityID     EntityID
	Window       Window
	Balances     BalanceTotals
	Transactions TransactionTotals
	Sales        SaleTotals
	Categories   map[CategoryKey]CategoryTotals
	SkippedCount int
}
