/*
records.go - Raw record types and sign normalization

PURPOSE:
  Defines the two persisted record shapes the engine reads, and the single
  place where they are turned into sign-normalized entries.

WHY NullDecimal:
  Historical data imported from spreadsheets occasionally has rows with no
  amount at all. The record source surfaces those as-is (Valid=false) and
  normalization skips them, counting each skip. One corrupt row must never
  make an entity's entire ledger unreadable.

SEE ALSO:
  - types.go: Entry and the sign convention
  - engine.go: Merging and running balance
*/
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SALE RECORD - An invoice against an entity (debit)
// =============================================================================

// LineItem is one line of a sale: a quantity of some product category.
type LineItem struct {
	Category string
	Quantity decimal.Decimal
	Unit     string
	Amount   decimal.Decimal
}

// SaleRecord represents an invoice. It always increases what the entity owes.
type SaleRecord struct {
	ID       string
	EntityID EntityID
	Date     TimePoint
	Amount   decimal.NullDecimal
	Items    []LineItem
	Mode     PaymentMode
}

// Entry normalizes the sale into a ledger entry. Returns false when the
// record amount is missing and the record must be skipped.
func (r SaleRecord) Entry() (Entry, bool) {
	if !r.Amount.Valid {
		return Entry{}, false
	}
	return Entry{
		SourceID:     r.ID,
		SourceType:   SourceSale,
		Date:         r.Date,
		RawAmount:    r.Amount.Decimal,
		SignedAmount: r.Amount.Decimal,
		Mode:         r.Mode.OrDefault(),
		Description:  r.describe(),
	}, true
}

func (r SaleRecord) describe() string {
	if len(r.Items) == 0 {
		return "Sale"
	}
	categories := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Category != "" {
			categories = append(categories, item.Category)
		}
	}
	if len(categories) == 0 {
		return "Sale"
	}
	return "Sale: " + strings.Join(categories, ", ")
}

// =============================================================================
// TRANSACTION RECORD - A payment against an entity (credit)
// =============================================================================

// TransactionRecord represents a payment or receipt. It always reduces what
// the entity owes.
type TransactionRecord struct {
	ID       string
	EntityID EntityID
	Date     TimePoint
	Amount   decimal.NullDecimal
	Mode     PaymentMode
	Notes    string
}

// Entry normalizes the transaction into a ledger entry. Returns false when
// the record amount is missing and the record must be skipped.
func (r TransactionRecord) Entry() (Entry, bool) {
	if !r.Amount.Valid {
		return Entry{}, false
	}
	return Entry{
		SourceID:     r.ID,
		SourceType:   SourceTransaction,
		Date:         r.Date,
		RawAmount:    r.Amount.Decimal,
		SignedAmount: r.Amount.Decimal.Neg(),
		Mode:         r.Mode.OrDefault(),
		Description:  r.describe(),
	}, true
}

func (r TransactionRecord) describe() string {
	if r.Notes != "" {
		return r.Notes
	}
	return "Payment"
}
