/*
summary.go - Period aggregation

PURPOSE:
  Produces category- and mode-bucketed totals for a window: payments by
  mode, sales by product category, and the balance movement across the
  window. Answers "what happened this month?" where the engine answers
  "show me every entry".

RECONCILIATION:
  Balances.Net always equals the engine's ClosingBalance - OpeningBalance
  for the identical window, because both are derived from the same
  normalized entries. The aggregator shares no mutable state with the
  engine, so the two may run concurrently for one request.

PRECISION:
  Every total accumulates as decimal.Decimal. Summing raw floats across
  hundreds of entries drifts by visible cents; conversion to display floats
  happens only at the formatting boundary, never here.

SEE ALSO:
  - engine.go: Shares fetch/normalize helpers
  - categories.go: The fixed bucket mapping
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator computes period summaries from a record source. Stateless, like
// the Engine.
type Aggregator struct {
	Source RecordSource
}

func NewAggregator(source RecordSource) *Aggregator {
	return &Aggregator{Source: source}
}

// ComputeSummary builds the period summary for an entity over a window.
// Same error contract as Engine.ComputeLedger.
func (a *Aggregator) ComputeSummary(ctx context.Context, entityID EntityID, w Window) (PeriodSummary, error) {
	if err := checkWindow(w); err != nil {
		return PeriodSummary{}, err
	}
	if err := checkEntity(ctx, a.Source, entityID); err != nil {
		return PeriodSummary{}, err
	}

	sales, txs, err := fetchRecords(ctx, a.Source, entityID, w.End)
	if err != nil {
		return PeriodSummary{}, err
	}

	entries, skipped := normalizeEntries(sales, txs)
	sortEntries(entries)
	prior, window := partitionEntries(entries, w)

	opening := sumSigned(prior)
	current := opening.Add(sumSigned(window))

	summary := PeriodSummary{
		EntityID: entityID,
		Window:   w,
		Balances: BalanceTotals{
			Opening: opening,
			Current: current,
			Net:     current.Sub(opening),
		},
		Transactions: TransactionTotals{
			Total:  decimal.Zero,
			ByMode: make(map[PaymentMode]decimal.Decimal),
		},
		Sales: SaleTotals{
			Total: decimal.Zero,
		},
		Categories:   make(map[CategoryKey]CategoryTotals),
		SkippedCount: skipped,
	}

	for _, t := range txs {
		if !t.Amount.Valid || !w.Contains(t.Date) {
			continue
		}
		summary.Transactions.Count++
		summary.Transactions.Total = summary.Transactions.Total.Add(t.Amount.Decimal)
		mode := t.Mode.OrDefault()
		summary.Transactions.ByMode[mode] = summary.Transactions.ByMode[mode].Add(t.Amount.Decimal)
	}

	for _, s := range sales {
		if !s.Amount.Valid || !w.Contains(s.Date) {
			continue
		}
		summary.Sales.Count++
		summary.Sales.Total = summary.Sales.Total.Add(s.Amount.Decimal)
		for _, item := range s.Items {
			key := Categorize(item.Category)
			bucket := summary.Categories[key]
			bucket.Quantity = bucket.Quantity.Add(item.Quantity)
			bucket.Amount = bucket.Amount.Add(item.Amount)
			summary.Categories[key] = bucket
		}
	}

	return summary, nil
}
