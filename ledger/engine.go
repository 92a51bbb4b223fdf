/*
engine.go - Ledger merge and running balance

PURPOSE:
  Merges the sale and transaction streams into one chronologically ordered
  statement and computes the running balance per entry plus opening/closing
  balances for the requested window.

ALGORITHM:
  1. Fetch ALL records with date <= window end (unbounded below - the
     opening balance must reflect everything before the window start)
  2. Normalize into sign-normalized entries, skipping malformed amounts
  3. Sort by (date, source id) - the stable tie-break makes recomputation
     deterministic for same-instant records
  4. Partition at the window start; prior entries sum into the opening
     balance
  5. Single forward pass over window entries chaining BalanceAfter

PURITY:
  Read + compute only. No side effects, safely retryable. The two source
  queries are the only blocking points and honor the caller's context.

SEE ALSO:
  - summary.go: Period aggregation over the same streams
  - source.go: The fetch contract
*/
package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes statements from a record source. Stateless between calls;
// a single Engine may serve many concurrent computations.
type Engine struct {
	Source RecordSource
}

func NewEngine(source RecordSource) *Engine {
	return &Engine{Source: source}
}

// ComputeLedger builds the statement for an entity over a window.
//
// Errors: EntityNotFoundError when the source tracks entities and this one
// is unknown; InvalidWindowError when end precedes start (the resolver
// prevents this by construction, the engine checks anyway).
func (e *Engine) ComputeLedger(ctx context.Context, entityID EntityID, w Window) (Result, error) {
	if err := checkWindow(w); err != nil {
		return Result{}, err
	}
	if err := checkEntity(ctx, e.Source, entityID); err != nil {
		return Result{}, err
	}

	entries, skipped, err := collectEntries(ctx, e.Source, entityID, w.End)
	if err != nil {
		return Result{}, err
	}

	prior, window := partitionEntries(entries, w)

	opening := sumSigned(prior)

	// Forward pass: each balance chains from the previous one.
	balance := opening
	for i := range window {
		balance = balance.Add(window[i].SignedAmount)
		window[i].BalanceAfter = balance
	}

	return Result{
		EntityID:       entityID,
		Window:         w,
		OpeningBalance: opening,
		ClosingBalance: balance,
		Entries:        window,
		SkippedCount:   skipped,
	}, nil
}

// =============================================================================
// SHARED HELPERS - Used by both the engine and the aggregator
// =============================================================================

func checkWindow(w Window) error {
	if w.Start != nil && w.End.Before(*w.Start) {
		return &InvalidWindowError{Start: *w.Start, End: w.End}
	}
	return nil
}

func checkEntity(ctx context.Context, source RecordSource, entityID EntityID) error {
	es, ok := source.(EntitySource)
	if !ok {
		return nil
	}
	exists, err := es.EntityExists(ctx, entityID)
	if err != nil {
		return err
	}
	if !exists {
		return &EntityNotFoundError{EntityID: entityID}
	}
	return nil
}

// collectEntries fetches both streams up to end, normalizes, and sorts.
// The skipped count reports records excluded for missing amounts.
func collectEntries(ctx context.Context, source RecordSource, entityID EntityID, end TimePoint) ([]Entry, int, error) {
	sales, txs, err := fetchRecords(ctx, source, entityID, end)
	if err != nil {
		return nil, 0, err
	}
	entries, skipped := normalizeEntries(sales, txs)
	sortEntries(entries)
	return entries, skipped, nil
}

func fetchRecords(ctx context.Context, source RecordSource, entityID EntityID, end TimePoint) ([]SaleRecord, []TransactionRecord, error) {
	sales, err := source.SalesUpTo(ctx, entityID, end)
	if err != nil {
		return nil, nil, err
	}
	txs, err := source.TransactionsUpTo(ctx, entityID, end)
	if err != nil {
		return nil, nil, err
	}
	return sales, txs, nil
}

func normalizeEntries(sales []SaleRecord, txs []TransactionRecord) ([]Entry, int) {
	entries := make([]Entry, 0, len(sales)+len(txs))
	skipped := 0
	for _, s := range sales {
		if entry, ok := s.Entry(); ok {
			entries = append(entries, entry)
		} else {
			skipped++
		}
	}
	for _, t := range txs {
		if entry, ok := t.Entry(); ok {
			entries = append(entries, entry)
		} else {
			skipped++
		}
	}
	return entries, skipped
}

// sortEntries orders ascending by (date, source id). Source id is the
// stable secondary key: two records on the same instant always land in the
// same order across recomputations.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].SourceID < entries[j].SourceID
	})
}

// partitionEntries splits sorted entries into those strictly before the
// window start and those inside [start, end]. An unbounded window has no
// prior entries: all history is inside the window.
func partitionEntries(entries []Entry, w Window) (prior, window []Entry) {
	if w.Start == nil {
		return nil, entries
	}
	cut := sort.Search(len(entries), func(i int) bool {
		return entries[i].Date.AfterOrEqual(*w.Start)
	})
	return entries[:cut], entries[cut:]
}

func sumSigned(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.SignedAmount)
	}
	return total
}
