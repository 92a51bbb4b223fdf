/*
source.go - Record source contract

PURPOSE:
  Defines the read interface between the engine and whatever persists the
  raw records. The engine never writes through this interface; statements
  are always recomputed from the records, so there is no derived state that
  can drift out of sync.

COMPLETENESS CONTRACT:
  Both queries MUST return every record with date <= end for the entity.
  This is a correctness requirement, not a performance hint: the opening
  balance is the sum of all history before the window start, so a source
  that silently omits old records corrupts every balance derived from it.
  Ordering is NOT required; the engine sorts.

CONSISTENCY:
  The engine takes no transactional snapshot. If a writer inserts a record
  while a computation is in flight the result reflects some serialization
  of the source's reads. Records are append-mostly and statements are
  recomputed on every read, so this weak contract is acceptable.

IMPLEMENTATIONS:
  - source/memory.go:  In-memory, for tests and demo data
  - store/sqlite:      SQLite-backed production store

SEE ALSO:
  - engine.go: The only consumer of these queries
*/
package ledger

import "context"

// =============================================================================
// RECORD SOURCE - Read-only queries over persisted records
// =============================================================================

// RecordSource exposes the two queries the engine needs. Both honor the
// supplied context so a caller-side timeout cancels the underlying I/O.
type RecordSource interface {
	// SalesUpTo returns every sale record for the entity with date <= end,
	// in any order.
	SalesUpTo(ctx context.Context, entityID EntityID, end TimePoint) ([]SaleRecord, error)

	// TransactionsUpTo returns every transaction record for the entity with
	// date <= end, in any order.
	TransactionsUpTo(ctx context.Context, entityID EntityID, end TimePoint) ([]TransactionRecord, error)
}

// EntitySource extends RecordSource for stores that track entities
// themselves. When the engine's source implements it, computing a statement
// for an unknown entity fails with EntityNotFoundError instead of quietly
// producing an empty ledger.
type EntitySource interface {
	RecordSource

	// EntityExists reports whether the entity has a record in the store.
	EntityExists(ctx context.Context, entityID EntityID) (bool, error)
}
