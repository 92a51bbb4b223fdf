// Package source provides RecordSource implementations.
package source

import (
	"context"
	"sort"
	"sync"

	"github.com/farmkhata/ledger-engine/ledger"
)

// =============================================================================
// MEMORY SOURCE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-memory EntitySource. Records are kept sorted by date on
// insert so reads are cheap. Safe for concurrent use.
type Memory struct {
	mu           sync.RWMutex
	entities     map[ledger.EntityID]bool
	sales        map[ledger.EntityID][]ledger.SaleRecord
	transactions map[ledger.EntityID][]ledger.TransactionRecord
}

func NewMemory() *Memory {
	return &Memory{
		entities:     make(map[ledger.EntityID]bool),
		sales:        make(map[ledger.EntityID][]ledger.SaleRecord),
		transactions: make(map[ledger.EntityID][]ledger.TransactionRecord),
	}
}

// AddEntity registers an entity. Records for unregistered entities are
// still stored, but EntityExists reports false for them.
func (m *Memory) AddEntity(id ledger.EntityID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[id] = true
}

// AddSale inserts a sale record at its sorted position.
func (m *Memory) AddSale(record ledger.SaleRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.sales[record.EntityID]
	i := sort.Search(len(records), func(i int) bool {
		return records[i].Date.After(record.Date)
	})
	records = append(records, ledger.SaleRecord{})
	copy(records[i+1:], records[i:])
	records[i] = record
	m.sales[record.EntityID] = records
}

// AddTransaction inserts a transaction record at its sorted position.
func (m *Memory) AddTransaction(record ledger.TransactionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.transactions[record.EntityID]
	i := sort.Search(len(records), func(i int) bool {
		return records[i].Date.After(record.Date)
	})
	records = append(records, ledger.TransactionRecord{})
	copy(records[i+1:], records[i:])
	records[i] = record
	m.transactions[record.EntityID] = records
}

func (m *Memory) SalesUpTo(_ context.Context, entityID ledger.EntityID, end ledger.TimePoint) ([]ledger.SaleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.SaleRecord
	for _, r := range m.sales[entityID] {
		if r.Date.BeforeOrEqual(end) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *Memory) TransactionsUpTo(_ context.Context, entityID ledger.EntityID, end ledger.TimePoint) ([]ledger.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.TransactionRecord
	for _, r := range m.transactions[entityID] {
		if r.Date.BeforeOrEqual(end) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *Memory) EntityExists(_ context.Context, entityID ledger.EntityID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entities[entityID], nil
}
