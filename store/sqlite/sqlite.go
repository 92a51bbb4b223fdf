/*
Package sqlite provides a SQLite-backed record store.

PURPOSE:
  Implements ledger.EntitySource plus the thin write surface the REST facade
  needs (customers, sales with line items, payment transactions). The same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

AMOUNT STORAGE:
  Amounts are stored as TEXT and parsed with shopspring/decimal on read.
  Storing REAL would reintroduce float drift on round trips. A row whose
  amount is NULL or unparseable is surfaced to the engine as an invalid
  amount (NullDecimal{Valid:false}) so the engine can skip and count it
  instead of failing the whole statement.

KEY TABLES:
  customers:     Entity records
  sales:         Invoice headers
  sale_items:    Invoice lines (category, quantity, unit, amount)
  transactions:  Payments/receipts

INDEXES:
  idx_sales_entity_date and idx_transactions_entity_date cover the two
  engine queries, which always filter by (entity_id, date).

WAL MODE:
  SQLite is opened with WAL so concurrent statement reads don't block
  record writes.

USAGE:
  store, err := sqlite.New("./data/farm.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := ledger.NewEngine(store)

SEE ALSO:
  - ledger/source.go: Interface definitions and the completeness contract
  - ledger/source/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/farmkhata/ledger-engine/ledger"
)

// Store implements ledger.EntitySource backed by SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Customers / ledger accounts (entities)
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		village TEXT,
		created_at TEXT NOT NULL
	);

	-- Sales (invoice headers, debit side)
	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL,
		sale_date TEXT NOT NULL,
		amount TEXT,
		mode TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sales_entity_date
		ON sales(entity_id, sale_date);

	-- Sale line items
	CREATE TABLE IF NOT EXISTS sale_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_id TEXT NOT NULL REFERENCES sales(id),
		category TEXT NOT NULL,
		quantity TEXT NOT NULL,
		unit TEXT,
		amount TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sale_items_sale
		ON sale_items(sale_id);

	-- Transactions (payments/receipts, credit side)
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL,
		tx_date TEXT NOT NULL,
		amount TEXT,
		mode TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_entity_date
		ON transactions(entity_id, tx_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CUSTOMERS
// =============================================================================

// Customer represents a customer record.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Village   string
	CreatedAt time.Time
}

// SaveCustomer inserts or replaces a customer.
func (s *Store) SaveCustomer(ctx context.Context, c Customer) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO customers (id, name, phone, village, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Phone, c.Village, createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

// GetCustomer retrieves a customer by ID. Returns nil when absent.
func (s *Store) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(phone, ''), COALESCE(village, ''), created_at
		FROM customers WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Village, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}

// ListCustomers returns all customers ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(phone, ''), COALESCE(village, ''), created_at
		FROM customers ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Village, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// =============================================================================
// RECORD WRITES
// =============================================================================

// InsertSale writes a sale header and its line items atomically.
func (s *Store) InsertSale(ctx context.Context, record ledger.SaleRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, entity_id, sale_date, amount, mode, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, record.EntityID, record.Date.Time.Format(time.RFC3339),
		nullableAmount(record.Amount), nullString(string(record.Mode)),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, item := range record.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, category, quantity, unit, amount)
			VALUES (?, ?, ?, ?, ?)
		`, record.ID, item.Category, item.Quantity.String(), item.Unit, item.Amount.String())
		if err != nil {
			return fmt.Errorf("failed to insert sale item: %w", err)
		}
	}

	return tx.Commit()
}

// InsertTransaction writes a payment record.
func (s *Store) InsertTransaction(ctx context.Context, record ledger.TransactionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, entity_id, tx_date, amount, mode, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.EntityID, record.Date.Time.Format(time.RFC3339),
		nullableAmount(record.Amount), nullString(string(record.Mode)), record.Notes,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// =============================================================================
// RECORD SOURCE (ledger.EntitySource interface)
// =============================================================================

// SalesUpTo returns every sale for the entity with date <= end.
func (s *Store) SalesUpTo(ctx context.Context, entityID ledger.EntityID, end ledger.TimePoint) ([]ledger.SaleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_id, sale_date, amount, COALESCE(mode, '')
		FROM sales
		WHERE entity_id = ? AND sale_date <= ?
		ORDER BY sale_date ASC, id ASC
	`, entityID, end.Time.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []ledger.SaleRecord
	for rows.Next() {
		var record ledger.SaleRecord
		var date string
		var amount sql.NullString
		var mode string
		if err := rows.Scan(&record.ID, &record.EntityID, &date, &amount, &mode); err != nil {
			return nil, err
		}
		record.Date = parseTime(date)
		record.Amount = parseAmount(amount)
		record.Mode = ledger.PaymentMode(mode)
		sales = append(sales, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sales {
		items, err := s.saleItems(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}
	return sales, nil
}

func (s *Store) saleItems(ctx context.Context, saleID string) ([]ledger.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, quantity, COALESCE(unit, ''), amount
		FROM sale_items WHERE sale_id = ? ORDER BY id ASC
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	var items []ledger.LineItem
	for rows.Next() {
		var item ledger.LineItem
		var quantity, amount string
		if err := rows.Scan(&item.Category, &quantity, &item.Unit, &amount); err != nil {
			return nil, err
		}
		item.Quantity, _ = decimal.NewFromString(quantity)
		item.Amount, _ = decimal.NewFromString(amount)
		items = append(items, item)
	}
	return items, rows.Err()
}

// TransactionsUpTo returns every transaction for the entity with date <= end.
func (s *Store) TransactionsUpTo(ctx context.Context, entityID ledger.EntityID, end ledger.TimePoint) ([]ledger.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_id, tx_date, amount, COALESCE(mode, ''), COALESCE(notes, '')
		FROM transactions
		WHERE entity_id = ? AND tx_date <= ?
		ORDER BY tx_date ASC, id ASC
	`, entityID, end.Time.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.TransactionRecord
	for rows.Next() {
		var record ledger.TransactionRecord
		var date string
		var amount sql.NullString
		var mode string
		if err := rows.Scan(&record.ID, &record.EntityID, &date, &amount, &mode, &record.Notes); err != nil {
			return nil, err
		}
		record.Date = parseTime(date)
		record.Amount = parseAmount(amount)
		record.Mode = ledger.PaymentMode(mode)
		txs = append(txs, record)
	}
	return txs, rows.Err()
}

// EntityExists reports whether the customer has a record.
func (s *Store) EntityExists(ctx context.Context, entityID ledger.EntityID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM customers WHERE id = ?", entityID,
	).Scan(&count)
	return count > 0, err
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func parseTime(s string) ledger.TimePoint {
	t, _ := time.Parse(time.RFC3339, s)
	return ledger.At(t)
}

// parseAmount maps NULL or unparseable stored amounts to an invalid decimal
// so the engine skips the record instead of aborting.
func parseAmount(s sql.NullString) decimal.NullDecimal {
	if !s.Valid {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func nullableAmount(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
