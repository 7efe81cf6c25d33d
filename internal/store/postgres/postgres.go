// Package postgres implements core.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// PoolConfig configures the connection pool.
type PoolConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MinConns = int32(cfg.MinConns)
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Store persists records in PostgreSQL. Queries always filter on owner_id.
type Store struct {
	db  DBTX
	now func() time.Time
}

var _ core.Store = (*Store)(nil)

// New creates a store on db.
func New(db DBTX) *Store {
	return &Store{db: db, now: time.Now}
}

// EnsureSchema creates any missing tables and indexes.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) stamp(id *uuid.UUID, createdAt *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = s.now()
	}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// ----------------------------------------------------------------------------
// Customers
// ----------------------------------------------------------------------------

const customerColumns = `id, owner_id, name, email, phone, street, city, state, zip, country, created_at`

func customerWhere(f core.CustomerFilter) (string, []any) {
	wb := newWhereBuilder()
	wb.Add("owner_id", f.OwnerID)
	wb.Add("name", f.Name)
	return wb.Build()
}

func scanCustomer(row pgx.Row) (core.Customer, error) {
	var c core.Customer
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone,
		&c.Address.Street, &c.Address.City, &c.Address.State, &c.Address.Zip, &c.Address.Country,
		&c.CreatedAt)
	return c, err
}

// FindCustomers returns matching customers, oldest first.
func (s *Store) FindCustomers(ctx context.Context, f core.CustomerFilter) ([]core.Customer, error) {
	where, args := customerWhere(f)
	rows, err := s.db.Query(ctx, "SELECT "+customerColumns+" FROM customers"+where+" ORDER BY created_at", args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCustomer)
}

func (s *Store) GetCustomer(ctx context.Context, ownerID string, id uuid.UUID) (core.Customer, error) {
	row := s.db.QueryRow(ctx, "SELECT "+customerColumns+" FROM customers WHERE owner_id = $1 AND id = $2", ownerID, id)
	c, err := scanCustomer(row)
	return c, notFound(err)
}

func (s *Store) CreateCustomer(ctx context.Context, c *core.Customer) error {
	s.stamp(&c.ID, &c.CreatedAt)
	_, err := s.db.Exec(ctx,
		`INSERT INTO customers (`+customerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.OwnerID, c.Name, c.Email, c.Phone,
		c.Address.Street, c.Address.City, c.Address.State, c.Address.Zip, c.Address.Country,
		c.CreatedAt)
	return err
}

func (s *Store) CountCustomers(ctx context.Context, f core.CustomerFilter) (int, error) {
	where, args := customerWhere(f)
	return s.count(ctx, "customers", where, args)
}

// ----------------------------------------------------------------------------
// Invoices
// ----------------------------------------------------------------------------

const invoiceColumns = `id, owner_id, invoice_number, customer_id, date, due_date, items, total_amount, status, created_at`

func invoiceWhere(f core.InvoiceFilter) (string, []any) {
	wb := newWhereBuilder()
	wb.Add("owner_id", f.OwnerID)
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		wb.AddAny("status", statuses)
	}
	wb.AddTimestampRange("date", f.Dates.From, f.Dates.To)
	return wb.Build()
}

func scanInvoice(row pgx.Row) (core.Invoice, error) {
	var (
		inv    core.Invoice
		items  []byte
		total  pgtype.Numeric
		status string
	)
	if err := row.Scan(&inv.ID, &inv.OwnerID, &inv.Number, &inv.CustomerID, &inv.Date, &inv.DueDate,
		&items, &total, &status, &inv.CreatedAt); err != nil {
		return core.Invoice{}, err
	}
	inv.Status = core.InvoiceStatus(status)
	inv.TotalAmount = fromNumeric(total)
	inv.Items = []core.InvoiceItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return core.Invoice{}, fmt.Errorf("decode items of invoice %s: %w", inv.Number, err)
		}
	}
	return inv, nil
}

// FindInvoices returns matching invoices, newest first.
func (s *Store) FindInvoices(ctx context.Context, f core.InvoiceFilter) ([]core.Invoice, error) {
	where, args := invoiceWhere(f)
	rows, err := s.db.Query(ctx, "SELECT "+invoiceColumns+" FROM invoices"+where+" ORDER BY date DESC, created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInvoice)
}

func (s *Store) GetInvoice(ctx context.Context, ownerID string, id uuid.UUID) (core.Invoice, error) {
	row := s.db.QueryRow(ctx, "SELECT "+invoiceColumns+" FROM invoices WHERE owner_id = $1 AND id = $2", ownerID, id)
	inv, err := scanInvoice(row)
	return inv, notFound(err)
}

func (s *Store) CreateInvoice(ctx context.Context, inv *core.Invoice) error {
	s.stamp(&inv.ID, &inv.CreatedAt)
	items := inv.Items
	if items == nil {
		items = []core.InvoiceItem{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO invoices (`+invoiceColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		inv.ID, inv.OwnerID, inv.Number, inv.CustomerID, inv.Date, inv.DueDate,
		encoded, toNumeric(inv.TotalAmount), string(inv.Status), inv.CreatedAt)
	return err
}

func (s *Store) CountInvoices(ctx context.Context, f core.InvoiceFilter) (int, error) {
	where, args := invoiceWhere(f)
	return s.count(ctx, "invoices", where, args)
}

// ----------------------------------------------------------------------------
// Expenses
// ----------------------------------------------------------------------------

const expenseColumns = `id, owner_id, category, description, amount, date, payment_method, created_at`

func expenseWhere(f core.ExpenseFilter) (string, []any) {
	wb := newWhereBuilder()
	wb.Add("owner_id", f.OwnerID)
	wb.Add("category", f.Category)
	wb.AddTimestampRange("date", f.Dates.From, f.Dates.To)
	return wb.Build()
}

func scanExpense(row pgx.Row) (core.Expense, error) {
	var (
		e      core.Expense
		amount pgtype.Numeric
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Category, &e.Description, &amount, &e.Date,
		&e.PaymentMethod, &e.CreatedAt); err != nil {
		return core.Expense{}, err
	}
	e.Amount = fromNumeric(amount)
	return e, nil
}

// FindExpenses returns matching expenses, newest first.
func (s *Store) FindExpenses(ctx context.Context, f core.ExpenseFilter) ([]core.Expense, error) {
	where, args := expenseWhere(f)
	rows, err := s.db.Query(ctx, "SELECT "+expenseColumns+" FROM expenses"+where+" ORDER BY date DESC, created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanExpense)
}

func (s *Store) GetExpense(ctx context.Context, ownerID string, id uuid.UUID) (core.Expense, error) {
	row := s.db.QueryRow(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE owner_id = $1 AND id = $2", ownerID, id)
	e, err := scanExpense(row)
	return e, notFound(err)
}

func (s *Store) CreateExpense(ctx context.Context, e *core.Expense) error {
	s.stamp(&e.ID, &e.CreatedAt)
	_, err := s.db.Exec(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.OwnerID, e.Category, e.Description, toNumeric(e.Amount), e.Date, e.PaymentMethod, e.CreatedAt)
	return err
}

func (s *Store) CountExpenses(ctx context.Context, f core.ExpenseFilter) (int, error) {
	where, args := expenseWhere(f)
	return s.count(ctx, "expenses", where, args)
}

// ----------------------------------------------------------------------------
// Products
// ----------------------------------------------------------------------------

const productColumns = `id, owner_id, name, category, description, price, stock, min_stock, created_at`

func productWhere(f core.ProductFilter) (string, []any) {
	wb := newWhereBuilder()
	wb.Add("owner_id", f.OwnerID)
	wb.Add("category", f.Category)
	if f.LowStock {
		wb.AddRaw("stock <= min_stock")
	}
	return wb.Build()
}

func scanProduct(row pgx.Row) (core.Product, error) {
	var (
		p     core.Product
		price pgtype.Numeric
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Category, &p.Description, &price,
		&p.Stock, &p.MinStock, &p.CreatedAt); err != nil {
		return core.Product{}, err
	}
	p.Price = fromNumeric(price)
	return p, nil
}

// FindProducts returns matching products ordered by name.
func (s *Store) FindProducts(ctx context.Context, f core.ProductFilter) ([]core.Product, error) {
	where, args := productWhere(f)
	rows, err := s.db.Query(ctx, "SELECT "+productColumns+" FROM products"+where+" ORDER BY name, created_at", args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProduct)
}

func (s *Store) GetProduct(ctx context.Context, ownerID string, id uuid.UUID) (core.Product, error) {
	row := s.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE owner_id = $1 AND id = $2", ownerID, id)
	p, err := scanProduct(row)
	return p, notFound(err)
}

func (s *Store) CreateProduct(ctx context.Context, p *core.Product) error {
	s.stamp(&p.ID, &p.CreatedAt)
	_, err := s.db.Exec(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.OwnerID, p.Name, p.Category, p.Description, toNumeric(p.Price), p.Stock, p.MinStock, p.CreatedAt)
	return err
}

func (s *Store) CountProducts(ctx context.Context, f core.ProductFilter) (int, error) {
	where, args := productWhere(f)
	return s.count(ctx, "products", where, args)
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

func (s *Store) count(ctx context.Context, table, where string, args []any) (int, error) {
	var n int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return int(n), nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// toNumeric converts a decimal for a NUMERIC parameter.
func toNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// fromNumeric converts a scanned NUMERIC. NULL and NaN read as zero.
func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
