// Package core provides the business logic for spreadsheet import operations.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldType represents the expected data type for a spreadsheet field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldNumeric
	FieldInteger
)

// FieldSpec describes how one canonical field is read from a spreadsheet row.
type FieldSpec struct {
	Name       string              // Canonical field name: "total_amount"
	Aliases    []string            // Candidate header labels, first present wins
	Type       FieldType           // Expected data type
	Required   bool                // Row fails when no alias carries a value
	Default    any                 // Value used when no alias carries a value
	EnumValues []string            // Valid values for FieldEnum type
	Normalizer func(string) string // Optional transformation applied before validation
}

// EntityInfo contains display information about an importable entity.
type EntityInfo struct {
	Key   string `json:"key"`   // Route selector: "invoices"
	Label string `json:"label"` // Display name: "Invoices"
}

// TemplateSpec is the static header row and illustrative rows of an import template.
type TemplateSpec struct {
	Headers    []string
	SampleRows [][]any
}

// RowContext carries everything a row builder needs for one spreadsheet line.
type RowContext struct {
	Index     int // 0-based data row index (header excluded)
	Row       RawRow
	OwnerID   string
	Now       time.Time
	Customers *CustomerResolver
}

// BuildFunc maps, resolves and validates one row into a canonical record.
type BuildFunc func(ctx context.Context, rc RowContext) (any, error)

// PersistFunc hands a canonical record to the store.
type PersistFunc func(ctx context.Context, st Store, record any) error

// EntityDefinition contains everything needed to import one entity type.
type EntityDefinition struct {
	Info     EntityInfo
	Schema   Schema
	Template TemplateSpec
	Build    BuildFunc
	Persist  PersistFunc
}

// Address is the postal address denormalised onto a customer.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Customer is the parent entity referenced by name from invoice imports.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// InvoiceStatuses lists the valid invoice states.
var InvoiceStatuses = []string{"draft", "sent", "paid", "overdue"}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice is a sales document owned by one account.
type Invoice struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     string          `json:"ownerId"`
	Number      string          `json:"invoiceNumber"`
	CustomerID  uuid.UUID       `json:"customerId"`
	Date        time.Time       `json:"date"`
	DueDate     time.Time       `json:"dueDate"`
	Items       []InvoiceItem   `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      InvoiceStatus   `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PaymentMethods lists the valid expense payment methods.
var PaymentMethods = []string{"cash", "upi", "bank_transfer", "card"}

// Expense is a single outgoing payment.
type Expense struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       string          `json:"ownerId"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Product is an inventory item.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     string          `json:"ownerId"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"minStock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// LowStock reports whether stock is at or below the reorder threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// ImportOutcome summarises one batch import. Counts always add up to the
// number of rows in the batch.
type ImportOutcome struct {
	SuccessCount  int      `json:"success"`
	ErrorCount    int      `json:"errors"`
	ErrorMessages []string `json:"errorsList"`
}

// Total returns the number of rows accounted for.
func (o ImportOutcome) Total() int {
	return o.SuccessCount + o.ErrorCount
}

// ImportResult is the response for a completed import request.
type ImportResult struct {
	Message  string        `json:"message"`
	Details  ImportOutcome `json:"details"`
	Entity   string        `json:"-"`
	FileName string        `json:"-"`
	Duration time.Duration `json:"-"`
}
