package tables

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/ledgerio/internal/core"
)

func init() {
	registerInvoices()
}

var invoiceSchema = core.Schema{
	{Name: "customer_name", Aliases: []string{"Customer", "Customer Name"}, Type: core.FieldText, Default: "Unknown Customer", Normalizer: CollapseSpaces},
	{Name: "customer_email", Aliases: []string{"Customer Email"}, Type: core.FieldText},
	{Name: "customer_phone", Aliases: []string{"Customer Phone"}, Type: core.FieldText},
	{Name: "customer_street", Aliases: []string{"Customer Address"}, Type: core.FieldText},
	{Name: "customer_city", Aliases: []string{"Customer City"}, Type: core.FieldText},
	{Name: "customer_state", Aliases: []string{"Customer State"}, Type: core.FieldText},
	{Name: "customer_zip", Aliases: []string{"Customer Zip"}, Type: core.FieldText},
	{Name: "customer_country", Aliases: []string{"Customer Country"}, Type: core.FieldText},
	{Name: "invoice_number", Aliases: []string{"Invoice Number"}, Type: core.FieldText},
	{Name: "total_amount", Aliases: []string{"Total Amount", "Amount"}, Type: core.FieldNumeric, Required: true},
	{Name: "status", Aliases: []string{"Status"}, Type: core.FieldEnum, Default: "sent", EnumValues: core.InvoiceStatuses},
	{Name: "date", Aliases: []string{"Date", "Invoice Date"}, Type: core.FieldDate},
	{Name: "due_date", Aliases: []string{"Due Date", "Date"}, Type: core.FieldDate},
	{Name: "item_description", Aliases: []string{"Items", "Description"}, Type: core.FieldText, Default: "Product/Service"},
	{Name: "item_quantity", Aliases: []string{"Quantity"}, Type: core.FieldInteger, Default: 1},
	{Name: "item_price", Aliases: []string{"Price", "Unit Price"}, Type: core.FieldNumeric},
	{Name: "item_total", Aliases: []string{"Total"}, Type: core.FieldNumeric},
}

func registerInvoices() {
	core.Register(core.EntityDefinition{
		Info:   core.EntityInfo{Key: "invoices", Label: "Invoices"},
		Schema: invoiceSchema,
		Template: core.TemplateSpec{
			Headers: []string{"Customer Name", "Total Amount", "Status", "Date", "Due Date", "Items", "Quantity", "Price"},
			SampleRows: [][]any{
				{"John Doe", 5000, "paid", "2024-01-15", "2024-01-30", "Product A", 2, 2500},
				{"Jane Smith", 3000, "sent", "2024-01-16", "2024-01-31", "Product B", 1, 3000},
			},
		},
		Build: buildInvoice,
		Persist: func(ctx context.Context, st core.Store, record any) error {
			inv := record.(*core.Invoice)
			if err := st.CreateInvoice(ctx, inv); err != nil {
				return fmt.Errorf("save invoice %s: %w", inv.Number, err)
			}
			return nil
		},
	})
}

func buildInvoice(ctx context.Context, rc core.RowContext) (any, error) {
	m := core.NewFieldMapper(rc.Row, invoiceSchema, rc.Now)

	total, err := m.Number("total_amount")
	if err != nil {
		return nil, err
	}
	// Rejected before the customer lookup so a failing row creates nothing.
	if err := positive("Total Amount", total); err != nil {
		return nil, err
	}
	status, err := m.Enum("status")
	if err != nil {
		return nil, err
	}
	number, _ := m.Text("invoice_number")
	if number == "" {
		number = fmt.Sprintf("INV-%d-%d", rc.Now.UnixMilli(), rc.Index)
	}

	inv := &core.Invoice{
		OwnerID:     rc.OwnerID,
		Number:      number,
		Date:        m.Date("date"),
		DueDate:     m.Date("due_date"),
		TotalAmount: money(total),
		Status:      core.InvoiceStatus(status),
		Items:       []core.InvoiceItem{},
	}

	if m.Has("item_description") {
		item, err := buildInvoiceItem(m, total)
		if err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, item)
	}

	ref := core.CustomerRef{}
	ref.Name, _ = m.Text("customer_name")
	ref.Email, _ = m.Text("customer_email")
	ref.Phone, _ = m.Text("customer_phone")
	ref.Address.Street, _ = m.Text("customer_street")
	ref.Address.City, _ = m.Text("customer_city")
	ref.Address.State, _ = m.Text("customer_state")
	ref.Address.Zip, _ = m.Text("customer_zip")
	ref.Address.Country, _ = m.Text("customer_country")

	customer, err := rc.Customers.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	inv.CustomerID = customer.ID
	return inv, nil
}

// buildInvoiceItem maps the single line item an import row may carry.
// Price and line total default to the invoice total.
func buildInvoiceItem(m *core.FieldMapper, total float64) (core.InvoiceItem, error) {
	desc, _ := m.Text("item_description")
	qty, err := m.Int("item_quantity")
	if err != nil {
		return core.InvoiceItem{}, err
	}
	if qty < 1 {
		return core.InvoiceItem{}, fmt.Errorf("invalid Quantity: must be at least 1")
	}

	price := total
	if m.Has("item_price") {
		if price, err = m.Number("item_price"); err != nil {
			return core.InvoiceItem{}, err
		}
	}
	lineTotal := total
	if m.Has("item_total") {
		if lineTotal, err = m.Number("item_total"); err != nil {
			return core.InvoiceItem{}, err
		}
	}
	if err := nonNegative("Price", price); err != nil {
		return core.InvoiceItem{}, err
	}
	if err := nonNegative("Total", lineTotal); err != nil {
		return core.InvoiceItem{}, err
	}

	return core.InvoiceItem{
		Description: desc,
		Quantity:    qty,
		Price:       money(price),
		Total:       money(lineTotal),
	}, nil
}
