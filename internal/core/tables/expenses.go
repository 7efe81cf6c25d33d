package tables

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/ledgerio/internal/core"
)

func init() {
	registerExpenses()
}

var expenseSchema = core.Schema{
	{Name: "category", Aliases: []string{"Category"}, Type: core.FieldText, Default: defaultCategory, Normalizer: CollapseSpaces},
	{Name: "description", Aliases: []string{"Description", "Note"}, Type: core.FieldText, Default: "Expense"},
	{Name: "amount", Aliases: []string{"Amount", "Cost"}, Type: core.FieldNumeric, Required: true},
	{Name: "date", Aliases: []string{"Date", "Expense Date"}, Type: core.FieldDate},
	{Name: "payment_method", Aliases: []string{"Payment Method"}, Type: core.FieldEnum, Default: "cash", EnumValues: core.PaymentMethods},
}

func registerExpenses() {
	core.Register(core.EntityDefinition{
		Info:   core.EntityInfo{Key: "expenses", Label: "Expenses"},
		Schema: expenseSchema,
		Template: core.TemplateSpec{
			Headers: []string{"Category", "Description", "Amount", "Date", "Payment Method"},
			SampleRows: [][]any{
				{"Office Supplies", "Printer Paper", 1500, "2024-01-15", "cash"},
				{"Marketing", "Facebook Ads", 5000, "2024-01-16", "bank_transfer"},
			},
		},
		Build: buildExpense,
		Persist: func(ctx context.Context, st core.Store, record any) error {
			if err := st.CreateExpense(ctx, record.(*core.Expense)); err != nil {
				return fmt.Errorf("save expense: %w", err)
			}
			return nil
		},
	})
}

func buildExpense(_ context.Context, rc core.RowContext) (any, error) {
	m := core.NewFieldMapper(rc.Row, expenseSchema, rc.Now)

	amount, err := m.Number("amount")
	if err != nil {
		return nil, err
	}
	method, err := m.Enum("payment_method")
	if err != nil {
		return nil, err
	}
	category, _ := m.Text("category")
	description, _ := m.Text("description")

	if err := positive("Amount", amount); err != nil {
		return nil, err
	}

	return &core.Expense{
		OwnerID:       rc.OwnerID,
		Category:      category,
		Description:   description,
		Amount:        money(amount),
		Date:          m.Date("date"),
		PaymentMethod: method,
	}, nil
}
