package tables

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/ledgerio/internal/core"
)

func init() {
	registerProducts()
}

var productSchema = core.Schema{
	{Name: "name", Aliases: []string{"Product Name", "Name"}, Type: core.FieldText, Normalizer: CollapseSpaces},
	{Name: "category", Aliases: []string{"Category"}, Type: core.FieldText, Default: defaultCategory, Normalizer: CollapseSpaces},
	{Name: "price", Aliases: []string{"Price", "Cost"}, Type: core.FieldNumeric, Default: 0},
	{Name: "stock", Aliases: []string{"Stock", "Quantity"}, Type: core.FieldInteger, Default: 0},
	{Name: "min_stock", Aliases: []string{"Min Stock", "Minimum Stock"}, Type: core.FieldInteger, Default: 5},
	{Name: "description", Aliases: []string{"Description"}, Type: core.FieldText},
}

func registerProducts() {
	core.Register(core.EntityDefinition{
		Info:   core.EntityInfo{Key: "products", Label: "Products"},
		Schema: productSchema,
		Template: core.TemplateSpec{
			Headers: []string{"Product Name", "Category", "Price", "Stock", "Min Stock", "Description"},
			SampleRows: [][]any{
				{"Laptop", "Electronics", 50000, 10, 2, "Gaming Laptop"},
				{"Mouse", "Electronics", 500, 25, 5, "Wireless Mouse"},
			},
		},
		Build: buildProduct,
		Persist: func(ctx context.Context, st core.Store, record any) error {
			p := record.(*core.Product)
			if err := st.CreateProduct(ctx, p); err != nil {
				return fmt.Errorf("save product %q: %w", p.Name, err)
			}
			return nil
		},
	})
}

func buildProduct(_ context.Context, rc core.RowContext) (any, error) {
	m := core.NewFieldMapper(rc.Row, productSchema, rc.Now)

	name, _ := m.Text("name")
	if name == "" {
		name = fmt.Sprintf("Product %d", rc.Index+1)
	}
	price, err := m.Number("price")
	if err != nil {
		return nil, err
	}
	stock, err := m.Int("stock")
	if err != nil {
		return nil, err
	}
	minStock, err := m.Int("min_stock")
	if err != nil {
		return nil, err
	}
	category, _ := m.Text("category")
	description, _ := m.Text("description")

	if err := nonNegative("Price", price); err != nil {
		return nil, err
	}
	if err := nonNegative("Stock", float64(stock)); err != nil {
		return nil, err
	}
	if err := nonNegative("Min Stock", float64(minStock)); err != nil {
		return nil, err
	}

	return &core.Product{
		OwnerID:     rc.OwnerID,
		Name:        name,
		Category:    category,
		Description: description,
		Price:       money(price),
		Stock:       stock,
		MinStock:    minStock,
	}, nil
}
