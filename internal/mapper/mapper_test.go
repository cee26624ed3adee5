package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    map[Role]string
	}{
		{
			name:    "typical order export",
			columns: []string{"OrderDate", "SKU", "Qty", "UnitPrice"},
			want: map[Role]string{
				RoleDate:     "OrderDate",
				RoleProduct:  "SKU",
				RoleQuantity: "Qty",
				RolePrice:    "UnitPrice",
				RoleSales:    "",
			},
		},
		{
			name:    "explicit sales column",
			columns: []string{"Date", "Product", "Quantity", "Unit Price", "Total_Sales"},
			want: map[Role]string{
				RoleDate:     "Date",
				RoleProduct:  "Product",
				RoleQuantity: "Quantity",
				RolePrice:    "Unit Price",
				RoleSales:    "Total_Sales",
			},
		},
		{
			name:    "case insensitive substrings",
			columns: []string{"INVOICE_DATE", "ItemName", "units_sold", "COST", "Revenue"},
			want: map[Role]string{
				RoleDate:     "INVOICE_DATE",
				RoleProduct:  "ItemName",
				RoleQuantity: "units_sold",
				RolePrice:    "COST",
				RoleSales:    "Revenue",
			},
		},
		{
			name:    "first matching column wins",
			columns: []string{"ship_date", "order_date", "product_a", "product_b", "qty", "price"},
			want: map[Role]string{
				RoleDate:     "ship_date",
				RoleProduct:  "product_a",
				RoleQuantity: "qty",
				RolePrice:    "price",
				RoleSales:    "",
			},
		},
		{
			name:    "unresolved roles stay empty",
			columns: []string{"colA", "colB", "colC"},
			want: map[Role]string{
				RoleDate:     "",
				RoleProduct:  "",
				RoleQuantity: "",
				RolePrice:    "",
				RoleSales:    "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.columns)

			assert.Equal(t, tt.want[RoleDate], got.Date)
			assert.Equal(t, tt.want[RoleProduct], got.Product)
			assert.Equal(t, tt.want[RoleQuantity], got.Quantity)
			assert.Equal(t, tt.want[RolePrice], got.Price)
			assert.Equal(t, tt.want[RoleSales], got.Sales)
		})
	}
}

func TestDetectIsPure(t *testing.T) {
	columns := []string{"OrderDate", "SKU", "Qty", "UnitPrice"}

	first := Detect(columns)
	second := Detect(columns)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"OrderDate", "SKU", "Qty", "UnitPrice"}, columns)
}

func TestDetectCompleteness(t *testing.T) {
	complete := Detect([]string{"date", "product", "qty", "price"})
	assert.True(t, complete.Complete())
	assert.False(t, complete.HasSales())

	partial := Detect([]string{"date", "product"})
	assert.False(t, partial.Complete())
}
