// Package mapper guesses which columns of an uploaded table carry the
// date, product, quantity, price and total-sales roles. Detection is a
// pure keyword match over column names; the caller is expected to show the
// result to the user for confirmation before normalizing.
package mapper

import (
	"strings"

	"salespulse/internal/dataset"
)

// Role identifies a semantic column role.
type Role string

const (
	RoleDate     Role = "date"
	RoleProduct  Role = "product"
	RoleQuantity Role = "quantity"
	RolePrice    Role = "price"
	RoleSales    Role = "sales"
)

// roleSynonyms is the ordered rule table driving detection. For each role
// the columns are scanned in their original order and the first column
// containing any synonym (case-insensitive) wins.
var roleSynonyms = []struct {
	role     Role
	keywords []string
}{
	{RoleDate, []string{"date", "order_date", "invoice_date", "time"}},
	{RoleProduct, []string{"product", "item", "name", "sku"}},
	{RoleQuantity, []string{"qty", "quantity", "units", "count"}},
	{RolePrice, []string{"price", "unit_price", "cost"}},
	{RoleSales, []string{"total_sales", "sales", "amount", "revenue", "total"}},
}

// Detect guesses a column mapping from raw column names. Required roles
// with no matching column are left empty; the sales role is always
// optional and total sales is derived when it stays unresolved.
func Detect(columns []string) dataset.ColumnMapping {
	matches := make(map[Role]string, len(roleSynonyms))
	for _, rule := range roleSynonyms {
		matches[rule.role] = findColumn(columns, rule.keywords)
	}

	return dataset.ColumnMapping{
		Date:     matches[RoleDate],
		Product:  matches[RoleProduct],
		Quantity: matches[RoleQuantity],
		Price:    matches[RolePrice],
		Sales:    matches[RoleSales],
	}
}

// findColumn returns the first column containing any of the keywords as a
// case-insensitive substring, or "" when none matches.
func findColumn(columns []string, keywords []string) string {
	for _, column := range columns {
		low := strings.ToLower(column)
		for _, keyword := range keywords {
			if strings.Contains(low, keyword) {
				return column
			}
		}
	}
	return ""
}
