package forecast

import (
	"sort"
)

// ProductEncoding is the bijection from product identifier to integer
// code, frozen when the model is trained. Codes are assigned over the
// sorted distinct product list so identical catalogues always produce
// identical encodings.
type ProductEncoding struct {
	Classes []string
	Codes   map[string]int
}

// NewProductEncoding builds an encoding over the distinct products in the
// given list.
func NewProductEncoding(products []string) *ProductEncoding {
	distinct := make(map[string]bool, len(products))
	for _, p := range products {
		distinct[p] = true
	}

	classes := make([]string, 0, len(distinct))
	for p := range distinct {
		classes = append(classes, p)
	}
	sort.Strings(classes)

	codes := make(map[string]int, len(classes))
	for i, p := range classes {
		codes[p] = i
	}

	return &ProductEncoding{Classes: classes, Codes: codes}
}

// Code returns the integer code for a product, or false when the product
// was not part of the training catalogue.
func (e *ProductEncoding) Code(product string) (int, bool) {
	code, ok := e.Codes[product]
	return code, ok
}

// Contains reports whether the product was part of the training catalogue.
func (e *ProductEncoding) Contains(product string) bool {
	_, ok := e.Codes[product]
	return ok
}

// Missing returns the products from the given list that are absent from
// the encoding. A non-empty result means the model is stale for the
// dataset the list came from.
func (e *ProductEncoding) Missing(products []string) []string {
	var missing []string
	for _, p := range products {
		if !e.Contains(p) {
			missing = append(missing, p)
		}
	}
	return missing
}

// Len returns the number of encoded products.
func (e *ProductEncoding) Len() int {
	return len(e.Classes)
}
