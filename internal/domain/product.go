package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCategory = "Outros"

// Product is a Produto row joined with its Estoque quantity.
type Product struct {
	Code        int64
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageURL    *string
	SupplierID  *int64
	OwnerID     int64
	Quantity    int
}

// ResolveMode controls whether a purchase merges into an existing lot or opens a new one.
type ResolveMode string

const (
	ResolveStack ResolveMode = "stack"
	ResolveNew   ResolveMode = "new"
)

func ParseResolveMode(raw string) (ResolveMode, error) {
	switch ResolveMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ResolveStack:
		return ResolveStack, nil
	case ResolveNew:
		return ResolveNew, nil
	default:
		return "", fmt.Errorf("unknown resolve mode %q", raw)
	}
}

// ProductResolution is the input of the find-or-create product lookup.
type ProductResolution struct {
	Name       string
	SupplierID int64
	Category   string
	OwnerID    int64
	Mode       ResolveMode
}

// NormalizeName is the identity policy for name-keyed rows: surrounding
// whitespace is dropped, case folding is left to the column collation.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func NormalizeCategory(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return DefaultCategory
}
