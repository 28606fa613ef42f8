package domain

import "github.com/shopspring/decimal"

// Purchase is a Compras row. Creating one always adds Quantity to stock.
type Purchase struct {
	ID           int64
	ProductID    int64
	ProductName  string
	SupplierID   int64
	SupplierName string
	Category     string
	Quantity     int
	UnitPrice    decimal.Decimal
	Date         string
	OwnerID      int64
}

// Total is the purchase cost, UnitPrice times Quantity.
func (p Purchase) Total() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
