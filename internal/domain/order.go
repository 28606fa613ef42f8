package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusFinalized = "finalizado"
	MarketplaceAdHoc     = "avulso"
)

// Order is a Pedido row, a sale of one product to one customer.
type Order struct {
	ID           int64
	ProductID    int64
	ProductName  string
	CustomerID   int64
	CustomerName string
	Quantity     int
	FinalValue   decimal.Decimal
	Date         string
	Status       string
	Marketplace  string
}

// IsFinalized reports whether the order moves stock.
func (o Order) IsFinalized() bool {
	return IsFinalizedStatus(o.Status)
}

func IsFinalizedStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), OrderStatusFinalized)
}
