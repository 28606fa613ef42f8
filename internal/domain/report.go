package domain

import "github.com/shopspring/decimal"

type ProductMonthlyProfit struct {
	Month  string
	Profit decimal.Decimal
}

type MonthlyProfit struct {
	Month   string
	Revenue decimal.Decimal
	Cost    decimal.Decimal
	Profit  decimal.Decimal
}

// StockReconciliation compares the recorded stock of a product with the
// quantity implied by its purchases and finalized sales.
type StockReconciliation struct {
	ProductCode int64
	ProductName string
	Recorded    int
	Purchased   int
	Sold        int
}

func (r StockReconciliation) Expected() int {
	return r.Purchased - r.Sold
}

// Drift is positive when more stock is recorded than the history explains.
func (r StockReconciliation) Drift() int {
	return r.Recorded - r.Expected()
}
