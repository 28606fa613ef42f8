package domain

import "github.com/shopspring/decimal"

type FinancialEntry struct {
	ID          int64
	Description string
	Value       decimal.Decimal
	Date        string
	OwnerID     int64
}
