package domain

import "time"

type StockEventType string

const (
	StockPurchaseRecorded StockEventType = "stock.purchase_recorded"
	StockSaleFinalized    StockEventType = "stock.sale_finalized"
	StockAdjusted         StockEventType = "stock.adjusted"
	StockReverted         StockEventType = "stock.reverted"
)

// StockEvent describes a committed stock movement. Quantity is signed.
type StockEvent struct {
	Type        StockEventType `json:"type"`
	ProductID   int64          `json:"productId"`
	UserID      int64          `json:"userId"`
	Quantity    int            `json:"quantity"`
	ReferenceID int64          `json:"referenceId,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}
