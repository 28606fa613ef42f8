package dto

import "github.com/shopspring/decimal"

type PurchaseRequest struct {
	ProductName  string          `json:"produto_nome" validate:"required,notblank,max=190"`
	SupplierName string          `json:"fornecedor_nome" validate:"required,notblank,max=190"`
	Category     string          `json:"categoria" validate:"max=100"`
	Quantity     int             `json:"quantidade" validate:"required,gt=0"`
	UnitPrice    decimal.Decimal `json:"preco_unit" validate:"gte=0"`
	Date         string          `json:"data" validate:"required,datetime=2006-01-02"`
	Mode         string          `json:"modo" validate:"omitempty,oneof=stack new"`
}

type PurchaseResponse struct {
	ID        int64           `json:"id"`
	Product   string          `json:"produto"`
	Quantity  int             `json:"quantidade"`
	Category  string          `json:"categoria"`
	UnitPrice decimal.Decimal `json:"preco_unit"`
	Total     decimal.Decimal `json:"total"`
	Date      string          `json:"data"`
	Supplier  string          `json:"fornecedor"`
}

type CreatePurchaseResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"produto_id"`
	Message   string `json:"mensagem"`
}
