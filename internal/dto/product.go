package dto

import "github.com/shopspring/decimal"

type ProductResponse struct {
	Code        int64           `json:"cod"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	Price       decimal.Decimal `json:"preco"`
	Category    string          `json:"categoria"`
	ImageURL    *string         `json:"imagem_url"`
	Quantity    int             `json:"quantidade"`
}

type ProductNameResponse struct {
	Name string `json:"nome"`
}

// ProductRequest is the body of both product creation and update.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,notblank,max=190"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    string          `json:"category" validate:"max=100"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	ImageURL    string          `json:"image_url" validate:"required,jpgurl,max=500"`
}

type CreateProductResponse struct {
	Code    int64  `json:"cod"`
	Message string `json:"mensagem"`
}

type StockReconciliationResponse struct {
	Code      int64  `json:"cod"`
	Name      string `json:"nome"`
	Recorded  int    `json:"registrado"`
	Purchased int    `json:"comprado"`
	Sold      int    `json:"vendido"`
	Expected  int    `json:"esperado"`
	Drift     int    `json:"divergencia"`
}
