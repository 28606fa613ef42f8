package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"backoffice/internal/domain"
	apperrors "backoffice/internal/errors"
)

type SupplierStore interface {
	Upsert(ctx context.Context, tx *sql.Tx, name string) (int64, error)
}

type CustomerStore interface {
	Upsert(ctx context.Context, tx *sql.Tx, name string) (int64, error)
}

type ProductStore interface {
	FindLotByName(ctx context.Context, tx *sql.Tx, name string, ownerID int64) (int64, error)
	MergeLot(ctx context.Context, tx *sql.Tx, code, supplierID int64, category string) error
	Insert(ctx context.Context, tx *sql.Tx, p domain.Product) (int64, error)
}

// Resolver turns names into ids, creating the row when no match exists.
// Every method runs inside the caller's transaction.
type Resolver struct {
	suppliers SupplierStore
	customers CustomerStore
	products  ProductStore
	logger    *zap.Logger
}

func NewResolver(suppliers SupplierStore, customers CustomerStore, products ProductStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		suppliers: suppliers,
		customers: customers,
		products:  products,
		logger:    logger,
	}
}

func (r *Resolver) ResolveSupplier(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	name, err := requireName("fornecedor_nome", name)
	if err != nil {
		return 0, err
	}
	return r.suppliers.Upsert(ctx, tx, name)
}

func (r *Resolver) ResolveCustomer(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	name, err := requireName("cliente_nome", name)
	if err != nil {
		return 0, err
	}
	return r.customers.Upsert(ctx, tx, name)
}

// ResolveProduct merges into the owner's oldest lot with the same name in
// stack mode and always opens a new lot in new mode.
func (r *Resolver) ResolveProduct(ctx context.Context, tx *sql.Tx, res domain.ProductResolution) (int64, error) {
	name, err := requireName("produto_nome", res.Name)
	if err != nil {
		return 0, err
	}
	category := domain.NormalizeCategory(res.Category)

	switch res.Mode {
	case domain.ResolveStack, "":
		code, err := r.products.FindLotByName(ctx, tx, name, res.OwnerID)
		if err == nil {
			if err := r.products.MergeLot(ctx, tx, code, res.SupplierID, category); err != nil {
				return 0, err
			}
			return code, nil
		}
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			return 0, err
		}
	case domain.ResolveNew:
	default:
		return 0, apperrors.NewValidationError("invalid modo", apperrors.ValidationDetail{
			Field:   "modo",
			Message: "modo must be one of [stack new]",
		})
	}

	supplierID := res.SupplierID
	code, err := r.products.Insert(ctx, tx, domain.Product{
		Name:       name,
		Category:   category,
		SupplierID: &supplierID,
		OwnerID:    res.OwnerID,
	})
	if err != nil {
		return 0, err
	}

	r.logger.Debug("product lot created",
		zap.Int64("productId", code),
		zap.Int64("ownerId", res.OwnerID),
		zap.String("mode", string(res.Mode)),
	)
	return code, nil
}

func requireName(field, raw string) (string, error) {
	name := domain.NormalizeName(raw)
	if name == "" {
		return "", apperrors.NewValidationError(field+" is required", apperrors.ValidationDetail{
			Field:   field,
			Message: field + " must not be blank",
		})
	}
	return name, nil
}
