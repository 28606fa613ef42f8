package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"backoffice/internal/domain"
	"backoffice/internal/dto"
	apperrors "backoffice/internal/errors"
	"backoffice/internal/infrastructure/events"
	"backoffice/internal/security"
)

type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type Repository interface {
	Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (int64, error)
	ListByOwner(ctx context.Context, ownerID int64, allStatuses bool) ([]domain.Order, error)
	LockByID(ctx context.Context, tx *sql.Tx, id, ownerID int64) (*domain.Order, error)
	Update(ctx context.Context, tx *sql.Tx, o domain.Order) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
}

type ProductLookup interface {
	FindLotByName(ctx context.Context, tx *sql.Tx, name string, ownerID int64) (int64, error)
}

type StockRepository interface {
	LockQuantity(ctx context.Context, tx *sql.Tx, productID int64) (int, error)
	AddStock(ctx context.Context, tx *sql.Tx, productID int64, qty int, date string) error
	RemoveStock(ctx context.Context, tx *sql.Tx, productID int64, qty int) error
}

type CustomerResolver interface {
	ResolveCustomer(ctx context.Context, tx *sql.Tx, name string) (int64, error)
}

type CustomerRenamer interface {
	Rename(ctx context.Context, tx *sql.Tx, id int64, name string) error
}

// SaleService records sales. Only finalized orders move stock: creating one
// removes its quantity, editing or deleting it gives the quantity back first.
type SaleService struct {
	tx        TxRunner
	repo      Repository
	products  ProductLookup
	stock     StockRepository
	customers CustomerResolver
	renamer   CustomerRenamer
	publisher events.Publisher
	logger    *zap.Logger
}

func NewSaleService(
	tx TxRunner,
	repo Repository,
	products ProductLookup,
	stock StockRepository,
	customers CustomerResolver,
	renamer CustomerRenamer,
	publisher events.Publisher,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		tx:        tx,
		repo:      repo,
		products:  products,
		stock:     stock,
		customers: customers,
		renamer:   renamer,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *SaleService) Create(ctx context.Context, caller security.Principal, req dto.CreateSaleRequest) (*domain.Order, error) {
	order := domain.Order{
		ProductName:  domain.NormalizeName(req.ProductName),
		CustomerName: domain.NormalizeName(req.CustomerName),
		Quantity:     req.Quantity,
		FinalValue:   req.FinalValue,
		Date:         req.Date,
		Status:       req.Status,
		Marketplace:  domain.MarketplaceAdHoc,
	}

	err := s.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		productID, err := s.products.FindLotByName(ctx, tx, order.ProductName, caller.UserID)
		if err != nil {
			return err
		}
		order.ProductID = productID

		available, err := s.stock.LockQuantity(ctx, tx, productID)
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return apperrors.NewInsufficientStockError(productID, order.Quantity, 0)
		}
		if err != nil {
			return err
		}
		if available < order.Quantity {
			return apperrors.NewInsufficientStockError(productID, order.Quantity, available)
		}

		customerID, err := s.customers.ResolveCustomer(ctx, tx, order.CustomerName)
		if err != nil {
			return err
		}
		order.CustomerID = customerID

		id, err := s.repo.Insert(ctx, tx, order)
		if err != nil {
			return err
		}
		order.ID = id

		if !order.IsFinalized() {
			return nil
		}
		return s.stock.RemoveStock(ctx, tx, productID, order.Quantity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.Int64("orderId", order.ID),
		zap.Int64("productId", order.ProductID),
		zap.Int("quantity", order.Quantity),
		zap.String("status", order.Status),
	)
	if order.IsFinalized() {
		s.publish(ctx, domain.StockSaleFinalized, order.ProductID, caller.UserID, -order.Quantity, order.ID)
	}
	return &order, nil
}

// List returns finalized orders unless allStatuses is set.
func (s *SaleService) List(ctx context.Context, caller security.Principal, allStatuses bool) ([]domain.Order, error) {
	return s.repo.ListByOwner(ctx, caller.UserID, allStatuses)
}

// Update overwrites the order and renames its customer. When the new name
// already belongs to another customer the order moves to that customer and
// the old row keeps its name. Stock ends as if the old order had never been
// finalized and the new one was recorded instead.
func (s *SaleService) Update(ctx context.Context, caller security.Principal, id int64, req dto.UpdateSaleRequest) error {
	var old domain.Order
	updated := domain.Order{
		ID:           id,
		ProductName:  domain.NormalizeName(req.ProductName),
		CustomerName: domain.NormalizeName(req.CustomerName),
		Quantity:     req.Quantity,
		FinalValue:   req.Price,
		Date:         req.Date,
		Status:       req.Status,
	}

	err := s.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.repo.LockByID(ctx, tx, id, caller.UserID)
		if err != nil {
			return err
		}
		old = *current
		updated.CustomerID = old.CustomerID
		updated.Marketplace = old.Marketplace

		productID, err := s.products.FindLotByName(ctx, tx, updated.ProductName, caller.UserID)
		if err != nil {
			return err
		}
		updated.ProductID = productID

		if old.IsFinalized() {
			if err := s.stock.AddStock(ctx, tx, old.ProductID, old.Quantity, ""); err != nil {
				return err
			}
		}

		customerID, err := s.renameCustomer(ctx, tx, old.CustomerID, updated.CustomerName)
		if err != nil {
			return err
		}
		updated.CustomerID = customerID

		if err := s.repo.Update(ctx, tx, updated); err != nil {
			return err
		}

		if !updated.IsFinalized() {
			return nil
		}
		return s.stock.RemoveStock(ctx, tx, updated.ProductID, updated.Quantity)
	})
	if err != nil {
		return err
	}

	s.logger.Info("sale updated",
		zap.Int64("orderId", id),
		zap.Int64("oldProductId", old.ProductID),
		zap.Int64("productId", updated.ProductID),
		zap.String("oldStatus", old.Status),
		zap.String("status", updated.Status),
	)
	if old.IsFinalized() {
		s.publish(ctx, domain.StockReverted, old.ProductID, caller.UserID, old.Quantity, id)
	}
	if updated.IsFinalized() {
		s.publish(ctx, domain.StockSaleFinalized, updated.ProductID, caller.UserID, -updated.Quantity, id)
	}
	return nil
}

func (s *SaleService) renameCustomer(ctx context.Context, tx *sql.Tx, customerID int64, name string) (int64, error) {
	err := s.renamer.Rename(ctx, tx, customerID, name)
	if _, ok := apperrors.IsConflictError(err); ok {
		return s.customers.ResolveCustomer(ctx, tx, name)
	}
	if err != nil {
		return 0, err
	}
	return customerID, nil
}

// Delete removes the order and returns its quantity when it was finalized.
func (s *SaleService) Delete(ctx context.Context, caller security.Principal, id int64) error {
	var old domain.Order
	err := s.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.repo.LockByID(ctx, tx, id, caller.UserID)
		if err != nil {
			return err
		}
		old = *current

		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return err
		}
		if !old.IsFinalized() {
			return nil
		}
		return s.stock.AddStock(ctx, tx, old.ProductID, old.Quantity, "")
	})
	if err != nil {
		return err
	}

	s.logger.Info("sale deleted",
		zap.Int64("orderId", id),
		zap.Int64("productId", old.ProductID),
		zap.Bool("restocked", old.IsFinalized()),
	)
	if old.IsFinalized() {
		s.publish(ctx, domain.StockReverted, old.ProductID, caller.UserID, old.Quantity, id)
	}
	return nil
}

func (s *SaleService) publish(ctx context.Context, typ domain.StockEventType, productID, userID int64, qty int, ref int64) {
	if qty == 0 {
		return
	}
	s.publisher.Publish(ctx, domain.StockEvent{
		Type:        typ,
		ProductID:   productID,
		UserID:      userID,
		Quantity:    qty,
		ReferenceID: ref,
	})
}
