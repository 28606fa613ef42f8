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
	Insert(ctx context.Context, tx *sql.Tx, p domain.Purchase) (int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Purchase, error)
	LockByID(ctx context.Context, tx *sql.Tx, id, ownerID int64) (*domain.Purchase, error)
	Update(ctx context.Context, tx *sql.Tx, p domain.Purchase) error
	Delete(ctx context.Context, tx *sql.Tx, id, ownerID int64) error
}

type Resolver interface {
	ResolveSupplier(ctx context.Context, tx *sql.Tx, name string) (int64, error)
	ResolveProduct(ctx context.Context, tx *sql.Tx, res domain.ProductResolution) (int64, error)
}

type StockRepository interface {
	AddStock(ctx context.Context, tx *sql.Tx, productID int64, qty int, date string) error
	RemoveStock(ctx context.Context, tx *sql.Tx, productID int64, qty int) error
}

// PurchaseService records purchases. Every purchase adds its quantity to the
// resolved product's stock; edits and deletions move stock by the difference.
type PurchaseService struct {
	tx        TxRunner
	repo      Repository
	resolver  Resolver
	stock     StockRepository
	publisher events.Publisher
	logger    *zap.Logger
}

func NewPurchaseService(tx TxRunner, repo Repository, resolver Resolver, stock StockRepository, publisher events.Publisher, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{
		tx:        tx,
		repo:      repo,
		resolver:  resolver,
		stock:     stock,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *PurchaseService) Create(ctx context.Context, caller security.Principal, req dto.PurchaseRequest) (*domain.Purchase, error) {
	mode, err := parseMode(req.Mode)
	if err != nil {
		return nil, err
	}

	purchase := domain.Purchase{
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Date:      req.Date,
		OwnerID:   caller.UserID,
	}

	err = s.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.resolve(ctx, tx, &purchase, req, mode); err != nil {
			return err
		}

		id, err := s.repo.Insert(ctx, tx, purchase)
		if err != nil {
			return err
		}
		purchase.ID = id

		return s.stock.AddStock(ctx, tx, purchase.ProductID, purchase.Quantity, purchase.Date)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase recorded",
		zap.Int64("purchaseId", purchase.ID),
		zap.Int64("productId", purchase.ProductID),
		zap.Int("quantity", purchase.Quantity),
		zap.String("mode", string(mode)),
	)
	s.publish(ctx, domain.StockPurchaseRecorded, purchase.ProductID, caller.UserID, purchase.Quantity, purchase.ID)
	return &purchase, nil
}

func (s *PurchaseService) List(ctx context.Context, caller security.Principal) ([]domain.Purchase, error) {
	return s.repo.ListByOwner(ctx, caller.UserID)
}

// Update re-resolves supplier and product from req and moves stock so the
// end state matches having recorded the new purchase instead of the old one.
func (s *PurchaseService) Update(ctx context.Context, caller security.Principal, id int64, req dto.PurchaseRequest) error {
	mode, err := parseMode(req.Mode)
	if err != nil {
		return err
	}

	var old domain.Purchase
	updated := domain.Purchase{
		ID:        id,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Date:      req.Date,
		OwnerID:   caller.UserID,
	}

	err = s.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.repo.LockByID(ctx, tx, id, caller.UserID)
		if err != nil {
			return err
		}
		old = *current

		if err := s.resolve(ctx, tx, &updated, req, mode); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, updated); err != nil {
			return err
		}

		if old.ProductID == updated.ProductID {
			return s.applyDelta(ctx, tx, updated.ProductID, updated.Quantity-old.Quantity, updated.Date)
		}
		if err := s.stock.RemoveStock(ctx, tx, old.ProductID, old.Quantity); err != nil {
			return err
		}
		return s.stock.AddStock(ctx, tx, updated.ProductID, updated.Quantity, updated.Date)
	})
	if err != nil {
		return err
	}

	s.logger.Info("purchase updated",
		zap.Int64("purchaseId", id),
		zap.Int64("oldProductId", old.ProductID),
		zap.Int64("productId", updated.ProductID),
		zap.Int("oldQuantity", old.Quantity),
		zap.Int("quantity", updated.Quantity),
	)
	if old.ProductID == updated.ProductID {
		s.publish(ctx, domain.StockAdjusted, updated.ProductID, caller.UserID, updated.Quantity-old.Quantity, id)
	} else {
		s.publish(ctx, domain.StockReverted, old.ProductID, caller.UserID, -old.Quantity, id)
		s.publish(ctx, domain.StockPurchaseRecorded, updated.ProductID, caller.UserID, updated.Quantity, id)
	}
	return nil
}

// Delete removes the purchase and takes its quantity back out of stock.
func (s *PurchaseService) Delete(ctx context.Context, caller security.Principal, id int64) error {
	var old domain.Purchase
	err := s.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.repo.LockByID(ctx, tx, id, caller.UserID)
		if err != nil {
			return err
		}
		old = *current

		if err := s.repo.Delete(ctx, tx, id, caller.UserID); err != nil {
			return err
		}
		return s.stock.RemoveStock(ctx, tx, old.ProductID, old.Quantity)
	})
	if err != nil {
		return err
	}

	s.logger.Info("purchase deleted",
		zap.Int64("purchaseId", id),
		zap.Int64("productId", old.ProductID),
		zap.Int("quantity", old.Quantity),
	)
	s.publish(ctx, domain.StockReverted, old.ProductID, caller.UserID, -old.Quantity, id)
	return nil
}

func (s *PurchaseService) resolve(ctx context.Context, tx *sql.Tx, p *domain.Purchase, req dto.PurchaseRequest, mode domain.ResolveMode) error {
	supplierID, err := s.resolver.ResolveSupplier(ctx, tx, req.SupplierName)
	if err != nil {
		return err
	}

	productID, err := s.resolver.ResolveProduct(ctx, tx, domain.ProductResolution{
		Name:       req.ProductName,
		SupplierID: supplierID,
		Category:   req.Category,
		OwnerID:    p.OwnerID,
		Mode:       mode,
	})
	if err != nil {
		return err
	}

	p.SupplierID = supplierID
	p.ProductID = productID
	p.ProductName = domain.NormalizeName(req.ProductName)
	p.SupplierName = domain.NormalizeName(req.SupplierName)
	p.Category = domain.NormalizeCategory(req.Category)
	return nil
}

func (s *PurchaseService) applyDelta(ctx context.Context, tx *sql.Tx, productID int64, delta int, date string) error {
	switch {
	case delta > 0:
		return s.stock.AddStock(ctx, tx, productID, delta, date)
	case delta < 0:
		return s.stock.RemoveStock(ctx, tx, productID, -delta)
	default:
		return nil
	}
}

func (s *PurchaseService) publish(ctx context.Context, typ domain.StockEventType, productID, userID int64, qty int, ref int64) {
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

func parseMode(raw string) (domain.ResolveMode, error) {
	mode, err := domain.ParseResolveMode(raw)
	if err != nil {
		return "", apperrors.NewValidationError("invalid modo", apperrors.ValidationDetail{
			Field:   "modo",
			Message: "modo must be one of: stack new",
		})
	}
	return mode, nil
}
