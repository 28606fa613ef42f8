package service

import (
	"context"
	"database/sql"
	"strings"

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
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Product, error)
	ListNamesByOwner(ctx context.Context, ownerID int64) ([]string, error)
	FindByCode(ctx context.Context, code, ownerID int64) (*domain.Product, error)
	LockForUpdate(ctx context.Context, tx *sql.Tx, code int64) (*domain.Product, error)
	Insert(ctx context.Context, tx *sql.Tx, p domain.Product) (int64, error)
	Update(ctx context.Context, tx *sql.Tx, p domain.Product) error
}

type StockRepository interface {
	SetQuantity(ctx context.Context, tx *sql.Tx, productID int64, qty int) error
}

type ProductService struct {
	tx        TxRunner
	repo      Repository
	stock     StockRepository
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService(tx TxRunner, repo Repository, stock StockRepository, publisher events.Publisher, logger *zap.Logger) *ProductService {
	return &ProductService{
		tx:        tx,
		repo:      repo,
		stock:     stock,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *ProductService) Dashboard(ctx context.Context, caller security.Principal) ([]domain.Product, error) {
	return s.repo.ListByOwner(ctx, caller.UserID)
}

func (s *ProductService) Names(ctx context.Context, caller security.Principal) ([]string, error) {
	return s.repo.ListNamesByOwner(ctx, caller.UserID)
}

func (s *ProductService) Get(ctx context.Context, caller security.Principal, code int64) (*domain.Product, error) {
	return s.repo.FindByCode(ctx, code, caller.UserID)
}

// Create inserts the product and its stock row in one transaction.
func (s *ProductService) Create(ctx context.Context, caller security.Principal, req dto.ProductRequest) (int64, error) {
	product := fromRequest(req, caller.UserID)

	var code int64
	err := s.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		code, err = s.repo.Insert(ctx, tx, product)
		if err != nil {
			return err
		}
		return s.stock.SetQuantity(ctx, tx, code, req.Quantity)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("product created",
		zap.Int64("productId", code),
		zap.Int64("ownerId", caller.UserID),
		zap.Int("quantity", req.Quantity),
	)
	s.publishAdjustment(ctx, caller.UserID, code, req.Quantity)
	return code, nil
}

// Update overwrites the product and sets its stock quantity. Products owned
// by someone else are Forbidden rather than NotFound.
func (s *ProductService) Update(ctx context.Context, caller security.Principal, code int64, req dto.ProductRequest) error {
	product := fromRequest(req, caller.UserID)
	product.Code = code

	var delta int
	err := s.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.repo.LockForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		if current.OwnerID != caller.UserID {
			return apperrors.NewForbiddenError("product belongs to another user")
		}

		if err := s.repo.Update(ctx, tx, product); err != nil {
			return err
		}
		if err := s.stock.SetQuantity(ctx, tx, code, req.Quantity); err != nil {
			return err
		}
		delta = req.Quantity - current.Quantity
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("product updated",
		zap.Int64("productId", code),
		zap.Int64("ownerId", caller.UserID),
		zap.Int("stockDelta", delta),
	)
	s.publishAdjustment(ctx, caller.UserID, code, delta)
	return nil
}

func (s *ProductService) publishAdjustment(ctx context.Context, userID, code int64, delta int) {
	if delta == 0 {
		return
	}
	s.publisher.Publish(ctx, domain.StockEvent{
		Type:      domain.StockAdjusted,
		ProductID: code,
		UserID:    userID,
		Quantity:  delta,
	})
}

func fromRequest(req dto.ProductRequest, ownerID int64) domain.Product {
	imageURL := strings.TrimSpace(req.ImageURL)
	return domain.Product{
		Name:        domain.NormalizeName(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    domain.NormalizeCategory(req.Category),
		ImageURL:    &imageURL,
		OwnerID:     ownerID,
		Quantity:    req.Quantity,
	}
}
