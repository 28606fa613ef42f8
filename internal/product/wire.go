package product

import (
	"database/sql"

	"go.uber.org/zap"

	"backoffice/internal/infrastructure/events"
	"backoffice/internal/infrastructure/mysql"
	inventoryrepository "backoffice/internal/inventory/repository"
	"backoffice/internal/product/controller"
	"backoffice/internal/product/repository"
	"backoffice/internal/product/service"
)

func NewModule(db *sql.DB, tx *mysql.TxRunner, publisher events.Publisher, logger *zap.Logger) *controller.ProductController {
	repo := repository.NewMySQLRepository(db)
	stock := inventoryrepository.NewMySQLStockRepository(db)
	svc := service.NewService(tx, repo, stock, publisher, logger)
	return controller.NewProductController(svc, logger)
}
