package sale

import (
	"database/sql"

	"go.uber.org/zap"

	"backoffice/internal/infrastructure/events"
	"backoffice/internal/infrastructure/mysql"
	"backoffice/internal/inventory"
	inventoryrepository "backoffice/internal/inventory/repository"
	productrepository "backoffice/internal/product/repository"
	"backoffice/internal/sale/controller"
	"backoffice/internal/sale/repository"
	"backoffice/internal/sale/service"
)

func NewModule(db *sql.DB, tx *mysql.TxRunner, publisher events.Publisher, logger *zap.Logger) *controller.SaleController {
	svc := service.NewSaleService(
		tx,
		repository.NewMySQLOrderRepository(db),
		productrepository.NewMySQLRepository(db),
		inventoryrepository.NewMySQLStockRepository(db),
		inventory.NewResolver(db, logger),
		inventoryrepository.NewMySQLCustomerRepository(db),
		publisher,
		logger,
	)
	return controller.NewSaleController(svc, logger)
}
