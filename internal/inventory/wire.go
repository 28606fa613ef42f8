package inventory

import (
	"database/sql"

	"go.uber.org/zap"

	"backoffice/internal/inventory/controller"
	"backoffice/internal/inventory/repository"
	"backoffice/internal/inventory/service"
	productrepository "backoffice/internal/product/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.ReconciliationController {
	stock := repository.NewMySQLStockRepository(db)
	svc := service.NewReconciliationService(stock, logger)
	return controller.NewReconciliationController(svc, logger)
}

// NewResolver builds the find-or-create resolver shared by the purchase and sale modules.
func NewResolver(db *sql.DB, logger *zap.Logger) *service.Resolver {
	return service.NewResolver(
		repository.NewMySQLSupplierRepository(db),
		repository.NewMySQLCustomerRepository(db),
		productrepository.NewMySQLRepository(db),
		logger,
	)
}
