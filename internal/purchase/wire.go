package purchase

import (
	"database/sql"

	"go.uber.org/zap"

	"backoffice/internal/infrastructure/events"
	"backoffice/internal/infrastructure/mysql"
	"backoffice/internal/inventory"
	inventoryrepository "backoffice/internal/inventory/repository"
	"backoffice/internal/purchase/controller"
	"backoffice/internal/purchase/repository"
	"backoffice/internal/purchase/service"
)

func NewModule(db *sql.DB, tx *mysql.TxRunner, publisher events.Publisher, logger *zap.Logger) *controller.PurchaseController {
	repo := repository.NewMySQLPurchaseRepository(db)
	resolver := inventory.NewResolver(db, logger)
	stock := inventoryrepository.NewMySQLStockRepository(db)
	svc := service.NewPurchaseService(tx, repo, resolver, stock, publisher, logger)
	return controller.NewPurchaseController(svc, logger)
}
