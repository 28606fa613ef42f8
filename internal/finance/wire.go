package finance

import (
	"database/sql"

	"go.uber.org/zap"

	"backoffice/internal/finance/controller"
	"backoffice/internal/finance/repository"
	"backoffice/internal/finance/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.FinanceController {
	repo := repository.NewMySQLFinanceRepository(db)
	svc := service.NewFinanceService(repo, logger)
	return controller.NewFinanceController(svc, logger)
}
