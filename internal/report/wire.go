package report

import (
	"database/sql"

	"go.uber.org/zap"

	"backoffice/internal/infrastructure/pdf"
	"backoffice/internal/report/controller"
	"backoffice/internal/report/repository"
	"backoffice/internal/report/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.ReportController {
	repo := repository.NewMySQLReportRepository(db)
	svc := service.NewReportService(repo, pdf.NewProfitReportRenderer(), logger)
	return controller.NewReportController(svc, logger)
}
