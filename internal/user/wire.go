package user

import (
	"database/sql"

	"go.uber.org/zap"

	"backoffice/internal/user/controller"
	"backoffice/internal/user/repository"
	"backoffice/internal/user/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.UserController {
	repo := repository.NewMySQLUserRepository(db)
	svc := service.NewUserService(repo, logger)
	return controller.NewUserController(svc, logger)
}
