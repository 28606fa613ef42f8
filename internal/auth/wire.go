package auth

import (
	"database/sql"

	"go.uber.org/zap"

	"backoffice/internal/auth/controller"
	"backoffice/internal/auth/service"
	"backoffice/internal/config"
	"backoffice/internal/security"
	"backoffice/internal/user/repository"
)

func NewModule(db *sql.DB, tokens *security.TokenService, cfg config.AuthConfig, logger *zap.Logger) *controller.AuthController {
	users := repository.NewMySQLUserRepository(db)
	svc := service.NewAuthService(users, tokens, logger)
	return controller.NewAuthController(svc, cfg.CookieSecure, logger)
}
