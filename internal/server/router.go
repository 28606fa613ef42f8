package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	authcontroller "backoffice/internal/auth/controller"
	"backoffice/internal/commons"
	"backoffice/internal/config"
	"backoffice/internal/domain"
	financecontroller "backoffice/internal/finance/controller"
	inventorycontroller "backoffice/internal/inventory/controller"
	productcontroller "backoffice/internal/product/controller"
	purchasecontroller "backoffice/internal/purchase/controller"
	reportcontroller "backoffice/internal/report/controller"
	salecontroller "backoffice/internal/sale/controller"
	"backoffice/internal/security"
	usercontroller "backoffice/internal/user/controller"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Controllers struct {
	Auth      *authcontroller.AuthController
	User      *usercontroller.UserController
	Product   *productcontroller.ProductController
	Inventory *inventorycontroller.ReconciliationController
	Purchase  *purchasecontroller.PurchaseController
	Sale      *salecontroller.SaleController
	Finance   *financecontroller.FinanceController
	Report    *reportcontroller.ReportController
}

type healthResponse struct {
	Status string `json:"status"`
}

// NewRouter mounts the public auth routes and puts everything else behind the
// access token gate.
func NewRouter(c Controllers, tokens security.TokenParser, db Pinger, cors config.CORSConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(CORS(cors))

	r.Get("/health", health(db, logger))

	r.Post("/register", c.Auth.Register)
	r.Post("/login", c.Auth.Login)
	r.Post("/refresh", c.Auth.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(security.Authenticate(tokens, logger))
		r.Use(security.RequireRole(logger, domain.RoleAdmin, domain.RoleEmployee))

		r.Get("/users", c.User.List)
		r.Get("/users/{id}", c.User.Get)
		r.Put("/users/{id}", c.User.Update)

		r.Get("/dashboard", c.Product.Dashboard)
		r.Get("/produtos", c.Product.Names)
		r.Get("/produto/{cod}", c.Product.Get)
		r.Post("/novoproduto", c.Product.Create)
		r.Put("/produto/{cod}", c.Product.Update)

		r.Get("/estoque/{cod}/reconciliacao", c.Inventory.Get)

		r.Get("/comprasdashboard", c.Purchase.List)
		r.Post("/comprasdashboard", c.Purchase.Create)
		r.Put("/comprasdashboard/{id}", c.Purchase.Update)
		r.Delete("/comprasdashboard/{id}", c.Purchase.Delete)

		r.Get("/vendas", c.Sale.List)
		r.Post("/vendas", c.Sale.Create)
		r.Put("/vendas/{id}", c.Sale.Update)
		r.Delete("/vendas/{id}", c.Sale.Delete)

		r.Get("/finance", c.Finance.List)
		r.Post("/finance", c.Finance.Create)
		r.Put("/finance/{id}", c.Finance.Update)
		r.Delete("/finance/{id}", c.Finance.Delete)

		r.Get("/relatorios/lucro-produto/{nome}", c.Report.ProductMonthlyProfit)
		r.Get("/relatorios/lucro-mensal", c.Report.MonthlyProfit)
		r.Get("/relatorios/lucro-mensal/pdf", c.Report.MonthlyProfitPDF)
	})

	return r
}

func health(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			logger.Warn("health check failed", zap.String("traceId", uuid.New().String()), zap.Error(err))
			commons.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "database unavailable"}, logger)
			return
		}
		commons.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"}, logger)
	}
}
