package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"backoffice/internal/auth"
	"backoffice/internal/commons"
	"backoffice/internal/finance"
	"backoffice/internal/infrastructure/events"
	"backoffice/internal/infrastructure/logger"
	"backoffice/internal/infrastructure/mysql"
	"backoffice/internal/inventory"
	"backoffice/internal/product"
	"backoffice/internal/purchase"
	"backoffice/internal/report"
	"backoffice/internal/sale"
	"backoffice/internal/security"
	"backoffice/internal/server"
	"backoffice/internal/user"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "internal/config/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := commons.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	tokens, err := security.NewTokenService(cfg.Auth)
	if err != nil {
		zapLogger.Fatal("creating token service", zap.Error(err))
	}

	publisher, closePublisher := events.NewPublisher(cfg.Kafka, zapLogger)
	defer closePublisher()

	tx := mysql.NewTxRunner(db, cfg.Tx, zapLogger)

	controllers := server.Controllers{
		Auth:      auth.NewModule(db, tokens, cfg.Auth, zapLogger),
		User:      user.NewModule(db, zapLogger),
		Product:   product.NewModule(db, tx, publisher, zapLogger),
		Inventory: inventory.NewModule(db, zapLogger),
		Purchase:  purchase.NewModule(db, tx, publisher, zapLogger),
		Sale:      sale.NewModule(db, tx, publisher, zapLogger),
		Finance:   finance.NewModule(db, zapLogger),
		Report:    report.NewModule(db, zapLogger),
	}

	router := server.NewRouter(controllers, tokens, db, cfg.CORS, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
