package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"backoffice/internal/commons"
	"backoffice/internal/infrastructure/logger"
	"backoffice/internal/infrastructure/migrations"
	"backoffice/internal/infrastructure/mysql"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "internal/config/config.yaml", "path to the YAML config file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := commons.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
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

	migrator, err := migrations.New(db, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating migrator", zap.Error(err))
	}
	defer migrator.Close()

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "steps":
		n, convErr := intArg(args)
		if convErr != nil {
			zapLogger.Fatal("invalid steps argument", zap.Error(convErr))
		}
		err = migrator.Steps(n)
	case "force":
		n, convErr := intArg(args)
		if convErr != nil {
			zapLogger.Fatal("invalid force argument", zap.Error(convErr))
		}
		err = migrator.Force(n)
	case "version":
		version, dirty, vErr := migrator.Version()
		err = vErr
		if err == nil {
			zapLogger.Info("current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		zapLogger.Fatal("migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a numeric argument", args[0])
	}
	return strconv.Atoi(args[1])
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: migrate [-config path] up|down|steps N|force N|version")
}
