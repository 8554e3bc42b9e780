package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahidx/saroyar-sub004/internal/repository"
	"github.com/sahidx/saroyar-sub004/internal/service"
	"github.com/sahidx/saroyar-sub004/pkg/config"
	"github.com/sahidx/saroyar-sub004/pkg/database"
	"github.com/sahidx/saroyar-sub004/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	cli := commandLine{
		migrate: func(ctx context.Context) error { return database.Migrate(ctx, db) },
		users: service.NewAuthService(repository.NewUserRepository(db), validator.New(), logr, service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		}),
		logger: logr,
	}
	if err := cli.run(context.Background(), os.Args); err != nil {
		if err != errHelp {
			logr.Error("command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
