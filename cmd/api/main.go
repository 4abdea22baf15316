package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"grantledger/internal/app"
	"grantledger/internal/config"
	"grantledger/internal/logger"
	"grantledger/internal/models"
	"grantledger/internal/seed"
	"grantledger/internal/server"
	"grantledger/internal/services"

	_ "grantledger/internal/docs" // Import swagger docs
)

// @title           Grantledger API
// @version         1.0
// @description     Grantledger tracks research grant funding, RAB allocations, receipts and their verification.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 30 * time.Second

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := app.OpenStorage(ctx, appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Warnf("storage close error: %v", err)
		}
	}()

	l, found, err := services.OpenLedger(ctx, storage.Repo)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	var demoUsers []models.User
	if appConfig.SeedDemo {
		var snap models.Snapshot
		snap, demoUsers = seed.Demo(appConfig.SeedProjects, time.Now().UTC())
		if !found {
			if err := l.Replace(ctx, snap); err != nil {
				return fmt.Errorf("failed to seed demo data: %w", err)
			}
			log.Infow("Seeded demo data", "projects", appConfig.SeedProjects)
		}
	}

	users, err := app.LoadUsers(appConfig, demoUsers)
	if err != nil {
		return err
	}

	router := server.NewRouter(server.NewServices(l, services.NewUserService(users)))
	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting Grantledger server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
