// File: app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"go-ledger/config"
	"go-ledger/db"
	"go-ledger/handler"
	"go-ledger/logger"
	"go-ledger/repository"
	"go-ledger/router"
	"go-ledger/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// ledgerStore is what a storage driver has to provide.
type ledgerStore interface {
	repository.Store
	repository.UserDirectory
	repository.Provisioner
	repository.SessionStore
}

// App is the wired application.
type App struct {
	Router  http.Handler
	Store   ledgerStore
	closers []func() error
}

// New wires every layer according to cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	store, err := a.openStore(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	var redisClient *redis.Client
	if cfg.Redis.Enabled || cfg.Events.Driver == "redis" {
		redisClient, err = db.ConnectRedis(cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, redisClient.Close)
	}

	var cache *service.Cache
	if cfg.Redis.Enabled {
		cache = service.NewCache(redisClient, cfg.Redis.CacheTTL)
	}

	publisher, err := a.newPublisher(cfg.Events, redisClient)
	if err != nil {
		a.Close()
		return nil, err
	}

	authService := service.NewAuthService(store, store, service.AuthConfig{
		SecretKey:  cfg.JWT.SecretKey,
		TTL:        cfg.JWT.TTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	transferService := service.NewTransferService(store, store, cache, publisher, cfg.Ledger)
	activityService := service.NewActivityService(store, store, cache, cfg.Ledger.ActivityLimit)
	accountService := service.NewAccountService(store, cache)

	if cfg.Seed.Demo {
		if err := service.SeedDemo(ctx, store, authService); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
		logger.Log.Info("Demo data seeded")
	}

	a.Router = router.NewRouter(router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Account:     handler.NewAccountHandler(accountService, cfg.Ledger.Currency),
		Transaction: handler.NewTransactionHandler(transferService, activityService, cfg.Ledger.Currency),
		Tokens:      authService,
	})
	return a, nil
}

func (a *App) openStore(cfg *config.Config) (ledgerStore, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Log.Warn("Using in-memory storage, data is lost on restart")
		return repository.NewMemoryStore(), nil
	case "postgres", "":
		database, err := db.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, database.Close)
		if cfg.Database.Migrate {
			if err := db.Migrate(cfg.Database.URL()); err != nil {
				return nil, err
			}
		}
		return repository.NewPostgresStore(database), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (a *App) newPublisher(cfg config.EventsConfig, client *redis.Client) (service.EventPublisher, error) {
	switch cfg.Driver {
	case "redis":
		return service.NewRedisStreamPublisher(client, cfg.Stream), nil
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("events.kafka_brokers is empty")
		}
		p := service.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, p.Close)
		return p, nil
	case "none", "":
		return service.NopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Log.WithError(err).Warn("Error while closing resource")
		}
	}
	a.closers = nil
}

func Run() {
	logger.Init()
	logger.Log.Info("Logger initialized")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}
	logger.SetLevel(cfg.Log.Level)
	logger.Log.Info("Configuration loaded successfully")

	application, err := New(context.Background(), cfg)
	if err != nil {
		logger.Log.Fatalf("Error starting the application: %v", err)
	}
	defer application.Close()

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           application.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
