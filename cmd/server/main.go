package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/oms/internal/adapter/handler"
	"github.com/rl1809/oms/internal/adapter/storage"
	"github.com/rl1809/oms/internal/config"
	"github.com/rl1809/oms/internal/core/service"
	"github.com/rl1809/oms/internal/port"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Dev)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	products, orders, inventory, closeStorage, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer closeStorage()

	var cache port.AvailabilityCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis ping failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
		cache = storage.NewRedisAdapter(rdb)
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	h := handler.NewHTTPHandler(
		service.NewProductService(products),
		service.NewInventoryService(inventory, products),
		service.NewOrderService(orders, products, inventory),
		inventory,
		cache,
		logger,
	)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h.Routes(),
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}
	logger.Info("http server stopped")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildRepositories picks the storage backend: MySQL when a DSN is
// configured, JSON files under the data directory otherwise.
func buildRepositories(ctx context.Context, cfg config.Config, logger *zap.Logger) (
	port.ProductRepository, port.OrderRepository, port.InventoryRepository, func() error, error,
) {
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, nil, nil, err
		}

		adapter := storage.NewMySQLAdapter(db)
		if err := adapter.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, nil, nil, err
		}
		logger.Info("connected to mysql")
		return adapter.Products(), adapter.Orders(), adapter.Inventory(), db.Close, nil
	}

	products, err := storage.NewJSONProductRepository(filepath.Join(cfg.DataDir, "products.json"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	orders, err := storage.NewJSONOrderRepository(filepath.Join(cfg.DataDir, "orders.json"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	inventory, err := storage.NewJSONInventoryRepository(filepath.Join(cfg.DataDir, "inventory.json"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger.Info("using json storage", zap.String("dir", cfg.DataDir))
	return products, orders, inventory, func() error { return nil }, nil
}
