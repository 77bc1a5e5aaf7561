// Command seed populates the JSON store with a demo catalog and
// inventory, and mirrors availability into Redis when configured.
package main

import (
	"context"
	"log"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/oms/internal/adapter/storage"
	"github.com/rl1809/oms/internal/config"
	"github.com/rl1809/oms/internal/core/service"
)

var demoCatalog = []struct {
	name     string
	price    string
	quantity int
}{
	{"Widget", "15.00", 100},
	{"Gadget", "25.00", 50},
	{"Gizmo", "9.99", 200},
	{"Doohickey", "49.50", 25},
}

func main() {
	ctx := context.Background()
	cfg := config.Load()

	productRepo, err := storage.NewJSONProductRepository(filepath.Join(cfg.DataDir, "products.json"))
	if err != nil {
		log.Fatalf("open product store: %v", err)
	}
	inventoryRepo, err := storage.NewJSONInventoryRepository(filepath.Join(cfg.DataDir, "inventory.json"))
	if err != nil {
		log.Fatalf("open inventory store: %v", err)
	}

	products := service.NewProductService(productRepo)
	inventory := service.NewInventoryService(inventoryRepo, productRepo)

	for _, entry := range demoCatalog {
		product, err := products.Add(ctx, entry.name, entry.price)
		if err != nil {
			log.Printf("skipping %s: %v", entry.name, err)
			continue
		}
		if err := inventory.Set(ctx, entry.name, entry.quantity); err != nil {
			log.Fatalf("set inventory for %s: %v", entry.name, err)
		}
		log.Printf("seeded %s (#%s) at $%s, stock %d", product.Name, product.ID, entry.price, entry.quantity)
	}

	if cfg.RedisAddr == "" {
		return
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("connect redis: %v", err)
	}

	cache := storage.NewRedisAdapter(rdb)
	items, err := inventoryRepo.ListAll(ctx)
	if err != nil {
		log.Fatalf("list inventory: %v", err)
	}
	for _, item := range items {
		if err := cache.SetAvailable(ctx, item.ProductID, item.Available()); err != nil {
			log.Fatalf("mirror availability for %s: %v", item.ProductName, err)
		}
	}
	log.Printf("mirrored availability for %d products", len(items))
}
