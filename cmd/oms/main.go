// Command oms is the order management CLI. It works against the JSON
// file storage under the configured data directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rl1809/oms/internal/adapter/storage"
	"github.com/rl1809/oms/internal/config"
	"github.com/rl1809/oms/internal/core/service"
)

const usageText = `Usage: oms <group> <command> [flags]

Groups and commands:
  product add        -name <name> -price <price>
  product list
  product update     -id <id> -price <price>
  inventory set      -product <name> -quantity <n>
  inventory show
  order create       -customer <name> -items <Product:Qty,Product:Qty>
  order show         -id <n>
  order confirm      -id <n>
  order fulfill      -id <n> [-partial -items <Product:Qty,...>]
  order cancel       -id <n>
`

type app struct {
	products  *service.ProductService
	inventory *service.InventoryService
	orders    *service.OrderService
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	cfg := config.Load()
	a, err := newApp(cfg.DataDir)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	group, command, args := os.Args[1], os.Args[2], os.Args[3:]

	switch group + " " + command {
	case "product add":
		err = a.productAdd(ctx, args)
	case "product list":
		err = a.productList(ctx)
	case "product update":
		err = a.productUpdate(ctx, args)
	case "inventory set":
		err = a.inventorySet(ctx, args)
	case "inventory show":
		err = a.inventoryShow(ctx)
	case "order create":
		err = a.orderCreate(ctx, args)
	case "order show":
		err = a.orderShow(ctx, args)
	case "order confirm":
		err = a.orderConfirm(ctx, args)
	case "order fulfill":
		err = a.orderFulfill(ctx, args)
	case "order cancel":
		err = a.orderCancel(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s %s\n\n", group, command)
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func newApp(dataDir string) (*app, error) {
	products, err := storage.NewJSONProductRepository(filepath.Join(dataDir, "products.json"))
	if err != nil {
		return nil, err
	}
	orders, err := storage.NewJSONOrderRepository(filepath.Join(dataDir, "orders.json"))
	if err != nil {
		return nil, err
	}
	inventory, err := storage.NewJSONInventoryRepository(filepath.Join(dataDir, "inventory.json"))
	if err != nil {
		return nil, err
	}
	return &app{
		products:  service.NewProductService(products),
		inventory: service.NewInventoryService(inventory, products),
		orders:    service.NewOrderService(orders, products, inventory),
	}, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func (a *app) productAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("product add", flag.ExitOnError)
	name := fs.String("name", "", "product name")
	price := fs.String("price", "", "price (e.g. 15.00)")
	fs.Parse(args)

	product, err := a.products.Add(ctx, *name, *price)
	if err != nil {
		return err
	}
	fmt.Printf("Product #%s %q added at %s\n", product.ID, product.Name, product.Price)
	return nil
}

func (a *app) productList(ctx context.Context) error {
	products, err := a.products.List(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("No products found.")
		return nil
	}

	fmt.Printf("%-6s %-20s %10s\n", "ID", "Name", "Price")
	fmt.Println(strings.Repeat("-", 38))
	for _, p := range products {
		fmt.Printf("%-6s %-20s %10s\n", p.ID, p.Name, p.Price)
	}
	return nil
}

func (a *app) productUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("product update", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	price := fs.String("price", "", "new price (e.g. 29.99)")
	fs.Parse(args)

	if err := a.products.UpdatePrice(ctx, *id, *price); err != nil {
		return err
	}
	fmt.Printf("Product #%s price updated to $%s\n", *id, *price)
	return nil
}

func (a *app) inventorySet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("inventory set", flag.ExitOnError)
	product := fs.String("product", "", "product name")
	quantity := fs.Int("quantity", 0, "total quantity in stock")
	fs.Parse(args)

	if err := a.inventory.Set(ctx, *product, *quantity); err != nil {
		return err
	}
	fmt.Printf("Inventory for %q set to %d\n", *product, *quantity)
	return nil
}

func (a *app) inventoryShow(ctx context.Context) error {
	lines, err := a.inventory.List(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Println("No inventory records found.")
		return nil
	}

	fmt.Printf("%-20s %8s %10s %10s\n", "Product", "Total", "Reserved", "Available")
	fmt.Println(strings.Repeat("-", 50))
	for _, line := range lines {
		fmt.Printf("%-20s %8d %10d %10d\n", line.ProductName, line.Total, line.Reserved, line.Available)
	}
	return nil
}

// parseItems parses "Widget:3,Gadget:5" into name/quantity pairs. The
// product name may itself contain a colon; the last one wins.
func parseItems(raw string) (map[string]int, []service.OrderItemSpec, error) {
	quantities := make(map[string]int)
	var specs []service.OrderItemSpec
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		sep := strings.LastIndex(pair, ":")
		if sep < 0 {
			return nil, nil, fmt.Errorf("invalid item format %q, expected 'ProductName:Quantity'", pair)
		}
		name := strings.TrimSpace(pair[:sep])
		qty, err := strconv.Atoi(pair[sep+1:])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid quantity %q for product %q", pair[sep+1:], name)
		}
		quantities[name] = qty
		specs = append(specs, service.OrderItemSpec{ProductName: name, Quantity: qty})
	}
	return quantities, specs, nil
}

func (a *app) orderCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order create", flag.ExitOnError)
	customer := fs.String("customer", "", "customer name")
	items := fs.String("items", "", "items as 'Product:Qty,Product:Qty'")
	fs.Parse(args)

	_, specs, err := parseItems(*items)
	if err != nil {
		return err
	}
	order, err := a.orders.Create(ctx, *customer, specs)
	if err != nil {
		return err
	}

	fmt.Printf("Order #%d created  (status=%s)\n", order.ID, order.Status)
	fmt.Printf("Customer: %s\n\n", order.CustomerName)
	printBasicTable(order)
	return nil
}

func (a *app) orderShow(ctx context.Context, args []string) error {
	orderID, err := parseOrderID(args)
	if err != nil {
		return err
	}
	order, err := a.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	displayOrder(order)
	return nil
}

func (a *app) orderConfirm(ctx context.Context, args []string) error {
	orderID, err := parseOrderID(args)
	if err != nil {
		return err
	}
	if err := a.orders.Confirm(ctx, orderID); err != nil {
		return err
	}
	fmt.Printf("Order #%d confirmed. Inventory reserved.\n", orderID)
	return nil
}

func (a *app) orderFulfill(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order fulfill", flag.ExitOnError)
	id := fs.Int64("id", 0, "order id")
	partial := fs.Bool("partial", false, "partial fulfillment mode")
	items := fs.String("items", "", "items to ship as 'Product:Qty,Product:Qty'")
	fs.Parse(args)

	if *partial && *items == "" {
		return fmt.Errorf("-partial requires -items")
	}

	var partialItems map[string]int
	if *items != "" {
		quantities, _, err := parseItems(*items)
		if err != nil {
			return err
		}
		partialItems = quantities
	}

	if err := a.orders.Fulfill(ctx, *id, partialItems); err != nil {
		return err
	}
	if *partial {
		fmt.Printf("Order #%d partially fulfilled. Items shipped.\n", *id)
	} else {
		fmt.Printf("Order #%d fulfilled. Items shipped.\n", *id)
	}
	return nil
}

func (a *app) orderCancel(ctx context.Context, args []string) error {
	orderID, err := parseOrderID(args)
	if err != nil {
		return err
	}
	if err := a.orders.Cancel(ctx, orderID); err != nil {
		return err
	}
	fmt.Printf("Order #%d cancelled.\n", orderID)
	return nil
}

func parseOrderID(args []string) (int64, error) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	id := fs.Int64("id", 0, "order id")
	fs.Parse(args)
	if *id <= 0 {
		return 0, fmt.Errorf("-id is required")
	}
	return *id, nil
}

func displayOrder(order service.OrderDTO) {
	fmt.Printf("Order #%d  (status=%s)\n", order.ID, order.Status)
	fmt.Printf("Customer: %s\n", order.CustomerName)
	fmt.Printf("Created:  %s\n\n", order.CreatedAt)

	if order.HasShipments {
		printShipmentTable(order)
	} else {
		printBasicTable(order)
	}
}

func printBasicTable(order service.OrderDTO) {
	fmt.Printf("  %-20s %5s %10s %10s\n", "Product", "Qty", "Price", "Total")
	fmt.Printf("  %s\n", strings.Repeat("-", 47))
	for _, item := range order.Items {
		fmt.Printf("  %-20s %5d %10s %10s\n", item.ProductName, item.Quantity, item.UnitPrice, item.LineTotal)
	}
	fmt.Printf("  %s\n", strings.Repeat("-", 47))
	fmt.Printf("  %-27s %20s\n", "Order Total", order.Total)
}

func printShipmentTable(order service.OrderDTO) {
	fmt.Printf("  %-20s %5s %8s %10s %10s %10s\n", "Product", "Qty", "Shipped", "Remaining", "Price", "Total")
	fmt.Printf("  %s\n", strings.Repeat("-", 65))
	for _, item := range order.Items {
		fmt.Printf("  %-20s %5d %8d %10d %10s %10s\n",
			item.ProductName, item.Quantity, item.ShippedQuantity, item.RemainingQuantity,
			item.UnitPrice, item.LineTotal)
	}
	fmt.Printf("  %s\n", strings.Repeat("-", 65))
	fmt.Printf("  %-27s %20s\n", "Order Total", order.Total)
}
