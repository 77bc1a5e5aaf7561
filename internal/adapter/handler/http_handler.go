package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/oms/internal/core/domain"
	"github.com/rl1809/oms/internal/core/service"
	"github.com/rl1809/oms/internal/port"
)

// HTTPHandler exposes the order management API. The availability cache
// is optional; when nil, request idempotency and the availability
// mirror are disabled.
type HTTPHandler struct {
	products  *service.ProductService
	inventory *service.InventoryService
	orders    *service.OrderService
	stock     port.InventoryRepository
	cache     port.AvailabilityCache
	logger    *zap.Logger
}

func NewHTTPHandler(
	products *service.ProductService,
	inventory *service.InventoryService,
	orders *service.OrderService,
	stock port.InventoryRepository,
	cache port.AvailabilityCache,
	logger *zap.Logger,
) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{
		products:  products,
		inventory: inventory,
		orders:    orders,
		stock:     stock,
		cache:     cache,
		logger:    logger,
	}
}

// Routes wires every endpoint onto a fresh mux.
func (h *HTTPHandler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("POST /api/products", h.AddProduct)
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("PUT /api/products/{id}/price", h.UpdatePrice)
	mux.HandleFunc("GET /api/products/{id}/availability", h.ProductAvailability)

	mux.HandleFunc("POST /api/inventory", h.SetInventory)
	mux.HandleFunc("GET /api/inventory", h.ListInventory)

	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
	mux.HandleFunc("POST /api/orders/{id}/confirm", h.ConfirmOrder)
	mux.HandleFunc("POST /api/orders/{id}/fulfill", h.FulfillOrder)
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.CancelOrder)

	return h.withRequestID(mux)
}

// withRequestID tags every request with an id for log correlation,
// honoring a caller-supplied X-Request-ID.
func (h *HTTPHandler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		h.logger.Debug("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type addProductRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.products.Add(r.Context(), req.Name, req.Price)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("product added", zap.String("id", product.ID), zap.String("name", product.Name))
	writeJSON(w, http.StatusCreated, product)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

type updatePriceRequest struct {
	Price string `json:"price"`
}

func (h *HTTPHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req updatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID := r.PathValue("id")
	if err := h.products.UpdatePrice(r.Context(), productID, req.Price); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("price updated", zap.String("id", productID), zap.String("price", req.Price))
	w.WriteHeader(http.StatusNoContent)
}

type availabilityResponse struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
}

// ProductAvailability reads the cached availability, falling back to
// the inventory store on a miss and repopulating the cache.
func (h *HTTPHandler) ProductAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := r.PathValue("id")

	if h.cache != nil {
		available, ok, err := h.cache.GetAvailable(ctx, productID)
		if err != nil {
			h.logger.Warn("availability cache read failed", zap.String("product_id", productID), zap.Error(err))
		} else if ok {
			writeJSON(w, http.StatusOK, availabilityResponse{ProductID: productID, Available: available})
			return
		}
	}

	item, err := h.stock.GetByProductID(ctx, productID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "no inventory record for product "+productID)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetAvailable(ctx, productID, item.Available()); err != nil {
			h.logger.Warn("availability cache write failed", zap.String("product_id", productID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, availabilityResponse{ProductID: productID, Available: item.Available()})
}

type setInventoryRequest struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

func (h *HTTPHandler) SetInventory(w http.ResponseWriter, r *http.Request) {
	var req setInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.inventory.Set(r.Context(), req.ProductName, req.Quantity); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("inventory set", zap.String("product", req.ProductName), zap.Int("quantity", req.Quantity))
	h.refreshAvailability(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	lines, err := h.inventory.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

type createOrderRequest struct {
	RequestID    string `json:"request_id"`
	CustomerName string `json:"customer_name"`
	Items        []struct {
		ProductName string `json:"product_name"`
		Quantity    int    `json:"quantity"`
	} `json:"items"`
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RequestID != "" && h.cache != nil {
		fresh, err := h.cache.SetIdempotency(r.Context(), req.RequestID)
		if err != nil {
			h.logger.Error("idempotency check failed", zap.String("request_id", req.RequestID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !fresh {
			writeError(w, http.StatusConflict, "duplicate request")
			return
		}
	}

	specs := make([]service.OrderItemSpec, 0, len(req.Items))
	for _, item := range req.Items {
		specs = append(specs, service.OrderItemSpec{ProductName: item.ProductName, Quantity: item.Quantity})
	}

	order, err := h.orders.Create(r.Context(), req.CustomerName, specs)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.String("customer", order.CustomerName),
		zap.String("total", order.Total),
	)
	writeJSON(w, http.StatusCreated, order)
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *HTTPHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	if err := h.orders.Confirm(r.Context(), orderID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("order confirmed", zap.Int64("order_id", orderID))
	h.refreshAvailability(r)
	h.writeOrder(w, r, orderID)
}

type fulfillOrderRequest struct {
	Items map[string]int `json:"items"`
}

func (h *HTTPHandler) FulfillOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	// An empty body means fulfill everything outstanding.
	var req fulfillOrderRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.orders.Fulfill(r.Context(), orderID, req.Items); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("order fulfilled", zap.Int64("order_id", orderID), zap.Int("partial_lines", len(req.Items)))
	h.refreshAvailability(r)
	h.writeOrder(w, r, orderID)
}

func (h *HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	if err := h.orders.Cancel(r.Context(), orderID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("order cancelled", zap.Int64("order_id", orderID))
	h.refreshAvailability(r)
	h.writeOrder(w, r, orderID)
}

func (h *HTTPHandler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) writeOrder(w http.ResponseWriter, r *http.Request, orderID int64) {
	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// refreshAvailability mirrors current availability into the cache.
// Best effort; a cache failure never fails the request.
func (h *HTTPHandler) refreshAvailability(r *http.Request) {
	if h.cache == nil {
		return
	}
	ctx := r.Context()
	items, err := h.stock.ListAll(ctx)
	if err != nil {
		h.logger.Warn("availability refresh failed", zap.Error(err))
		return
	}
	for _, item := range items {
		if err := h.cache.SetAvailable(ctx, item.ProductID, item.Available()); err != nil {
			h.logger.Warn("availability cache write failed", zap.String("product_id", item.ProductID), zap.Error(err))
			return
		}
	}
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case domain.IsInsufficientStock(err):
		writeError(w, http.StatusConflict, err.Error())
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
