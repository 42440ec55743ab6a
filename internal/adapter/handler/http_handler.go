package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rl1809/checkout/internal/core/domain"
	"github.com/rl1809/checkout/internal/core/service"
	"github.com/rl1809/checkout/internal/core/validate"
)

type HTTPHandler struct {
	log        *slog.Logger
	orders     *service.OrderService
	products   *service.ProductService
	notifier   *service.NotificationService
	dispatcher *service.Dispatcher
}

func NewHTTPHandler(log *slog.Logger, orders *service.OrderService, products *service.ProductService, notifier *service.NotificationService, dispatcher *service.Dispatcher) *HTTPHandler {
	return &HTTPHandler{
		log:        log,
		orders:     orders,
		products:   products,
		notifier:   notifier,
		dispatcher: dispatcher,
	}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", h.healthCheck)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Get("/{orderNumber}", h.getOrder)
		r.Patch("/{orderNumber}/email-status", h.updateEmailStatus)
	})

	r.Route("/email", func(r chi.Router) {
		r.Post("/send-order-email", h.sendOrderEmail)
		r.Get("/test-connection", h.testEmailConnection)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Post("/seed", h.seedProducts)
		r.Patch("/inventory", h.updateInventory)
		r.Get("/{id}", h.getProduct)
	})

	return r
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type createOrderRequest struct {
	Items        []orderItemRequest  `json:"items"`
	CustomerInfo domain.CustomerInfo `json:"customerInfo"`
	PaymentInfo  paymentInfoRequest  `json:"paymentInfo"`
}

type orderItemRequest struct {
	ProductID        string                   `json:"productId"`
	ProductName      string                   `json:"productName"`
	Price            decimal.Decimal          `json:"price"`
	Quantity         int                      `json:"quantity"`
	SelectedVariants []domain.SelectedVariant `json:"selectedVariants"`
	Image            string                   `json:"image"`
}

type paymentInfoRequest struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type createOrderResponse struct {
	OrderNumber   string             `json:"orderNumber"`
	Status        domain.OrderStatus `json:"status"`
	TransactionID *string            `json:"transactionId"`
	Total         decimal.Decimal    `json:"total"`
	Error         *string            `json:"error"`
}

func (h *HTTPHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}

	in := service.CreateOrderInput{
		CustomerInfo: req.CustomerInfo,
		PaymentInfo: domain.PaymentInfo{
			CardNumber: req.PaymentInfo.CardNumber,
			ExpiryDate: req.PaymentInfo.ExpiryDate,
			CVV:        req.PaymentInfo.CVV,
		},
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.ItemInput{
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			SelectedVariants: item.SelectedVariants,
			Image:            item.Image,
		})
	}

	order, err := h.orders.Create(r.Context(), in)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	if h.dispatcher != nil {
		h.dispatcher.Enqueue(order.OrderNumber)
	}

	writeJSON(w, http.StatusCreated, apiResponse{
		Success: true,
		Data: createOrderResponse{
			OrderNumber:   order.OrderNumber,
			Status:        order.Status,
			TransactionID: optional(order.TransactionID),
			Total:         order.Total,
			Error:         optional(order.Notes),
		},
	})
}

func (h *HTTPHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Order not found"})
			return
		}
		h.internalError(w, "fetch order", err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: order})
}

func (h *HTTPHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.internalError(w, "list orders", err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: orders})
}

func (h *HTTPHandler) updateEmailStatus(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.MarkNotified(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Order not found"})
			return
		}
		h.internalError(w, "update email status", err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: order})
}

type sendOrderEmailRequest struct {
	OrderNumber string `json:"orderNumber"`
}

func (h *HTTPHandler) sendOrderEmail(w http.ResponseWriter, r *http.Request) {
	var req sendOrderEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderNumber == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Order number is required"})
		return
	}

	result, err := h.notifier.Send(r.Context(), req.OrderNumber)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Order not found"})
			return
		}
		h.internalError(w, "send order email", err)
		return
	}

	message := "Email sent successfully"
	if result.Simulated {
		message = "Email simulation completed (no SMTP credentials)"
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: message, Data: result})
}

func (h *HTTPHandler) testEmailConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.notifier.VerifyTransport(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "Email connection failed"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Email connection successful"})
}

func (h *HTTPHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.internalError(w, "list products", err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: products})
}

func (h *HTTPHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Product not found"})
			return
		}
		h.internalError(w, "fetch product", err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: product})
}

func (h *HTTPHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}

	created, err := h.products.Create(r.Context(), p)
	if err != nil {
		var fe *validate.FieldError
		if errors.As(err, &fe) {
			writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: fe.Message})
			return
		}
		h.internalError(w, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Data: created})
}

type updateInventoryRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *HTTPHandler) updateInventory(w http.ResponseWriter, r *http.Request) {
	var req updateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}

	product, err := h.products.DecrementInventory(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Product not found"})
		case errors.Is(err, domain.ErrInsufficientInventory):
			writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Insufficient inventory"})
		default:
			var fe *validate.FieldError
			if errors.As(err, &fe) {
				writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: fe.Message})
				return
			}
			h.internalError(w, "update inventory", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: product})
}

func (h *HTTPHandler) seedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Seed(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrAlreadySeeded) {
			writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Products already exist"})
			return
		}
		h.internalError(w, "seed products", err)
		return
	}
	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Message: "Products seeded successfully", Data: products})
}

func (h *HTTPHandler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeOrderError maps pipeline failures onto the API contract: validation
// and stock problems are 400s, everything else is a 500. A declined or
// failed payment is NOT an error; those orders come back through the success
// path with their status.
func (h *HTTPHandler) writeOrderError(w http.ResponseWriter, err error) {
	var fe *validate.FieldError
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: fe.Message})
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrInsufficientInventory):
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: err.Error()})
	default:
		h.internalError(w, "create order", err)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.log.Error(op+" failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
