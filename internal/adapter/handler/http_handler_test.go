package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/checkout/internal/core/domain"
	"github.com/rl1809/checkout/internal/core/service"
	"github.com/rl1809/checkout/pkg/logging"
)

// In-memory fakes behind the real services, so the tests exercise the full
// request pipeline without MySQL or Redis.

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
	order    []string
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]domain.Product)}
}

func (m *memProductRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	m.order = append(m.order, p.ID)
	return nil
}

func (m *memProductRepo) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *memProductRepo) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, id := range m.order {
		p := m.products[id]
		if !activeOnly || p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProductRepo) CountProducts(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.products), nil
}

func (m *memProductRepo) DecrementInventory(ctx context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Inventory < quantity {
		return domain.ErrInsufficientInventory
	}
	p.Inventory -= quantity
	m.products[productID] = p
	return nil
}

type memOrderRepo struct {
	mu       sync.Mutex
	orders   map[string]domain.Order
	inserted []string
	products *memProductRepo
}

func newMemOrderRepo(products *memProductRepo) *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]domain.Order), products: products}
}

func (m *memOrderRepo) CreateOrder(ctx context.Context, o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orders[o.OrderNumber]; exists {
		return domain.ErrOrderNumberConflict
	}
	if o.Status == domain.OrderStatusApproved {
		for _, item := range o.Items {
			if err := m.products.DecrementInventory(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
	}
	m.orders[o.OrderNumber] = o
	m.inserted = append(m.inserted, o.OrderNumber)
	return nil
}

func (m *memOrderRepo) GetOrder(ctx context.Context, orderNumber string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderNumber]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (m *memOrderRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, 0, len(m.inserted))
	for i := len(m.inserted) - 1; i >= 0; i-- {
		out = append(out, m.orders[m.inserted[i]])
	}
	return out, nil
}

func (m *memOrderRepo) MarkNotified(ctx context.Context, orderNumber string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderNumber]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	o.EmailSent = true
	m.orders[orderNumber] = o
	return o, nil
}

type memCache struct {
	mu    sync.Mutex
	stock map[string]int
}

func newMemCache() *memCache {
	return &memCache{stock: make(map[string]int)}
}

func (m *memCache) ReserveStock(ctx context.Context, productID string, quantity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stock[productID] >= quantity {
		m.stock[productID] -= quantity
		return true, nil
	}
	return false, nil
}

func (m *memCache) ReleaseStock(ctx context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stock[productID] += quantity
	return nil
}

func (m *memCache) SyncStock(ctx context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stock[productID] = quantity
	return nil
}

type memMailer struct{}

func (memMailer) Configured() bool { return false }

func (memMailer) Send(context.Context, string, string, string) error { return nil }

func (memMailer) Verify(context.Context) error { return nil }

type fixture struct {
	handler  http.Handler
	products *memProductRepo
	orders   *memOrderRepo
	cache    *memCache
}

func newFixture(products ...domain.Product) *fixture {
	log := logging.New()
	productRepo := newMemProductRepo()
	orderRepo := newMemOrderRepo(productRepo)
	cache := newMemCache()

	for _, p := range products {
		productRepo.CreateProduct(context.Background(), p)
		cache.SyncStock(context.Background(), p.ID, p.Inventory)
	}

	productService := service.NewProductService(log, productRepo, cache)
	orderService := service.NewOrderService(log, productRepo, orderRepo, cache)
	notificationService := service.NewNotificationService(log, orderRepo, memMailer{})
	dispatcher := service.NewDispatcher(log, notificationService, 16)

	h := NewHTTPHandler(log, orderService, productService, notificationService, dispatcher)
	return &fixture{handler: h.Routes(), products: productRepo, orders: orderRepo, cache: cache}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func activeProduct(id string, price string, inventory int) domain.Product {
	now := time.Now().UTC()
	return domain.Product{
		ID:        id,
		Name:      "Test Sneaker",
		Price:     decimal.RequireFromString(price),
		Inventory: inventory,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func orderPayload(productID string, quantity int, cvv string) map[string]any {
	expiry := fmt.Sprintf("12/%02d", (time.Now().Year()+5)%100)
	return map[string]any{
		"items": []map[string]any{
			{"productId": productID, "quantity": quantity},
		},
		"customerInfo": map[string]any{
			"fullName": "Jane Doe",
			"email":    "jane@example.com",
			"phone":    "+12025550142",
			"address":  "1 Main St",
			"city":     "Springfield",
			"state":    "IL",
			"zipCode":  "62704",
		},
		"paymentInfo": map[string]any{
			"cardNumber": "1234 5678 9012 3456",
			"expiryDate": expiry,
			"cvv":        cvv,
		},
	}
}

func TestCreateOrderEndpoint_Approved(t *testing.T) {
	f := newFixture(activeProduct("p1", "75.00", 10))

	rec := f.do(t, http.MethodPost, "/orders", orderPayload("p1", 2, "111"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	var data struct {
		OrderNumber   string          `json:"orderNumber"`
		Status        string          `json:"status"`
		TransactionID *string         `json:"transactionId"`
		Total         decimal.Decimal `json:"total"`
		Error         *string         `json:"error"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(data.OrderNumber, "ORD-") {
		t.Errorf("unexpected order number %q", data.OrderNumber)
	}
	if data.Status != "approved" {
		t.Errorf("expected approved, got %s", data.Status)
	}
	if data.TransactionID == nil || *data.TransactionID == "" {
		t.Error("expected transaction id")
	}
	if data.Error != nil {
		t.Errorf("expected null error, got %v", *data.Error)
	}
	if !data.Total.Equal(decimal.RequireFromString("162.00")) {
		t.Errorf("expected total 162.00, got %s", data.Total)
	}
}

func TestCreateOrderEndpoint_Declined(t *testing.T) {
	f := newFixture(activeProduct("p1", "75.00", 10))

	rec := f.do(t, http.MethodPost, "/orders", orderPayload("p1", 1, "222"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Status        string  `json:"status"`
		TransactionID *string `json:"transactionId"`
		Error         *string `json:"error"`
	}
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Status != "declined" {
		t.Errorf("expected declined, got %s", data.Status)
	}
	if data.TransactionID != nil {
		t.Error("expected null transaction id")
	}
	if data.Error == nil || *data.Error != "Card declined by issuer" {
		t.Errorf("unexpected error field: %v", data.Error)
	}
}

func TestCreateOrderEndpoint_ValidationFailure(t *testing.T) {
	f := newFixture(activeProduct("p1", "75.00", 10))

	payload := orderPayload("p1", 1, "111")
	payload["paymentInfo"].(map[string]any)["cardNumber"] = "1234-5678-9012-345"

	rec := f.do(t, http.MethodPost, "/orders", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("expected failure envelope")
	}
	if env.Message != "Card number must be exactly 16 digits" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestCreateOrderEndpoint_InsufficientInventory(t *testing.T) {
	f := newFixture(activeProduct("p1", "75.00", 1))

	rec := f.do(t, http.MethodPost, "/orders", orderPayload("p1", 5, "111"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateOrderEndpoint_MalformedBody(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetOrderEndpoint(t *testing.T) {
	f := newFixture(activeProduct("p1", "75.00", 10))

	created := decodeEnvelope(t, f.do(t, http.MethodPost, "/orders", orderPayload("p1", 1, "111")))
	var data struct {
		OrderNumber string `json:"orderNumber"`
	}
	if err := json.Unmarshal(created.Data, &data); err != nil {
		t.Fatal(err)
	}

	rec := f.do(t, http.MethodGet, "/orders/"+data.OrderNumber, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/orders/ORD-DOES-NOT-EXIST", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListOrdersEndpoint_EmptyIsArray(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/orders", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if string(env.Data) != "[]" {
		t.Errorf("expected empty array, got %s", env.Data)
	}
}

func TestUpdateEmailStatusEndpoint(t *testing.T) {
	f := newFixture(activeProduct("p1", "75.00", 10))

	created := decodeEnvelope(t, f.do(t, http.MethodPost, "/orders", orderPayload("p1", 1, "111")))
	var data struct {
		OrderNumber string `json:"orderNumber"`
	}
	if err := json.Unmarshal(created.Data, &data); err != nil {
		t.Fatal(err)
	}

	rec := f.do(t, http.MethodPatch, "/orders/"+data.OrderNumber+"/email-status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var order struct {
		EmailSent bool `json:"emailSent"`
	}
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &order); err != nil {
		t.Fatal(err)
	}
	if !order.EmailSent {
		t.Error("expected emailSent true")
	}
}

func TestSendOrderEmailEndpoint(t *testing.T) {
	f := newFixture(activeProduct("p1", "75.00", 10))

	created := decodeEnvelope(t, f.do(t, http.MethodPost, "/orders", orderPayload("p1", 1, "111")))
	var data struct {
		OrderNumber string `json:"orderNumber"`
	}
	if err := json.Unmarshal(created.Data, &data); err != nil {
		t.Fatal(err)
	}

	// Transport is unconfigured in the fixture, so delivery is simulated.
	rec := f.do(t, http.MethodPost, "/email/send-order-email", map[string]string{"orderNumber": data.OrderNumber})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(env.Message, "simulation") {
		t.Errorf("expected simulation message, got %q", env.Message)
	}

	rec = f.do(t, http.MethodPost, "/email/send-order-email", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without order number, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/email/send-order-email", map[string]string{"orderNumber": "ORD-MISSING"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", rec.Code)
	}
}

func TestProductEndpoints(t *testing.T) {
	f := newFixture()

	// Empty catalog lists as an array.
	rec := f.do(t, http.MethodGet, "/products", nil)
	env := decodeEnvelope(t, rec)
	if string(env.Data) != "[]" {
		t.Errorf("expected empty array, got %s", env.Data)
	}

	// Seed once, then refuse.
	rec = f.do(t, http.MethodPost, "/products/seed", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodPost, "/products/seed", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on second seed, got %d", rec.Code)
	}

	// Catalog now lists the seeded product.
	rec = f.do(t, http.MethodGet, "/products", nil)
	var products []struct {
		ID       string `json:"id"`
		IsActive bool   `json:"isActive"`
	}
	env = decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &products); err != nil {
		t.Fatal(err)
	}
	if len(products) == 0 {
		t.Fatal("expected seeded products")
	}

	rec = f.do(t, http.MethodGet, "/products/"+products[0].ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodGet, "/products/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateProductEndpoint(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/products", map[string]any{
		"name":      "Vans Old Skool",
		"price":     "65.00",
		"inventory": 25,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/products", map[string]any{"price": "65.00"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}
}

func TestUpdateInventoryEndpoint(t *testing.T) {
	f := newFixture(activeProduct("p1", "75.00", 10))

	rec := f.do(t, http.MethodPatch, "/products/inventory", map[string]any{"productId": "p1", "quantity": 4})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var product struct {
		Inventory int `json:"inventory"`
	}
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &product); err != nil {
		t.Fatal(err)
	}
	if product.Inventory != 6 {
		t.Errorf("expected inventory 6, got %d", product.Inventory)
	}

	rec = f.do(t, http.MethodPatch, "/products/inventory", map[string]any{"productId": "p1", "quantity": 100})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on shortfall, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPatch, "/products/inventory", map[string]any{"productId": "missing", "quantity": 1})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
