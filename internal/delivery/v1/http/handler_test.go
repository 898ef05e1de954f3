package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/usecase"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/go-chi/chi/v5"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type stubProductUC struct {
	products []usecase.ProductInfo
	listErr  error
	created  *usecase.ProductInfo
}

func (s *stubProductUC) ListProducts(ctx context.Context) ([]usecase.ProductInfo, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.products, nil
}

func (s *stubProductUC) CreateProduct(ctx context.Context, req *usecase.CreateProductReq) (*usecase.ProductInfo, error) {
	s.created = &usecase.ProductInfo{ID: 1, Name: req.Name, Cost: req.Cost}
	return s.created, nil
}

type stubOrderUC struct {
	order      *usecase.OrderInfo
	createErr  error
	getErr     error
	confirmErr error
	confirmRes *usecase.ConfirmOrderRes
}

func (s *stubOrderUC) CreateOrder(ctx context.Context, req *usecase.CreateOrderReq) (*usecase.OrderInfo, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.order, nil
}

func (s *stubOrderUC) GetOrder(ctx context.Context, id int64) (*usecase.OrderInfo, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubOrderUC) ConfirmOrder(ctx context.Context, id int64) (*usecase.ConfirmOrderRes, error) {
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return s.confirmRes, nil
}

func newTestServer(prUC usecase.ProductUC, orUC usecase.OrderUC) *httptest.Server {
	r := chi.NewRouter()
	router := NewRouter(r, nopLogger{})
	router.Init(prUC, orUC)
	return httptest.NewServer(r)
}

func testOrderInfo() *usecase.OrderInfo {
	return &usecase.OrderInfo{
		ID:            7,
		Code:          "ORD123456",
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Quantity:      2,
		TotalCost:     119980,
		Status:        domain.StatusPlaced,
		CreatedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Product:       usecase.ProductInfo{ID: 1, Name: "Coffee Machine", Cost: 59990},
	}
}

func TestProductHandlers(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		productUC      *stubProductUC
		expectedStatus int
		checkBody      func(*testing.T, []byte)
	}{
		{
			name:   "list products",
			method: http.MethodGet,
			path:   "/products/",
			productUC: &stubProductUC{products: []usecase.ProductInfo{
				{ID: 1, Name: "Coffee Machine", Cost: 59990},
			}},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var products []ProductResponse
				if err := json.Unmarshal(body, &products); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if len(products) != 1 {
					t.Fatalf("expected 1 product, got %d", len(products))
				}
				if products[0].Cost != "599.90" {
					t.Errorf("expected cost 599.90, got %s", products[0].Cost)
				}
			},
		},
		{
			name:           "list products empty",
			method:         http.MethodGet,
			path:           "/products/",
			productUC:      &stubProductUC{},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var products []ProductResponse
				if err := json.Unmarshal(body, &products); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if len(products) != 0 {
					t.Errorf("expected empty list, got %d items", len(products))
				}
			},
		},
		{
			name:           "create product with string cost",
			method:         http.MethodPost,
			path:           "/products/",
			body:           map[string]any{"name": "Coffee Machine", "cost": "599.90"},
			productUC:      &stubProductUC{},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body []byte) {
				var product ProductResponse
				if err := json.Unmarshal(body, &product); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if product.Cost != "599.90" {
					t.Errorf("expected cost 599.90, got %s", product.Cost)
				}
			},
		},
		{
			name:           "create product with numeric cost",
			method:         http.MethodPost,
			path:           "/products/",
			body:           map[string]any{"name": "Coffee Machine", "cost": 599.9},
			productUC:      &stubProductUC{},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body []byte) {
				var product ProductResponse
				if err := json.Unmarshal(body, &product); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if product.Cost != "599.90" {
					t.Errorf("expected cost 599.90, got %s", product.Cost)
				}
			},
		},
		{
			name:           "create product invalid cost",
			method:         http.MethodPost,
			path:           "/products/",
			body:           map[string]any{"name": "Coffee Machine", "cost": "not-a-number"},
			productUC:      &stubProductUC{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "create product too precise cost",
			method:         http.MethodPost,
			path:           "/products/",
			body:           map[string]any{"name": "Coffee Machine", "cost": "10.999"},
			productUC:      &stubProductUC{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(tt.productUC, &stubOrderUC{})
			defer srv.Close()

			var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
			if tt.body != nil {
				if err := json.NewEncoder(reqBody).Encode(tt.body); err != nil {
					t.Fatalf("encode body: %v", err)
				}
			}

			req, err := http.NewRequest(tt.method, srv.URL+tt.path, reqBody)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatalf("do request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}

			if tt.checkBody != nil {
				var buf bytes.Buffer
				if _, err := buf.ReadFrom(resp.Body); err != nil {
					t.Fatalf("read body: %v", err)
				}
				tt.checkBody(t, buf.Bytes())
			}
		})
	}
}

func TestOrderHandlers(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		orderUC        *stubOrderUC
		expectedStatus int
		checkBody      func(*testing.T, []byte)
	}{
		{
			name:   "create order",
			method: http.MethodPost,
			path:   "/orders/",
			body: map[string]any{
				"customer_name":  "Alice",
				"customer_email": "alice@example.com",
				"product_id":     1,
				"quantity":       2,
				"total_cost":     "1199.80",
			},
			orderUC:        &stubOrderUC{order: testOrderInfo()},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body []byte) {
				var order OrderResponse
				if err := json.Unmarshal(body, &order); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if order.Code != "ORD123456" {
					t.Errorf("expected code ORD123456, got %s", order.Code)
				}
				if order.TotalCost != "1199.80" {
					t.Errorf("expected total 1199.80, got %s", order.TotalCost)
				}
				if order.Status != "PLACED" {
					t.Errorf("expected status PLACED, got %s", order.Status)
				}
				if order.Product.Name != "Coffee Machine" {
					t.Errorf("unexpected product: %+v", order.Product)
				}
			},
		},
		{
			name:   "create order with numeric total cost",
			method: http.MethodPost,
			path:   "/orders/",
			body: map[string]any{
				"customer_name":  "Alice",
				"customer_email": "alice@example.com",
				"product_id":     1,
				"quantity":       2,
				"total_cost":     1199.8,
			},
			orderUC:        &stubOrderUC{order: testOrderInfo()},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "create order invalid email",
			method: http.MethodPost,
			path:   "/orders/",
			body: map[string]any{
				"customer_name":  "Alice",
				"customer_email": "not-an-email",
				"product_id":     1,
				"quantity":       2,
				"total_cost":     "10.00",
			},
			orderUC:        &stubOrderUC{createErr: e.ErrInvalidEmail},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "create order unknown product",
			method: http.MethodPost,
			path:   "/orders/",
			body: map[string]any{
				"customer_name":  "Alice",
				"customer_email": "alice@example.com",
				"product_id":     42,
				"quantity":       1,
				"total_cost":     "10.00",
			},
			orderUC:        &stubOrderUC{createErr: e.ErrProductNotFound},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "get order",
			method:         http.MethodGet,
			path:           "/orders/7/",
			orderUC:        &stubOrderUC{order: testOrderInfo()},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var order OrderResponse
				if err := json.Unmarshal(body, &order); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if order.ID != 7 {
					t.Errorf("expected id 7, got %d", order.ID)
				}
			},
		},
		{
			name:           "get order not found",
			method:         http.MethodGet,
			path:           "/orders/9999/",
			orderUC:        &stubOrderUC{getErr: e.ErrOrderNotFound},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "get order bad id",
			method:         http.MethodGet,
			path:           "/orders/abc/",
			orderUC:        &stubOrderUC{order: testOrderInfo()},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "confirm order",
			method:         http.MethodPost,
			path:           "/confirm-order/7/",
			orderUC:        &stubOrderUC{confirmRes: usecase.NewConfirmOrderRes("Order ORD123456 confirmed successfully.")},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var res ConfirmOrderResponse
				if err := json.Unmarshal(body, &res); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if res.Message != "Order ORD123456 confirmed successfully." {
					t.Errorf("unexpected message: %s", res.Message)
				}
			},
		},
		{
			name:           "confirm order not found or already confirmed",
			method:         http.MethodPost,
			path:           "/confirm-order/7/",
			orderUC:        &stubOrderUC{confirmErr: e.ErrOrderNotFound},
			expectedStatus: http.StatusNotFound,
			checkBody: func(t *testing.T, body []byte) {
				var res ErrorResponse
				if err := json.Unmarshal(body, &res); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if res.Message != e.ErrOrderNotFound.Error() {
					t.Errorf("unexpected message: %s", res.Message)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubProductUC{}, tt.orderUC)
			defer srv.Close()

			var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
			if tt.body != nil {
				if err := json.NewEncoder(reqBody).Encode(tt.body); err != nil {
					t.Fatalf("encode body: %v", err)
				}
			}

			req, err := http.NewRequest(tt.method, srv.URL+tt.path, reqBody)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatalf("do request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}

			if tt.checkBody != nil {
				var buf bytes.Buffer
				if _, err := buf.ReadFrom(resp.Body); err != nil {
					t.Fatalf("read body: %v", err)
				}
				tt.checkBody(t, buf.Bytes())
			}
		})
	}
}

func TestParseCostToCents(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "599.99", want: 59999},
		{input: "600", want: 60000},
		{input: "0", want: 0},
		{input: "0.01", want: 1},
		{input: "10.5", want: 1050},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "-5", wantErr: true},
		{input: "10.999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCostToCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d cents, got %d", tt.want, got)
			}
		})
	}
}
