package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/usecase"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateProductRequest — тело запроса создания товара.
// Cost принимается как JSON-число или строка вида "599.99".
type CreateProductRequest struct {
	Name string      `json:"name"`
	Cost json.Number `json:"cost"`
}

// CreateOrderRequest — тело запроса создания заказа.
// TotalCost принимается как JSON-число или строка.
type CreateOrderRequest struct {
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	ProductID     int64       `json:"product_id"`
	Quantity      int32       `json:"quantity"`
	TotalCost     json.Number `json:"total_cost"`
}

// ProductResponse — представление товара в ответах API.
type ProductResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Cost string `json:"cost"`
}

// OrderResponse — представление заказа в ответах API.
type OrderResponse struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Product       ProductResponse `json:"product"`
	Quantity      int32           `json:"quantity"`
	TotalCost     string          `json:"total_cost"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
}

// ConfirmOrderResponse — ответ эндпоинта подтверждения заказа.
type ConfirmOrderResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrProductNameRequired):
		return http.StatusBadRequest, e.ErrProductNameRequired.Error()
	case errors.Is(err, e.ErrInvalidEmail):
		return http.StatusBadRequest, e.ErrInvalidEmail.Error()
	case errors.Is(err, e.ErrInvalidQuantity):
		return http.StatusBadRequest, e.ErrInvalidQuantity.Error()
	case errors.Is(err, e.ErrInvalidCost):
		return http.StatusBadRequest, e.ErrInvalidCost.Error()
	case errors.Is(err, e.ErrCostPrecision):
		return http.StatusBadRequest, e.ErrCostPrecision.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusBadRequest, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrOrderNotFound):
		return http.StatusNotFound, e.ErrOrderNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseCostToCents переводит десятичную строку вида "599.99" в копейки.
// Отрицательные значения, более двух знаков после запятой и суммы свыше
// миллиарда рублей отклоняются.
func parseCostToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrInvalidCost
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidCost
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidCost
	}

	maxCost := decimal.NewFromInt(1_000_000_000).Mul(decimal.NewFromInt(100))
	if d.GreaterThan(maxCost) {
		return 0, e.ErrInvalidCost
	}

	if d.Exponent() < -2 {
		return 0, e.ErrCostPrecision
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0)

	return cents.IntPart(), nil
}

// parseIDParam извлекает числовой идентификатор из URL.
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrStatusBadRequest
	}
	return id, nil
}

func decodeJSONBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.ErrStatusBadRequest
	}
	return nil
}

func newProductResponse(info *usecase.ProductInfo) ProductResponse {
	return ProductResponse{
		ID:   info.ID,
		Name: info.Name,
		Cost: centsToString(info.Cost),
	}
}

func newOrderResponse(info *usecase.OrderInfo) *OrderResponse {
	return &OrderResponse{
		ID:            info.ID,
		Code:          info.Code,
		CustomerName:  info.CustomerName,
		CustomerEmail: info.CustomerEmail,
		Product:       newProductResponse(&info.Product),
		Quantity:      info.Quantity,
		TotalCost:     centsToString(info.TotalCost),
		Status:        string(info.Status),
		CreatedAt:     info.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func centsToString(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
