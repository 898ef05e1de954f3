package usecase

import (
	"encoding/json"
	"time"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
)

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара. Cost в копейках.
type CreateProductReq struct {
	Name string
	Cost int64
}

// ProductInfo — DTO с информацией о товаре для внешнего использования.
type ProductInfo struct {
	ID   int64
	Name string
	Cost int64
}

// ORDER USECASE

// CreateOrderReq — запрос на создание заказа. TotalCost задаётся вызывающей стороной.
type CreateOrderReq struct {
	CustomerName  string
	CustomerEmail string
	ProductID     int64
	Quantity      int32
	TotalCost     int64
}

// OrderInfo — DTO заказа с вложенными данными товара.
type OrderInfo struct {
	ID            int64
	Code          string
	CustomerName  string
	CustomerEmail string
	Quantity      int32
	TotalCost     int64
	Status        domain.OrderStatus
	CreatedAt     time.Time
	Product       ProductInfo
}

// ConfirmOrderRes — ответ эндпоинта подтверждения заказа.
type ConfirmOrderRes struct {
	Message string
}

// WATCHER USECASE

// LabelScore — одна метка zero-shot классификации с её score.
// Классификатор возвращает метки отсортированными по убыванию score.
type LabelScore struct {
	Label string
	Score float64
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "PENDING"
	Processing OutboxStatus = "PROCESSING"
	Processed  OutboxStatus = "PROCESSED"
)

type OutboxEventType string

const (
	EventOrderPlaced    OutboxEventType = "order.placed"
	EventOrderConfirmed OutboxEventType = "order.confirmed"
)

// OutboxEvent — событие жизненного цикла заказа, записываемое в одной
// транзакции с изменением заказа и доставляемое в Kafka воркером.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	OrderID     int64
	OrderCode   string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// orderEventPayload — JSON-содержимое события заказа.
type orderEventPayload struct {
	OrderID       int64  `json:"order_id"`
	OrderCode     string `json:"order_code"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ProductID     int64  `json:"product_id"`
	Quantity      int32  `json:"quantity"`
	TotalCost     string `json:"total_cost"`
	Status        string `json:"status"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	OrderCode string
	Payload   []byte
}

// MAPPERS

func NewProductInfo(product *domain.Product) *ProductInfo {
	return &ProductInfo{
		ID:   product.ID,
		Name: product.Name,
		Cost: product.Cost,
	}
}

func NewOrderInfo(order *domain.Order) *OrderInfo {
	info := &OrderInfo{
		ID:            order.ID,
		Code:          order.Code,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Quantity:      order.Quantity,
		TotalCost:     order.TotalCost,
		Status:        order.Status,
		CreatedAt:     order.CreatedAt,
	}
	if order.Product != nil {
		info.Product = *NewProductInfo(order.Product)
	}

	return info
}

func NewConfirmOrderRes(message string) *ConfirmOrderRes {
	return &ConfirmOrderRes{Message: message}
}

func NewCreateProductReq(name string, cost int64) *CreateProductReq {
	return &CreateProductReq{
		Name: name,
		Cost: cost,
	}
}

func NewCreateOrderReq(customerName string, customerEmail string, productID int64, quantity int32, totalCost int64) *CreateOrderReq {
	return &CreateOrderReq{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		ProductID:     productID,
		Quantity:      quantity,
		TotalCost:     totalCost,
	}
}

func NewLabelScore(label string, score float64) LabelScore {
	return LabelScore{
		Label: label,
		Score: score,
	}
}

func NewWriteRawMessageReq(orderCode string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		OrderCode: orderCode,
		Payload:   payload,
	}
}

// NewOrderEvent формирует outbox-событие для заказа с JSON-пейлоадом.
func NewOrderEvent(eventID string, eventType OutboxEventType, order *domain.Order) (*OutboxEvent, error) {
	payload, err := json.Marshal(orderEventPayload{
		OrderID:       order.ID,
		OrderCode:     order.Code,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		ProductID:     order.ProductID,
		Quantity:      order.Quantity,
		TotalCost:     order.TotalCostString(),
		Status:        string(order.Status),
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		OrderID:   order.ID,
		OrderCode: order.Code,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}, nil
}
