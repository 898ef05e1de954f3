package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus — статус жизненного цикла заказа.
// Разрешён единственный переход: StatusPlaced -> StatusConfirmed.
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "PLACED"
	StatusConfirmed OrderStatus = "CONFIRMED"
)

// Order описывает заказ.
// Code — публичный код заказа (ORD + 6 цифр), назначается один раз при создании.
type Order struct {
	ID            int64
	Code          string
	CustomerName  string
	CustomerEmail string
	ProductID     int64
	Product       *Product
	Quantity      int32
	TotalCost     int64 // Итоговая стоимость хранится в копейках, задаётся вызывающей стороной
	Status        OrderStatus
	CreatedAt     time.Time
}

func NewOrder(code string, customerName string, customerEmail string, productID int64, quantity int32, totalCost int64) *Order {
	return &Order{
		Code:          code,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		ProductID:     productID,
		Quantity:      quantity,
		TotalCost:     totalCost,
		Status:        StatusPlaced,
	}
}

// TotalCostString возвращает итоговую стоимость в виде десятичной строки с двумя знаками.
func (o *Order) TotalCostString() string {
	return decimal.NewFromInt(o.TotalCost).Div(decimal.NewFromInt(100)).StringFixed(2)
}
