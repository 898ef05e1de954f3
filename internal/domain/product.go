package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога
type Product struct {
	ID        int64
	Name      string
	Cost      int64 // Цена хранится в копейках
	CreatedAt time.Time
}

func NewProduct(name string, cost int64) *Product {
	return &Product{
		Name: name,
		Cost: cost,
	}
}

// CostString возвращает цену в виде десятичной строки с двумя знаками.
func (p *Product) CostString() string {
	return decimal.NewFromInt(p.Cost).Div(decimal.NewFromInt(100)).StringFixed(2)
}
