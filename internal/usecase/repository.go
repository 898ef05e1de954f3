package usecase

import (
	"context"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByIDAndStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	GetByCodeAndStatus(ctx context.Context, code string, status domain.OrderStatus) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, from domain.OrderStatus, to domain.OrderStatus) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetProducts(ctx context.Context) ([]ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	DeleteProducts(ctx context.Context) error
}

type MailArchiveRepository interface {
	Store(ctx context.Context, email *domain.InboundEmail, orderCode string) (string, error)
}
