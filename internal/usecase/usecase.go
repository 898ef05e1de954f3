package usecase

import "context"

type ProductUC interface {
	ListProducts(ctx context.Context) ([]ProductInfo, error)
	CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductInfo, error)
}

type OrderUC interface {
	CreateOrder(ctx context.Context, req *CreateOrderReq) (*OrderInfo, error)
	GetOrder(ctx context.Context, id int64) (*OrderInfo, error)
	ConfirmOrder(ctx context.Context, id int64) (*ConfirmOrderRes, error)
}

type WatcherUC interface {
	ProcessConfirmationEmails(ctx context.Context) error
}
