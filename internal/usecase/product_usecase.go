package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
)

// ProductUseCase реализует бизнес-логику каталога товаров.
type ProductUseCase struct {
	productRepo ProductRepository
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// ListProducts возвращает все товары каталога.
// Сначала проверяется кэш; промах или ошибка кэша приводят к чтению из БД
// с фоновым наполнением кэша.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]ProductInfo, error) {
	const op = "ProductUseCase.ListProducts"

	cached, err := p.cacheRepo.GetProducts(ctx)
	if err != nil {
		p.logger.Warnf("Product cache read failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	products, err := p.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]ProductInfo, 0, len(products))
	for i := range products {
		result = append(result, *NewProductInfo(&products[i]))
	}

	// Фоновое наполнение кэша
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProducts(bgCtx, result); err != nil {
			p.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
		}
	}()

	return result, nil
}

// CreateProduct создаёт товар (административная операция).
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.CreateProduct"

	if strings.TrimSpace(req.Name) == "" {
		return nil, e.Wrap(op, e.ErrProductNameRequired)
	}
	if req.Cost < 0 {
		return nil, e.Wrap(op, e.ErrInvalidCost)
	}

	product, err := p.productRepo.Create(ctx, domain.NewProduct(req.Name, req.Cost))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Сброс устаревшего списка товаров в кэше
	if err := p.cacheRepo.DeleteProducts(ctx); err != nil {
		p.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return NewProductInfo(product), nil
}
