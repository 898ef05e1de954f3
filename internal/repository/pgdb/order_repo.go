package pgdb

import (
	"context"
	"errors"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/repository/pgdb/converter"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
type OrderRepo struct {
	pool     *pgxpool.Pool
	conv     converter.OrderConverter
	prodConv converter.ProductConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter, prodConv converter.ProductConverter) *OrderRepo {
	return &OrderRepo{
		pool:     pool,
		conv:     conv,
		prodConv: prodConv,
	}
}

// Create вставляет заказ в рамках транзакции из контекста.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := o.conv.ToModel(order)
	query := `
		INSERT INTO orders (order_code, customer_name, customer_email, product_id, quantity, total_cost, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.Code,
		model.CustomerName,
		model.CustomerEmail,
		model.ProductID,
		model.Quantity,
		model.TotalCost,
		model.Status,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model), nil
}

// GetByID возвращает заказ с вложенным товаром по внутреннему идентификатору.
func (o *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return o.getOne(ctx, `o.id = $1`, id)
}

// GetByIDAndStatus возвращает заказ по идентификатору и статусу.
func (o *OrderRepo) GetByIDAndStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	return o.getOne(ctx, `o.id = $1 AND o.status = $2`, id, string(status))
}

// GetByCodeAndStatus возвращает заказ по публичному коду и статусу.
func (o *OrderRepo) GetByCodeAndStatus(ctx context.Context, code string, status domain.OrderStatus) (*domain.Order, error) {
	return o.getOne(ctx, `o.order_code = $1 AND o.status = $2`, code, string(status))
}

// getOne выполняет выборку одного заказа с JOIN товара по условию where.
// Отсутствие строки транслируется в e.ErrOrderNotFound.
func (o *OrderRepo) getOne(ctx context.Context, where string, args ...any) (*domain.Order, error) {
	query := `
		SELECT o.id, o.order_code, o.customer_name, o.customer_email, o.product_id,
		       o.quantity, o.total_cost, o.status, o.created_at,
		       p.id, p.name, p.cost, p.created_at
		FROM orders o
		JOIN products p ON o.product_id = p.id
		WHERE ` + where

	var (
		model     converter.OrderModel
		prodModel converter.ProductModel
	)
	err := o.pool.QueryRow(ctx, query, args...).Scan(
		&model.ID, &model.Code, &model.CustomerName, &model.CustomerEmail, &model.ProductID,
		&model.Quantity, &model.TotalCost, &model.Status, &model.CreatedAt,
		&prodModel.ID, &prodModel.Name, &prodModel.Cost, &prodModel.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrOrderNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	order := o.conv.ToEntity(&model)
	order.Product = o.prodConv.ToEntity(&prodModel)

	return order, nil
}

// UpdateStatus переводит заказ из статуса from в статус to в рамках транзакции
// из контекста. Если заказ не находится в статусе from, возвращается
// e.ErrOrderNotFound (переход статуса строго односторонний).
func (o *OrderRepo) UpdateStatus(ctx context.Context, id int64, from domain.OrderStatus, to domain.OrderStatus) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE orders
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	result, err := tx.Exec(ctx, query, string(to), id, string(from))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.ErrOrderNotFound
	}

	return nil
}

// CodeExists проверяет занятость публичного кода заказа.
func (o *OrderRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM orders WHERE order_code = $1)`

	var exists bool
	if err := o.pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}
