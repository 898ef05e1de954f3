package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderUseCase реализует бизнес-логику заказов.
type OrderUseCase struct {
	orderRepo       OrderRepository
	productRepo     ProductRepository
	outboxRepo      OutboxRepository
	dbPool          transaction.Transactional
	mailer          MailSenderInfra
	logger          logger.Logger
	frontendURL     string
	codeMaxAttempts int
}

func NewOrderUC(
	orderRepo OrderRepository,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	mailer MailSenderInfra,
	logger logger.Logger,
	frontendURL string,
	codeMaxAttempts int,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		outboxRepo:      outboxRepo,
		dbPool:          dbPool,
		mailer:          mailer,
		logger:          logger,
		frontendURL:     frontendURL,
		codeMaxAttempts: codeMaxAttempts,
	}
}

// CreateOrder создаёт заказ в статусе PLACED.
// Заказ и outbox-событие order.placed записываются в одной транзакции;
// письмо с просьбой подтвердить заказ отправляется после коммита и на
// результат операции не влияет.
func (o *OrderUseCase) CreateOrder(ctx context.Context, req *CreateOrderReq) (*OrderInfo, error) {
	const op = "OrderUseCase.CreateOrder"

	// Валидация данных
	var err error
	err = o.validateOrder(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := o.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Откат транзакции при любой ошибке ниже
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	// Код заказа назначается ровно один раз, здесь
	code, err := GenerateOrderCode(ctx, o.orderRepo.CodeExists, o.codeMaxAttempts)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	order := domain.NewOrder(code, req.CustomerName, req.CustomerEmail, req.ProductID, req.Quantity, req.TotalCost)
	order, err = o.orderRepo.Create(ctx, order)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	order.Product = product

	event, err := NewOrderEvent(uuid.NewString(), EventOrderPlaced, order)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if _, err = o.outboxRepo.Create(ctx, event); err != nil {
		return nil, e.Wrap(op, err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Побочный эффект: письмо покупателю со ссылкой подтверждения
	confirmURL := fmt.Sprintf("%s/confirm-order/%d/", o.frontendURL, order.ID)
	if err := o.mailer.SendOrderPlaced(ctx, order, confirmURL); err != nil {
		o.logger.Warnf("Failed to send order-placed email for %s: %v", order.Code, e.Wrap(op, err))
	}

	return NewOrderInfo(order), nil
}

// GetOrder возвращает заказ по внутреннему идентификатору.
func (o *OrderUseCase) GetOrder(ctx context.Context, id int64) (*OrderInfo, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewOrderInfo(order), nil
}

// ConfirmOrder обрабатывает клик по ссылке подтверждения: находит заказ в
// статусе PLACED и отправляет оператору уведомление о полученном подтверждении.
// Статус заказа здесь намеренно не меняется — его переводит watcher, когда
// уведомление оператора возвращается во входящие (поведение исходной системы).
// TODO: согласовать с продуктом, должен ли эндпоинт сам переводить заказ в
// CONFIRMED вместо почтового круга через watcher.
func (o *OrderUseCase) ConfirmOrder(ctx context.Context, id int64) (*ConfirmOrderRes, error) {
	const op = "OrderUseCase.ConfirmOrder"

	order, err := o.orderRepo.GetByIDAndStatus(ctx, id, domain.StatusPlaced)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := o.mailer.SendOperatorNotice(ctx, order); err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewConfirmOrderRes(fmt.Sprintf("Order %s confirmed successfully.", order.Code)), nil
}

// validateOrder проверяет корректность входных данных запроса на создание заказа.
func (o *OrderUseCase) validateOrder(req *CreateOrderReq) error {
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerEmail) == "" || req.ProductID == 0 {
		return e.ErrMissingFields
	}

	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return e.ErrInvalidEmail
	}

	if req.Quantity <= 0 {
		return e.ErrInvalidQuantity
	}

	if req.TotalCost < 0 {
		return e.ErrInvalidCost
	}

	return nil
}
