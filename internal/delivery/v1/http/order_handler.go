package http

import (
	"net/http"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/usecase"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// createOrder
//
//	@Summary		Создание заказа
//	@Description	Создает заказ, записывает outbox-событие и отправляет покупателю письмо со ссылкой подтверждения
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateOrderRequest	true	"Заказ"
//	@Success		201		{object}	OrderResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/orders [post]
func (o *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeJSONBody(r, &req); err != nil {
		o.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	totalCost, err := parseCostToCents(req.TotalCost.String())
	if err != nil {
		o.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	order, err := o.orderUsecase.CreateOrder(r.Context(), usecase.NewCreateOrderReq(
		req.CustomerName,
		req.CustomerEmail,
		req.ProductID,
		req.Quantity,
		totalCost,
	))
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, newOrderResponse(order))
}

// getOrder
//
//	@Summary		Получение заказа
//	@Description	Возвращает заказ по идентификатору
//	@Tags			orders
//	@Produce		json
//	@Param			orderID	path		int	true	"ID заказа"
//	@Success		200		{object}	OrderResponse
//	@Failure		404		{object}	ErrorResponse	"Заказ не найден"
//	@Router			/orders/{orderID} [get]
func (o *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "orderID")
	if err != nil {
		o.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	order, err := o.orderUsecase.GetOrder(r.Context(), id)
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newOrderResponse(order))
}

// confirmOrder
//
//	@Summary		Подтверждение заказа
//	@Description	Принимает подтверждение заказа покупателем и уведомляет оператора
//	@Tags			orders
//	@Produce		json
//	@Param			orderID	path		int	true	"ID заказа"
//	@Success		200		{object}	ConfirmOrderResponse
//	@Failure		404		{object}	ErrorResponse	"Заказ не найден или уже подтвержден"
//	@Router			/confirm-order/{orderID} [post]
func (o *OrderHandler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "orderID")
	if err != nil {
		o.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := o.orderUsecase.ConfirmOrder(r.Context(), id)
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ConfirmOrderResponse{Message: res.Message})
}
