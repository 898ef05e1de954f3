//go:generate goverter gen github.com/Sidharth-Chirathazha/order-app-backend/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// OrderConverter преобразует сущности Order между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertOrderStatus
// goverter:extend ConvertOrderStatusString
// goverter:ignore Product
type OrderConverter interface {
	ToModel(entity *domain.Order) *OrderModel
	ToEntity(model *OrderModel) *domain.Order
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertOutboxStatus
// goverter:extend ConvertOutboxStatusString
// goverter:extend ConvertOutboxEventType
// goverter:extend ConvertOutboxEventTypeString
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertOrderStatus(s domain.OrderStatus) string {
	return string(s)
}

func ConvertOrderStatusString(s string) domain.OrderStatus {
	return domain.OrderStatus(s)
}

func ConvertOutboxStatus(s usecase.OutboxStatus) string {
	return string(s)
}

func ConvertOutboxStatusString(s string) usecase.OutboxStatus {
	return usecase.OutboxStatus(s)
}

func ConvertOutboxEventType(t usecase.OutboxEventType) string {
	return string(t)
}

func ConvertOutboxEventTypeString(s string) usecase.OutboxEventType {
	return usecase.OutboxEventType(s)
}
