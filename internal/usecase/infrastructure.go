package usecase

import (
	"context"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
)

type MailSenderInfra interface {
	SendOrderPlaced(ctx context.Context, order *domain.Order, confirmURL string) error
	SendOperatorNotice(ctx context.Context, order *domain.Order) error
	SendOrderConfirmed(ctx context.Context, order *domain.Order) error
}

type MailboxInfra interface {
	FetchUnseenConfirmations(ctx context.Context) ([]domain.InboundEmail, error)
}

type ClassifierInfra interface {
	Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
