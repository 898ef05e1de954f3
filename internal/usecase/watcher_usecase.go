package usecase

import (
	"context"
	"errors"
	"regexp"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const labelOrderConfirmation = "order confirmation"

// candidateLabels — набор меток zero-shot классификации тел писем.
var candidateLabels = []string{
	labelOrderConfirmation,
	"order cancellation",
	"inquiry",
	"spam",
}

// orderCodePattern извлекает публичный код заказа из тела письма.
var orderCodePattern = regexp.MustCompile(`Order ID: (\w+)`)

// WatcherUseCase реализует один прогон наблюдателя почтового ящика:
// выборка непрочитанных подтверждений, классификация, перевод заказа
// PLACED -> CONFIRMED и письмо покупателю.
type WatcherUseCase struct {
	mailbox    MailboxInfra
	classifier ClassifierInfra
	orderRepo  OrderRepository
	outboxRepo OutboxRepository
	archive    MailArchiveRepository
	dbPool     transaction.Transactional
	mailer     MailSenderInfra
	logger     logger.Logger
	threshold  float64
}

func NewWatcherUC(
	mailbox MailboxInfra,
	classifier ClassifierInfra,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	archive MailArchiveRepository,
	dbPool transaction.Transactional,
	mailer MailSenderInfra,
	logger logger.Logger,
	threshold float64,
) *WatcherUseCase {
	return &WatcherUseCase{
		mailbox:    mailbox,
		classifier: classifier,
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		archive:    archive,
		dbPool:     dbPool,
		mailer:     mailer,
		logger:     logger,
		threshold:  threshold,
	}
}

// ProcessConfirmationEmails выполняет один прогон.
// Письма обрабатываются последовательно; проблемы отдельного письма логируются
// и не прерывают прогон. Ошибка возвращается только при недоступности ящика,
// вызывающая сторона (планировщик) её логирует и не пробрасывает дальше.
func (w *WatcherUseCase) ProcessConfirmationEmails(ctx context.Context) error {
	const op = "WatcherUseCase.ProcessConfirmationEmails"

	emails, err := w.mailbox.FetchUnseenConfirmations(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	if len(emails) == 0 {
		w.logger.Debugf("No unseen confirmation emails")
		return nil
	}

	w.logger.Infof("Processing %d confirmation email(s)", len(emails))
	for i := range emails {
		w.processEmail(ctx, &emails[i])
	}

	return nil
}

// processEmail обрабатывает одно письмо. Любой исход, кроме успешного
// подтверждения, приводит к пропуску письма с записью в лог.
func (w *WatcherUseCase) processEmail(ctx context.Context, email *domain.InboundEmail) {
	const op = "WatcherUseCase.processEmail"

	scores, err := w.classifier.Classify(ctx, email.Body, candidateLabels)
	if err != nil {
		w.logger.Warnf("Classification failed for %q: %v", email.Subject, e.Wrap(op, err))
		return
	}
	if len(scores) == 0 {
		w.logger.Warnf("Classification returned no labels for %q", email.Subject)
		return
	}

	top := scores[0]
	if top.Label != labelOrderConfirmation || top.Score <= w.threshold {
		w.logger.Infof("Email not classified as confirmation (label: %s, score: %.2f)", top.Label, top.Score)
		return
	}

	match := orderCodePattern.FindStringSubmatch(email.Body)
	if match == nil {
		w.logger.Warnf("No order ID found in email body, subject: %q", email.Subject)
		return
	}
	code := match[1]

	order, err := w.orderRepo.GetByCodeAndStatus(ctx, code, domain.StatusPlaced)
	if err != nil {
		if errors.Is(err, e.ErrOrderNotFound) {
			w.logger.Infof("Order %s not found or already confirmed", code)
		} else {
			w.logger.Warnf("Order lookup failed for %s: %v", code, e.Wrap(op, err))
		}
		return
	}

	if err := w.confirmOrder(ctx, order); err != nil {
		w.logger.Warnf("Failed to confirm order %s: %v", code, e.Wrap(op, err))
		return
	}
	w.logger.Infof("Order %s status updated to %s", code, domain.StatusConfirmed)

	if err := w.mailer.SendOrderConfirmed(ctx, order); err != nil {
		w.logger.Warnf("Failed to send confirmation email for %s: %v", code, e.Wrap(op, err))
	} else {
		w.logger.Infof("Confirmation email sent to %s", order.CustomerEmail)
	}

	if key, err := w.archive.Store(ctx, email, order.Code); err != nil {
		w.logger.Warnf("Failed to archive email for %s: %v", code, e.Wrap(op, err))
	} else {
		w.logger.Debugf("Archived processed email as %s", key)
	}
}

// confirmOrder переводит заказ в CONFIRMED и записывает outbox-событие
// order.confirmed в одной транзакции.
func (w *WatcherUseCase) confirmOrder(ctx context.Context, order *domain.Order) error {
	const op = "WatcherUseCase.confirmOrder"

	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, w.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	err = w.orderRepo.UpdateStatus(ctx, order.ID, domain.StatusPlaced, domain.StatusConfirmed)
	if err != nil {
		return e.Wrap(op, err)
	}
	order.Status = domain.StatusConfirmed

	event, err := NewOrderEvent(uuid.NewString(), EventOrderConfirmed, order)
	if err != nil {
		return e.Wrap(op, err)
	}
	if _, err = w.outboxRepo.Create(ctx, event); err != nil {
		return e.Wrap(op, err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
