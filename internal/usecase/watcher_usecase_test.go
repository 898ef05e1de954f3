package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func confirmationEmail(code string) domain.InboundEmail {
	body := fmt.Sprintf("Order confirmation received:\nOrder ID: %s\nCustomer: Alice", code)
	return *domain.NewInboundEmail("Order Confirmation Received - Order "+code, "ops@example.com", body, []byte(body))
}

func confirmationScores(score float64) []LabelScore {
	return []LabelScore{
		{Label: labelOrderConfirmation, Score: score},
		{Label: "inquiry", Score: 1 - score},
	}
}

type watcherFixture struct {
	mailbox    *mockMailbox
	classifier *mockClassifier
	orderRepo  *mockOrderRepo
	outboxRepo *mockOutboxRepo
	archive    *mockArchive
	mailer     *mockMailer
	uc         *WatcherUseCase
}

func newWatcherFixture() *watcherFixture {
	f := &watcherFixture{
		mailbox:    &mockMailbox{},
		classifier: &mockClassifier{scores: make(map[string][]LabelScore)},
		orderRepo:  newMockOrderRepo(),
		outboxRepo: &mockOutboxRepo{},
		archive:    &mockArchive{},
		mailer:     &mockMailer{},
	}
	f.uc = NewWatcherUC(
		f.mailbox,
		f.classifier,
		f.orderRepo,
		f.outboxRepo,
		f.archive,
		newFakePool(),
		f.mailer,
		nopLogger{},
		0.7,
	)
	return f
}

// placeOrder кладёт в репозиторий заказ в статусе PLACED.
func (f *watcherFixture) placeOrder(t *testing.T, code string) *domain.Order {
	t.Helper()
	order := domain.NewOrder(code, "Alice", "alice@example.com", 1, 2, 5000)
	order.Product = domain.NewProduct("Чайник", 2500)
	order, err := f.orderRepo.Create(context.Background(), order)
	require.NoError(t, err)
	return order
}

func TestWatcherUseCase_ProcessConfirmationEmails(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms placed order", func(t *testing.T) {
		f := newWatcherFixture()
		order := f.placeOrder(t, "ORD123456")

		email := confirmationEmail(order.Code)
		f.mailbox.emails = []domain.InboundEmail{email}
		f.classifier.scores[email.Body] = confirmationScores(0.95)

		require.NoError(t, f.uc.ProcessConfirmationEmails(ctx))

		stored, err := f.orderRepo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusConfirmed, stored.Status)

		// Outbox-событие о подтверждении
		require.Len(t, f.outboxRepo.events, 1)
		require.Equal(t, EventOrderConfirmed, f.outboxRepo.events[0].EventType)
		require.Equal(t, order.Code, f.outboxRepo.events[0].OrderCode)

		// Письмо покупателю и архив обработанного письма
		require.Len(t, f.mailer.sent, 1)
		require.Equal(t, "confirmed", f.mailer.sent[0].kind)
		require.Equal(t, []string{order.Code}, f.archive.stored)
	})

	t.Run("score at threshold is not enough", func(t *testing.T) {
		f := newWatcherFixture()
		order := f.placeOrder(t, "ORD123457")

		email := confirmationEmail(order.Code)
		f.mailbox.emails = []domain.InboundEmail{email}
		f.classifier.scores[email.Body] = confirmationScores(0.7)

		require.NoError(t, f.uc.ProcessConfirmationEmails(ctx))

		stored, err := f.orderRepo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusPlaced, stored.Status)
		require.Empty(t, f.outboxRepo.events)
	})

	t.Run("non-confirmation label skipped", func(t *testing.T) {
		f := newWatcherFixture()
		order := f.placeOrder(t, "ORD123458")

		email := confirmationEmail(order.Code)
		f.mailbox.emails = []domain.InboundEmail{email}
		f.classifier.scores[email.Body] = []LabelScore{
			{Label: "spam", Score: 0.99},
			{Label: labelOrderConfirmation, Score: 0.01},
		}

		require.NoError(t, f.uc.ProcessConfirmationEmails(ctx))

		stored, err := f.orderRepo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusPlaced, stored.Status)
	})

	t.Run("body without order code skipped", func(t *testing.T) {
		f := newWatcherFixture()
		f.placeOrder(t, "ORD123459")

		email := *domain.NewInboundEmail("Order Confirmation Received", "ops@example.com", "no code here", []byte("no code here"))
		f.mailbox.emails = []domain.InboundEmail{email}
		f.classifier.scores[email.Body] = confirmationScores(0.95)

		require.NoError(t, f.uc.ProcessConfirmationEmails(ctx))
		require.Empty(t, f.orderRepo.updated)
	})

	t.Run("already confirmed order skipped", func(t *testing.T) {
		f := newWatcherFixture()
		order := f.placeOrder(t, "ORD123460")
		require.NoError(t, f.orderRepo.UpdateStatus(ctx, order.ID, domain.StatusPlaced, domain.StatusConfirmed))

		email := confirmationEmail(order.Code)
		f.mailbox.emails = []domain.InboundEmail{email}
		f.classifier.scores[email.Body] = confirmationScores(0.95)

		require.NoError(t, f.uc.ProcessConfirmationEmails(ctx))
		require.Empty(t, f.outboxRepo.events)
		require.Empty(t, f.mailer.sent)
	})

	t.Run("classifier failure does not stop the run", func(t *testing.T) {
		f := newWatcherFixture()
		order := f.placeOrder(t, "ORD123461")

		email := confirmationEmail(order.Code)
		f.mailbox.emails = []domain.InboundEmail{email}
		f.classifier.err = errors.New("inference api down")

		require.NoError(t, f.uc.ProcessConfirmationEmails(ctx))

		stored, err := f.orderRepo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusPlaced, stored.Status)
	})

	t.Run("mailbox failure surfaces", func(t *testing.T) {
		f := newWatcherFixture()
		f.mailbox.err = errors.New("imap: connection refused")

		require.Error(t, f.uc.ProcessConfirmationEmails(ctx))
	})

	t.Run("archive failure does not revert confirmation", func(t *testing.T) {
		f := newWatcherFixture()
		order := f.placeOrder(t, "ORD123462")

		email := confirmationEmail(order.Code)
		f.mailbox.emails = []domain.InboundEmail{email}
		f.classifier.scores[email.Body] = confirmationScores(0.95)
		f.archive.err = errors.New("minio down")

		require.NoError(t, f.uc.ProcessConfirmationEmails(ctx))

		stored, err := f.orderRepo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusConfirmed, stored.Status)
	})

	t.Run("multiple emails processed in one run", func(t *testing.T) {
		f := newWatcherFixture()
		first := f.placeOrder(t, "ORD200001")
		second := f.placeOrder(t, "ORD200002")

		emailA := confirmationEmail(first.Code)
		emailB := confirmationEmail(second.Code)
		f.mailbox.emails = []domain.InboundEmail{emailA, emailB}
		f.classifier.scores[emailA.Body] = confirmationScores(0.9)
		f.classifier.scores[emailB.Body] = confirmationScores(0.8)

		require.NoError(t, f.uc.ProcessConfirmationEmails(ctx))
		require.ElementsMatch(t, []string{first.Code, second.Code}, f.orderRepo.updated)
		require.Len(t, f.outboxRepo.events, 2)
	})
}
