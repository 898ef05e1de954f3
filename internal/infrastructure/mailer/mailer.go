package mailer

import (
	"context"
	"fmt"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/cfg"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
	"github.com/wneessen/go-mail"
)

// Mailer отправляет транзакционные письма через SMTP.
// Каждое письмо содержит text/plain тело и HTML-альтернативу.
type Mailer struct {
	client     *mail.Client
	from       string
	adminEmail string
	logger     logger.Logger
}

func NewMailer(cfg *cfg.SmtpCfg, adminEmail string, logger logger.Logger) (*Mailer, error) {
	const op = "mailer.NewMailer"

	client, err := mail.NewClient(
		cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &Mailer{
		client:     client,
		from:       cfg.User,
		adminEmail: adminEmail,
		logger:     logger,
	}, nil
}

// SendOrderPlaced отправляет покупателю письмо с деталями заказа и ссылкой подтверждения.
func (m *Mailer) SendOrderPlaced(ctx context.Context, order *domain.Order, confirmURL string) error {
	const op = "Mailer.SendOrderPlaced"

	text, html := orderPlacedBody(order, confirmURL)
	if err := m.send(ctx, order.CustomerEmail, "Order Confirmation", text, html); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// SendOperatorNotice уведомляет оператора о полученном подтверждении заказа.
// Тема письма совпадает с темой, которую ищет watcher во входящих, а тело
// несёт строку "Order ID: <код>", по которой watcher находит заказ.
func (m *Mailer) SendOperatorNotice(ctx context.Context, order *domain.Order) error {
	const op = "Mailer.SendOperatorNotice"

	text, html := operatorNoticeBody(order)
	if err := m.send(ctx, m.adminEmail, operatorNoticeSubject(order), text, html); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// SendOrderConfirmed отправляет покупателю финальное письмо о подтверждении заказа.
func (m *Mailer) SendOrderConfirmed(ctx context.Context, order *domain.Order) error {
	const op = "Mailer.SendOrderConfirmed"

	subject := fmt.Sprintf("Order %s Confirmed", order.Code)
	text, html := orderConfirmedBody(order)
	if err := m.send(ctx, order.CustomerEmail, subject, text, html); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func orderPlacedBody(order *domain.Order, confirmURL string) (string, string) {
	text := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your order details:\n"+
			"Order ID: %s\n"+
			"Product: %s\n"+
			"Quantity: %d\n"+
			"Total Cost: %s\n\n"+
			"Please confirm your order by clicking the button below:\n"+
			"Confirm Order: %s",
		order.CustomerName, order.Code, order.Product.Name, order.Quantity, order.TotalCostString(), confirmURL,
	)
	html := fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>Your order details:</p>"+
			"<ul>"+
			"<li>Order ID: %s</li>"+
			"<li>Product: %s</li>"+
			"<li>Quantity: %d</li>"+
			"<li>Total Cost: %s</li>"+
			"</ul>"+
			`<p><a href="%s" style="padding: 10px; background-color: #28a745; color: white; text-decoration: none;">Confirm Order</a></p>`,
		order.CustomerName, order.Code, order.Product.Name, order.Quantity, order.TotalCostString(), confirmURL,
	)

	return text, html
}

func operatorNoticeSubject(order *domain.Order) string {
	return fmt.Sprintf("Order Confirmation Received - Order %s", order.Code)
}

func operatorNoticeBody(order *domain.Order) (string, string) {
	text := fmt.Sprintf(
		"Order confirmation received:\n"+
			"Order ID: %s\n"+
			"Customer: %s\n"+
			"Product: %s\n"+
			"Quantity: %d\n"+
			"Total Cost: %s\n"+
			"Customer Email: %s",
		order.Code, order.CustomerName, order.Product.Name, order.Quantity, order.TotalCostString(), order.CustomerEmail,
	)
	html := fmt.Sprintf(
		"<p>We are pleased to confirm the order:</p>"+
			"<ul>"+
			"<li>Order ID: %s</li>"+
			"<li>Customer: %s</li>"+
			"<li>Product: %s</li>"+
			"<li>Quantity: %d</li>"+
			"<li>Total Cost: %s</li>"+
			"<li>Customer Email: %s</li>"+
			"</ul>"+
			"<p>Order successfully confirmed.</p>",
		order.Code, order.CustomerName, order.Product.Name, order.Quantity, order.TotalCostString(), order.CustomerEmail,
	)

	return text, html
}

func orderConfirmedBody(order *domain.Order) (string, string) {
	text := fmt.Sprintf(
		"Dear %s,\n"+
			"Your order %s has been confirmed.\n"+
			"Product: %s\n"+
			"Quantity: %d\n"+
			"Total Cost: %s",
		order.CustomerName, order.Code, order.Product.Name, order.Quantity, order.TotalCostString(),
	)
	html := fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>Your order %s has been confirmed.</p>"+
			"<ul>"+
			"<li>Product: %s</li>"+
			"<li>Quantity: %d</li>"+
			"<li>Total Cost: %s</li>"+
			"</ul>",
		order.CustomerName, order.Code, order.Product.Name, order.Quantity, order.TotalCostString(),
	)

	return text, html
}

func (m *Mailer) send(ctx context.Context, to string, subject string, text string, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	return m.client.DialAndSendWithContext(ctx, msg)
}
