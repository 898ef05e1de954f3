package mailer

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
)

func testOrder() *domain.Order {
	return &domain.Order{
		ID:            7,
		Code:          "ORD123456",
		CustomerName:  "Ivan Petrov",
		CustomerEmail: "ivan@example.com",
		ProductID:     3,
		Product:       &domain.Product{ID: 3, Name: "Coffee Machine", Cost: 59990},
		Quantity:      2,
		TotalCost:     119980,
		Status:        domain.StatusPlaced,
	}
}

func TestOperatorNoticeBody(t *testing.T) {
	order := testOrder()
	text, html := operatorNoticeBody(order)

	// По строке "Order ID: <код>" watcher извлекает код заказа из письма.
	codePattern := regexp.MustCompile(`Order ID: (\w+)`)
	match := codePattern.FindStringSubmatch(text)
	require.Len(t, match, 2)
	require.Equal(t, "ORD123456", match[1])

	require.Contains(t, text, "Customer: Ivan Petrov")
	require.Contains(t, text, "Product: Coffee Machine")
	require.Contains(t, text, "Quantity: 2")
	require.Contains(t, text, "Total Cost: 1199.80")
	require.Contains(t, text, "Customer Email: ivan@example.com")

	require.Contains(t, html, "Order ID: ORD123456")
	require.Contains(t, html, "Coffee Machine")
}

func TestOperatorNoticeSubject(t *testing.T) {
	subject := operatorNoticeSubject(testOrder())

	require.Equal(t, "Order Confirmation Received - Order ORD123456", subject)
	// Watcher ищет непрочитанные письма по этому префиксу темы.
	require.True(t, strings.HasPrefix(subject, "Order Confirmation Received"))
}

func TestOrderPlacedBody(t *testing.T) {
	order := testOrder()
	confirmURL := "http://localhost:8080/api/v1/orders/7/confirm/"
	text, html := orderPlacedBody(order, confirmURL)

	require.Contains(t, text, "Dear Ivan Petrov")
	require.Contains(t, text, "Order ID: ORD123456")
	require.Contains(t, text, "Product: Coffee Machine")
	require.Contains(t, text, "Quantity: 2")
	require.Contains(t, text, "Total Cost: 1199.80")
	require.Contains(t, text, confirmURL)

	require.Contains(t, html, `href="`+confirmURL+`"`)
}

func TestOrderConfirmedBody(t *testing.T) {
	order := testOrder()
	text, html := orderConfirmedBody(order)

	require.Contains(t, text, "Your order ORD123456 has been confirmed")
	require.Contains(t, text, "Product: Coffee Machine")
	require.Contains(t, text, "Total Cost: 1199.80")
	require.Contains(t, html, "ORD123456")
}
