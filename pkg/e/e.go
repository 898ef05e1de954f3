package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// Ошибки генерации кода заказа
	ErrOrderCodeExhausted = fmt.Errorf("order code generation attempts exhausted")

	// Ошибки классификатора
	ErrEmptyClassification = fmt.Errorf("classifier returned no labels")

	// 400 Bad Request
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrMissingFields       = fmt.Errorf("required fields are missing")
	ErrInvalidEmail        = fmt.Errorf("customer email is invalid")
	ErrInvalidQuantity     = fmt.Errorf("quantity must be positive")
	ErrInvalidCost         = fmt.Errorf("cost must be a non-negative decimal")
	ErrCostPrecision       = fmt.Errorf("cost must have at most 2 decimal places")
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrProductNotFound     = fmt.Errorf("product not found")

	// 404 Not Found
	ErrOrderNotFound = fmt.Errorf("order not found or already confirmed")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
