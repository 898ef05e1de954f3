package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
)

const orderCodePrefix = "ORD"

var (
	codeRand  = rand.New(rand.NewSource(time.Now().UnixNano()))
	codeMutex sync.Mutex
)

// GenerateOrderCode подбирает уникальный код заказа вида ORD + 6 цифр.
// Коллизии разрешаются повторной генерацией, но не более maxAttempts раз;
// при исчерпании попыток возвращается e.ErrOrderCodeExhausted.
func GenerateOrderCode(ctx context.Context, exists func(ctx context.Context, code string) (bool, error), maxAttempts int) (string, error) {
	const op = "GenerateOrderCode"

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := randomOrderCode()

		taken, err := exists(ctx, code)
		if err != nil {
			return "", e.Wrap(op, err)
		}
		if !taken {
			return code, nil
		}
	}

	return "", e.Wrap(op, e.ErrOrderCodeExhausted)
}

// randomOrderCode возвращает код из диапазона ORD100000..ORD999999.
func randomOrderCode() string {
	codeMutex.Lock()
	n := codeRand.Intn(900000) + 100000
	codeMutex.Unlock()

	return fmt.Sprintf("%s%d", orderCodePrefix, n)
}
