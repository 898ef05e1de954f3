package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/stretchr/testify/require"
)

var codeFormat = regexp.MustCompile(`^ORD\d{6}$`)

func TestGenerateOrderCode(t *testing.T) {
	ctx := context.Background()

	t.Run("format", func(t *testing.T) {
		never := func(ctx context.Context, code string) (bool, error) { return false, nil }

		for i := 0; i < 100; i++ {
			code, err := GenerateOrderCode(ctx, never, 10)
			require.NoError(t, err)
			require.Regexp(t, codeFormat, code)
		}
	})

	t.Run("retries on collision", func(t *testing.T) {
		calls := 0
		exists := func(ctx context.Context, code string) (bool, error) {
			calls++
			return calls < 3, nil
		}

		code, err := GenerateOrderCode(ctx, exists, 10)
		require.NoError(t, err)
		require.Regexp(t, codeFormat, code)
		require.Equal(t, 3, calls)
	})

	t.Run("exhausted attempts", func(t *testing.T) {
		calls := 0
		always := func(ctx context.Context, code string) (bool, error) {
			calls++
			return true, nil
		}

		_, err := GenerateOrderCode(ctx, always, 5)
		require.ErrorIs(t, err, e.ErrOrderCodeExhausted)
		require.Equal(t, 5, calls)
	})

	t.Run("lookup error propagates", func(t *testing.T) {
		wantErr := errors.New("db down")
		failing := func(ctx context.Context, code string) (bool, error) { return false, wantErr }

		_, err := GenerateOrderCode(ctx, failing, 10)
		require.ErrorIs(t, err, wantErr)
	})
}
