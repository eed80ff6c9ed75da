package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/backoffice/internal/apperr"
)

func fastConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("timeout")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	calls := 0
	boom := errors.New("still down")
	_, err := Do(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoNeverRetriesDomainErrors(t *testing.T) {
	t.Run("business", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(), func() (int, error) {
			calls++
			return 0, apperr.Business("email already registered")
		})
		require.Error(t, err)
		assert.True(t, apperr.IsBusiness(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("not found", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(), func() (int, error) {
			calls++
			return 0, apperr.NotFound("customer 7 not found")
		})
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
		assert.Equal(t, 1, calls)
	})
}

func TestDoStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Do(ctx, Config{MaxAttempts: 5, BaseDelay: time.Minute, MaxDelay: time.Minute, Multiplier: 1}, func() (int, error) {
		calls++
		cancel()
		return 0, errors.New("timeout")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "no further attempts after cancellation")
}
