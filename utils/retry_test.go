package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsAfterFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Retry(3, 0, func() error {
		calls++
		if calls < 2 {
			return errors.New("flaky")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestRetry_SingleAttemptReturnsBareError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("boom")
	err := Retry(1, 0, func() error { return sentinel })

	require.Same(t, sentinel, err)
}

func TestRetry_ExhaustionWrapsLastError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("still failing")
	calls := 0
	err := Retry(3, 0, func() error {
		calls++
		return sentinel
	})

	require.Equal(t, 3, calls)
	require.ErrorIs(t, err, sentinel)
}
