package retry

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_NoStrategies(t *testing.T) {
	var calls int
	attempts, err := Retry(func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, attempts)
}

func TestRetry_Limit(t *testing.T) {
	expected := errors.New("persistent")

	var calls int
	attempts, err := Retry(func() error {
		calls++
		return expected
	}, Limit(5))

	assert.Equal(t, expected, err)
	assert.EqualValues(t, 5, attempts)
	assert.Equal(t, 5, calls)
}

func TestRetry_RetriableErrors(t *testing.T) {
	retriable := errors.New("retriable")
	fatal := errors.New("fatal")

	var calls int
	_, err := Retry(func() error {
		calls++
		if calls == 1 {
			return retriable
		}
		return fatal
	}, Limit(10), RetriableErrors(retriable))

	assert.Equal(t, fatal, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_NonRetriableErrors(t *testing.T) {
	fatal := errors.New("fatal")

	var calls int
	_, err := Retry(func() error {
		calls++
		return fatal
	}, Limit(10), NonRetriableErrors(fatal))

	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, calls)
}
