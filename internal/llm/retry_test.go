package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestWithRetry_ZeroRetriesReturnsClient(t *testing.T) {
	client := &fakeClient{}
	assert.Same(t, Client(client), WithRetry(client, DefaultRetryPolicy()))
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	client := &fakeClient{
		errs:      []error{errors.New("503"), errors.New("timeout"), nil},
		responses: []string{"", "", `{"ok":true}`},
	}
	wrapped := WithRetry(client, RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}).(*retryClient)
	wrapped.sleep = noSleep

	text, err := wrapped.GenerateJSON(context.Background(), Request{Op: "generate"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, 3, client.calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	last := errors.New("still down")
	client := &fakeClient{errs: []error{errors.New("down"), errors.New("down"), last}}
	wrapped := WithRetry(client, RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}).(*retryClient)
	wrapped.sleep = noSleep

	_, err := wrapped.GenerateJSON(context.Background(), Request{})
	assert.ErrorIs(t, err, last)
	assert.Equal(t, 3, client.calls)
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	client := &fakeClient{errs: []error{errors.New("down"), errors.New("down")}}
	wrapped := WithRetry(client, RetryPolicy{MaxRetries: 3, BaseDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := wrapped.GenerateJSON(ctx, Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := 1; attempt <= 3; attempt++ {
		d := backoff(base, attempt)
		minDelay := base << (attempt - 1)
		assert.GreaterOrEqual(t, d, minDelay)
		assert.LessOrEqual(t, d, minDelay+minDelay/2)
	}
}
