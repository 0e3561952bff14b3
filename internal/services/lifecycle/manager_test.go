package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShutdownRunsHooksInReverse(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	started := false

	m.Register("storage", func(context.Context) error {
		order = append(order, "storage")
		return nil
	})
	m.Go("scheduler", func() { started = true }, func(context.Context) error {
		order = append(order, "scheduler")
		return nil
	})
	m.Register("ignored", nil)

	assert.True(t, started)
	assert.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"scheduler", "storage"}, order)

	assert.NoError(t, m.Shutdown(context.Background()))
	assert.Len(t, order, 2, "hooks run once")
}

func TestShutdownJoinsErrors(t *testing.T) {
	m := New(0, nil)
	flush := errors.New("flush failed")
	closed := false

	m.Register("bolt", func(context.Context) error {
		closed = true
		return nil
	})
	m.Register("http", func(context.Context) error { return flush })

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, flush)
	assert.True(t, closed, "later hooks still run after a failure")
}

func TestShutdownHooksSeeDeadline(t *testing.T) {
	m := New(50*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})
	assert.NoError(t, m.Shutdown(context.Background()))
}
