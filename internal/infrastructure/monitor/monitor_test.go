package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestMonitorRefresh(t *testing.T) {
	var failing error
	m := New("bolt", pingerFunc(func(context.Context) error { return failing }), 0, nil)

	assert.False(t, m.IsOnline(), "offline until first check")

	m.Refresh()
	assert.True(t, m.IsOnline())
	assert.Equal(t, "bolt", m.GetStatus().Driver)
	assert.False(t, m.GetStatus().LastCheck.IsZero())

	failing = errors.New("disk gone")
	m.Refresh()
	assert.False(t, m.IsOnline())
	assert.Equal(t, "disk gone", m.GetStatus().Error)

	m.Stop()
	m.Stop()
}

func TestMonitorWithoutStore(t *testing.T) {
	m := New("memory", nil, 0, nil)
	m.Refresh()
	assert.False(t, m.IsOnline())
}
