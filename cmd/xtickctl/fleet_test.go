package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xtick/pkg/config/xconf"
	"github.com/omeyang/xtick/pkg/schedule/xtimer"
)

func TestFleet_Apply(t *testing.T) {
	f := newFleet(slog.New(slog.DiscardHandler), nil)
	defer func() { _ = f.close() }()

	a := xconf.Timer{Name: "a", Interval: time.Hour}
	b := xconf.Timer{Name: "b", Strategy: "cadence", Interval: time.Hour}
	require.NoError(t, f.apply([]xconf.Timer{a, b}))
	assert.Equal(t, []string{"a", "b"}, f.names())

	before := f.timers["a"].timer

	// a 不变，b 删除，c 新增
	c := xconf.Timer{Name: "c", Strategy: "cron", Cron: "@hourly"}
	require.NoError(t, f.apply([]xconf.Timer{a, c}))
	assert.Equal(t, []string{"a", "c"}, f.names())
	assert.Same(t, before, f.timers["a"].timer, "unchanged timer keeps running")

	// a 的间隔变化时重建
	a.Interval = 2 * time.Hour
	require.NoError(t, f.apply([]xconf.Timer{a}))
	assert.NotSame(t, before, f.timers["a"].timer)
	select {
	case <-before.Done():
	default:
		t.Fatal("replaced timer was not closed")
	}
}

func TestFleet_ApplyInvalid(t *testing.T) {
	f := newFleet(slog.New(slog.DiscardHandler), nil)
	defer func() { _ = f.close() }()

	err := f.apply([]xconf.Timer{{Name: "bad", Interval: 0}, {Name: "ok", Interval: time.Hour}})
	assert.ErrorIs(t, err, xtimer.ErrInvalidInterval)
	assert.Equal(t, []string{"ok"}, f.names())
}

func TestFleet_Run(t *testing.T) {
	f := newFleet(slog.New(slog.DiscardHandler), nil)
	require.NoError(t, f.apply([]xconf.Timer{{Name: "a", Interval: 10 * time.Millisecond}}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, f.names())
	assert.ErrorIs(t, f.apply(nil), xtimer.ErrClosed)
}
