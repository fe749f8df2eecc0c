package xrun

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// Group
// =============================================================================

func TestGroup_Empty(t *testing.T) {
	g, _ := NewGroup(context.Background())
	assert.NoError(t, g.Wait())
}

func TestGroup_FirstErrorCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	var stopped atomic.Bool

	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Store(true)
		return ctx.Err()
	})
	g.Go(func(context.Context) error { return boom })

	assert.ErrorIs(t, g.Wait(), boom)
	assert.True(t, stopped.Load())
}

func TestGroup_NilContextAndOptions(t *testing.T) {
	//nolint:staticcheck // 测试 nil context 归一化
	g, ctx := NewGroup(nil, nil, WithName(""), WithLogger(nil))
	require.NotNil(t, ctx)
	assert.Equal(t, "xtick", g.opts.name)
	assert.Equal(t, ctx, g.Context())
	assert.NoError(t, g.Wait())
}

func TestGroup_NilFunc(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(nil)
	assert.ErrorIs(t, g.Wait(), ErrNilFunc)

	g, _ = NewGroup(context.Background())
	g.GoWithName("nil", nil)
	assert.ErrorIs(t, g.Wait(), ErrNilFunc)
}

func TestGroup_CancelWithCause(t *testing.T) {
	cause := errors.New("maintenance")
	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.Cancel(cause)
	assert.ErrorIs(t, g.Wait(), cause)
}

func TestGroup_CancelCauseSurvivesNilReturns(t *testing.T) {
	cause := errors.New("maintenance")
	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	g.Cancel(cause)
	assert.ErrorIs(t, g.Wait(), cause)
}

func TestGroup_PlainCancelIsNil(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.Cancel(nil)
	assert.NoError(t, g.Wait())
}

func TestGroup_ParentCancelIsNil(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	g, _ := NewGroup(parent)
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	cancel()
	assert.NoError(t, g.Wait())
}

func TestGroup_ServiceOwnCanceledIsKept(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, g.Wait(), context.Canceled)
}

func TestGroup_GoWithNameLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g, _ := NewGroup(context.Background(), WithLogger(logger), WithName("ticks"))
	g.GoWithName("flusher", func(context.Context) error { return errors.New("disk full") })
	require.Error(t, g.Wait())

	out := buf.String()
	assert.Contains(t, out, "service starting")
	assert.Contains(t, out, "service exited with error")
	assert.Contains(t, out, "group=ticks")
	assert.Contains(t, out, "service=flusher")
	assert.Contains(t, out, "disk full")
}

// =============================================================================
// 信号
// =============================================================================

func TestDefaultSignals(t *testing.T) {
	sigs := DefaultSignals()
	assert.Equal(t, []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}, sigs)

	sigs[0] = syscall.SIGUSR1
	assert.Equal(t, syscall.SIGHUP, DefaultSignals()[0], "each call returns a fresh slice")
}

func TestRunServices_Signal(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	ctx := withTestSigChan(context.Background(), sigCh)

	var stopped atomic.Bool
	svc := ServiceFunc(func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Store(true)
		return ctx.Err()
	})

	sigCh <- syscall.SIGTERM
	err := RunServices(ctx, []Option{WithLogger(slog.New(slog.DiscardHandler))}, svc)

	require.ErrorIs(t, err, ErrSignal)
	var sigErr *SignalError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, syscall.SIGTERM, sigErr.Signal)
	assert.True(t, stopped.Load())
}

func TestRunServices_WithSignals(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	ctx := withTestSigChan(context.Background(), sigCh)
	sigCh <- syscall.SIGUSR1

	err := RunServices(ctx, []Option{WithSignals([]os.Signal{syscall.SIGUSR1})},
		ServiceFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}),
	)
	assert.ErrorIs(t, err, ErrSignal)
}

func TestWithSignals_Copies(t *testing.T) {
	sigs := []os.Signal{syscall.SIGINT}
	opt := WithSignals(sigs)
	sigs[0] = syscall.SIGTERM

	o := defaultOptions()
	opt(o)
	assert.Equal(t, []os.Signal{syscall.SIGINT}, o.signals)
}

func TestRunServices_WithoutSignalHandler(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	sigCh <- syscall.SIGTERM
	ctx, cancel := context.WithTimeout(withTestSigChan(context.Background(), sigCh), 50*time.Millisecond)
	defer cancel()

	err := RunServices(ctx, []Option{WithoutSignalHandler()},
		ServiceFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "injected signal is ignored")
	assert.Len(t, sigCh, 1)
}

func TestSignalError(t *testing.T) {
	err := &SignalError{Signal: syscall.SIGINT}
	assert.ErrorIs(t, err, ErrSignal)
	assert.Equal(t, "received signal interrupt", err.Error())
	assert.Equal(t, "received signal <nil>", (&SignalError{}).Error())
}
