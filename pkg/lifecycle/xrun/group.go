package xrun

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Group 并发运行一组函数，任一失败即取消其余。
//
// Go/GoWithName/Cancel 可并发调用；Wait 只应调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
}

// NewGroup 创建 Group 并返回其派生 context。nil ctx 视为 context.Background()。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		opts:     o,
	}, egCtx
}

// Go 在新 goroutine 中运行 fn。fn 应在 ctx 取消后尽快返回。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 与 Go 相同，额外记录启动与退出日志。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		log := g.opts.logger.With(
			slog.String("group", g.opts.name),
			slog.String("service", name),
		)
		log.Debug("service starting")

		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("service exited with error", slog.Any("error", err))
		} else {
			log.Debug("service stopped")
		}
		return err
	})
}

// Wait 等待全部函数返回。
//
// Group 被 Cancel(cause) 或父 context 取消时，服务返回的 context.Canceled 被过滤：
// 有显式 cause（如 *SignalError）返回 cause，否则返回 nil。
// 服务自己产生的 context.Canceled 原样返回。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	g.opts.logger.Debug("all services stopped", slog.String("group", g.opts.name))

	cancelled := g.causeCtx.Err() != nil
	switch {
	case errors.Is(err, context.Canceled) && cancelled:
		return g.cause()
	case err == nil && cancelled:
		return g.cause()
	default:
		return err
	}
}

// Cancel 以 cause 为原因取消全部函数。cause 不应包装 context.Canceled，否则会被 Wait 过滤。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回 Group 的 context。
func (g *Group) Context() context.Context {
	return g.ctx
}

// cause 返回显式的取消原因；普通取消返回 nil。
func (g *Group) cause() error {
	if c := context.Cause(g.causeCtx); c != nil && !errors.Is(c, context.Canceled) {
		return c
	}
	return nil
}
