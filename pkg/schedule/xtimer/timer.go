package xtimer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xtick/internal/xsafe"
	"github.com/omeyang/xtick/pkg/observability/xmetrics"
)

// Timer 在独立的后台 goroutine 中按 Strategy 周期性执行回调。
//
// 同一时刻最多只有一个 worker goroutine，回调不会与自身并发执行。
// Start/Stop/Close 可从任意 goroutine 并发调用。
type Timer struct {
	strategy Strategy
	fn       func()
	opts     options
	reporter *xsafe.Reporter

	mu      sync.Mutex
	running bool
	closed  bool
	worker  chan struct{} // 存活 worker 的退出信号；nil 表示没有存活 worker

	quit      chan struct{} // Close 时关闭，中断等待
	quitOnce  sync.Once
	finished  chan struct{} // Close 后 worker 退出时关闭
	finishOne sync.Once

	ticks atomic.Int64
}

// New 创建使用 FixedSleep 策略的定时器。
// interval 必须为正数，fn 不能为 nil。创建后处于停止状态，需调用 Start。
func New(interval time.Duration, fn func(), opts ...Option) (*Timer, error) {
	s, err := NewFixedSleep(interval)
	if err != nil {
		return nil, err
	}
	return NewWithStrategy(s, fn, opts...)
}

// NewWithStrategy 创建使用自定义策略的定时器。
func NewWithStrategy(strategy Strategy, fn func(), opts ...Option) (*Timer, error) {
	if strategy == nil {
		return nil, ErrNilStrategy
	}
	if fn == nil {
		return nil, ErrNilCallback
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return &Timer{
		strategy: strategy,
		fn:       fn,
		opts:     o,
		reporter: xsafe.NewReporter(o.logger, "xtimer", 0, 0),
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}, nil
}

// Start 启动定时器。
//
// 已在运行时为空操作。Stop 之后、worker 尚未退出前再次 Start，
// 原 worker 继续运行，不会产生第二个 goroutine。
// 定时器已关闭时返回 ErrClosed。
func (t *Timer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.running {
		return nil
	}
	t.running = true
	if t.worker == nil {
		t.worker = make(chan struct{})
		go t.loop(t.worker)
	}
	return nil
}

// Stop 停止定时器，不等待 worker 退出。
//
// 不中断正在进行的等待或回调：当前 tick 完成（包括等待结束后的那次回调）
// 之后 worker 才会退出。因此 Stop 返回后最多还会开始一次回调。
func (t *Timer) Stop() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
}

// Reset 是预留扩展点，当前无任何效果，也不会重启定时器。
func (t *Timer) Reset() {}

// Running 报告定时器是否处于运行状态。
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Ticks 返回已执行的回调次数（含失败的）。
func (t *Timer) Ticks() int64 {
	return t.ticks.Load()
}

// Name 返回定时器名称。
func (t *Timer) Name() string {
	return t.opts.name
}

// Close 停止定时器并等待 worker 退出。幂等。
//
// 正在等待中的 tick 被放弃，正在执行的回调会执行完毕。
// 不可在定时器自己的回调中调用，否则会死锁。
func (t *Timer) Close() error {
	<-t.shutdown()
	return nil
}

// Shutdown 与 Close 相同，但等待受 ctx 约束。
// ctx 到期时返回 ctx.Err()，worker 仍会在当前回调结束后退出，可通过 Done 等待。
func (t *Timer) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	select {
	case <-t.shutdown():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done 返回一个 channel，在定时器关闭且 worker 退出后关闭。
func (t *Timer) Done() <-chan struct{} {
	return t.finished
}

// Run 实现 xrun.Service：启动定时器，ctx 取消后关闭并返回 ctx.Err()。
func (t *Timer) Run(ctx context.Context) error {
	if err := t.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	if err := t.Close(); err != nil {
		return err
	}
	return ctx.Err()
}

// shutdown 标记关闭并返回 finished。
func (t *Timer) shutdown() <-chan struct{} {
	t.mu.Lock()
	t.running = false
	t.closed = true
	alive := t.worker != nil
	t.mu.Unlock()

	t.quitOnce.Do(func() { close(t.quit) })
	if !alive {
		t.finishOne.Do(func() { close(t.finished) })
	}
	return t.finished
}

// loop 是 worker 主循环："运行中则执行一次 tick"。
func (t *Timer) loop(self chan struct{}) {
	var processing time.Duration
	for t.keepRunning(self) {
		clk := t.opts.clock
		now := clk.Now()
		wait := t.strategy.Next(now, processing)
		if wait < 0 {
			wait = 0
		}
		due := now.Add(wait)

		if wait > 0 {
			timer := clk.Timer(wait)
			select {
			case <-timer.C:
			case <-t.quit:
				timer.Stop()
				continue
			}
		}
		processing = t.tick(due)
	}
}

// keepRunning 在 tick 之间检查运行标志；不再运行时注销 worker。
func (t *Timer) keepRunning(self chan struct{}) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return true
	}
	t.worker = nil
	close(self)
	if t.closed {
		t.finishOne.Do(func() { close(t.finished) })
	}
	return false
}

// tick 执行一次回调并返回其耗时。回调 panic 被恢复并限流记录。
func (t *Timer) tick(due time.Time) time.Duration {
	clk := t.opts.clock
	started := clk.Now()
	_, span := xmetrics.Start(context.Background(), t.opts.observer, xmetrics.SpanOptions{
		Component: "xtimer",
		Operation: "tick",
		Due:       due,
		Started:   started,
		Attrs:     []xmetrics.Attr{xmetrics.String("timer", t.opts.name)},
	})

	err := xsafe.Call(t.fn)
	elapsed := clk.Since(started)
	span.End(xmetrics.Result{Err: err, Elapsed: elapsed})

	n := t.ticks.Add(1)
	if err != nil {
		t.reporter.Report(err,
			slog.String("timer", t.opts.name),
			slog.Int64("tick", n),
		)
	}
	return elapsed
}
