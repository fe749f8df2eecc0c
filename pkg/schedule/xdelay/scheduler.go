package xdelay

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xtick/internal/xsafe"
	"github.com/omeyang/xtick/pkg/observability/xmetrics"
)

// Scheduler 在一个共享的后台 goroutine 中，按 deadline 顺序执行一次性回调。
//
// deadline 更早的回调先执行，即使它提交得更晚；同一 deadline 的回调按提交顺序执行。
// 回调在锁外执行，慢回调不会阻塞 Schedule，但会推迟后续回调。
type Scheduler struct {
	opts     options
	reporter *xsafe.Reporter

	mu        sync.Mutex
	idx       *index
	closed    bool
	abandoned atomic.Bool // 置位后 worker 丢弃剩余回调并尽快退出

	wake chan struct{} // 容量 1，合并多次唤醒
	done chan struct{}

	fired   atomic.Int64
	dropped atomic.Int64
}

// New 创建调度器并启动其 worker goroutine。
// 使用完毕必须调用 Close 或 Shutdown，否则 worker 会一直存活。
func New(opts ...Option) (*Scheduler, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		opts:     o,
		reporter: xsafe.NewReporter(o.logger, "xdelay", 0, 0),
		idx:      newIndex(o.clock.Now(), o.resolution),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go s.loop()
	return s, nil
}

// Schedule 提交一个在 delay 之后执行的回调，不阻塞。
//
// delay 为 0 时在 worker 下一次醒来时执行。回调不会早于 now+delay 执行，
// 但在负载下可能晚于它。
func (s *Scheduler) Schedule(delay time.Duration, fn func()) error {
	if delay < 0 {
		return ErrNegativeDelay
	}
	if fn == nil {
		return ErrNilCallback
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.idx.add(s.opts.clock.Now().Add(delay), fn)
	s.mu.Unlock()

	s.signal()
	return nil
}

// Pending 返回尚未开始执行的回调数。
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.len()
}

// Fired 返回已执行的回调数（含 panic 的）。
func (s *Scheduler) Fired() int64 {
	return s.fired.Load()
}

// Dropped 返回因 PolicyDetach 或 Shutdown 超时而被丢弃的回调数。
func (s *Scheduler) Dropped() int64 {
	return s.dropped.Load()
}

// Name 返回调度器名称。
func (s *Scheduler) Name() string {
	return s.opts.name
}

// Policy 返回关闭策略。
func (s *Scheduler) Policy() Policy {
	return s.opts.policy
}

// Close 关闭调度器。幂等，之后的 Schedule 返回 ErrClosed。
//
// PolicyJoin 下等待所有待执行回调到期执行完毕、worker 退出后返回；
// PolicyDetach 下丢弃待执行回调，立即返回。
// 不可在调度器自己的回调中以 PolicyJoin 调用，否则会死锁。
func (s *Scheduler) Close() error {
	if s.opts.policy == PolicyDetach {
		s.shutdown(true)
		return nil
	}
	s.shutdown(false)
	<-s.done
	return nil
}

// Shutdown 关闭调度器并在 ctx 约束内等待 worker 退出。
//
// ctx 到期时丢弃剩余的待执行回调并返回 ctx.Err()；
// 正在执行的回调不会被中断，可通过 Done 等待 worker 最终退出。
func (s *Scheduler) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	s.shutdown(s.opts.policy == PolicyDetach)

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.shutdown(true)
		return ctx.Err()
	}
}

// Done 返回一个 channel，在 worker 退出后关闭。
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Run 实现 xrun.Service：阻塞到 ctx 取消，然后按关闭策略 Close。
func (s *Scheduler) Run(ctx context.Context) error {
	<-ctx.Done()
	if err := s.Close(); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// shutdown 标记关闭；abandon 为 true 时丢弃全部待执行回调。
func (s *Scheduler) shutdown(abandon bool) {
	s.mu.Lock()
	first := !s.closed
	s.closed = true
	n := 0
	if abandon && !s.abandoned.Load() {
		s.abandoned.Store(true)
		n = s.idx.clear()
	}
	s.mu.Unlock()

	if n > 0 {
		s.dropped.Add(int64(n))
		s.opts.logger.Warn("pending callbacks dropped",
			slog.String("scheduler", s.opts.name),
			slog.Int("dropped", n),
		)
	}
	if first {
		s.opts.logger.Debug("scheduler closing",
			slog.String("scheduler", s.opts.name),
			slog.String("policy", s.opts.policy.String()),
		)
	}
	s.signal()
}

// loop 是 worker 主循环。每次醒来都从当前状态重新计算最早 deadline，
// 不信任睡眠前算出的等待时间。
func (s *Scheduler) loop() {
	defer close(s.done)

	clk := s.opts.clock
	for {
		s.mu.Lock()
		if s.abandoned.Load() {
			s.mu.Unlock()
			return
		}

		e, ok := s.idx.earliest()
		if !ok {
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			<-s.wake
			continue
		}

		due := s.idx.dueAt(e.bucket)
		if wait := due.Sub(clk.Now()); wait > 0 {
			s.mu.Unlock()
			timer := clk.Timer(wait)
			select {
			case <-timer.C:
			case <-s.wake:
				timer.Stop()
			}
			continue
		}

		s.idx.detach(e)
		s.mu.Unlock()
		s.fire(due, e)
	}
}

// fire 在锁外按提交顺序执行一个已摘除的回调组。
func (s *Scheduler) fire(due time.Time, e *entry) {
	for fn := e.pop(); fn != nil; fn = e.pop() {
		if s.abandoned.Load() {
			s.dropped.Add(int64(e.len() + 1))
			return
		}
		s.invoke(due, fn)
	}
}

func (s *Scheduler) invoke(due time.Time, fn func()) {
	clk := s.opts.clock
	started := clk.Now()
	_, span := xmetrics.Start(context.Background(), s.opts.observer, xmetrics.SpanOptions{
		Component: "xdelay",
		Operation: "fire",
		Due:       due,
		Started:   started,
		Attrs:     []xmetrics.Attr{xmetrics.String("scheduler", s.opts.name)},
	})

	err := xsafe.Call(fn)
	span.End(xmetrics.Result{Err: err, Elapsed: clk.Since(started)})

	s.fired.Add(1)
	if err != nil {
		s.reporter.Report(err,
			slog.String("scheduler", s.opts.name),
			slog.Time("due", due),
		)
	}
}
