package main

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/omeyang/xtick/pkg/config/xconf"
	"github.com/omeyang/xtick/pkg/observability/xmetrics"
	"github.com/omeyang/xtick/pkg/schedule/xtimer"
)

// fleet 管理按名称索引的一组运行中的定时器，可按新配置增删改。
type fleet struct {
	logger   *slog.Logger
	observer xmetrics.Observer

	mu     sync.Mutex
	timers map[string]*member
	closed bool
}

type member struct {
	cfg   xconf.Timer
	timer *xtimer.Timer
}

func newFleet(logger *slog.Logger, observer xmetrics.Observer) *fleet {
	return &fleet{
		logger:   logger,
		observer: observer,
		timers:   make(map[string]*member),
	}
}

// apply 使运行中的定时器与 cfgs 一致：移除的关闭，新增的启动，配置变化的重建。
// 未变化的定时器不受影响。
func (f *fleet) apply(cfgs []xconf.Timer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return xtimer.ErrClosed
	}

	want := make(map[string]xconf.Timer, len(cfgs))
	for _, s := range cfgs {
		want[s.Name] = s
	}

	var errs []error
	for name, m := range f.timers {
		if s, ok := want[name]; ok && s == m.cfg {
			continue
		}
		errs = append(errs, m.timer.Close())
		delete(f.timers, name)
		f.logger.Info("timer removed", slog.String("timer", name))
	}

	for _, s := range cfgs {
		if _, ok := f.timers[s.Name]; ok {
			continue
		}
		m, err := f.start(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.timers[s.Name] = m
		f.logger.Info("timer started",
			slog.String("timer", s.Name),
			slog.String("strategy", s.Strategy),
			slog.Duration("interval", s.Interval),
			slog.String("cron", s.Cron),
		)
	}
	return errors.Join(errs...)
}

func (f *fleet) start(s xconf.Timer) (*member, error) {
	strategy, err := s.NewStrategy()
	if err != nil {
		return nil, err
	}
	logger := f.logger.With(slog.String("timer", s.Name))
	t, err := xtimer.NewWithStrategy(strategy, func() { logger.Info("timer tick") },
		xtimer.WithName(s.Name),
		xtimer.WithLogger(f.logger),
		xtimer.WithObserver(f.observer),
	)
	if err != nil {
		return nil, err
	}
	if err := t.Start(); err != nil {
		return nil, err
	}
	return &member{cfg: s, timer: t}, nil
}

// names 返回运行中定时器的名称，按字典序。
func (f *fleet) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.timers))
	for name := range f.timers {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Run 实现 xrun.Service：ctx 取消后关闭全部定时器。
func (f *fleet) Run(ctx context.Context) error {
	<-ctx.Done()
	if err := f.close(); err != nil {
		return err
	}
	return ctx.Err()
}

func (f *fleet) close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true

	var errs []error
	for name, m := range f.timers {
		errs = append(errs, m.timer.Close())
		delete(f.timers, name)
	}
	return errors.Join(errs...)
}
