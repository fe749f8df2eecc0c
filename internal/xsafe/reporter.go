package xsafe

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBurst 是限流前无条件输出的失败日志条数。
	DefaultBurst = 5
	// DefaultInterval 是超过 DefaultBurst 后两条失败日志之间的最小间隔。
	DefaultInterval = 10 * time.Second
)

// Reporter 以限流方式记录回调失败。
// 并发安全；零值不可用，请使用 NewReporter。
type Reporter struct {
	logger     *slog.Logger
	component  string
	sometimes  *rate.Sometimes
	suppressed atomic.Int64
	total      atomic.Int64
}

// NewReporter 创建 Reporter。
// logger 为 nil 时使用 slog.Default()；burst <= 0 或 interval <= 0 时使用默认值。
func NewReporter(logger *slog.Logger, component string, burst int, interval time.Duration) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reporter{
		logger:    logger,
		component: component,
		sometimes: &rate.Sometimes{First: burst, Interval: interval},
	}
}

// Report 记录一次回调失败。err 为 nil 时忽略。
// attrs 会附加在日志记录上（如定时器名称、deadline）。
func (r *Reporter) Report(err error, attrs ...slog.Attr) {
	if err == nil {
		return
	}
	r.total.Add(1)

	logged := false
	r.sometimes.Do(func() {
		logged = true
		all := make([]slog.Attr, 0, len(attrs)+4)
		all = append(all,
			slog.String("component", r.component),
			slog.Any("error", err),
		)
		if n := r.suppressed.Swap(0); n > 0 {
			all = append(all, slog.Int64("suppressed", n))
		}
		var pe *PanicError
		if errors.As(err, &pe) {
			all = append(all, slog.String("stack", string(pe.Stack)))
		}
		all = append(all, attrs...)
		r.logger.LogAttrs(context.Background(), slog.LevelError, "callback failed", all...)
	})
	if !logged {
		r.suppressed.Add(1)
	}
}

// Failures 返回累计报告的失败次数（含被限流抑制的）。
func (r *Reporter) Failures() int64 {
	return r.total.Load()
}
