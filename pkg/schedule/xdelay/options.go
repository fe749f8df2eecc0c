package xdelay

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/omeyang/xtick/pkg/observability/xmetrics"
)

// DefaultResolution 是默认的 deadline 精度。
const DefaultResolution = time.Millisecond

// Option 定义 Scheduler 可选配置函数类型。
type Option func(*options)

type options struct {
	logger     *slog.Logger
	name       string
	clock      clock.Clock
	observer   xmetrics.Observer
	policy     Policy
	resolution time.Duration
}

func defaultOptions() options {
	return options{
		logger:     slog.Default(),
		name:       "delay-" + uuid.NewString()[:8],
		clock:      clock.New(),
		policy:     PolicyJoin,
		resolution: DefaultResolution,
	}
}

func (o *options) validate() error {
	if o.resolution <= 0 {
		return ErrInvalidResolution
	}
	switch o.policy {
	case PolicyJoin, PolicyDetach:
		return nil
	default:
		return ErrInvalidPolicy
	}
}

// WithLogger 设置日志记录器。默认使用 slog.Default()。传入 nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置调度器名称，用于区分多实例的日志与指标。空字符串被忽略。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithClock 设置时钟源，测试中可注入 clock.NewMock()。传入 nil 将被忽略。
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithObserver 设置回调观测器。默认不观测。
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithShutdownPolicy 设置 Close 时的处理策略，默认 PolicyJoin。
func WithShutdownPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithResolution 设置 deadline 精度，默认 1ms。
//
// deadline 向上取整到精度的整数倍，同一格内的回调合并为一组，按提交顺序触发。
// 向上取整保证回调不会早于 now+delay 执行。
func WithResolution(d time.Duration) Option {
	return func(o *options) {
		o.resolution = d
	}
}
