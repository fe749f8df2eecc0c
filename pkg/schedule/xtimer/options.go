package xtimer

import (
	"log/slog"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/omeyang/xtick/pkg/observability/xmetrics"
)

// Option 定义 Timer 可选配置函数类型。
type Option func(*options)

type options struct {
	logger   *slog.Logger
	name     string
	clock    clock.Clock
	observer xmetrics.Observer
}

func defaultOptions() options {
	return options{
		logger: slog.Default(),
		name:   "timer-" + uuid.NewString()[:8],
		clock:  clock.New(),
	}
}

// WithLogger 设置日志记录器，用于记录回调失败。
// 默认使用 slog.Default()。传入 nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置定时器名称，出现在日志与指标属性中。
// 默认为 "timer-" 加随机后缀。空字符串被忽略。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithClock 设置时钟源，测试中可注入 clock.NewMock()。
// 默认使用真实时钟。传入 nil 将被忽略。
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
