package xmetrics

import (
	"context"
	"time"
)

// Status 表示回调执行结果状态。
type Status string

const (
	// StatusOK 表示回调正常返回。
	StatusOK Status = "ok"
	// StatusError 表示回调失败（panic 被恢复）。
	StatusError Status = "error"
)

// Attr 表示观测属性。
type Attr struct {
	Key   string
	Value any
}

// SpanOptions 定义一次回调观测的参数。
type SpanOptions struct {
	// Component 标识组件名称，如 "xtimer"、"xdelay"。
	Component string
	// Operation 标识操作名称，如 "tick"、"fire"。
	Operation string
	// Due 是回调的计划执行时间；零值表示不记录 lag。
	Due time.Time
	// Started 是回调实际开始时间；零值时使用 time.Now()。
	Started time.Time
	// Attrs 附加属性。
	Attrs []Attr
}

// Result 表示回调结束时的结果。
type Result struct {
	// Status 为空时根据 Err 推导。
	Status Status
	// Err 是回调失败原因。
	Err error
	// Elapsed 是回调耗时；零值时按 Started 到 End 调用时刻计算。
	Elapsed time.Duration
}

// Span 表示一次回调观测。
type Span interface {
	// End 结束观测并记录结果。
	End(result Result)
}

// Observer 定义回调观测接口。
type Observer interface {
	// Start 开始一次观测。
	Start(ctx context.Context, opts SpanOptions) (context.Context, Span)
}

// NoopObserver 是空实现。
type NoopObserver struct{}

// Start 返回 ctx 和空跨度。
func (NoopObserver) Start(ctx context.Context, _ SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, NoopSpan{}
}

// NoopSpan 是空跨度实现。
type NoopSpan struct{}

// End 空实现。
func (NoopSpan) End(_ Result) {}

// Start 使用 observer 开始观测，nil observer 时返回空跨度。
// 保证返回非 nil 的 context 和 Span。
func Start(ctx context.Context, observer Observer, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	retCtx, span := observer.Start(ctx, opts)
	if retCtx == nil {
		retCtx = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return retCtx, span
}
