package xdelay

import "errors"

var (
	// ErrNegativeDelay 表示延迟参数为负数。
	ErrNegativeDelay = errors.New("xdelay: delay must not be negative")

	// ErrNilCallback 表示回调为 nil。
	ErrNilCallback = errors.New("xdelay: callback cannot be nil")

	// ErrClosed 表示调度器已关闭，不再接受新回调。
	ErrClosed = errors.New("xdelay: scheduler is closed")

	// ErrInvalidPolicy 表示未知的关闭策略。
	ErrInvalidPolicy = errors.New("xdelay: unknown shutdown policy")

	// ErrInvalidResolution 表示 deadline 精度无效（必须为正数）。
	ErrInvalidResolution = errors.New("xdelay: resolution must be positive")

	// ErrNilContext 表示 context 参数为 nil。
	ErrNilContext = errors.New("xdelay: nil context")
)
