package xtimer

import "errors"

var (
	// ErrInvalidInterval 表示间隔参数无效（必须为正数）。
	ErrInvalidInterval = errors.New("xtimer: interval must be positive")

	// ErrNilCallback 表示回调为 nil。
	ErrNilCallback = errors.New("xtimer: callback cannot be nil")

	// ErrNilStrategy 表示 tick 策略为 nil。
	ErrNilStrategy = errors.New("xtimer: strategy cannot be nil")

	// ErrInvalidCron 表示 cron 表达式无效或永远不会触发。
	ErrInvalidCron = errors.New("xtimer: invalid cron expression")

	// ErrInvalidKind 表示未知的策略类型。
	ErrInvalidKind = errors.New("xtimer: unknown strategy kind")

	// ErrClosed 表示定时器已关闭，不能再启动。
	ErrClosed = errors.New("xtimer: timer is closed")

	// ErrNilContext 表示 context 参数为 nil。
	ErrNilContext = errors.New("xtimer: nil context")
)
