package xtimer

import (
	"fmt"
	"strings"
	"time"
)

// Strategy 决定每次 tick 前的等待时长。
//
// Next 只在定时器自己的 worker goroutine 中调用，实现无需并发保护。
// now 为调用时刻，processing 为上一次回调耗时（首次为 0）。
// 返回负值按 0 处理。
type Strategy interface {
	Next(now time.Time, processing time.Duration) time.Duration
}

// FixedSleep 每次固定等待 interval，不补偿回调耗时。
// 实际周期 = interval + 回调耗时。
type FixedSleep struct {
	interval time.Duration
}

// NewFixedSleep 创建 FixedSleep 策略。interval 必须为正数。
func NewFixedSleep(interval time.Duration) (*FixedSleep, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &FixedSleep{interval: interval}, nil
}

// Next 实现 Strategy。
func (s *FixedSleep) Next(time.Time, time.Duration) time.Duration {
	return s.interval
}

// Interval 返回配置的间隔。
func (s *FixedSleep) Interval() time.Duration {
	return s.interval
}

// FixedCadence 让"开始到开始"的周期趋近 interval：
// 下一次等待 = interval - 上一次回调耗时，下限为 0。
//
// 回调耗时 >= interval 时下一次等待为 0，回调背靠背执行；
// 不会产生负等待，也不会为补回错过的 tick 而连续触发。
type FixedCadence struct {
	interval time.Duration
}

// NewFixedCadence 创建 FixedCadence 策略。interval 必须为正数。
func NewFixedCadence(interval time.Duration) (*FixedCadence, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &FixedCadence{interval: interval}, nil
}

// Next 实现 Strategy。
func (s *FixedCadence) Next(_ time.Time, processing time.Duration) time.Duration {
	if processing >= s.interval {
		return 0
	}
	return s.interval - processing
}

// Interval 返回配置的目标间隔。
func (s *FixedCadence) Interval() time.Duration {
	return s.interval
}

// Kind 表示可从配置构建的策略类型。
type Kind string

const (
	// KindSleep 对应 FixedSleep。
	KindSleep Kind = "sleep"
	// KindCadence 对应 FixedCadence。
	KindCadence Kind = "cadence"
	// KindCron 对应 Cron。
	KindCron Kind = "cron"
)

// ParseKind 解析策略类型，大小写不敏感；空字符串视为 KindSleep。
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindSleep, nil
	case KindSleep, KindCadence, KindCron:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// NewStrategy 按类型构建策略。
// KindSleep/KindCadence 使用 interval，KindCron 使用 expr（5 段格式或描述符）。
func NewStrategy(kind Kind, interval time.Duration, expr string) (Strategy, error) {
	var (
		s   Strategy
		err error
	)
	// 逐个赋值，避免失败时返回非 nil 的接口包着 nil 指针
	switch kind {
	case KindSleep:
		var fs *FixedSleep
		if fs, err = NewFixedSleep(interval); err == nil {
			s = fs
		}
	case KindCadence:
		var fc *FixedCadence
		if fc, err = NewFixedCadence(interval); err == nil {
			s = fc
		}
	case KindCron:
		var c *Cron
		if c, err = NewCron(expr); err == nil {
			s = c
		}
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return s, err
}
