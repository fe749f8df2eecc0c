package xtimer

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronFallbackWait 是表达式在可预见时间内不再匹配时的等待时长。
const cronFallbackWait = 24 * time.Hour

// Cron 按 cron 表达式计算下一次等待：Next(now) - now。
// 回调耗时不影响下一次触发时刻。
type Cron struct {
	expr     string
	schedule cron.Schedule
	location *time.Location
}

// CronOption 定义 Cron 策略的配置选项。
type CronOption func(*cronOptions)

type cronOptions struct {
	parser   cron.Parser
	location *time.Location
}

// WithSeconds 启用 6 段格式（首段为秒）。
func WithSeconds() CronOption {
	return func(o *cronOptions) {
		o.parser = cron.NewParser(
			cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		)
	}
}

// WithLocation 设置表达式求值的时区，默认 time.Local。nil 被忽略。
func WithLocation(loc *time.Location) CronOption {
	return func(o *cronOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// NewCron 解析 cron 表达式并创建策略。
// 默认支持标准 5 段格式与 @every/@daily 等描述符。
func NewCron(expr string, opts ...CronOption) (*Cron, error) {
	o := cronOptions{
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		location: time.Local,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	schedule, err := o.parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidCron, expr, err)
	}
	if schedule.Next(time.Now().In(o.location)).IsZero() {
		return nil, fmt.Errorf("%w: %q never fires", ErrInvalidCron, expr)
	}
	return &Cron{expr: expr, schedule: schedule, location: o.location}, nil
}

// Next 实现 Strategy。
func (c *Cron) Next(now time.Time, _ time.Duration) time.Duration {
	next := c.schedule.Next(now.In(c.location))
	if next.IsZero() {
		return cronFallbackWait
	}
	if d := next.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Expr 返回原始表达式。
func (c *Cron) Expr() string {
	return c.expr
}
