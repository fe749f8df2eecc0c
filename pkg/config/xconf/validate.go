package xconf

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/omeyang/xtick/pkg/schedule/xdelay"
	"github.com/omeyang/xtick/pkg/schedule/xtimer"
)

// Validate 校验配置语义，返回全部问题。
// 每个问题都包装 ErrInvalidConfig，并携带字段路径。
func (c *Config) Validate() error {
	var errs []error
	add := func(field string, err error) {
		errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, field, err))
	}
	addf := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: "+format, append([]any{ErrInvalidConfig, field}, args...)...))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		add("log.level", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		addf("log.format", "unknown format %q", c.Log.Format)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		addf("log", "rotation limits must not be negative")
	}

	if _, err := xdelay.ParsePolicy(c.Scheduler.Shutdown); err != nil {
		add("scheduler.shutdown", err)
	}
	if c.Scheduler.ShutdownTimeout < 0 {
		addf("scheduler.shutdown_timeout", "must not be negative, got %s", c.Scheduler.ShutdownTimeout)
	}
	if c.Scheduler.Resolution <= 0 {
		addf("scheduler.resolution", "must be positive, got %s", c.Scheduler.Resolution)
	}

	names := make(map[string]string, len(c.Timers)+len(c.Delays))
	unique := func(field, name string) {
		if name == "" {
			addf(field+".name", "must not be empty")
			return
		}
		if prev, ok := names[name]; ok {
			addf(field+".name", "%q already used by %s", name, prev)
			return
		}
		names[name] = field
	}

	for i, t := range c.Timers {
		field := fmt.Sprintf("timers[%d]", i)
		unique(field, t.Name)
		if _, err := t.NewStrategy(); err != nil {
			add(field, err)
		}
	}
	for i, d := range c.Delays {
		field := fmt.Sprintf("delays[%d]", i)
		unique(field, d.Name)
		if d.Delay < 0 {
			addf(field+".delay", "must not be negative, got %s", d.Delay)
		}
	}

	return errors.Join(errs...)
}

// SlogLevel 解析日志级别，空值视为 info。
func (l Log) SlogLevel() (slog.Level, error) {
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// Policy 解析关闭策略。
func (s Scheduler) Policy() (xdelay.Policy, error) {
	return xdelay.ParsePolicy(s.Shutdown)
}

// NewStrategy 按配置构造定时器策略。
func (t Timer) NewStrategy() (xtimer.Strategy, error) {
	kind, err := xtimer.ParseKind(t.Strategy)
	if err != nil {
		return nil, err
	}
	return xtimer.NewStrategy(kind, t.Interval, t.Cron)
}
