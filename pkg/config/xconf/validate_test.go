package xconf

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xtick/pkg/schedule/xdelay"
	"github.com/omeyang/xtick/pkg/schedule/xtimer"
)

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
		target error
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level", nil},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format", nil},
		{"negative rotation", func(c *Config) { c.Log.MaxBackups = -1 }, "log", nil},
		{"bad policy", func(c *Config) { c.Scheduler.Shutdown = "abort" }, "scheduler.shutdown", xdelay.ErrInvalidPolicy},
		{"negative timeout", func(c *Config) { c.Scheduler.ShutdownTimeout = -time.Second }, "scheduler.shutdown_timeout", nil},
		{"zero resolution", func(c *Config) { c.Scheduler.Resolution = 0 }, "scheduler.resolution", nil},
		{"timer without name", func(c *Config) {
			c.Timers = []Timer{{Interval: time.Second}}
		}, "timers[0].name", nil},
		{"timer zero interval", func(c *Config) {
			c.Timers = []Timer{{Name: "t"}}
		}, "timers[0]", xtimer.ErrInvalidInterval},
		{"timer bad kind", func(c *Config) {
			c.Timers = []Timer{{Name: "t", Strategy: "jitter", Interval: time.Second}}
		}, "timers[0]", xtimer.ErrInvalidKind},
		{"timer bad cron", func(c *Config) {
			c.Timers = []Timer{{Name: "t", Strategy: "cron", Cron: "every day"}}
		}, "timers[0]", xtimer.ErrInvalidCron},
		{"negative delay", func(c *Config) {
			c.Delays = []Delay{{Name: "d", Delay: -time.Millisecond}}
		}, "delays[0].delay", nil},
		{"duplicate name", func(c *Config) {
			c.Timers = []Timer{{Name: "x", Interval: time.Second}}
			c.Delays = []Delay{{Name: "x"}}
		}, "delays[0].name", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Scheduler.Resolution = 0
	cfg.Delays = []Delay{{Delay: -1}}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, field := range []string{"log.level", "scheduler.resolution", "delays[0].name", "delays[0].delay"} {
		assert.Contains(t, msg, field)
	}
}

func TestLog_SlogLevel(t *testing.T) {
	lvl, err := Log{}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	lvl, err = Log{Level: "WARN"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestScheduler_Policy(t *testing.T) {
	p, err := Scheduler{Shutdown: "detach"}.Policy()
	require.NoError(t, err)
	assert.Equal(t, xdelay.PolicyDetach, p)
}

func TestTimer_NewStrategy(t *testing.T) {
	s, err := Timer{Name: "t", Strategy: "cadence", Interval: time.Second}.NewStrategy()
	require.NoError(t, err)
	assert.IsType(t, &xtimer.FixedCadence{}, s)

	s, err = Timer{Name: "t", Interval: time.Second}.NewStrategy()
	require.NoError(t, err)
	assert.IsType(t, &xtimer.FixedSleep{}, s)
}
