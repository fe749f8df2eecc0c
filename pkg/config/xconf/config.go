package xconf

import (
	"time"

	"github.com/omeyang/xtick/pkg/schedule/xdelay"
)

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 是 xtick 进程的完整配置。
type Config struct {
	Log       Log       `koanf:"log"`
	Scheduler Scheduler `koanf:"scheduler"`
	Timers    []Timer   `koanf:"timers"`
	Delays    []Delay   `koanf:"delays"`
}

// Log 日志输出配置。File 非空时写入按大小滚动的日志文件。
type Log struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// Scheduler 是一次性回调调度器的配置。
type Scheduler struct {
	// Shutdown 为关闭策略名称，见 xdelay.ParsePolicy。
	Shutdown string `koanf:"shutdown"`
	// ShutdownTimeout 限制 join 策略下的关闭等待，0 表示不限。
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Resolution      time.Duration `koanf:"resolution"`
}

// Timer 是一个周期定时器的配置。
type Timer struct {
	Name string `koanf:"name"`
	// Strategy 为 sleep | cadence | cron，空值视为 sleep。
	Strategy string        `koanf:"strategy"`
	Interval time.Duration `koanf:"interval"`
	Cron     string        `koanf:"cron"`
}

// Delay 是一个启动后延迟执行一次的任务配置。
type Delay struct {
	Name  string        `koanf:"name"`
	Delay time.Duration `koanf:"delay"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Log: Log{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Scheduler: Scheduler{
			Shutdown:        xdelay.PolicyJoin.String(),
			ShutdownTimeout: 5 * time.Second,
			Resolution:      xdelay.DefaultResolution,
		},
	}
}
