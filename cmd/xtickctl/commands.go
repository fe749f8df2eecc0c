package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v3"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/omeyang/xtick/pkg/config/xconf"
	"github.com/omeyang/xtick/pkg/lifecycle/xrun"
	"github.com/omeyang/xtick/pkg/observability/xmetrics"
	"github.com/omeyang/xtick/pkg/schedule/xdelay"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "配置文件路径（.yaml/.yml/.json）",
		Required: true,
	}
}

// =============================================================================
// run
// =============================================================================

func createRunCommand(stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "运行配置中的定时器与延迟任务",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdRun(ctx, cmd.String("config"), stderr, nil)
		},
	}
}

// cmdRun 运行到收到信号或 ctx 取消。opts 追加到 xrun 选项之后，测试用它关闭信号监听。
func cmdRun(ctx context.Context, path string, stderr io.Writer, opts []xrun.Option) error {
	cfg, err := loadValid(path, stderr)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	observer, err := xmetrics.NewOTelObserver(
		xmetrics.WithMeterProvider(mp),
		xmetrics.WithInstrumentationName("github.com/omeyang/xtick/cmd/xtickctl"),
	)
	if err != nil {
		return err
	}

	policy, _ := cfg.Scheduler.Policy()
	sched, err := xdelay.New(
		xdelay.WithName("xtickctl"),
		xdelay.WithLogger(logger),
		xdelay.WithObserver(observer),
		xdelay.WithShutdownPolicy(policy),
		xdelay.WithResolution(cfg.Scheduler.Resolution),
	)
	if err != nil {
		return err
	}
	for _, d := range cfg.Delays {
		name, delay := d.Name, d.Delay
		if err := sched.Schedule(delay, func() {
			logger.Info("delay fired", slog.String("delay", name), slog.Duration("after", delay))
		}); err != nil {
			_ = sched.Close()
			return err
		}
	}

	timers := newFleet(logger, observer)
	if err := timers.apply(cfg.Timers); err != nil {
		_ = timers.close()
		_ = sched.Close()
		return err
	}

	watcher, err := xconf.Watch(path, func(next *xconf.Config, err error) {
		if err != nil {
			return
		}
		if err := timers.apply(next.Timers); err != nil {
			logger.Error("apply timers failed", slog.Any("error", err))
		}
	}, xconf.WithWatchLogger(logger))
	if err != nil {
		_ = timers.close()
		_ = sched.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	logger.Info("xtickctl started",
		slog.String("config", path),
		slog.Any("timers", timers.names()),
		slog.Int("delays", len(cfg.Delays)),
		slog.String("shutdown", policy.String()),
	)

	runOpts := append([]xrun.Option{xrun.WithLogger(logger), xrun.WithName("xtickctl")}, opts...)
	err = xrun.RunServices(ctx, runOpts,
		xrun.Named("timers", timers),
		xrun.Named("delays", xrun.Bounded(sched, cfg.Scheduler.ShutdownTimeout)),
		xrun.Named("config-watch", watcher),
	)

	logTotals(logger, reader)
	if d := sched.Dropped(); d > 0 {
		logger.Warn("delays dropped at shutdown", slog.Int64("dropped", d))
	}

	if errors.Is(err, xrun.ErrSignal) {
		logger.Info("xtickctl stopped", slog.String("reason", err.Error()))
		return nil
	}
	return err
}

// logTotals 把回调计数按组件与状态汇总写入日志。
func logTotals(logger *slog.Logger, reader *sdkmetric.ManualReader) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		logger.Warn("collect metrics failed", slog.Any("error", err))
		return
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				component, _ := dp.Attributes.Value("component")
				status, _ := dp.Attributes.Value("status")
				logger.Info("callback totals",
					slog.String("metric", m.Name),
					slog.String("component", component.AsString()),
					slog.String("status", status.AsString()),
					slog.Int64("count", dp.Value),
				)
			}
		}
	}
}

// =============================================================================
// demo
// =============================================================================

func createDemoCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "演示延迟调度按 deadline 顺序触发",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "scale",
				Usage: "延迟缩放系数（0.1 表示 300/10/30/1ms）",
				Value: 1,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdDemo(ctx, cmd.Float("scale"), stdout)
		},
	}
}

// demoJobs 按提交顺序排列。
var demoJobs = []struct {
	name  string
	delay time.Duration
}{
	{"A", 3000 * time.Millisecond},
	{"B", 100 * time.Millisecond},
	{"C", 300 * time.Millisecond},
	{"D", 10 * time.Millisecond},
}

func cmdDemo(ctx context.Context, scale float64, out io.Writer) error {
	if scale <= 0 {
		return &usageError{msg: fmt.Sprintf("--scale must be positive, got %v", scale)}
	}

	s, err := xdelay.New(xdelay.WithName("demo"), xdelay.WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		return err
	}

	var (
		mu    sync.Mutex
		order []string
	)
	delays := make([]time.Duration, len(demoJobs))
	for i, j := range demoJobs {
		delays[i] = time.Duration(float64(j.delay) * scale)
		fmt.Fprintf(out, "schedule %s after %s\n", j.name, delays[i])
	}

	start := time.Now()
	for i, j := range demoJobs {
		name, delay := j.name, delays[i]
		if err := s.Schedule(delay, func() {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			fmt.Fprintf(out, "fired    %s at %s\n", name, time.Since(start).Round(time.Millisecond))
		}); err != nil {
			_ = s.Close()
			return err
		}
	}

	if err := s.Shutdown(ctx); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "order: %s\n", strings.Join(order, " "))
	return nil
}

// =============================================================================
// validate
// =============================================================================

func createValidateCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "校验配置文件",
		Flags: []cli.Flag{configFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdValidate(cmd.String("config"), stdout, stderr)
		},
	}
}

func cmdValidate(path string, stdout, stderr io.Writer) error {
	cfg, err := loadValid(path, stderr)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Timers))
	for _, t := range cfg.Timers {
		names = append(names, t.Name)
	}
	slices.Sort(names)
	fmt.Fprintf(stdout, "ok: %d timers %v, %d delays, shutdown=%s\n",
		len(cfg.Timers), names, len(cfg.Delays), cfg.Scheduler.Shutdown)
	return nil
}

// loadValid 加载并校验配置；校验失败时逐条输出问题并返回退出码 2。
func loadValid(path string, stderr io.Writer) (*xconf.Config, error) {
	cfg, err := xconf.Load(path)
	if err != nil {
		if errors.Is(err, xconf.ErrEmptyPath) || errors.Is(err, xconf.ErrUnsupportedFormat) {
			return nil, &usageError{msg: err.Error()}
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintln(stderr, line)
		}
		return nil, &exitError{code: 2}
	}
	return cfg, nil
}
