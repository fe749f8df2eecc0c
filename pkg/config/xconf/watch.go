package xconf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 是默认的防抖时间。
const DefaultDebounce = 100 * time.Millisecond

// WatchFunc 在配置文件变更并重新加载后调用。
// 加载或校验失败时 cfg 为 nil，err 说明原因；调用方应继续使用旧配置。
type WatchFunc func(cfg *Config, err error)

// WatchOption 配置 Watcher。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
	logger   *slog.Logger
	clock    clock.Clock
}

// WithDebounce 设置防抖时间，窗口内的多次变更只触发一次重载。
// 默认 100ms；非正值被忽略。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithWatchLogger 设置日志记录器。传入 nil 将被忽略。
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(o *watchOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithWatchClock 设置防抖使用的时钟。传入 nil 将被忽略。
func WithWatchClock(c clock.Clock) WatchOption {
	return func(o *watchOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// Watcher 监视配置文件变更。
type Watcher struct {
	path     string
	filename string
	fs       *fsnotify.Watcher
	fn       WatchFunc
	opts     watchOptions

	closeOnce sync.Once
	closeErr  error
}

// Watch 创建配置文件监视器。需调用 Run 开始处理事件，Close 释放资源。
//
// 监视的是文件所在目录而不是文件本身：
// 编辑器保存时常先删除再创建，直接监视文件会丢失后续事件。
func Watch(path string, fn WatchFunc, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if fn == nil {
		return nil, ErrNilCallback
	}
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}

	o := watchOptions{
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		clock:    clock.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		return nil, errors.Join(
			fmt.Errorf("xconf: watch directory %s: %w", dir, err),
			fsw.Close(),
		)
	}

	return &Watcher{
		path:     path,
		filename: filepath.Base(path),
		fs:       fsw,
		fn:       fn,
		opts:     o,
	}, nil
}

// Run 处理文件事件，阻塞到 ctx 取消（返回 ctx.Err()）或 Close（返回 nil）。
// 回调在 Run 所在 goroutine 中同步执行。
func (w *Watcher) Run(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	var (
		debounce *clock.Timer
		fire     <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if debounce == nil {
				debounce = w.opts.clock.Timer(w.opts.debounce)
			} else {
				debounce.Reset(w.opts.debounce)
			}
			fire = debounce.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.opts.logger.Warn("config watch error",
				slog.String("path", w.path),
				slog.Any("error", err),
			)

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

// Close 停止监视并释放 fsnotify 资源。幂等。
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.fs.Close()
	})
	return w.closeErr
}

// relevant 只关心目标文件的写入、创建和 rename（原子保存）。
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != w.filename {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err == nil {
		if err = cfg.Validate(); err != nil {
			cfg = nil
		}
	}

	if err != nil {
		w.opts.logger.Warn("config reload failed",
			slog.String("path", w.path),
			slog.Any("error", err),
		)
	} else {
		w.opts.logger.Info("config reloaded", slog.String("path", w.path))
	}
	w.fn(cfg, err)
}
