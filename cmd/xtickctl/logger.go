package main

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/xtick/pkg/config/xconf"
)

// newLogger 按配置构建 slog.Logger。
// 配置了文件时写入 lumberjack 滚动文件，返回的 close 负责关闭它；否则写 stderr。
func newLogger(c xconf.Log, stderr io.Writer) (*slog.Logger, func() error, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, nil, err
	}

	w := stderr
	closeFn := func() error { return nil }
	if c.File != "" {
		lj := &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
			LocalTime:  true,
		}
		w = lj
		closeFn = lj.Close
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(c.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), closeFn, nil
}
