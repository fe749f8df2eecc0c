// xtickctl 按配置文件运行周期定时器与一次性延迟任务。
//
// 用法:
//
//	xtickctl <命令> [命令参数]
//
// 命令:
//
//	run --config <file>        运行配置中的定时器与延迟任务，收到信号后优雅退出；
//	                           配置文件变更时热更新定时器
//	demo [--scale f]           演示延迟调度的触发顺序（3000/100/300/10ms，按 scale 缩放）
//	validate --config <file>   校验配置文件
//
// 退出码:
//
//	0: 成功
//	1: 运行失败
//	2: 参数错误或配置无效
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xtickctl",
		Usage:     "周期定时器与延迟任务运行器",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			createRunCommand(stderr),
			createDemoCommand(stdout),
			createValidateCommand(stdout, stderr),
		},
		// 禁止 urfave/cli 直接 os.Exit，由 run 统一映射退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			var ec cli.ExitCoder
			if errors.As(err, &ec) {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := createApp(stdout, stderr).Run(ctx, args)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	if isCLIUsageError(err) {
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}

// exitError 表示命令已完成输出，只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 表示命令参数错误。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// isCLIUsageError 识别 urfave/cli 产生的参数错误（未知 flag、缺少必填 flag、值无法解析）。
// cli 未导出这些错误类型，只能按消息匹配。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, s := range []string{
		"flag provided but not defined",
		"Required flag",
		"required flag",
		"invalid value",
		"No help topic",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
