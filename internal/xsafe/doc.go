// Package xsafe 提供回调调用边界上的 panic 隔离。
//
// xtimer 与 xdelay 的后台 goroutine 都通过 [Call] 执行用户回调：
// 回调中的 panic 被恢复并转换为 [*PanicError]（含原始值与堆栈），
// 后台循环继续运行，不会因单个回调失败而退出。
//
// [Reporter] 负责把失败写入日志。为避免高频失败的定时器刷屏，
// 日志输出经过 golang.org/x/time/rate.Sometimes 限流：
// 前若干次全部输出，之后每个周期最多输出一次，被抑制的次数随下一条日志一并报告。
package xsafe
