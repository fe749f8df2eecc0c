// Package schedule 汇集定时调度相关的子包。
//
// 子包列表：
//   - xtimer: 周期定时器，每个定时器一个 goroutine，按可插拔策略计算下一次等待
//   - xdelay: 一次性延迟回调调度器，共享一个 goroutine，按 deadline 有序触发
package schedule
