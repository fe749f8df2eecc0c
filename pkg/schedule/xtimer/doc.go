// Package xtimer 提供按固定节奏执行回调的周期定时器。
//
// 每个 Timer 拥有一个独立的后台 goroutine，循环执行"按策略等待，然后调用回调"。
// 等待时长由 [Strategy] 决定，内置三种策略：
//   - [FixedSleep]：每次固定等待 interval，回调耗时会累加到实际周期上
//   - [FixedCadence]：下一次等待 = interval - 上一次回调耗时（下限 0），
//     使"开始到开始"的周期趋近 interval；回调比 interval 更慢时背靠背执行，不追赶
//   - [Cron]：按 cron 表达式计算下一次触发时刻
//
// # 生命周期
//
//   - New/NewWithStrategy 创建后处于停止状态
//   - Start 幂等；Stop 只清除运行标志，不中断当前等待或回调，也不等待 worker 退出
//   - Close 停止并等待 worker 退出：等待中的 tick 被放弃，执行中的回调会执行完毕
//   - Close 之后 Start 返回 ErrClosed
//
// # 注意事项
//
//   - 不可在回调内部调用 Close/Shutdown，否则会死锁
//   - 回调 panic 会被恢复并以限流方式记录日志，定时器继续运行
//   - Reset 是预留扩展点，当前无效果
//   - Timer 实现了 Run(ctx) error，可直接交给 xrun 管理
//
// # 示例
//
//	t, err := xtimer.NewWithStrategy(cadence, flush, xtimer.WithName("flush"))
//	if err != nil {
//	    return err
//	}
//	if err := t.Start(); err != nil {
//	    return err
//	}
//	defer t.Close()
package xtimer
