// Package xdelay 提供一次性延迟回调调度器。
//
// 一个 [Scheduler] 只有一个共享的 worker goroutine，内部维护按 deadline 升序的有序映射，
// 每个 deadline 对应一组按提交顺序排列的回调。worker 的状态：
//   - 空闲：没有待执行回调，等待唤醒
//   - 等待：最早 deadline 在未来，等待到期或被新提交唤醒；每次醒来都重新计算
//   - 到期：在锁内摘除该组，在锁外按顺序执行
//
// Schedule 总是唤醒 worker，因此更晚提交但更早到期的回调会先执行，
// delay 为 0 的回调也无需等待下一次提交。
//
// # Deadline 精度
//
// deadline 以调度器创建时刻为起点，向上取整到 [WithResolution]（默认 1ms）的整数倍，
// 同一格内的回调合并为一组。回调永远不会早于 now+delay 执行。
//
// # 关闭策略
//
//   - [PolicyJoin]（默认）：Close 之后不再接受新回调，已提交的回调在各自 deadline 执行完毕后返回
//   - [PolicyDetach]：Close 丢弃未执行的回调并立即返回，执行中的回调自行结束
//
// Shutdown(ctx) 为 Join 的等待加上时限，到期后丢弃剩余回调。
//
// # 注意事项
//
//   - 回调 panic 会被恢复并以限流方式记录，同组其余回调与后续回调照常执行
//   - 慢回调会推迟其后所有回调；耗时任务应在回调中另起 goroutine
//   - 不可在回调内部以 PolicyJoin 调用 Close，否则会死锁
package xdelay
