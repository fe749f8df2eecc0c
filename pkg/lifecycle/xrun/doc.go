// Package xrun 管理 xtick 进程内多个长期运行组件的启动与协调关闭。
//
// 基于 errgroup：任一组件返回错误、收到退出信号或父 context 取消时，
// 所有组件都会收到取消信号，Wait 返回第一个有意义的退出原因。
//
// # 组件接入
//
//   - 实现 [Service]（Run(ctx) error）的组件直接交给 [RunServices]，
//     xtimer.Timer、xdelay.Scheduler 与 xconf.Watcher 都满足该接口
//   - 普通函数用 [ServiceFunc] 适配
//   - 已在运行、只需在退出时关闭的组件用 [Bounded] 适配，关闭等待受超时约束
//
// # 信号
//
// RunServices 默认监听 SIGHUP/SIGINT/SIGTERM/SIGQUIT，收到后返回 *[SignalError]，
// 可用 errors.Is(err, ErrSignal) 判断。WithSignals 自定义，WithoutSignalHandler 禁用。
//
// # 示例
//
//	err := xrun.RunServices(ctx, []xrun.Option{xrun.WithLogger(logger)},
//	    xrun.Named("heartbeat", timer),
//	    xrun.Bounded(scheduler, 5*time.Second),
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//	    logger.Info("shutdown by signal")
//	}
package xrun
