// Package xmetrics 提供定时回调的可观测性接口（metrics + tracing）。
//
// # 设计理念
//
// xmetrics 仅定义最小化接口：Observer/Span/Attr。
// xtimer 与 xdelay 只依赖接口，每次回调执行对应一个 Span；
// 默认实现基于 OpenTelemetry，未配置时使用全局 Provider（默认为 noop）。
//
// # 使用示例
//
//	obs, _ := xmetrics.NewOTelObserver()
//	_, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "xdelay",
//		Operation: "fire",
//		Due:       deadline,
//		Started:   now,
//	})
//	span.End(xmetrics.Result{Err: err, Elapsed: elapsed})
//
// # 指标命名
//
//   - xtick.callback.total     回调次数
//   - xtick.callback.duration  回调耗时（秒）
//   - xtick.callback.lag       实际开始时间相对计划时间的延迟（秒），仅在设置 Due 时记录
//
// 统一属性：component / operation / status。
//
// 时间由调用方提供（Started/Elapsed），以便与注入的 clock 保持一致；
// 未提供时回退到 time.Now。
package xmetrics
