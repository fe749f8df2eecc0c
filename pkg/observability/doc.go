// Package observability 汇集可观测性相关的子包。
//
// 子包列表：
//   - xmetrics: 回调执行的观测接口，以及基于 OpenTelemetry 的指标与追踪实现
//
// 日志统一使用 log/slog，由各组件的 WithLogger 选项注入。
package observability
