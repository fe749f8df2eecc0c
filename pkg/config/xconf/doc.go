// Package xconf 加载并校验 xtick 的配置文件，基于 koanf 实现。
//
// # 支持的格式
//
//   - YAML（推荐）：.yaml, .yml
//   - JSON：.json
//
// # 配置结构
//
//	log:
//	  level: info          # debug | info | warn | error
//	  format: text         # text | json
//	  file: ""             # 为空时输出到 stderr，否则按大小滚动写文件
//	scheduler:
//	  shutdown: join       # join | detach
//	  shutdown_timeout: 5s
//	  resolution: 1ms
//	timers:
//	  - {name: heartbeat, strategy: cadence, interval: 1s}
//	  - {name: nightly, strategy: cron, cron: "0 3 * * *"}
//	delays:
//	  - {name: warmup, delay: 250ms}
//
// 时长字段接受 time.ParseDuration 格式的字符串。
// 未出现的字段保留 [Default] 中的默认值。
//
// # 加载与校验
//
// Load/LoadBytes 只负责解析，不做语义校验；调用方应随后调用 [Config.Validate]，
// 它一次性返回全部问题（errors.Join），且都可用 errors.Is(err, ErrInvalidConfig) 判断。
//
// # 配置监视
//
// [Watch] 监视配置文件所在目录（兼容编辑器"写临时文件再 rename"的保存方式），
// 内置防抖，每次变更重新 Load + Validate 后回调。
// Watcher.Run 阻塞处理事件，可直接交给 xrun 管理。
package xconf
