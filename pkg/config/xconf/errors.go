package xconf

import "errors"

// 配置加载和校验相关错误。
var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoadFailed 表示读取配置文件失败。
	ErrLoadFailed = errors.New("xconf: failed to load config")

	// ErrParseFailed 表示配置解析或反序列化失败。
	ErrParseFailed = errors.New("xconf: failed to parse config")

	// ErrInvalidConfig 表示配置语义校验不通过。
	ErrInvalidConfig = errors.New("xconf: invalid config")

	// ErrNilContext 表示 context 参数为 nil。
	ErrNilContext = errors.New("xconf: nil context")
)

// ErrNilCallback 表示 Watch 的回调为 nil。
var ErrNilCallback = errors.New("xconf: watch callback cannot be nil")
