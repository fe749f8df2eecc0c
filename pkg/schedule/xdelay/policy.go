package xdelay

import (
	"fmt"
	"strings"
)

// Policy 决定 Close 时如何处理尚未触发的回调。
type Policy int

const (
	// PolicyJoin 停止接受新回调，等待所有待触发回调在各自 deadline 执行完毕后再返回。
	PolicyJoin Policy = iota
	// PolicyDetach 丢弃待触发回调并立即返回；执行中的回调自行结束，worker 随后退出。
	PolicyDetach
)

// String 返回策略的配置名称。
func (p Policy) String() string {
	switch p {
	case PolicyJoin:
		return "join"
	case PolicyDetach:
		return "detach"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy 解析配置中的策略名称，大小写不敏感；空字符串视为 PolicyJoin。
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "join":
		return PolicyJoin, nil
	case "detach":
		return PolicyDetach, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}
