package xconf

import "testing"

// FuzzLoadBytes 确保任意输入都不会导致 panic。
func FuzzLoadBytes(f *testing.F) {
	f.Add([]byte(testYAML), true)
	f.Add([]byte(testJSON), false)
	f.Add([]byte("timers: [{interval: -1s}]"), true)
	f.Add([]byte(`{"delays": 3}`), false)

	f.Fuzz(func(t *testing.T, data []byte, yaml bool) {
		format := FormatJSON
		if yaml {
			format = FormatYAML
		}
		cfg, err := LoadBytes(data, format)
		if err != nil {
			return
		}
		_ = cfg.Validate()
	})
}
