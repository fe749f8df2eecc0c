package xconf_test

import (
	"errors"
	"fmt"

	"github.com/omeyang/xtick/pkg/config/xconf"
)

func ExampleLoadBytes() {
	data := []byte(`
scheduler:
  shutdown: detach
timers:
  - {name: heartbeat, strategy: cadence, interval: 1s}
`)
	cfg, err := xconf.LoadBytes(data, xconf.FormatYAML)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.Scheduler.Shutdown, cfg.Timers[0].Name, cfg.Timers[0].Interval)
	// Output:
	// detach heartbeat 1s
}

func ExampleConfig_Validate() {
	cfg := xconf.Default()
	cfg.Delays = []xconf.Delay{{Name: "warmup", Delay: -1}}

	err := cfg.Validate()
	fmt.Println(errors.Is(err, xconf.ErrInvalidConfig))
	// Output:
	// true
}
