package xdelay_test

import (
	"fmt"
	"time"

	"github.com/omeyang/xtick/pkg/schedule/xdelay"
)

func ExampleScheduler() {
	s, err := xdelay.New(xdelay.WithName("example"))
	if err != nil {
		fmt.Println(err)
		return
	}

	done := make(chan string, 3)
	_ = s.Schedule(30*time.Millisecond, func() { done <- "slow" })
	_ = s.Schedule(10*time.Millisecond, func() { done <- "fast" })
	_ = s.Schedule(10*time.Millisecond, func() { done <- "fast-2" })

	// PolicyJoin：等待全部回调执行完毕
	_ = s.Close()
	close(done)
	for name := range done {
		fmt.Println(name)
	}
	// Output:
	// fast
	// fast-2
	// slow
}

func ExampleParsePolicy() {
	p, err := xdelay.ParsePolicy("detach")
	fmt.Println(p, err)
	// Output:
	// detach <nil>
}
