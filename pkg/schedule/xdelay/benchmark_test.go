package xdelay

import (
	"log/slog"
	"testing"
	"time"
)

func BenchmarkScheduler_Schedule(b *testing.B) {
	s, err := New(WithShutdownPolicy(PolicyDetach), WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		b.Fatal(err)
	}
	fn := func() {}
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		_ = s.Schedule(time.Hour+time.Duration(i%64)*time.Millisecond, fn)
	}
	b.StopTimer()
	_ = s.Close()
	<-s.Done()
}

func BenchmarkScheduler_ScheduleAndFire(b *testing.B) {
	s, err := New(WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		b.Fatal(err)
	}
	fn := func() {}
	b.ReportAllocs()
	for b.Loop() {
		_ = s.Schedule(0, fn)
	}
	_ = s.Close()
}

func BenchmarkIndex_AddDetach(b *testing.B) {
	epoch := time.Now()
	x := newIndex(epoch, time.Millisecond)
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		x.add(epoch.Add(time.Duration(i%128)*time.Millisecond), func() {})
		if x.len() > 1024 {
			for {
				e, ok := x.earliest()
				if !ok {
					break
				}
				x.detach(e)
			}
		}
	}
}
