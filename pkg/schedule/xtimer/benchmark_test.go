package xtimer

import (
	"testing"
	"time"
)

func BenchmarkFixedCadence_Next(b *testing.B) {
	s, _ := NewFixedCadence(time.Second)
	now := time.Now()
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		_ = s.Next(now, time.Duration(i%1000)*time.Millisecond)
	}
}

func BenchmarkCron_Next(b *testing.B) {
	c, _ := NewCron("*/5 * * * *")
	now := time.Now()
	b.ReportAllocs()
	for b.Loop() {
		_ = c.Next(now, 0)
	}
}
