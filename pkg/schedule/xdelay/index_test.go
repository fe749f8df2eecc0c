package xdelay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_BucketRoundsUp(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	x := newIndex(epoch, time.Millisecond)

	assert.EqualValues(t, 0, x.bucketOf(epoch))
	assert.EqualValues(t, 0, x.bucketOf(epoch.Add(-time.Second)))
	assert.EqualValues(t, 1, x.bucketOf(epoch.Add(time.Nanosecond)))
	assert.EqualValues(t, 1, x.bucketOf(epoch.Add(time.Millisecond)))
	assert.EqualValues(t, 2, x.bucketOf(epoch.Add(1500*time.Microsecond)))
	assert.Equal(t, epoch.Add(2*time.Millisecond), x.dueAt(2))
}

func TestIndex_OrderAndGrouping(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	x := newIndex(epoch, time.Millisecond)

	var got []string
	mark := func(s string) func() { return func() { got = append(got, s) } }

	x.add(epoch.Add(300*time.Millisecond), mark("c"))
	x.add(epoch.Add(100*time.Millisecond), mark("b1"))
	x.add(epoch.Add(100*time.Millisecond), mark("b2"))
	x.add(epoch.Add(10*time.Millisecond), mark("a"))
	assert.Equal(t, 4, x.len())

	for {
		e, ok := x.earliest()
		if !ok {
			break
		}
		x.detach(e)
		for fn := e.pop(); fn != nil; fn = e.pop() {
			fn()
		}
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, got)
	assert.Zero(t, x.len())
}

func TestIndex_Clear(t *testing.T) {
	x := newIndex(time.Now(), time.Millisecond)
	x.add(time.Now().Add(time.Hour), func() {})
	x.add(time.Now().Add(2*time.Hour), func() {})

	assert.Equal(t, 2, x.clear())
	_, ok := x.earliest()
	require.False(t, ok)
	assert.Zero(t, x.len())
}
