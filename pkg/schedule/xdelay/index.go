package xdelay

import (
	"time"

	"github.com/eapache/queue"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// entry 是一个 deadline 下按提交顺序排列的回调组。
type entry struct {
	bucket int64
	fns    *queue.Queue // 元素类型为 func()
}

func (e *entry) len() int {
	return e.fns.Length()
}

// pop 按提交顺序取出下一个回调；组为空时返回 nil。
func (e *entry) pop() func() {
	if e.fns.Length() == 0 {
		return nil
	}
	fn, _ := e.fns.Remove().(func())
	return fn
}

// index 是 deadline 桶到回调组的有序映射，按 deadline 升序。
// 非并发安全，由 Scheduler.mu 保护。
//
// 设计决策: 键是相对于调度器 epoch 的整数桶号而不是 time.Time，
// 这样比较不受 wall clock 调整影响，相同 deadline 也能精确合并。
type index struct {
	epoch      time.Time
	resolution time.Duration
	groups     *treemap.Map // int64 → *entry
	size       int
}

func newIndex(epoch time.Time, resolution time.Duration) *index {
	return &index{
		epoch:      epoch,
		resolution: resolution,
		groups:     treemap.NewWith(utils.Int64Comparator),
	}
}

// bucketOf 把绝对 deadline 向上取整到精度格。
func (x *index) bucketOf(deadline time.Time) int64 {
	off := deadline.Sub(x.epoch)
	if off <= 0 {
		return 0
	}
	b := int64(off / x.resolution)
	if off%x.resolution != 0 {
		b++
	}
	return b
}

// dueAt 返回桶对应的绝对时间。
func (x *index) dueAt(bucket int64) time.Time {
	return x.epoch.Add(time.Duration(bucket) * x.resolution)
}

// add 把回调并入 deadline 所在的组，组不存在时创建。
func (x *index) add(deadline time.Time, fn func()) {
	b := x.bucketOf(deadline)
	var e *entry
	if v, ok := x.groups.Get(b); ok {
		e = v.(*entry)
	} else {
		e = &entry{bucket: b, fns: queue.New()}
		x.groups.Put(b, e)
	}
	e.fns.Add(fn)
	x.size++
}

// earliest 返回 deadline 最早的组，不移除。
func (x *index) earliest() (*entry, bool) {
	_, v := x.groups.Min()
	if v == nil {
		return nil, false
	}
	return v.(*entry), true
}

// detach 从映射中摘除组，之后新提交的同 deadline 回调会进入新组。
func (x *index) detach(e *entry) {
	x.groups.Remove(e.bucket)
	x.size -= e.len()
}

// clear 丢弃所有组并返回丢弃的回调数。
func (x *index) clear() int {
	n := x.size
	x.groups.Clear()
	x.size = 0
	return n
}

func (x *index) len() int {
	return x.size
}
