package xsafe

import (
	"fmt"
	"runtime/debug"
)

// PanicError 表示回调执行期间发生的 panic。
type PanicError struct {
	// Value 是传给 panic 的原始值。
	Value any
	// Stack 是发生 panic 时的 goroutine 堆栈。
	Stack []byte
}

// Error 实现 error 接口。
func (e *PanicError) Error() string {
	return fmt.Sprintf("xsafe: callback panic: %v", e.Value)
}

// Unwrap 在 panic 值本身是 error 时返回它，便于 errors.Is/As 判断。
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Call 执行 fn 并恢复其中的 panic。
// fn 正常返回时结果为 nil；panic 时返回 *PanicError。
// fn 为 nil 时直接返回 nil。
func Call(fn func()) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}
