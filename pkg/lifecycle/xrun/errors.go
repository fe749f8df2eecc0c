package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 表示因收到系统信号而终止，用 errors.Is 判断。
	ErrSignal = errors.New("received signal")

	// ErrNilFunc 表示传入的服务函数为 nil。
	ErrNilFunc = errors.New("xrun: nil function")

	// ErrNilService 表示传入的 Service 为 nil。
	ErrNilService = errors.New("xrun: nil service")
)

// SignalError 记录触发退出的信号。
//
//	var sigErr *xrun.SignalError
//	if errors.As(err, &sigErr) {
//	    fmt.Println(sigErr.Signal)
//	}
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Is 支持 errors.Is(err, ErrSignal)。
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}
