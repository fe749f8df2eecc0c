package xrun

import (
	"context"
	"fmt"
	"time"
)

// Service 是可由 RunServices 管理的长期运行组件。
// Run 阻塞到 ctx 取消或出错；ctx 取消后应完成关闭再返回。
type Service interface {
	Run(ctx context.Context) error
}

// ServiceFunc 把函数适配为 Service。
type ServiceFunc func(ctx context.Context) error

// Run 实现 Service。
func (f ServiceFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Shutdowner 由支持限时关闭的组件实现，如 xdelay.Scheduler、xtimer.Timer。
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Bounded 把已在运行的组件适配为 Service：ctx 取消后调用 Shutdown，
// timeout > 0 时关闭等待不超过 timeout。
//
// 关闭超时返回 context.DeadlineExceeded，Wait 会把它作为退出原因返回；
// 正常关闭返回 ctx.Err()。
func Bounded(s Shutdowner, timeout time.Duration) Service {
	return ServiceFunc(func(ctx context.Context) error {
		if s == nil {
			return ErrNilService
		}
		<-ctx.Done()

		sctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			sctx, cancel = context.WithTimeout(sctx, timeout)
			defer cancel()
		}
		if err := s.Shutdown(sctx); err != nil {
			return err
		}
		return ctx.Err()
	})
}

type namedService struct {
	name string
	svc  Service
}

func (n namedService) Run(ctx context.Context) error {
	return n.svc.Run(ctx)
}

// Named 为 Service 命名，RunServices 以该名称记录启动与退出日志。
func Named(name string, svc Service) Service {
	return namedService{name: name, svc: svc}
}

// RunServices 运行全部服务并阻塞到它们退出。
//
// 未禁用信号处理时，收到信号返回 *SignalError。
// 未命名的服务在日志中记为 service-<序号>。
func RunServices(ctx context.Context, opts []Option, services ...Service) error {
	g, _ := NewGroup(ctx, opts...)
	if !g.opts.noSignalHandler {
		g.watchSignals()
	}

	for i, svc := range services {
		name := fmt.Sprintf("service-%d", i)
		if n, ok := svc.(namedService); ok {
			name, svc = n.name, n.svc
		}
		if svc == nil {
			g.GoWithName(name, func(context.Context) error { return ErrNilService })
			continue
		}
		g.GoWithName(name, svc.Run)
	}
	return g.Wait()
}
