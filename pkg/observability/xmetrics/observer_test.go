package xmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type nilReturningObserver struct{}

func (nilReturningObserver) Start(context.Context, SpanOptions) (context.Context, Span) {
	return nil, nil
}

func TestStart_NilObserver(t *testing.T) {
	ctx, span := Start(nil, nil, SpanOptions{}) //nolint:staticcheck // 测试 nil ctx 归一化
	assert.NotNil(t, ctx)
	assert.IsType(t, NoopSpan{}, span)
}

func TestStart_NilReturns(t *testing.T) {
	parent := context.Background()
	ctx, span := Start(parent, nilReturningObserver{}, SpanOptions{})
	assert.Equal(t, parent, ctx)
	assert.IsType(t, NoopSpan{}, span)
}

func TestNoopObserver(t *testing.T) {
	ctx, span := NoopObserver{}.Start(nil, SpanOptions{}) //nolint:staticcheck // 测试 nil ctx 归一化
	assert.NotNil(t, ctx)
	assert.NotPanics(t, func() { span.End(Result{}) })
}

func TestResolveStatus(t *testing.T) {
	assert.Equal(t, StatusOK, resolveStatus(Result{}))
	assert.Equal(t, StatusError, resolveStatus(Result{Err: assert.AnError}))
	assert.Equal(t, StatusOK, resolveStatus(Result{Status: StatusOK, Err: assert.AnError}))
}
