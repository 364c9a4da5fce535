package service

import (
	"context"

	"shift-bot/pkg/workerpool"
)

// AsyncService пропускает обращения к хранилищу через пул,
// так что одновременно работает не больше workers запросов.
type AsyncService struct {
	Pool *workerpool.WorkerPool
}

func NewAsyncService(pool *workerpool.WorkerPool) *AsyncService {
	return &AsyncService{Pool: pool}
}

func (a *AsyncService) SubmitAsync(ctx context.Context, fn func() (any, error)) (any, error) {
	resCh := make(chan workerpool.Result, 1)
	if err := a.Pool.Submit(ctx, workerpool.Task{
		Fn:      fn,
		ResultC: resCh,
	}); err != nil {
		return nil, err
	}
	select {
	case res := <-resCh:
		return res.Value, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run: типизированная обёртка над SubmitAsync
func Run[T any](ctx context.Context, a *AsyncService, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if a == nil {
		return fn(ctx)
	}
	v, err := a.SubmitAsync(ctx, func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	res, _ := v.(T)
	return res, nil
}
