package workerpool

import (
	"context"
	"errors"
	"sync"
)

var ErrPoolClosed = errors.New("workerpool: пул закрыт")

// Task описывает универсальную задачу для пула
// fn должен быть безопасен для конкурентного выполнения
// resultCh: канал для возврата результата (если нужен), лучше буферизованный
type Task struct {
	Fn      func() (any, error)
	ResultC chan Result
}

type Result struct {
	Value any
	Err   error
}

type WorkerPool struct {
	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

// NewWorkerPool создаёт пул с N воркерами
func NewWorkerPool(workerCount int, queueSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	wp := &WorkerPool{
		tasks:  make(chan Task, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	wp.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.ctx.Done():
			return
		case task := <-wp.tasks:
			res, err := task.Fn()
			if task.ResultC != nil {
				task.ResultC <- Result{Value: res, Err: err}
			}
		}
	}
}

// Submit ставит задачу в очередь. Ждёт места в очереди, пока не отменён ctx
// или не закрыт пул.
func (wp *WorkerPool) Submit(ctx context.Context, task Task) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}
	select {
	case wp.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.ctx.Done():
		return ErrPoolClosed
	}
}

// Close останавливает воркеров и дожидается их. Выполняющиеся задачи
// доработают, задачи из очереди получат ErrPoolClosed.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.cancel()

		wp.mu.Lock()
		wp.closed = true
		wp.mu.Unlock()

		wp.wg.Wait()
		for {
			select {
			case task := <-wp.tasks:
				if task.ResultC != nil {
					task.ResultC <- Result{Err: ErrPoolClosed}
				}
			default:
				return
			}
		}
	})
}
