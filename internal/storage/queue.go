package storage

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"taskline/internal/task"
)

// ErrQueueClosed is returned after Close.
var ErrQueueClosed = errors.New("storage queue closed")

// queueDepth bounds pending requests before Save starts to block.
const queueDepth = 64

type request struct {
	tasks []task.Task
	load  chan loadResult
}

type loadResult struct {
	tasks []task.Task
	err   error
}

// Queue runs every Save and Load against the wrapped repository on a single
// goroutine, in submission order. Save returns as soon as the write is
// queued; Load waits for all earlier writes before reading.
type Queue struct {
	repo   task.Repository
	logger *log.Logger

	reqs chan request
	done chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts the worker goroutine. Call Close to flush and stop it.
func NewQueue(repo task.Repository, logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	q := &Queue{
		repo:   repo,
		logger: logger,
		reqs:   make(chan request, queueDepth),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for req := range q.reqs {
		if req.load != nil {
			tasks, err := q.repo.Load(context.Background())
			req.load <- loadResult{tasks: tasks, err: err}
			continue
		}
		if err := q.repo.Save(context.Background(), req.tasks); err != nil {
			q.logger.Error("save tasks", "err", err, "count", len(req.tasks))
		}
	}
}

// Save queues a write of tasks. Write failures are logged by the worker.
func (q *Queue) Save(ctx context.Context, tasks []task.Task) error {
	snapshot := make([]task.Task, len(tasks))
	for i, t := range tasks {
		snapshot[i] = t.Clone()
	}
	return q.submit(ctx, request{tasks: snapshot})
}

// Load reads the repository after every previously queued write.
func (q *Queue) Load(ctx context.Context) ([]task.Task, error) {
	reply := make(chan loadResult, 1)
	if err := q.submit(ctx, request{load: reply}); err != nil {
		return nil, err
	}
	select {
	case res := <-reply:
		return res.tasks, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *Queue) submit(ctx context.Context, req request) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.reqs <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting requests and waits until queued writes finish.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return nil
	}
	q.closed = true
	close(q.reqs)
	q.mu.Unlock()

	<-q.done
	return nil
}
