package debouncer

import (
	"sync"

	"github.com/NeuralTrust/TrustBatch/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// pool is a bounded task queue consumed by a fixed set of workers.
type pool struct {
	name     string
	logger   *logrus.Logger
	taskChan chan func()
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func newPool(name string, logger *logrus.Logger, queueSize int) *pool {
	return &pool{
		name:     name,
		logger:   logger,
		taskChan: make(chan func(), queueSize),
	}
}

func (p *pool) startWorkers(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.taskChan {
				task()
			}
		}()
	}
}

// tryEnqueue never blocks. It reports false when the task was dropped.
func (p *pool) tryEnqueue(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.taskChan <- task:
		return true
	default:
		prometheus.QueueDropped.WithLabelValues(p.name).Inc()
		p.logger.WithField("queue", p.name).Warn("task queue is full, dropping task")
		return false
	}
}

// enqueue waits for room in the queue. Once the pool is closed the task runs
// on the calling goroutine so that it is never lost.
func (p *pool) enqueue(task func()) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		task()
		return
	}
	p.taskChan <- task
	p.mu.RUnlock()
}

// shutdown stops accepting tasks and waits for the queued ones to finish.
func (p *pool) shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.taskChan)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.WithField("queue", p.name).Debug("workers stopped")
}
