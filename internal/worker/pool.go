package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"studyflow-backend/internal/logger"
	"studyflow-backend/internal/models"
)

var (
	ErrPoolStopped = errors.New("worker pool is stopped")
	ErrQueueFull   = errors.New("worker queue is full")
)

// Handler runs one note job. A returned error means the job failed.
type Handler func(ctx context.Context, job *models.NoteJob) error

// Pool runs note pipeline jobs on a fixed number of goroutines. Jobs are
// independent and finish in no particular order.
type Pool struct {
	mu          sync.Mutex
	jobs        chan *models.NoteJob
	handler     Handler
	workerCount int
	stopped     bool
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	log         zerolog.Logger
}

func NewPool(handler Handler, workerCount, queueSize int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		jobs:        make(chan *models.NoteJob, queueSize),
		handler:     handler,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		log:         logger.Component("worker"),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.log.Info().Int("workers", p.workerCount).Msg("started worker goroutines")
}

// Stop rejects new jobs, cancels running ones and waits for every queued job
// to be handed to the handler with a cancelled context.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

func (p *Pool) Submit(job *models.NoteJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}

	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		p.log.Debug().Int("worker", id).Str("note_id", job.NoteID).Msg("processing job")

		if err := p.run(job); err != nil {
			p.log.Warn().Int("worker", id).Str("note_id", job.NoteID).Err(err).Msg("job failed")
			continue
		}

		p.log.Debug().
			Int("worker", id).
			Str("note_id", job.NoteID).
			Dur("elapsed", time.Since(job.EnqueuedAt)).
			Msg("job completed")
	}

	p.log.Debug().Int("worker", id).Msg("worker shutting down")
}

func (p *Pool) run(job *models.NoteJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return p.handler(p.ctx, job)
}
