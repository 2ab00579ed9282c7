package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/olivia-0916/storybot/internal/domain"
	"github.com/olivia-0916/storybot/internal/ports"
)

// ErrQueueFull is returned by Submit when the job queue is saturated, so
// backpressure is visible to the caller instead of silently queueing forever.
var ErrQueueFull = errors.New("render queue full")

const (
	DefaultWorkers   = 2
	DefaultQueueSize = 8
)

// Job is one scene-render request: generate an image for the prompt, upload
// it, and notify the user.
type Job struct {
	To     domain.SessionKey
	Prompt string
	Scene  int // one-based paragraph number, for the completion message
	Name   string
}

// Result is the completion record a worker emits for every job, success or
// not.
type Result struct {
	Job Job
	URL string
	Err error
}

// Pool runs scene renders on a fixed number of workers. Completions flow
// through an explicit results channel to a single dispatcher that reports to
// the notification sink; render failures reach the user as a plain retry
// prompt, never as a raw error.
type Pool struct {
	generator ports.ImageGenerator
	store     ports.ImageStore
	notifier  ports.Notifier

	workers int
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup
}

func NewPool(generator ports.ImageGenerator, store ports.ImageStore, notifier ports.Notifier, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Pool{
		generator: generator,
		store:     store,
		notifier:  notifier,
		workers:   workers,
		jobs:      make(chan Job, queueSize),
		results:   make(chan Result, queueSize),
	}
}

// Start launches the workers and the completion dispatcher. It returns
// immediately; workers stop when ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	go p.dispatch(ctx)
}

// Submit enqueues a job without blocking.
func (p *Pool) Submit(job Job) error {
	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Wait blocks until all workers have exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			log.Printf("render worker %d shutting down", id)
			return
		case job := <-p.jobs:
			p.results <- p.process(ctx, job)
		}
	}
}

func (p *Pool) process(ctx context.Context, job Job) Result {
	data, err := p.generator.Generate(ctx, job.Prompt)
	if err != nil {
		return Result{Job: job, Err: fmt.Errorf("generate scene image: %w", err)}
	}

	url, err := p.store.Upload(ctx, job.Name, data)
	if err != nil {
		return Result{Job: job, Err: fmt.Errorf("upload scene image: %w", err)}
	}

	return Result{Job: job, URL: url}
}

func (p *Pool) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case result := <-p.results:
			p.notify(ctx, result)
		}
	}
}

func (p *Pool) notify(ctx context.Context, result Result) {
	if result.Err != nil {
		log.Printf("scene render failed for %s: %v", result.Job.To, result.Err)
		if err := p.notifier.NotifyText(ctx, result.Job.To, "圖片生成暫時失敗了，稍後再試一次可以嗎？"); err != nil {
			log.Printf("notify render failure: %v", err)
		}
		return
	}

	if err := p.notifier.NotifyText(ctx, result.Job.To, fmt.Sprintf("第 %d 段完成了！", result.Job.Scene)); err != nil {
		log.Printf("notify render completion: %v", err)
	}
	if err := p.notifier.NotifyImage(ctx, result.Job.To, result.URL); err != nil {
		log.Printf("notify render image: %v", err)
	}
}
