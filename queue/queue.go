// Package queue is a small in-process work queue with at-least-once
// delivery. Jobs that fail are redelivered up to a retry limit, so handlers
// must be idempotent.
package queue

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/CeluchNB/stall-one-sub000/model"
)

// Job is one background finish task, keyed by point.
type Job struct {
	PointID string
	GameID  string
	Team    model.TeamSide
	Attempt int
}

// Q is the enqueue side exposed to the controller.
type Q interface {
	Enqueue(ctx context.Context, job Job) error
}

// Handler processes one job. Returning an error triggers redelivery.
type Handler func(ctx context.Context, job Job) error

const (
	maxAttempts = 5
	retryDelay  = 250 * time.Millisecond
	jobTimeout  = 30 * time.Second
)

type MemoryQueue struct {
	jobs chan Job
}

func New(buffer int) *MemoryQueue {
	return &MemoryQueue{
		jobs: make(chan Job, buffer),
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consumes jobs until the shutdown channel closes. Failed jobs are
// redelivered after a short delay; after maxAttempts the job is dropped and
// logged.
func (q *MemoryQueue) Run(handler Handler, shutdown chan bool, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-shutdown:
			return
		case job := <-q.jobs:
			q.process(handler, job)
		}
	}
}

func (q *MemoryQueue) process(handler Handler, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	err := handler(ctx, job)
	if err == nil {
		return
	}

	job.Attempt++
	if job.Attempt >= maxAttempts {
		log.Printf("dropping job for point %s after %d attempts: %v", job.PointID, job.Attempt, err)
		return
	}

	log.Printf("job for point %s failed (attempt %d): %v", job.PointID, job.Attempt, err)
	time.AfterFunc(retryDelay, func() {
		// Redeliver without blocking the worker loop.
		select {
		case q.jobs <- job:
		default:
			log.Printf("queue full, dropping retry for point %s", job.PointID)
		}
	})
}
