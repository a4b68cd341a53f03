// Package jobs runs the churn pipeline as asynchronous units of work with
// bounded retries and recurring schedules.
package jobs

import (
	"log"
	"sync"
	"time"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusRunning        Status = "running"
	StatusSucceeded      Status = "succeeded"
	StatusRetryScheduled Status = "retry_scheduled"
	StatusFailed         Status = "failed"
)

// Job is one named unit of work. MaxRetries and RetryDelay are data on the
// job, not control flow: the runner walks the attempt state machine
// Pending -> Running -> {Succeeded | RetryScheduled -> Running | Failed}.
type Job struct {
	ID         string
	Name       string
	MaxRetries int
	RetryDelay time.Duration
	Run        func() error
}

// Result is the terminal record of one job instance.
type Result struct {
	JobID    string
	Name     string
	Status   Status
	Attempts int
	Err      error
}

// Runner executes jobs on a fixed pool of workers pulled from a queue. The
// sleep function is swappable so retry behavior is testable without timing.
type Runner struct {
	queue chan Job
	wg    sync.WaitGroup
	sleep func(time.Duration)

	stopOnce sync.Once
}

func NewRunner(workers, queueSize int) *Runner {
	if workers < 1 {
		workers = 1
	}
	r := &Runner{
		queue: make(chan Job, queueSize),
		sleep: time.Sleep,
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for job := range r.queue {
		r.Execute(job)
	}
}

// Enqueue submits a job for asynchronous execution. Blocks when the queue
// is full.
func (r *Runner) Enqueue(job Job) {
	log.Printf("job %s (%s): %s", job.Name, job.ID, StatusPending)
	r.queue <- job
}

// Execute runs the attempt loop for one job instance synchronously and
// returns its terminal result. Attempts = 1 initial run + MaxRetries.
func (r *Runner) Execute(job Job) Result {
	attempts := 0
	for {
		attempts++
		log.Printf("job %s (%s): %s, attempt %d/%d", job.Name, job.ID, StatusRunning, attempts, job.MaxRetries+1)

		err := job.Run()
		if err == nil {
			log.Printf("job %s (%s): %s after %d attempt(s)", job.Name, job.ID, StatusSucceeded, attempts)
			return Result{JobID: job.ID, Name: job.Name, Status: StatusSucceeded, Attempts: attempts}
		}

		if attempts > job.MaxRetries {
			log.Printf("job %s (%s): %s after %d attempt(s): %v", job.Name, job.ID, StatusFailed, attempts, err)
			return Result{JobID: job.ID, Name: job.Name, Status: StatusFailed, Attempts: attempts, Err: err}
		}

		log.Printf("job %s (%s): %s, retrying in %s: %v", job.Name, job.ID, StatusRetryScheduled, job.RetryDelay, err)
		r.sleep(job.RetryDelay)
	}
}

// Stop drains the queue and waits for in-flight jobs. In-flight attempts are
// never cancelled; a job either completes or fails on its own.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.queue) })
	r.wg.Wait()
}
