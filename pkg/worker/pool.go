package worker

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Pool runs fire-and-forget jobs on their own goroutines. There is no
// bound on concurrent jobs; each model identifier is independent and
// same-identifier exclusion is enforced by the caller before submission.
// Wait blocks until every submitted job has finished, which lets the
// process drain in-flight trainings on shutdown.
type Pool struct {
	wg sync.WaitGroup
}

// NewPool creates a new worker pool
func NewPool() *Pool {
	return &Pool{}
}

// Submit hands a job off to its own goroutine and returns immediately.
// The returned job ID ties the start and finish log lines together.
func (p *Pool) Submit(name string, job func()) string {
	jobID := uuid.New().String()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		log.Printf("Job %s started: %s", jobID, name)
		job()
		log.Printf("Job %s finished: %s", jobID, name)
	}()

	return jobID
}

// Wait blocks until all submitted jobs have completed
func (p *Pool) Wait() {
	p.wg.Wait()
}
