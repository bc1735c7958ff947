package workerpool

import (
	"sync"

	"github.com/kiteco/holdout/kite-golib/errors"
)

// Job is a unit of work run by a Pool
type Job func() error

// Pool runs jobs on a fixed number of goroutines
type Pool struct {
	jobs    chan Job
	stop    chan struct{}
	once    sync.Once
	pending sync.WaitGroup

	m    sync.Mutex
	errs errors.Errors
}

// New starts a pool of n workers, at least one
func New(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		jobs: make(chan Job),
		stop: make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	for {
		select {
		case <-p.stop:
			return
		case job := <-p.jobs:
			if err := job(); err != nil {
				p.m.Lock()
				p.errs = errors.Append(p.errs, err)
				p.m.Unlock()
			}
			p.pending.Done()
		}
	}
}

// Add queues jobs without blocking. Jobs that have not started when Stop is called are dropped.
func (p *Pool) Add(jobs []Job) {
	p.pending.Add(len(jobs))
	go func() {
		for i, job := range jobs {
			select {
			case p.jobs <- job:
			case <-p.stop:
				p.pending.Add(i - len(jobs))
				return
			}
		}
	}()
}

// Wait blocks until every added job has finished or been dropped, and returns the errors of
// the finished jobs.
func (p *Pool) Wait() error {
	p.pending.Wait()
	p.m.Lock()
	defer p.m.Unlock()
	if p.errs == nil {
		return nil
	}
	return p.errs
}

// Stop makes the workers exit once their current job is done
func (p *Pool) Stop() {
	p.once.Do(func() {
		close(p.stop)
	})
}
