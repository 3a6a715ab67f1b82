package nstree

import (
	"sync"
)

// writeQueue runs deferred persistence jobs in FIFO order on a single worker
// goroutine. Each mutation enqueues one job for its root; a job serializes
// the root's mirror as of the moment it RUNS, not the moment it was queued,
// so the last job to run always leaves the complete current state behind.
type writeQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []*Node
	busy   bool
	closed bool
}

func newWriteQueue() *writeQueue {
	q := &writeQueue{}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

func (q *writeQueue) enqueue(root *Node) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.jobs = append(q.jobs, root)
	q.cond.Broadcast()
}

func (q *writeQueue) run() {
	q.mu.Lock()
	for {
		for len(q.jobs) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.jobs) == 0 {
			q.mu.Unlock()
			return
		}
		root := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.busy = true
		q.mu.Unlock()

		root.persistNow()

		q.mu.Lock()
		q.busy = false
		q.cond.Broadcast()
	}
}

// flush blocks until every job enqueued so far has run.
func (q *writeQueue) flush() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.jobs) > 0 || q.busy {
		q.cond.Wait()
	}
}

// close drains remaining jobs and stops the worker. Enqueues after close are
// dropped.
func (q *writeQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
	for len(q.jobs) > 0 || q.busy {
		q.cond.Wait()
	}
}
