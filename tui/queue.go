package tui

import "sync"

// applyQueue runs effect batches one at a time in the order their tickets
// were issued. Tickets are taken on the event loop, so runs keep the order
// in which Update dispatched them even though each runs in its own command.
type applyQueue struct {
	mu      sync.Mutex
	turn    *sync.Cond
	next    uint64
	serving uint64
}

func newApplyQueue() *applyQueue {
	q := &applyQueue{}
	q.turn = sync.NewCond(&q.mu)
	return q
}

// ticket reserves the next slot.
func (q *applyQueue) ticket() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	t := q.next
	q.next++
	return t
}

// run waits for ticket t to be served, then calls fn.
// Every issued ticket must be run exactly once.
func (q *applyQueue) run(t uint64, fn func()) {
	q.mu.Lock()
	for q.serving != t {
		q.turn.Wait()
	}
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.serving++
		q.mu.Unlock()
		q.turn.Broadcast()
	}()

	fn()
}
