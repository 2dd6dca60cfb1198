package online

import "sync"

type queued struct {
	gameID string
	event  InboundEvent
}

// eventQueue is an unbounded FIFO safe for many producers and one consumer.
type eventQueue struct {
	mu    sync.Mutex
	items []queued
}

func (q *eventQueue) push(gameID string, ev InboundEvent) {
	q.mu.Lock()
	q.items = append(q.items, queued{gameID: gameID, event: ev})
	q.mu.Unlock()
}

func (q *eventQueue) pop() (queued, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return queued{}, false
	}
	item := q.items[0]
	q.items[0] = queued{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item, true
}

func (q *eventQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *eventQueue) clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}
