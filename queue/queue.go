package queue

import (
	"context"
	"sync"

	"registrar/models"
)

// MessageQueue is a bounded buffer of inbound guild messages.
// Any number of goroutines may enqueue; drains are serialised by a receive lock
// so each buffered message is handed to exactly one drain call.
type MessageQueue struct {
	ch     chan models.QueuedMessage
	recvMu sync.Mutex
}

// New creates a queue holding at most capacity messages
func New(capacity int) *MessageQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &MessageQueue{
		ch: make(chan models.QueuedMessage, capacity),
	}
}

// Enqueue buffers msg, blocking while the queue is full.
// It returns ctx.Err() if the context ends before space frees up.
func (q *MessageQueue) Enqueue(ctx context.Context, msg models.QueuedMessage) error {
	// Prefer a free slot over an already-cancelled context
	select {
	case q.ch <- msg:
		return nil
	default:
	}

	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain hands every message buffered at call time to fn and returns how many it handled.
// It waits for the receive lock but never waits for new messages.
func (q *MessageQueue) Drain(fn func(models.QueuedMessage)) int {
	q.recvMu.Lock()
	defer q.recvMu.Unlock()

	// Messages enqueued while fn runs are left for the next drain
	pending := len(q.ch)
	processed := 0
	for processed < pending {
		select {
		case msg := <-q.ch:
			fn(msg)
			processed++
		default:
			return processed
		}
	}
	return processed
}

// Len returns the number of buffered messages
func (q *MessageQueue) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity
func (q *MessageQueue) Cap() int {
	return cap(q.ch)
}
