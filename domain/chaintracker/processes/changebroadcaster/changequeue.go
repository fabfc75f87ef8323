package changebroadcaster

import (
	"context"
	"sync"

	"github.com/ef-ds/deque"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/pkg/errors"
)

// ErrUnsubscribed is returned by Dequeue once a queue was unsubscribed and
// everything enqueued before that was consumed
var ErrUnsubscribed = errors.New("change queue was unsubscribed")

// changeQueue is an unbounded queue of ChainChanges. Enqueueing never blocks.
type changeQueue struct {
	mu           sync.Mutex
	queue        deque.Deque
	notify       chan struct{}
	unsubscribed bool
}

func newChangeQueue() *changeQueue {
	return &changeQueue{
		notify: make(chan struct{}, 1),
	}
}

// enqueueBatch appends changes to the queue. Leading removes that cancel the
// add at the tail of the queue pop that add instead of being enqueued.
func (cq *changeQueue) enqueueBatch(changes []*externalapi.ChainChange) (melded int) {
	cq.mu.Lock()
	defer cq.mu.Unlock()

	for melded < len(changes) {
		back, ok := cq.queue.Back()
		if !ok || !changes[melded].Cancels(back.(*externalapi.ChainChange)) {
			break
		}
		cq.queue.PopBack()
		melded++
	}

	for _, change := range changes[melded:] {
		cq.queue.PushBack(change)
	}
	if cq.queue.Len() > 0 {
		cq.wakeUp()
	}
	return melded
}

// wakeUp signals a waiting Dequeue, if any. cq.mu must be held.
func (cq *changeQueue) wakeUp() {
	select {
	case cq.notify <- struct{}{}:
	default:
	}
}

func (cq *changeQueue) unsubscribe() {
	cq.mu.Lock()
	defer cq.mu.Unlock()

	cq.unsubscribed = true
	cq.wakeUp()
}

// Dequeue blocks until a change is available or ctx is done
func (cq *changeQueue) Dequeue(ctx context.Context) (*externalapi.ChainChange, error) {
	for {
		change, ok, unsubscribed := cq.tryDequeue()
		if ok {
			return change, nil
		}
		if unsubscribed {
			return nil, errors.WithStack(ErrUnsubscribed)
		}

		select {
		case <-cq.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// TryDequeue returns the next change without blocking
func (cq *changeQueue) TryDequeue() (*externalapi.ChainChange, bool) {
	change, ok, _ := cq.tryDequeue()
	return change, ok
}

func (cq *changeQueue) tryDequeue() (change *externalapi.ChainChange, ok bool, unsubscribed bool) {
	cq.mu.Lock()
	defer cq.mu.Unlock()

	front, ok := cq.queue.PopFront()
	if !ok {
		return nil, false, cq.unsubscribed
	}
	return front.(*externalapi.ChainChange), true, cq.unsubscribed
}

func (cq *changeQueue) Len() int {
	cq.mu.Lock()
	defer cq.mu.Unlock()

	return cq.queue.Len()
}
