package changebroadcaster

import (
	"sync"

	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
)

type changeBroadcaster struct {
	mu     sync.RWMutex
	queues map[*changeQueue]struct{}
}

// New instantiates a new ChangeBroadcaster
func New() model.ChangeBroadcaster {
	return &changeBroadcaster{
		queues: make(map[*changeQueue]struct{}),
	}
}

// Subscribe returns a new queue which receives every change broadcast from
// now on
func (cb *changeBroadcaster) Subscribe() model.ChangeQueue {
	queue := newChangeQueue()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.queues[queue] = struct{}{}

	log.Debugf("New subscriber, %d subscribers in total", len(cb.queues))
	return queue
}

// Unsubscribe stops delivery to queue. Changes already in the queue can
// still be dequeued.
func (cb *changeBroadcaster) Unsubscribe(queue model.ChangeQueue) {
	cq, ok := queue.(*changeQueue)
	if !ok {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if _, ok := cb.queues[cq]; !ok {
		return
	}
	delete(cb.queues, cq)
	cq.unsubscribe()

	log.Debugf("Subscriber removed, %d subscribers left", len(cb.queues))
}

// Broadcast delivers changes to every subscribed queue
func (cb *changeBroadcaster) Broadcast(changes []*externalapi.ChainChange) {
	if len(changes) == 0 {
		return
	}

	cb.mu.RLock()
	defer cb.mu.RUnlock()
	for queue := range cb.queues {
		melded := queue.enqueueBatch(changes)
		if melded > 0 {
			log.Tracef("Melded %d pending changes out of a subscriber queue", melded)
		}
	}
}

func (cb *changeBroadcaster) SubscriberCount() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return len(cb.queues)
}
