package model

import (
	"context"

	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
)

// ChangeQueue is the pending ChainChanges of a single subscriber
type ChangeQueue interface {
	// Dequeue blocks until a change is available or ctx is done
	Dequeue(ctx context.Context) (*externalapi.ChainChange, error)
	TryDequeue() (*externalapi.ChainChange, bool)
	Len() int
}

// ChangeBroadcaster fans ChainChanges out to independently drained subscriber queues
type ChangeBroadcaster interface {
	Subscribe() ChangeQueue
	Unsubscribe(queue ChangeQueue)
	Broadcast(changes []*externalapi.ChainChange)
	SubscriberCount() int
}
