package broker

import (
	"context"
)

type publication[TID comparable, TPayload any] struct {
	id      TID
	channel chan TPayload
}

type subscription[TID comparable, TPayload any] struct {
	id      TID
	channel chan chan TPayload
}

// ChannelBroker hands a producer's channel, keyed by ID, to the first consumer that asks for it.
//
// Later consumers for the same ID are parked until the producer unpublishes. They then receive a closed
// channel, which tells them to read the finished state from elsewhere instead of the stream.
//
// The web server uses it to stream caption progress over SSE. The producer is the goroutine started by the
// POST that kicks off generation and the consumer is the SSE handler. A reconnecting browser ends up as a
// later consumer and reloads the page once generation is over.
type ChannelBroker[TID comparable, TPayload any] struct {
	done        chan struct{}
	publishes   chan publication[TID, TPayload]
	unpublishes chan TID
	subscribes  chan subscription[TID, TPayload]
}

// NewChannelBroker creates a broker. Call Start in a goroutine before using it.
func NewChannelBroker[TID comparable, TPayload any]() *ChannelBroker[TID, TPayload] {
	return &ChannelBroker[TID, TPayload]{
		done:        make(chan struct{}),
		publishes:   make(chan publication[TID, TPayload]),
		unpublishes: make(chan TID),
		subscribes:  make(chan subscription[TID, TPayload]),
	}
}

// Start handles publish, unpublish and subscribe events until ctx is cancelled. Parked subscribers are
// released when the broker stops.
func (b *ChannelBroker[TID, TPayload]) Start(ctx context.Context) {
	published := map[TID]chan TPayload{}
	parked := map[TID][]chan chan TPayload{}
	claimed := map[TID]bool{}

	release := func(id TID) {
		for _, waiting := range parked[id] {
			close(waiting)
		}
		delete(parked, id)
	}

	defer func() {
		close(b.done)
		for id := range parked {
			release(id)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case sub := <-b.subscribes:
			channel, ok := published[sub.id]
			switch {
			case !ok:
				// Nothing to stream: the producer is finished or has not started.
				close(sub.channel)
			case !claimed[sub.id]:
				claimed[sub.id] = true
				sub.channel <- channel
			default:
				parked[sub.id] = append(parked[sub.id], sub.channel)
			}

		case pub := <-b.publishes:
			published[pub.id] = pub.channel
			delete(claimed, pub.id)

		case id := <-b.unpublishes:
			delete(published, id)
			delete(claimed, id)
			release(id)
		}
	}
}

// Subscribe asks for the channel published under id. The returned channel yields the producer's channel to
// the first subscriber. It is closed without a value when nothing is published, and for later subscribers
// once the producer unpublishes.
func (b *ChannelBroker[TID, TPayload]) Subscribe(id TID) <-chan chan TPayload {
	channel := make(chan chan TPayload, 1)
	select {
	case b.subscribes <- subscription[TID, TPayload]{id: id, channel: channel}:
	case <-b.done:
		close(channel)
	}
	return channel
}

// Publish makes channel available to the first subscriber of id. The producer should use a channel buffered
// for everything it sends so that it never blocks on a consumer that went away.
func (b *ChannelBroker[TID, TPayload]) Publish(id TID, channel chan TPayload) {
	select {
	case b.publishes <- publication[TID, TPayload]{id: id, channel: channel}:
	case <-b.done:
	}
}

// Unpublish removes the channel of id and releases the parked subscribers.
func (b *ChannelBroker[TID, TPayload]) Unpublish(id TID) {
	select {
	case b.unpublishes <- id:
	case <-b.done:
	}
}
