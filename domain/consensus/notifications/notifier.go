package notifications

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

const blockAcceptedTopic = "consensus:blockAccepted"

// DefaultSubscriptionBufferSize is the capacity of the channel a
// subscription delivers on. Notifications beyond it wait in the
// subscription queue.
const DefaultSubscriptionBufferSize = 1000

// Notifier fans BlockAccepted notifications out to subscribers. Publishing
// never blocks on a subscriber and never loses a notification: every
// subscription queues what its channel cannot hold yet, and notifications
// arrive in publication order.
type Notifier struct {
	bus        evbus.Bus
	bufferSize int

	mtx           sync.Mutex
	subscriptions map[uuid.UUID]*Subscription
	closed        bool
}

// Subscription is a handle to a stream of BlockAccepted notifications
type Subscription struct {
	id       uuid.UUID
	notifier *Notifier
	channel  chan *externalapi.BlockAcceptedNotification

	queueLock sync.Mutex
	queue     []*externalapi.BlockAcceptedNotification
	draining  bool
	wakeUp    chan struct{}
	quit      chan struct{}
}

// New returns a new Notifier
func New(bufferSize int) (*Notifier, error) {
	notifier := &Notifier{
		bus:           evbus.New(),
		bufferSize:    bufferSize,
		subscriptions: make(map[uuid.UUID]*Subscription),
	}

	// A single transactional dispatcher serializes delivery
	err := notifier.bus.SubscribeAsync(blockAcceptedTopic, notifier.dispatch, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed subscribing the notification dispatcher")
	}
	return notifier, nil
}

// Publish queues notification for every current subscriber
func (n *Notifier) Publish(notification *externalapi.BlockAcceptedNotification) {
	n.bus.Publish(blockAcceptedTopic, notification)
}

func (n *Notifier) dispatch(notification *externalapi.BlockAcceptedNotification) {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	for _, subscription := range n.subscriptions {
		subscription.enqueue(notification)
	}
}

// Subscribe registers a new subscription
func (n *Notifier) Subscribe() (*Subscription, error) {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	if n.closed {
		return nil, errors.New("cannot subscribe to a closed notifier")
	}

	subscription := &Subscription{
		id:       uuid.New(),
		notifier: n,
		channel:  make(chan *externalapi.BlockAcceptedNotification, n.bufferSize),
		wakeUp:   make(chan struct{}, 1),
		quit:     make(chan struct{}),
	}
	n.subscriptions[subscription.id] = subscription
	spawn("Subscription.forward", subscription.forward)
	log.Debugf("Added subscription %s", subscription.id)
	return subscription, nil
}

// Flush waits until every published notification has been handed to the
// subscriptions
func (n *Notifier) Flush() {
	n.bus.WaitAsync()
}

// Close delivers pending notifications and closes every subscription once
// its queue is drained
func (n *Notifier) Close() {
	n.bus.WaitAsync()

	n.mtx.Lock()
	defer n.mtx.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for id, subscription := range n.subscriptions {
		subscription.drain()
		delete(n.subscriptions, id)
	}
}

// ID returns the unique id of the subscription
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Notifications returns the channel the notifications are delivered on. It
// is closed when the subscription or the notifier is closed.
func (s *Subscription) Notifications() <-chan *externalapi.BlockAcceptedNotification {
	return s.channel
}

// Pending returns the number of notifications waiting for room in the
// subscription channel
func (s *Subscription) Pending() int {
	s.queueLock.Lock()
	defer s.queueLock.Unlock()
	return len(s.queue)
}

// Close unsubscribes and discards whatever was not delivered yet. It is safe
// to call more than once.
func (s *Subscription) Close() {
	n := s.notifier
	n.mtx.Lock()
	defer n.mtx.Unlock()

	if _, ok := n.subscriptions[s.id]; !ok {
		return
	}
	delete(n.subscriptions, s.id)
	close(s.quit)
	log.Debugf("Removed subscription %s", s.id)
}

func (s *Subscription) enqueue(notification *externalapi.BlockAcceptedNotification) {
	s.queueLock.Lock()
	s.queue = append(s.queue, notification)
	s.queueLock.Unlock()
	s.signal()
}

// drain makes forward close the channel once the queue is empty
func (s *Subscription) drain() {
	s.queueLock.Lock()
	s.draining = true
	s.queueLock.Unlock()
	s.signal()
}

func (s *Subscription) signal() {
	select {
	case s.wakeUp <- struct{}{}:
	default:
	}
}

// next pops the oldest queued notification. done is set once the queue is
// empty and the subscription is draining.
func (s *Subscription) next() (notification *externalapi.BlockAcceptedNotification, ok bool, done bool) {
	s.queueLock.Lock()
	defer s.queueLock.Unlock()

	if len(s.queue) == 0 {
		return nil, false, s.draining
	}
	notification = s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return notification, true, false
}

// forward moves queued notifications to the channel, waiting for the
// subscriber when the channel is full
func (s *Subscription) forward() {
	defer close(s.channel)

	for {
		notification, ok, done := s.next()
		if done {
			return
		}
		if !ok {
			select {
			case <-s.wakeUp:
			case <-s.quit:
				return
			}
			continue
		}

		select {
		case s.channel <- notification:
		case <-s.quit:
			return
		}
	}
}
