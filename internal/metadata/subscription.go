package metadata

const updateBufferSize = 16

// Subscription delivers the resolver's update signal to one subscriber.
// The signal carries no payload: it means "a cache entry changed, poll Get
// again". Signals are coalesced when the subscriber lags; at least one signal
// is always pending after a cache write.
type Subscription struct {
	Updated <-chan struct{}
	Done    <-chan struct{}

	updateCh chan struct{}
	doneCh   chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		updateCh: make(chan struct{}, updateBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Updated = s.updateCh
	s.Done = s.doneCh
	return s
}

// close signals the subscriber to stop by closing Done.
func (s *Subscription) close() {
	close(s.doneCh)
}

// notify sends an update signal without blocking.
func (s *Subscription) notify() {
	select {
	case s.updateCh <- struct{}{}:
	default:
		// Buffer full, a signal is already pending
	}
}
