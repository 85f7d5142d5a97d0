package session

import (
	"sync"
	"time"
)

// DefaultFlushInterval is how often a Throttle hands buffered events over.
const DefaultFlushInterval = 200 * time.Millisecond

// closeTimeout bounds how long Close waits for a consumer to take the final
// batch.
const closeTimeout = time.Second

// Throttle is a ProgressSink that coalesces events into batches. Batches are
// delivered on C at most once per interval. When the consumer falls behind,
// events keep accumulating in the pending batch instead of blocking Emit.
type Throttle struct {
	mu      sync.Mutex
	pending []Event
	closed  bool

	out  chan []Event
	stop chan struct{}
	done chan struct{}
}

// NewThrottle starts a Throttle. capacity bounds the number of undelivered
// batches.
func NewThrottle(interval time.Duration, capacity int) *Throttle {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	if capacity <= 0 {
		capacity = 1
	}
	t := &Throttle{
		out:  make(chan []Event, capacity),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.loop(interval)
	return t
}

// Emit buffers e. Events emitted after Close are dropped.
func (t *Throttle) Emit(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.pending = append(t.pending, e)
}

// C delivers batches. It is closed after Close has flushed.
func (t *Throttle) C() <-chan []Event {
	return t.out
}

// Close flushes what is pending and closes C. It is safe to call more than
// once.
func (t *Throttle) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		<-t.done
		return
	}
	t.closed = true
	t.mu.Unlock()
	close(t.stop)
	<-t.done
}

func (t *Throttle) loop(interval time.Duration) {
	defer close(t.done)
	defer close(t.out)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.flush()
		case <-t.stop:
			t.final()
			return
		}
	}
}

// flush hands the pending batch over if the channel has room.
func (t *Throttle) flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.pending) == 0 {
		return
	}
	select {
	case t.out <- t.pending:
		t.pending = nil
	default:
	}
}

func (t *Throttle) final() {
	t.mu.Lock()
	batch := t.pending
	t.pending = nil
	t.mu.Unlock()
	if len(batch) == 0 {
		return
	}
	timer := time.NewTimer(closeTimeout)
	defer timer.Stop()
	select {
	case t.out <- batch:
	case <-timer.C:
	}
}
