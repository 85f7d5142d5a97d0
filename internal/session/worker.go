package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mj1618/chatstress/internal/config"
	"github.com/mj1618/chatstress/internal/model"
)

// progressCapacity bounds the number of undelivered progress batches.
const progressCapacity = 64

// Worker runs one session on its own goroutine. All backend interaction
// happens there; the caller only sees progress batches and the result.
type Worker struct {
	cancel   context.CancelFunc
	throttle *Throttle
	done     chan model.RunResult
	finished chan struct{}
	once     sync.Once

	total     int
	succeeded atomic.Int32
	runID     atomic.Value // string
}

// Start launches a session for cfg on e.
func Start(ctx context.Context, e *Engine, cfg *config.Config) *Worker {
	ctx, cancel := context.WithCancel(ctx)
	w := &Worker{
		cancel:   cancel,
		throttle: NewThrottle(DefaultFlushInterval, progressCapacity),
		done:     make(chan model.RunResult, 1),
		finished: make(chan struct{}),
		total:    max(cfg.NumberOfMessages, 0),
	}
	cfg = cfg.Clone()
	sink := SinkFunc(func(ev Event) {
		if ev.Kind == EventMessage && ev.Outcome != nil && ev.Outcome.OK {
			w.succeeded.Add(1)
		}
		if id, ok := ev.Fields["run_id"].(string); ok {
			w.runID.CompareAndSwap(nil, id)
		}
		w.throttle.Emit(ev)
	})
	go func() {
		res := e.RunSession(ctx, cfg, sink)
		w.deliver(res)
	}()
	return w
}

// Progress delivers batched events. It is closed once the result is ready.
func (w *Worker) Progress() <-chan []Event {
	return w.throttle.C()
}

// Done delivers exactly one result.
func (w *Worker) Done() <-chan model.RunResult {
	return w.done
}

// Stop asks the session to stop and waits up to grace for it to return.
// If it does not, the session goroutine is abandoned and a cancelled result
// is delivered in its place. Stop does not wait for Done to be read.
func (w *Worker) Stop(grace time.Duration) {
	w.cancel()
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-w.finished:
	case <-timer.C:
		runID, _ := w.runID.Load().(string)
		w.deliver(model.RunResult{
			RunID:     runID,
			Succeeded: min(int(w.succeeded.Load()), w.total),
			Total:     w.total,
			Error:     model.ErrCancelled.WithMessage(fmt.Sprintf("session did not stop within %s and was abandoned", grace)).Error(),
			Code:      model.KindCancelled,
			State:     model.StateFailed,
		})
	}
}

func (w *Worker) deliver(res model.RunResult) {
	w.once.Do(func() {
		w.throttle.Close()
		w.done <- res
		close(w.done)
		close(w.finished)
	})
}
