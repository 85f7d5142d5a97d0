package session

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func drain(w *Worker) []Event {
	var all []Event
	for batch := range w.Progress() {
		all = append(all, batch...)
	}
	return all
}

func TestWorker_RunsToCompletion(t *testing.T) {
	tree := newTree(t, chatWindow)
	e := NewEngine(provider(tree), emptyDiscoverer{}, zaptest.NewLogger(t))

	w := Start(context.Background(), e, testConfig(3))
	events := drain(w)
	res := <-w.Done()

	assert.Equal(t, 3, res.Succeeded)
	assert.Equal(t, model.StateCompleted, res.State)

	var sent int
	for _, ev := range events {
		if ev.Kind == EventMessage && ev.Outcome.OK {
			sent++
		}
	}
	assert.Equal(t, 3, sent)
}

func TestWorker_StopIsCooperative(t *testing.T) {
	tree := newTree(t, chatWindow)
	cfg := testConfig(5)
	cfg.WaitTimeSeconds = 30
	e := NewEngine(provider(tree), emptyDiscoverer{}, zaptest.NewLogger(t))

	w := Start(context.Background(), e, cfg)
	go drain(w)
	require.Eventually(t, func() bool { return len(tree.Sent()) == 1 }, 5*time.Second, 10*time.Millisecond)

	start := time.Now()
	w.Stop(5 * time.Second)
	res := <-w.Done()

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, model.KindCancelled, res.Code)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 5, res.Total)
	assert.NotEmpty(t, res.Elapsed, "result came from the engine, not the worker")
}

// stuckBackend never returns from Connect until released, ignoring its
// context.
type stuckBackend struct {
	release chan struct{}
}

func (b *stuckBackend) Connect(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) (platform.Window, error) {
	<-b.release
	return nil, platform.ErrNotFound
}

func (b *stuckBackend) ListWindows() ([]model.Window, error) { return nil, nil }

func TestWorker_StopAbandonsAfterGrace(t *testing.T) {
	b := &stuckBackend{release: make(chan struct{})}
	var once sync.Once
	t.Cleanup(func() { once.Do(func() { close(b.release) }) })

	p := &platform.Provider{Name: "stuck", Backend: b, Launcher: platform.ExecLauncher{}}
	e := NewEngine(p, emptyDiscoverer{}, zap.NewNop())
	w := Start(context.Background(), e, testConfig(4))
	go drain(w)

	start := time.Now()
	w.Stop(100 * time.Millisecond)
	res := <-w.Done()

	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, model.StateFailed, res.State)
	assert.Equal(t, model.KindCancelled, res.Code)
	assert.Contains(t, res.Error, "abandoned")
	assert.Equal(t, 0, res.Succeeded)
	assert.Equal(t, 4, res.Total)

	// The engine finishing later must not deliver a second result.
	once.Do(func() { close(b.release) })
	_, open := <-w.Done()
	assert.False(t, open)
}
