package locator

import (
	"context"
	"errors"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
	"github.com/mj1618/chatstress/internal/platform/memtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingDiscoverer struct {
	calls  atomic.Int32
	result *model.DiscoveryResult
	err    error
}

func (d *countingDiscoverer) Discover(ctx context.Context, win platform.Window) (*model.DiscoveryResult, error) {
	d.calls.Add(1)
	return d.result, d.err
}

const desktop = `
windows:
  - title: Copilot
    type: Window
    children:
      - {id: A, type: Edit, bounds: [0, 0, 200, 30]}
      - {id: B, title: Send, type: Button, bounds: [210, 0, 30, 30]}
      - {id: Zero, title: Tiny, type: Button, bounds: [0, 0, 0, 0]}
      - {id: Off, title: Off, type: Button, enabled: false, bounds: [0, 0, 10, 10]}
      - {id: twin, title: Twin, type: Button, bounds: [0, 40, 10, 10]}
      - {id: twin, title: Twin, type: Button, bounds: [0, 60, 10, 10]}
      - {id: dyn-send, title: Paper plane, type: Button, class: IconButton, bounds: [0, 80, 10, 10]}
      - {title: Paper plane, type: Text, bounds: [0, 100, 50, 10]}
`

func connect(t *testing.T) (*memtree.Tree, platform.Window) {
	t.Helper()
	doc, err := memtree.Parse([]byte(desktop))
	require.NoError(t, err)
	tree := memtree.New(doc)
	win, err := tree.Connect(context.Background(), regexp.MustCompile(`^Copilot$`), time.Second)
	require.NoError(t, err)
	return tree, win
}

func TestLocate_KnownPatternNeverCallsDiscovery(t *testing.T) {
	_, win := connect(t)
	d := &countingDiscoverer{result: model.NewDiscoveryResult()}
	l := New(d, time.Second, zaptest.NewLogger(t))

	n, method := l.Locate(context.Background(), win, model.RoleSendControl, []string{"Missing", "B"})
	require.NotNil(t, n)
	assert.Equal(t, "known_pattern:B", method)
	assert.Zero(t, d.calls.Load())
}

func TestLocate_KnownPatternByTitleAndControlType(t *testing.T) {
	_, win := connect(t)
	d := &countingDiscoverer{result: model.NewDiscoveryResult()}
	l := New(d, time.Second, zaptest.NewLogger(t))

	n, method := l.Locate(context.Background(), win, model.RoleSendControl, []string{"Send"})
	require.NotNil(t, n)
	assert.Equal(t, "known_pattern:Send", method)
	info, err := n.Info()
	require.NoError(t, err)
	assert.Equal(t, "B", info.AutomationID)

	n, method = l.Locate(context.Background(), win, model.RoleTextInput, []string{"Edit"})
	require.NotNil(t, n)
	assert.Equal(t, "known_pattern:Edit", method)
	assert.Zero(t, d.calls.Load())
}

func TestLocate_SkipsUnreadyAndAmbiguousPatterns(t *testing.T) {
	_, win := connect(t)
	d := &countingDiscoverer{result: model.NewDiscoveryResult()}
	l := New(d, time.Second, zaptest.NewLogger(t))

	n, method := l.Locate(context.Background(), win, model.RoleSendControl, []string{"Zero", "Off", "twin", "B"})
	require.NotNil(t, n)
	assert.Equal(t, "known_pattern:B", method)
}

func TestLocate_FallbackCompleteness(t *testing.T) {
	_, win := connect(t)
	d := &countingDiscoverer{result: model.NewDiscoveryResult()}
	l := New(d, time.Second, zaptest.NewLogger(t))

	n, method := l.Locate(context.Background(), win, model.RoleSendControl, []string{"Nope", "Nada"})
	assert.Nil(t, n)
	assert.Empty(t, method)
	assert.Equal(t, int32(1), d.calls.Load())
}

func TestLocate_DiscoveryErrorIsAMiss(t *testing.T) {
	_, win := connect(t)
	d := &countingDiscoverer{err: model.ErrDiscoveryUnavailable}
	l := New(d, time.Second, zaptest.NewLogger(t))

	n, method := l.Locate(context.Background(), win, model.RoleTextInput, []string{"Nope"})
	assert.Nil(t, n)
	assert.Empty(t, method)
}

func TestLocate_DiscoveryCombinedLookup(t *testing.T) {
	_, win := connect(t)
	result := model.NewDiscoveryResult()
	result.Add(model.RoleSendControl, model.Candidate{AutomationID: "dyn-send", Title: "Paper plane", ControlType: "Button", ClassName: "IconButton", Score: 20})
	d := &countingDiscoverer{result: result}
	l := New(d, time.Second, zaptest.NewLogger(t))

	n, method := l.Locate(context.Background(), win, model.RoleSendControl, []string{"Nope"})
	require.NotNil(t, n)
	assert.Equal(t, "dynamic_discovery:dyn-send/Paper plane", method)
}

func TestLocate_DiscoveryFallsBackToSingleLookups(t *testing.T) {
	_, win := connect(t)
	result := model.NewDiscoveryResult()
	// Stale class name: the combined lookup misses, the identifier alone hits.
	result.Add(model.RoleSendControl, model.Candidate{AutomationID: "dyn-send", Title: "Old title", ControlType: "Button", ClassName: "Stale", Score: 20})
	d := &countingDiscoverer{result: result}
	l := New(d, time.Second, zaptest.NewLogger(t))

	n, method := l.Locate(context.Background(), win, model.RoleSendControl, nil)
	require.NotNil(t, n)
	assert.Equal(t, "dynamic_discovery:dyn-send/Old title", method)
	info, err := n.Info()
	require.NoError(t, err)
	assert.Equal(t, "dyn-send", info.AutomationID)
}

func TestLocate_DiscoveryWalksCandidatesInOrder(t *testing.T) {
	_, win := connect(t)
	result := model.NewDiscoveryResult()
	result.Add(model.RoleSendControl, model.Candidate{AutomationID: "twin", Title: "Twin", ControlType: "Button", Score: 30})
	result.Add(model.RoleSendControl, model.Candidate{AutomationID: "B", Title: "Send", ControlType: "Button", Score: 25})
	d := &countingDiscoverer{result: result}
	l := New(d, time.Second, zaptest.NewLogger(t))

	// Every lookup for "twin" is ambiguous (and the type-only lookup too), so
	// the second candidate wins.
	n, method := l.Locate(context.Background(), win, model.RoleSendControl, nil)
	require.NotNil(t, n)
	assert.Equal(t, "dynamic_discovery:B/Send", method)
}

func TestLocate_NoDiscoverer(t *testing.T) {
	_, win := connect(t)
	l := New(nil, time.Second, zaptest.NewLogger(t))
	n, method := l.Locate(context.Background(), win, model.RoleNewSession, []string{"Hjem"})
	assert.Nil(t, n)
	assert.Empty(t, method)
}

func TestResolve_MissReasons(t *testing.T) {
	_, win := connect(t)
	l := New(&countingDiscoverer{result: model.NewDiscoveryResult()}, time.Second, zaptest.NewLogger(t))

	n, method, err := l.Resolve(context.Background(), win, model.RoleSendControl, []string{"Off"})
	assert.Nil(t, n)
	assert.Empty(t, method)
	assert.ErrorIs(t, err, model.ErrElementNotReady)
	assert.EqualError(t, err, "send_control not ready: element is disabled")

	n, _, err = l.Resolve(context.Background(), win, model.RoleSendControl, []string{"Nope"})
	assert.Nil(t, n)
	assert.ErrorIs(t, err, model.ErrElementNotFound)
	assert.EqualError(t, err, "no usable send_control found")

	n, method, err = l.Resolve(context.Background(), win, model.RoleSendControl, []string{"Off", "B"})
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "known_pattern:B", method)
}

func TestLocate_CancelledContext(t *testing.T) {
	_, win := connect(t)
	d := &countingDiscoverer{result: model.NewDiscoveryResult()}
	l := New(d, time.Second, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, _ := l.Locate(ctx, win, model.RoleSendControl, []string{"B"})
	assert.Nil(t, n)
	assert.Zero(t, d.calls.Load())
}

func TestValidate(t *testing.T) {
	tree, win := connect(t)
	ctx := context.Background()
	find := func(id string) platform.Node {
		n, err := win.Find(ctx, platform.Criteria{AutomationID: id})
		require.NoError(t, err)
		return n
	}

	r := Validate(find("B"), model.RoleSendControl)
	assert.True(t, r.Ready)
	assert.Equal(t, "ready", r.Reason)

	r = Validate(find("Zero"), model.RoleSendControl)
	assert.False(t, r.Ready)
	assert.Contains(t, r.Reason, "no clickable area")

	r = Validate(find("Off"), model.RoleSendControl)
	assert.False(t, r.Ready)
	assert.Equal(t, "element is disabled", r.Reason)

	tree.Update("A", func(el *model.Element) { el.Focusable = model.Bool(false) })
	r = Validate(find("A"), model.RoleTextInput)
	assert.True(t, r.Ready)
	assert.True(t, r.Degraded)
	assert.Contains(t, r.Reason, "focus probe failed")

	tree.Update("A", func(el *model.Element) { el.Visible = model.Bool(false) })
	r = Validate(find("A"), model.RoleTextInput)
	assert.False(t, r.Ready)
	assert.Equal(t, "element is not visible", r.Reason)

	r = Validate(nil, model.RoleTextInput)
	assert.False(t, r.Ready)
	assert.NotEmpty(t, r.Reason)
}

func TestValidate_UnreadableNode(t *testing.T) {
	tree, win := connect(t)
	n, err := win.Find(context.Background(), platform.Criteria{AutomationID: "B"})
	require.NoError(t, err)
	tree.SetFault(func(op string, a model.Attributes) error {
		if op == memtree.OpInfo {
			return errors.New("element gone")
		}
		return nil
	})
	r := Validate(n, model.RoleSendControl)
	assert.False(t, r.Ready)
	assert.Contains(t, r.Reason, "element gone")
}
