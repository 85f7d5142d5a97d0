// Package memtree is an accessibility backend that serves element trees from
// a document instead of a live desktop. It simulates focus, typing and
// clicking so a whole session can run against it, and supports fault
// injection for resilience testing.
package memtree

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
)

// Op names passed to a FaultFunc.
const (
	OpInfo     = "info"
	OpChildren = "children"
	OpFind     = "find"
	OpFocus    = "focus"
	OpClear    = "clear"
	OpType     = "type"
	OpClick    = "click"
)

// FaultFunc is consulted before every node operation. A non-nil return
// makes the operation fail with that error.
type FaultFunc func(op string, attrs model.Attributes) error

// PollInterval is how often Connect re-checks for a matching window.
var PollInterval = 100 * time.Millisecond

// Tree is an in-memory desktop. All methods are safe for concurrent use.
type Tree struct {
	mu       sync.Mutex
	roots    []*node
	launched bool
	launches int
	fault    FaultFunc
	focused  *node
	sent     []string
}

type node struct {
	el       model.Element // Children is always nil; see children
	parent   *node
	children []*node
}

// New builds a Tree from a document.
func New(doc *Document) *Tree {
	t := &Tree{}
	for _, w := range doc.Windows {
		t.roots = append(t.roots, build(w, nil))
	}
	return t
}

func build(el model.Element, parent *node) *node {
	n := &node{parent: parent}
	kids := el.Children
	el.Children = nil
	n.el = el
	for _, c := range kids {
		n.children = append(n.children, build(c, n))
	}
	return n
}

// SetFault installs fn as the fault hook. Pass nil to clear it.
func (t *Tree) SetFault(fn FaultFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fault = fn
}

// Update applies fn to every element whose automation ID is autoID and
// returns how many were changed.
func (t *Tree) Update(autoID string, fn func(el *model.Element)) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	var walk func(n *node)
	walk = func(n *node) {
		if n.el.AutomationID == autoID {
			fn(&n.el)
			count++
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	for _, r := range t.roots {
		walk(r)
	}
	return count
}

// Sent returns the messages submitted so far. A click on any control while a
// focused element holds text counts as submitting that text.
func (t *Tree) Sent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.sent...)
}

// Launches returns how many times the launcher ran.
func (t *Tree) Launches() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.launches
}

// Launcher returns a platform.Launcher that reveals windows marked
// launch_only.
func (t *Tree) Launcher() platform.Launcher {
	return launcher{t: t}
}

type launcher struct{ t *Tree }

func (l launcher) Launch(ctx context.Context, command string) error {
	if command == "" {
		return fmt.Errorf("launch: empty command")
	}
	l.t.mu.Lock()
	defer l.t.mu.Unlock()
	l.t.launched = true
	l.t.launches++
	return nil
}

func (t *Tree) reachable(n *node) bool {
	return !n.el.LaunchOnly || t.launched
}

// ListWindows implements platform.Backend.
func (t *Tree) ListWindows() ([]model.Window, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	windows := []model.Window{}
	for _, r := range t.roots {
		if !t.reachable(r) {
			continue
		}
		windows = append(windows, model.Window{
			Title:     r.el.Title,
			ClassName: r.el.ClassName,
			Process:   "memtree",
			Bounds:    r.el.Bounds,
			Focused:   t.focused != nil && rootOf(t.focused) == r,
		})
	}
	return windows, nil
}

// Connect implements platform.Backend. It polls until a reachable window's
// title matches pattern or timeout elapses.
func (t *Tree) Connect(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) (platform.Window, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		found    *node
		terminal error
	)
	op := func() error {
		t.mu.Lock()
		defer t.mu.Unlock()
		var matches []*node
		for _, r := range t.roots {
			if t.reachable(r) && pattern.MatchString(r.el.Title) {
				matches = append(matches, r)
			}
		}
		switch len(matches) {
		case 0:
			return fmt.Errorf("no window title matches %q: %w", pattern, platform.ErrNotFound)
		case 1:
			found = matches[0]
		default:
			// More polling will not disambiguate.
			terminal = &platform.AmbiguousMatchError{Criteria: platform.Criteria{Title: pattern.String()}, Count: len(matches)}
		}
		return nil
	}
	b := backoff.WithContext(backoff.NewConstantBackOff(PollInterval), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	if terminal != nil {
		return nil, terminal
	}
	return &window{elem: elem{t: t, n: found}}, nil
}

func rootOf(n *node) *node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

func (t *Tree) detached(n *node) bool {
	r := rootOf(n)
	for _, root := range t.roots {
		if root == r {
			return !t.reachable(r)
		}
	}
	return true
}

// checkFault must be called with t.mu held.
func (t *Tree) checkFault(op string, n *node) error {
	if t.fault == nil {
		return nil
	}
	if err := t.fault(op, n.el.Attributes()); err != nil {
		return platform.Unexpected(op, err)
	}
	return nil
}
