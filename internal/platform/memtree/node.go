package memtree

import (
	"context"
	"fmt"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
)

// elem implements platform.Node over one tree node.
type elem struct {
	t *Tree
	n *node
}

func (e elem) Info() (model.Attributes, error) {
	e.t.mu.Lock()
	defer e.t.mu.Unlock()
	if err := e.t.checkFault(OpInfo, e.n); err != nil {
		return model.Attributes{}, err
	}
	if e.t.detached(e.n) {
		return model.Attributes{}, fmt.Errorf("info: %w", platform.ErrNotFound)
	}
	return e.n.el.Attributes(), nil
}

func (e elem) Exists() bool {
	e.t.mu.Lock()
	defer e.t.mu.Unlock()
	return !e.t.detached(e.n)
}

func (e elem) Children() ([]platform.Node, error) {
	e.t.mu.Lock()
	defer e.t.mu.Unlock()
	if err := e.t.checkFault(OpChildren, e.n); err != nil {
		return nil, err
	}
	kids := make([]platform.Node, 0, len(e.n.children))
	for _, c := range e.n.children {
		kids = append(kids, elem{t: e.t, n: c})
	}
	return kids, nil
}

func (e elem) Focus() error {
	e.t.mu.Lock()
	defer e.t.mu.Unlock()
	if err := e.t.checkFault(OpFocus, e.n); err != nil {
		return err
	}
	if err := e.usable("focus"); err != nil {
		return err
	}
	if !e.n.el.IsFocusable() {
		return platform.Unexpected("focus", fmt.Errorf("%s does not accept focus", e.describe()))
	}
	e.t.focused = e.n
	return nil
}

func (e elem) Clear() error {
	e.t.mu.Lock()
	defer e.t.mu.Unlock()
	if err := e.t.checkFault(OpClear, e.n); err != nil {
		return err
	}
	if err := e.usable("clear"); err != nil {
		return err
	}
	e.n.el.Value = ""
	return nil
}

func (e elem) TypeText(text string) error {
	e.t.mu.Lock()
	defer e.t.mu.Unlock()
	if err := e.t.checkFault(OpType, e.n); err != nil {
		return err
	}
	if err := e.usable("type"); err != nil {
		return err
	}
	e.n.el.Value += text
	return nil
}

// Click submits the focused element's text when it has any, mirroring a chat
// client's send control. Clicking a control that has no pending text only
// moves focus away.
func (e elem) Click() error {
	e.t.mu.Lock()
	defer e.t.mu.Unlock()
	if err := e.t.checkFault(OpClick, e.n); err != nil {
		return err
	}
	if err := e.usable("click"); err != nil {
		return err
	}
	if f := e.t.focused; f != nil && f != e.n && f.el.Value != "" && rootOf(f) == rootOf(e.n) {
		e.t.sent = append(e.t.sent, f.el.Value)
		f.el.Value = ""
	}
	return nil
}

// usable must be called with t.mu held.
func (e elem) usable(op string) error {
	if e.t.detached(e.n) {
		return fmt.Errorf("%s: %w", op, platform.ErrNotFound)
	}
	if !e.n.el.IsVisible() {
		return platform.Unexpected(op, fmt.Errorf("%s is not visible", e.describe()))
	}
	if !e.n.el.IsEnabled() {
		return platform.Unexpected(op, fmt.Errorf("%s is disabled", e.describe()))
	}
	return nil
}

func (e elem) describe() string {
	return platform.Criteria{AutomationID: e.n.el.AutomationID, Title: e.n.el.Title, ControlType: e.n.el.ControlType}.String()
}

// window implements platform.Window over a root node.
type window struct {
	elem
}

func (w *window) Title() string {
	w.t.mu.Lock()
	defer w.t.mu.Unlock()
	return w.n.el.Title
}

// Find walks the window's descendants depth-first and returns the single one
// matching c.
func (w *window) Find(ctx context.Context, c platform.Criteria) (platform.Node, error) {
	if c.IsZero() {
		return nil, fmt.Errorf("find: empty criteria")
	}
	w.t.mu.Lock()
	defer w.t.mu.Unlock()
	if err := w.t.checkFault(OpFind, w.n); err != nil {
		return nil, err
	}
	if w.t.detached(w.n) {
		return nil, fmt.Errorf("find %s: window closed: %w", c, platform.ErrNotFound)
	}

	var matches []*node
	var walk func(n *node) error
	walk = func(n *node) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, child := range n.children {
			if c.Matches(child.el.Attributes()) {
				matches = append(matches, child)
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(w.n); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("find %s: %w", c, platform.ErrNotFound)
	case 1:
		return elem{t: w.t, n: matches[0]}, nil
	default:
		return nil, &platform.AmbiguousMatchError{Criteria: c, Count: len(matches)}
	}
}

func init() {
	platform.Register("memtree", func(opts platform.Options) (*platform.Provider, error) {
		if opts.TreeFile == "" {
			return nil, fmt.Errorf("memtree backend needs a tree document (--tree-file <file> or --tree-file %s)", SampleName)
		}
		var doc *Document
		if opts.TreeFile == SampleName {
			doc = Sample()
		} else {
			var err error
			if doc, err = Load(opts.TreeFile); err != nil {
				return nil, err
			}
		}
		t := New(doc)
		return &platform.Provider{Backend: t, Launcher: t.Launcher()}, nil
	})
}
