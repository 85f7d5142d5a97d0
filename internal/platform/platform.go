package platform

import (
	"context"
	"regexp"
	"time"

	"github.com/mj1618/chatstress/internal/model"
)

// Node is a handle to one control in a backend's accessibility tree.
// Handles are only valid for a single locate-use-discard cycle; identity is
// not guaranteed stable across scans.
type Node interface {
	// Info reads the node's attributes. Missing attributes are zero values.
	Info() (model.Attributes, error)

	// Exists reports whether the node is still present in the tree.
	Exists() bool

	// Children enumerates direct children in backend order.
	Children() ([]Node, error)

	Focus() error
	Clear() error
	TypeText(text string) error
	Click() error
}

// Window is a connected top-level window.
type Window interface {
	Node

	// Title returns the window title used to connect.
	Title() string

	// Find returns the single descendant matching every non-empty field of c.
	// It returns ErrNotFound when nothing matches and an *AmbiguousMatchError
	// when more than one node does.
	Find(ctx context.Context, c Criteria) (Node, error)
}

// Backend connects to windows of the target application.
type Backend interface {
	// Connect waits up to timeout for a window whose title matches pattern.
	Connect(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) (Window, error)

	// ListWindows returns all top-level windows currently exposed.
	ListWindows() ([]model.Window, error)
}

// Launcher starts the target application.
type Launcher interface {
	Launch(ctx context.Context, command string) error
}
