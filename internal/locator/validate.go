package locator

import (
	"fmt"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
)

// Readiness is the verdict of Validate. Reason is always set.
type Readiness struct {
	Ready    bool
	Reason   string
	Degraded bool // a best-effort check failed without failing validation
}

// Validate checks that node can be interacted with in role. Checks stop at
// the first failure: existence, visibility, enabled state, then the role
// check. Text inputs get a focus probe whose failure only marks the result
// degraded; controls need a non-empty clickable area.
func Validate(node platform.Node, role model.Role) Readiness {
	if node == nil || !node.Exists() {
		return Readiness{Reason: "element does not exist"}
	}
	attrs, err := node.Info()
	if err != nil {
		return Readiness{Reason: fmt.Sprintf("cannot read element: %v", err)}
	}
	if !attrs.Visible {
		return Readiness{Reason: "element is not visible"}
	}
	if !attrs.Enabled {
		return Readiness{Reason: "element is disabled"}
	}

	switch {
	case role == model.RoleTextInput:
		if err := node.Focus(); err != nil {
			return Readiness{Ready: true, Degraded: true, Reason: fmt.Sprintf("ready, focus probe failed: %v", err)}
		}
	case role.IsControl():
		if attrs.Width() <= 0 || attrs.Height() <= 0 {
			return Readiness{Reason: fmt.Sprintf("element has no clickable area (%dx%d)", attrs.Width(), attrs.Height())}
		}
	}
	return Readiness{Ready: true, Reason: "ready"}
}
