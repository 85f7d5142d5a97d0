package model

import (
	"fmt"
	"strings"
)

// Role is the semantic category the engine assigns to a node. It is distinct
// from the tree's own control type.
type Role string

const (
	RoleTextInput   Role = "text_input"
	RoleSendControl Role = "send_control"
	RoleNewSession  Role = "new_session"
)

// Roles lists every semantic role in scan order.
var Roles = []Role{RoleTextInput, RoleSendControl, RoleNewSession}

// IsControl reports whether the role is activated by clicking.
func (r Role) IsControl() bool {
	return r == RoleSendControl || r == RoleNewSession
}

// ParseRole converts a flag or tool argument to a Role. Aliases used by older
// configuration files ("send_button", "new_conversation") are accepted.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text_input", "input":
		return RoleTextInput, nil
	case "send_control", "send_button", "send":
		return RoleSendControl, nil
	case "new_session", "new_conversation", "new":
		return RoleNewSession, nil
	default:
		return "", fmt.Errorf("unknown role: %q (expected text_input, send_control, or new_session)", s)
	}
}

// ControlTypeMap maps backend-specific control type names to the canonical
// names the classifier works with. UI Automation names map to themselves;
// macOS AX roles and lowercase aliases are folded in.
var ControlTypeMap = map[string]string{
	"edit":          "Edit",
	"text":          "Text",
	"document":      "Document",
	"custom":        "Custom",
	"button":        "Button",
	"menuitem":      "MenuItem",
	"hyperlink":     "Hyperlink",
	"pane":          "Pane",
	"group":         "Group",
	"window":        "Window",
	"image":         "Image",
	"list":          "List",
	"listitem":      "ListItem",
	"toolbar":       "ToolBar",
	"axtextfield":   "Edit",
	"axtextarea":    "Edit",
	"axstatictext":  "Text",
	"axbutton":      "Button",
	"axmenuitem":    "MenuItem",
	"axlink":        "Hyperlink",
	"axgroup":       "Group",
	"axwindow":      "Window",
	"axwebarea":     "Document",
	"axtoolbar":     "ToolBar",
	"axpopupbutton": "Button",
}

// NormalizeControlType converts a raw control type to its canonical name.
// Unknown types pass through unchanged so they still show up in diagnostics.
func NormalizeControlType(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}
	if canonical, ok := ControlTypeMap[key]; ok {
		return canonical
	}
	return raw
}
