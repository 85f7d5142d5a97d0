package model

// Element is one node of an accessibility tree document. Tree documents are
// what the memtree backend serves and what `inspect --tree` prints.
type Element struct {
	AutomationID string    `yaml:"id,omitempty"         json:"id,omitempty"`         // Automation identifier
	Title        string    `yaml:"title,omitempty"      json:"title,omitempty"`      // Display text (localized)
	ControlType  string    `yaml:"type,omitempty"       json:"type,omitempty"`       // Backend control type (Edit, Button, ...)
	ClassName    string    `yaml:"class,omitempty"      json:"class,omitempty"`      // Backend class name
	Value        string    `yaml:"value,omitempty"      json:"value,omitempty"`      // Current text content
	Bounds       [4]int    `yaml:"bounds,flow"          json:"bounds"`               // [x, y, width, height]
	Visible      *bool     `yaml:"visible,omitempty"    json:"visible,omitempty"`    // nil or true = visible
	Enabled      *bool     `yaml:"enabled,omitempty"    json:"enabled,omitempty"`    // nil or true = enabled
	Focusable    *bool     `yaml:"focusable,omitempty"  json:"focusable,omitempty"`  // nil or true = accepts focus
	LaunchOnly   bool      `yaml:"launch_only,omitempty" json:"launch_only,omitempty"` // window appears only after launch
	Children     []Element `yaml:"children,omitempty"   json:"children,omitempty"`
}

// IsVisible reports whether the element is visible. A nil flag means visible.
func (e Element) IsVisible() bool { return e.Visible == nil || *e.Visible }

// IsEnabled reports whether the element is enabled. A nil flag means enabled.
func (e Element) IsEnabled() bool { return e.Enabled == nil || *e.Enabled }

// IsFocusable reports whether the element accepts keyboard focus.
func (e Element) IsFocusable() bool { return e.Focusable == nil || *e.Focusable }

// Attributes returns the read snapshot of the element.
func (e Element) Attributes() Attributes {
	return Attributes{
		AutomationID: e.AutomationID,
		Title:        e.Title,
		ControlType:  NormalizeControlType(e.ControlType),
		ClassName:    e.ClassName,
		Visible:      e.IsVisible(),
		Enabled:      e.IsEnabled(),
		Bounds:       e.Bounds,
	}
}

// Attributes is a point-in-time read of one accessibility node. Missing
// attributes are left at their zero value.
type Attributes struct {
	AutomationID string `yaml:"id,omitempty"    json:"id,omitempty"`
	Title        string `yaml:"title,omitempty" json:"title,omitempty"`
	ControlType  string `yaml:"type,omitempty"  json:"type,omitempty"`
	ClassName    string `yaml:"class,omitempty" json:"class,omitempty"`
	Visible      bool   `yaml:"visible"         json:"visible"`
	Enabled      bool   `yaml:"enabled"         json:"enabled"`
	Bounds       [4]int `yaml:"bounds,flow"     json:"bounds"`
}

// Width returns the bounding rectangle width.
func (a Attributes) Width() int { return a.Bounds[2] }

// Height returns the bounding rectangle height.
func (a Attributes) Height() int { return a.Bounds[3] }

// Bool returns a pointer to b, for building tree documents in code.
func Bool(b bool) *bool { return &b }
