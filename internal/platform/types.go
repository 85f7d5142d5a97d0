package platform

import (
	"fmt"
	"strings"

	"github.com/mj1618/chatstress/internal/model"
)

// Criteria selects descendants of a window. Every non-empty field must match
// exactly; ControlType is compared after normalization.
type Criteria struct {
	AutomationID string
	Title        string
	ControlType  string
	ClassName    string
}

// IsZero reports whether no field is set.
func (c Criteria) IsZero() bool {
	return c.AutomationID == "" && c.Title == "" && c.ControlType == "" && c.ClassName == ""
}

// Matches reports whether attrs satisfies every non-empty field of c.
func (c Criteria) Matches(attrs model.Attributes) bool {
	if c.IsZero() {
		return false
	}
	if c.AutomationID != "" && attrs.AutomationID != c.AutomationID {
		return false
	}
	if c.Title != "" && attrs.Title != c.Title {
		return false
	}
	if c.ControlType != "" && model.NormalizeControlType(attrs.ControlType) != model.NormalizeControlType(c.ControlType) {
		return false
	}
	if c.ClassName != "" && attrs.ClassName != c.ClassName {
		return false
	}
	return true
}

// String renders the set fields, e.g. `auto_id="SendButton" type="Button"`.
func (c Criteria) String() string {
	var parts []string
	if c.AutomationID != "" {
		parts = append(parts, fmt.Sprintf("auto_id=%q", c.AutomationID))
	}
	if c.Title != "" {
		parts = append(parts, fmt.Sprintf("title=%q", c.Title))
	}
	if c.ControlType != "" {
		parts = append(parts, fmt.Sprintf("type=%q", c.ControlType))
	}
	if c.ClassName != "" {
		parts = append(parts, fmt.Sprintf("class=%q", c.ClassName))
	}
	return strings.Join(parts, " ")
}

// CriteriaFromCandidate builds the combined lookup for a candidate: every
// non-empty attribute at once.
func CriteriaFromCandidate(c model.Candidate) Criteria {
	return Criteria{
		AutomationID: c.AutomationID,
		Title:        c.Title,
		ControlType:  c.ControlType,
		ClassName:    c.ClassName,
	}
}

// ParseCriteria parses "key=value" pairs separated by ';', e.g.
// "id=SendButton;type=Button". Keys: id, title, type, class.
func ParseCriteria(s string) (Criteria, error) {
	var c Criteria
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return Criteria{}, fmt.Errorf("invalid criteria %q: expected key=value", part)
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "id", "auto_id":
			c.AutomationID = value
		case "title", "name":
			c.Title = value
		case "type", "control_type":
			c.ControlType = value
		case "class", "class_name":
			c.ClassName = value
		default:
			return Criteria{}, fmt.Errorf("unknown criteria key %q (expected id, title, type, or class)", key)
		}
	}
	if c.IsZero() {
		return Criteria{}, fmt.Errorf("invalid criteria %q: no fields set", s)
	}
	return c, nil
}
