package model

// FlatElement is an element with a path breadcrumb instead of children.
type FlatElement struct {
	Depth        int    `yaml:"depth"           json:"depth"`
	AutomationID string `yaml:"id,omitempty"    json:"id,omitempty"`
	Title        string `yaml:"title,omitempty" json:"title,omitempty"`
	ControlType  string `yaml:"type,omitempty"  json:"type,omitempty"`
	ClassName    string `yaml:"class,omitempty" json:"class,omitempty"`
	Bounds       [4]int `yaml:"bounds,flow"     json:"bounds"`
	Visible      bool   `yaml:"visible"         json:"visible"`
	Enabled      bool   `yaml:"enabled"         json:"enabled"`
	Path         string `yaml:"path,omitempty"  json:"path,omitempty"`
}

// FlattenElements converts a tree of elements into a flat pre-order list.
// Each element gets a path of control types joined with " > ". A maxDepth of
// 0 means unlimited; roots are depth 0.
func FlattenElements(elements []Element, maxDepth int) []FlatElement {
	var result []FlatElement
	for _, el := range elements {
		flattenRecursive(el, "", 0, maxDepth, &result)
	}
	return result
}

func flattenRecursive(el Element, parentPath string, depth, maxDepth int, result *[]FlatElement) {
	if maxDepth > 0 && depth > maxDepth {
		return
	}
	segment := NormalizeControlType(el.ControlType)
	if segment == "" {
		segment = "?"
	}
	currentPath := segment
	if parentPath != "" {
		currentPath = parentPath + " > " + segment
	}

	*result = append(*result, FlatElement{
		Depth:        depth,
		AutomationID: el.AutomationID,
		Title:        el.Title,
		ControlType:  NormalizeControlType(el.ControlType),
		ClassName:    el.ClassName,
		Bounds:       el.Bounds,
		Visible:      el.IsVisible(),
		Enabled:      el.IsEnabled(),
		Path:         currentPath,
	})

	for _, child := range el.Children {
		flattenRecursive(child, currentPath, depth+1, maxDepth, result)
	}
}
