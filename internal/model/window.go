package model

// Window represents a top-level application window exposed by a backend.
type Window struct {
	Title     string `yaml:"title"               json:"title"`
	ClassName string `yaml:"class,omitempty"     json:"class,omitempty"`
	Process   string `yaml:"process,omitempty"   json:"process,omitempty"`
	Bounds    [4]int `yaml:"bounds,flow"         json:"bounds"`
	Focused   bool   `yaml:"focused,omitempty"   json:"focused,omitempty"`
}
