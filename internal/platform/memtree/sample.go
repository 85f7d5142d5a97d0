package memtree

import (
	_ "embed"
	"fmt"
)

// SampleName selects the built-in demo desktop instead of a file.
const SampleName = "sample"

//go:embed sample.yaml
var sampleYAML []byte

// Sample returns the built-in demo desktop.
func Sample() *Document {
	doc, err := Parse(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("memtree: embedded sample: %v", err))
	}
	return doc
}
