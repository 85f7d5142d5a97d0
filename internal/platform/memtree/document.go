package memtree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mj1618/chatstress/internal/model"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a desktop: a list of top-level windows,
// each an element tree.
type Document struct {
	Windows []model.Element `yaml:"windows" json:"windows"`
}

// Load reads a tree document. Files ending in .json are decoded as JSON;
// everything else as YAML.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree document: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse tree document %s: %w", path, err)
		}
		return &doc, validate(&doc)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse tree document %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a YAML tree document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, validate(&doc)
}

func validate(doc *Document) error {
	if len(doc.Windows) == 0 {
		return fmt.Errorf("tree document has no windows")
	}
	for i, w := range doc.Windows {
		if w.Title == "" {
			return fmt.Errorf("window %d has no title", i)
		}
	}
	return nil
}
