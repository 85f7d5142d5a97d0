package discovery

import (
	"context"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
)

// Snapshot copies the live tree under root into elements, descending at most
// maxDepth levels (0 = unlimited). The result is a valid memtree window, so a
// captured desktop can be replayed offline.
func Snapshot(ctx context.Context, root platform.Node, maxDepth int) (model.Element, error) {
	attrs, err := root.Info()
	if err != nil {
		return model.Element{}, err
	}
	el := fromAttributes(attrs)
	if w, ok := root.(interface{ Title() string }); ok && el.Title == "" {
		el.Title = w.Title()
	}
	el.Children, err = snapshotChildren(ctx, root, 1, maxDepth)
	return el, err
}

func snapshotChildren(ctx context.Context, n platform.Node, depth, maxDepth int) ([]model.Element, error) {
	if maxDepth > 0 && depth > maxDepth {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kids, err := n.Children()
	if err != nil {
		return nil, err
	}
	var out []model.Element
	for _, kid := range kids {
		attrs, err := kid.Info()
		if err != nil {
			continue
		}
		el := fromAttributes(attrs)
		el.Children, err = snapshotChildren(ctx, kid, depth+1, maxDepth)
		out = append(out, el)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func fromAttributes(a model.Attributes) model.Element {
	el := model.Element{
		AutomationID: a.AutomationID,
		Title:        a.Title,
		ControlType:  a.ControlType,
		ClassName:    a.ClassName,
		Bounds:       a.Bounds,
	}
	if !a.Visible {
		el.Visible = model.Bool(false)
	}
	if !a.Enabled {
		el.Enabled = model.Bool(false)
	}
	return el
}
