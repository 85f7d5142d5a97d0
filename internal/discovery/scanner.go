package discovery

import (
	"context"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
	"go.uber.org/zap"
)

// Scan walks every descendant of root in pre-order, classifies each node for
// all three roles and ranks the lists once the walk is over. A failed child
// enumeration or an expired context ends the walk early; whatever was
// collected is returned with Partial set.
func Scan(ctx context.Context, root platform.Node, logger *zap.Logger) *model.DiscoveryResult {
	logger = logger.Named("scan")
	result := model.NewDiscoveryResult()
	if w, ok := root.(interface{ Title() string }); ok {
		result.Window = w.Title()
	}

	var walk func(n platform.Node, depth int) bool
	walk = func(n platform.Node, depth int) bool {
		if err := ctx.Err(); err != nil {
			logger.Debug("scan interrupted", zap.Error(err), zap.Int("elements", result.TotalElements))
			result.Partial = true
			return false
		}
		kids, err := n.Children()
		if err != nil {
			logger.Warn("child enumeration failed, keeping partial results",
				zap.Int("depth", depth), zap.Error(err))
			result.Partial = true
			return false
		}
		for _, kid := range kids {
			result.TotalElements++
			if attrs, err := kid.Info(); err != nil {
				logger.Debug("skipping unreadable element", zap.Int("depth", depth+1), zap.Error(err))
				result.Partial = true
			} else {
				classify(result, attrs)
			}
			if !walk(kid, depth+1) {
				return false
			}
		}
		return true
	}
	walk(root, 0)

	result.Rank()
	logger.Debug("scan complete",
		zap.Int("elements", result.TotalElements),
		zap.Bool("partial", result.Partial),
		zap.Int("text_input", len(result.TextInput)),
		zap.Int("send_control", len(result.SendControl)),
		zap.Int("new_session", len(result.NewSession)))
	return result
}

func classify(result *model.DiscoveryResult, attrs model.Attributes) {
	for _, role := range model.Roles {
		c := Classify(attrs, role)
		if !c.Match {
			continue
		}
		result.Add(role, model.Candidate{
			AutomationID: attrs.AutomationID,
			Title:        attrs.Title,
			ControlType:  model.NormalizeControlType(attrs.ControlType),
			ClassName:    attrs.ClassName,
			Bounds:       attrs.Bounds,
			Score:        c.Score,
			Reasons:      c.Reasons,
		})
	}
}

// InProcess runs Scan on the caller's goroutine.
type InProcess struct {
	Logger *zap.Logger
}

// Discover implements the locator's discoverer.
func (d InProcess) Discover(ctx context.Context, win platform.Window) (*model.DiscoveryResult, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return Scan(ctx, win, logger), nil
}
