// Package locator finds a usable node for a semantic role. Known patterns
// are tried first; a discovery scan is only requested once they are
// exhausted.
package locator

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
	"go.uber.org/zap"
)

// Method prefixes reported by Locate.
const (
	MethodKnownPattern     = "known_pattern:"
	MethodDynamicDiscovery = "dynamic_discovery:"
)

// Discoverer produces ranked candidates for a window.
type Discoverer interface {
	Discover(ctx context.Context, win platform.Window) (*model.DiscoveryResult, error)
}

// Locator resolves roles to nodes.
type Locator struct {
	discoverer Discoverer
	timeout    time.Duration
	logger     *zap.Logger
}

// New returns a Locator. A nil discoverer disables the discovery phase;
// timeout bounds each discovery call.
func New(d Discoverer, timeout time.Duration, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{discoverer: d, timeout: timeout, logger: logger.Named("locator")}
}

// Locate returns the first ready node for role and a description of how it
// was found. When nothing is found it returns (nil, ""); that is a miss, not
// an error.
func (l *Locator) Locate(ctx context.Context, win platform.Window, role model.Role, patterns []string) (platform.Node, string) {
	n, method, _ := l.Resolve(ctx, win, role, patterns)
	return n, method
}

// Resolve is Locate with the reason for a miss: ErrElementNotReady when some
// lookup found a node that failed readiness, ErrElementNotFound otherwise.
func (l *Locator) Resolve(ctx context.Context, win platform.Window, role model.Role, patterns []string) (platform.Node, string, error) {
	log := l.logger.With(zap.String("role", string(role)))
	var unready string

	for _, p := range patterns {
		if ctx.Err() != nil {
			return nil, "", miss(role, unready)
		}
		for _, c := range patternLookups(role, p) {
			n, reason := l.try(ctx, log, win, role, c)
			if n != nil {
				log.Debug("located by known pattern", zap.String("pattern", p), zap.Stringer("criteria", c))
				return n, MethodKnownPattern + p, nil
			}
			if reason != "" {
				unready = reason
			}
		}
	}

	if l.discoverer == nil || ctx.Err() != nil {
		return nil, "", miss(role, unready)
	}
	log.Info("known patterns exhausted, running discovery", zap.Int("patterns", len(patterns)))

	dctx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	result, err := l.discoverer.Discover(dctx, win)
	if err != nil {
		log.Warn("discovery failed", zap.Error(err))
		return nil, "", miss(role, unready)
	}
	if result.Empty() {
		log.Warn("discovery returned no data", zap.Int("elements", result.TotalElements), zap.Bool("partial", result.Partial))
		return nil, "", miss(role, unready)
	}
	candidates := result.Candidates(role)
	log.Debug("discovery returned candidates", zap.Int("count", len(candidates)), zap.Bool("partial", result.Partial))

	for _, cand := range candidates {
		if ctx.Err() != nil {
			return nil, "", miss(role, unready)
		}
		for _, c := range candidateLookups(cand) {
			n, reason := l.try(ctx, log, win, role, c)
			if n != nil {
				log.Info("located by discovery",
					zap.String("candidate", cand.Label()),
					zap.Int("score", cand.Score),
					zap.Stringer("criteria", c))
				return n, MethodDynamicDiscovery + cand.Label(), nil
			}
			if reason != "" {
				unready = reason
			}
		}
	}
	log.Warn("no usable element found", zap.Int("candidates", len(candidates)))
	return nil, "", miss(role, unready)
}

func miss(role model.Role, unready string) error {
	if unready != "" {
		return model.ErrElementNotReady.WithMessage(fmt.Sprintf("%s not ready: %s", role, unready))
	}
	return model.ErrElementNotFound.WithMessage(fmt.Sprintf("no usable %s found", role))
}

// try runs one lookup and validates the hit. Misses, ambiguous matches and
// unready nodes all return a nil node; an unready node also returns the
// readiness failure.
func (l *Locator) try(ctx context.Context, log *zap.Logger, win platform.Window, role model.Role, c platform.Criteria) (platform.Node, string) {
	n, err := win.Find(ctx, c)
	if err != nil {
		if !platform.IsNotFound(err) && !platform.IsAmbiguous(err) {
			log.Debug("lookup failed", zap.Stringer("criteria", c), zap.Error(err))
		}
		return nil, ""
	}
	r := Validate(n, role)
	if !r.Ready {
		log.Debug("element not ready", zap.Stringer("criteria", c), zap.String("reason", r.Reason))
		return nil, r.Reason
	}
	if r.Degraded {
		log.Debug("element ready with warnings", zap.Stringer("criteria", c), zap.String("reason", r.Reason))
	}
	return n, ""
}

// patternLookups lists the lookups for one known pattern: identifier first,
// then control type for text inputs or title for controls.
func patternLookups(role model.Role, pattern string) []platform.Criteria {
	if pattern == "" {
		return nil
	}
	lookups := []platform.Criteria{{AutomationID: pattern}}
	if role == model.RoleTextInput {
		lookups = append(lookups, platform.Criteria{ControlType: pattern})
	} else {
		lookups = append(lookups, platform.Criteria{Title: pattern})
	}
	return lookups
}

// candidateLookups lists the lookups for one candidate: every attribute at
// once, then identifier, title and control type alone.
func candidateLookups(cand model.Candidate) []platform.Criteria {
	lookups := []platform.Criteria{platform.CriteriaFromCandidate(cand)}
	if cand.AutomationID != "" {
		lookups = append(lookups, platform.Criteria{AutomationID: cand.AutomationID})
	}
	if cand.Title != "" {
		lookups = append(lookups, platform.Criteria{Title: cand.Title})
	}
	if cand.ControlType != "" {
		lookups = append(lookups, platform.Criteria{ControlType: cand.ControlType})
	}
	out := lookups[:0]
	for _, c := range lookups {
		if !c.IsZero() {
			out = append(out, c)
		}
	}
	return out
}
