// Package discovery scores accessibility nodes against the semantic roles
// and scans window trees into ranked candidate lists.
package discovery

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/mj1618/chatstress/internal/model"
)

// Classification is the verdict for one node and one role.
type Classification struct {
	Match   bool
	Score   int
	Reasons []string
}

// Classify scores attrs as a candidate for role. Rules are additive and each
// one that fires appends a reason. Invisible or disabled nodes never match.
// For the control roles a control-type hit alone is not enough.
func Classify(attrs model.Attributes, role model.Role) Classification {
	rs, ok := rules[role]
	if !ok || !attrs.Visible || !attrs.Enabled {
		return Classification{}
	}

	controlType := model.NormalizeControlType(attrs.ControlType)
	if slices.Contains(rs.excluded, controlType) {
		return Classification{}
	}
	typeHit := slices.Contains(rs.types, controlType)
	if rs.gated && !typeHit {
		return Classification{}
	}

	var c Classification
	add := func(weight int, format string, args ...any) {
		c.Score += weight
		c.Reasons = append(c.Reasons, fmt.Sprintf(format, args...)+fmt.Sprintf(" (+%d)", weight))
	}

	if typeHit {
		add(WeightControlType, "control_type %s", controlType)
	}

	if id := squash(attrs.AutomationID); id != "" {
		for _, f := range rs.fragments {
			if strings.Contains(id, f.text) {
				add(f.weight, "auto_id contains %q", f.text)
				break
			}
		}
	}

	if class := strings.ToLower(attrs.ClassName); class != "" {
		for _, frag := range rs.classes {
			if strings.Contains(class, frag) {
				add(WeightClassName, "class contains %q", frag)
				break
			}
		}
	}

	if title := strings.ToLower(strings.TrimSpace(attrs.Title)); title != "" {
		if p, ok := matchPhrase(title, rs.phrases); ok {
			add(WeightPhrase, "title phrase %q", p)
		} else if k, ok := matchKeyword(title, rs.keywords); ok {
			add(WeightKeyword, "title keyword %q", k)
		}
	}

	if id := attrs.AutomationID; id != "" && containsFold(rs.knownIDs, id) {
		add(WeightKnown, "known auto_id %q", id)
	} else if t := strings.TrimSpace(attrs.Title); t != "" && containsFold(rs.knownTitles, t) {
		add(WeightKnown, "known title %q", t)
	}

	if rs.gated && c.Score <= WeightControlType {
		return Classification{}
	}
	c.Match = c.Score > 0
	if !c.Match {
		return Classification{}
	}
	return c
}

// squash lowercases s and drops separators so "CIB-Compose-Box" and
// "new_conversation" compare as "cibcomposebox" and "newconversation".
func squash(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ', '.':
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// matchPhrase reports the first phrase equal to title, or, for multi-word
// phrases, contained in it.
func matchPhrase(title string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if title == p || (strings.Contains(p, " ") && strings.Contains(title, p)) {
			return p, true
		}
	}
	return "", false
}

// matchKeyword reports the first keyword that equals a word of title.
func matchKeyword(title string, keywords []string) (string, bool) {
	words := strings.FieldsFunc(title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, k := range keywords {
		if slices.Contains(words, k) {
			return k, true
		}
	}
	return "", false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
