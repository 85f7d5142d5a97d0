package model

import "sort"

// DiscoveryVersion is the version of the DiscoveryResult document exchanged
// with the discovery helper process.
const DiscoveryVersion = 1

// Candidate is a scored snapshot of a node proposed for one role.
type Candidate struct {
	AutomationID string   `yaml:"auto_id"           json:"auto_id"`
	Title        string   `yaml:"title"             json:"title"`
	ControlType  string   `yaml:"control_type"      json:"control_type"`
	ClassName    string   `yaml:"class_name"        json:"class_name"`
	Bounds       [4]int   `yaml:"bounds,flow"       json:"bounds"`
	Score        int      `yaml:"score"             json:"score"`
	Reasons      []string `yaml:"reasons,omitempty" json:"reasons,omitempty"`
}

// Label returns "<auto_id>/<title>", used in locate method descriptions.
func (c Candidate) Label() string {
	return c.AutomationID + "/" + c.Title
}

// DiscoveryResult holds the ranked candidates from one scan.
type DiscoveryResult struct {
	Version       int         `yaml:"version"                 json:"version"`
	Window        string      `yaml:"window,omitempty"        json:"window,omitempty"`
	TotalElements int         `yaml:"total_elements"          json:"total_elements"`
	Partial       bool        `yaml:"partial,omitempty"       json:"partial,omitempty"`
	TextInput     []Candidate `yaml:"text_input_candidates"   json:"text_input_candidates"`
	SendControl   []Candidate `yaml:"send_control_candidates" json:"send_control_candidates"`
	NewSession    []Candidate `yaml:"new_session_candidates"  json:"new_session_candidates"`
}

// NewDiscoveryResult returns an empty result with non-nil candidate lists so
// the JSON form always carries all three keys.
func NewDiscoveryResult() *DiscoveryResult {
	return &DiscoveryResult{
		Version:     DiscoveryVersion,
		TextInput:   []Candidate{},
		SendControl: []Candidate{},
		NewSession:  []Candidate{},
	}
}

// Candidates returns the ranked list for role.
func (r *DiscoveryResult) Candidates(role Role) []Candidate {
	if r == nil {
		return nil
	}
	switch role {
	case RoleTextInput:
		return r.TextInput
	case RoleSendControl:
		return r.SendControl
	case RoleNewSession:
		return r.NewSession
	}
	return nil
}

// Add appends c to role's list in scan order.
func (r *DiscoveryResult) Add(role Role, c Candidate) {
	switch role {
	case RoleTextInput:
		r.TextInput = append(r.TextInput, c)
	case RoleSendControl:
		r.SendControl = append(r.SendControl, c)
	case RoleNewSession:
		r.NewSession = append(r.NewSession, c)
	}
}

// Empty reports whether no role has any candidate.
func (r *DiscoveryResult) Empty() bool {
	return r == nil || len(r.TextInput)+len(r.SendControl)+len(r.NewSession) == 0
}

// Rank sorts every list by descending score. Equal scores keep scan order.
func (r *DiscoveryResult) Rank() {
	RankCandidates(r.TextInput)
	RankCandidates(r.SendControl)
	RankCandidates(r.NewSession)
}

// RankCandidates stable-sorts candidates by descending score.
func RankCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Score > cs[j].Score
	})
}
