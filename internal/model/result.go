package model

// State is a Session Orchestrator state.
type State string

const (
	StateConnecting         State = "connecting"
	StateLaunchingIfMissing State = "launching_if_missing"
	StateValidating         State = "validating"
	StateStartingNewSession State = "starting_new_session"
	StateSendingLoop        State = "sending_loop"
	StateCompleted          State = "completed"
	StateFailed             State = "failed"
)

// MessageOutcome records what happened to one message of the send loop.
type MessageOutcome struct {
	Index  int       `yaml:"index"            json:"index"`
	OK     bool      `yaml:"ok"               json:"ok"`
	Code   ErrorKind `yaml:"code,omitempty"   json:"code,omitempty"`
	Method string    `yaml:"method,omitempty" json:"method,omitempty"`
	Error  string    `yaml:"error,omitempty"  json:"error,omitempty"`
}

// RunResult is the single value produced by one session run.
// Invariant: 0 <= Succeeded <= Total.
type RunResult struct {
	RunID     string           `yaml:"run_id,omitempty"   json:"run_id,omitempty"`
	Succeeded int              `yaml:"succeeded"          json:"succeeded"`
	Total     int              `yaml:"total"              json:"total"`
	Error     string           `yaml:"error,omitempty"    json:"error,omitempty"`
	Code      ErrorKind        `yaml:"code,omitempty"     json:"code,omitempty"`
	State     State            `yaml:"state"              json:"state"`
	Elapsed   string           `yaml:"elapsed,omitempty"  json:"elapsed,omitempty"`
	Messages  []MessageOutcome `yaml:"messages,omitempty" json:"messages,omitempty"`
}

// Failed reports whether the run ended with an error.
func (r RunResult) Failed() bool {
	return r.Error != ""
}

// ExitCode maps the result to a process exit code: 0 for full or partial
// success, 1 when nothing was sent or a fatal error occurred.
func (r RunResult) ExitCode() int {
	if r.Failed() || r.Succeeded == 0 {
		return 1
	}
	return 0
}
