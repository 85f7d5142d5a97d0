package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunError_ErrorIncludesCause(t *testing.T) {
	err := ErrLaunchFailed.WithCause(errors.New("exec: not found"))
	assert.Equal(t, "failed to launch target application: exec: not found", err.Error())
	assert.Equal(t, "window not found", ErrWindowNotFound.Error())
}

func TestRunError_IsMatchesKind(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("connect: %w", ErrWindowNotFound.WithCause(cause).WithMessage("no window matching ^Copilot"))

	assert.True(t, errors.Is(err, ErrWindowNotFound))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrLaunchFailed))

	var re *RunError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, "no window matching ^Copilot", re.Message)
}

func TestRunError_CopiesDoNotMutateSentinel(t *testing.T) {
	_ = ErrElementNotFound.WithMessage("text_input not found")
	assert.Equal(t, "element not found", ErrElementNotFound.Message)
	assert.Nil(t, ErrElementNotFound.Cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindActivationFailed, KindOf(fmt.Errorf("msg 3: %w", ErrActivationFailed)))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnexpected, KindOf(nil))
}

func TestErrorKind_Fatal(t *testing.T) {
	for _, k := range []ErrorKind{KindWindowNotFound, KindWindowValidationFailed, KindLaunchFailed} {
		assert.True(t, k.Fatal(), k)
	}
	for _, k := range []ErrorKind{KindElementNotFound, KindElementNotReady, KindActivationFailed, KindDiscoveryUnavailable, KindCancelled, KindUnexpected} {
		assert.False(t, k.Fatal(), k)
	}
}

func TestRunResult_ExitCode(t *testing.T) {
	assert.Equal(t, 0, RunResult{Succeeded: 3, Total: 3}.ExitCode())
	assert.Equal(t, 0, RunResult{Succeeded: 1, Total: 3}.ExitCode())
	assert.Equal(t, 1, RunResult{Succeeded: 0, Total: 3}.ExitCode())
	assert.Equal(t, 1, RunResult{Succeeded: 2, Total: 3, Error: "run cancelled"}.ExitCode())
}
