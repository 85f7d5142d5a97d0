package discovery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const helperModeEnv = "CHATSTRESS_FAKE_HELPER"

// TestHelperProcess is not a real test. It stands in for `chatstress inspect
// --json` when the helper tests re-execute the test binary.
func TestHelperProcess(t *testing.T) {
	mode := os.Getenv(helperModeEnv)
	if mode == "" {
		return
	}
	switch mode {
	case "ok":
		r := model.NewDiscoveryResult()
		r.Window = "Copilot"
		r.TotalElements = 3
		r.Add(model.RoleSendControl, model.Candidate{AutomationID: "SendButton", ControlType: "Button", Score: 30, Reasons: []string{"known auto_id \"SendButton\" (+15)"}})
		data, _ := EncodeResult(r)
		fmt.Println(string(data))
	case "garbage":
		fmt.Println("Traceback (most recent call last):")
	case "version":
		fmt.Println(`{"version": 99, "text_input_candidates": []}`)
	case "fail":
		fmt.Fprintln(os.Stderr, "no window title matches")
		os.Exit(3)
	case "hang":
		time.Sleep(time.Minute)
	}
	os.Exit(0)
}

func fakeHelper(t *testing.T, mode string) *Helper {
	t.Setenv(helperModeEnv, mode)
	return &Helper{
		Path:   os.Args[0],
		Args:   []string{"-test.run=^TestHelperProcess$", "--"},
		Logger: zaptest.NewLogger(t),
	}
}

func TestHelper_DecodesDocument(t *testing.T) {
	_, win := connect(t, rankingTree)
	result, err := fakeHelper(t, "ok").Discover(context.Background(), win)
	require.NoError(t, err)
	assert.Equal(t, model.DiscoveryVersion, result.Version)
	assert.Equal(t, "Copilot", result.Window)
	require.Len(t, result.SendControl, 1)
	assert.Equal(t, 30, result.SendControl[0].Score)
	assert.NotNil(t, result.TextInput)
}

func TestHelper_FailuresAreDiscoveryUnavailable(t *testing.T) {
	_, win := connect(t, rankingTree)
	for _, mode := range []string{"garbage", "version", "fail"} {
		t.Run(mode, func(t *testing.T) {
			_, err := fakeHelper(t, mode).Discover(context.Background(), win)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrDiscoveryUnavailable), "got %v", err)
		})
	}
}

func TestHelper_Timeout(t *testing.T) {
	_, win := connect(t, rankingTree)
	h := fakeHelper(t, "hang")
	h.Timeout = 300 * time.Millisecond

	start := time.Now()
	_, err := h.Discover(context.Background(), win)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDiscoveryUnavailable))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestHelper_MissingExecutable(t *testing.T) {
	_, win := connect(t, rankingTree)
	h := &Helper{Path: "/nonexistent/chatstress-helper"}
	_, err := h.Discover(context.Background(), win)
	assert.True(t, errors.Is(err, model.ErrDiscoveryUnavailable))

	_, err = (&Helper{}).Discover(context.Background(), win)
	assert.True(t, errors.Is(err, model.ErrDiscoveryUnavailable))
}

func TestDecodeResult_RoundTrip(t *testing.T) {
	_, win := connect(t, rankingTree)
	original := Scan(context.Background(), win, zaptest.NewLogger(t))
	data, err := EncodeResult(original)
	require.NoError(t, err)
	decoded, err := DecodeResult(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeResult_RejectsTrailingDocument(t *testing.T) {
	_, err := DecodeResult([]byte(`{"version":1} {"version":1}`))
	assert.True(t, errors.Is(err, model.ErrDiscoveryUnavailable))
}
