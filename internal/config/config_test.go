package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mj1618/chatstress/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Len(t, c.SampleMessages, c.NumberOfMessages)
	assert.Equal(t, "InputTextBox", c.TextInputPatterns[0])
	assert.Equal(t, "Snakk med Copilot", c.SendButtonPatterns[0])
	assert.Equal(t, "Hjem", c.NewConversationPatterns[0])
	assert.Equal(t, 5*time.Second, c.ConnectTimeout())
	assert.Equal(t, 500*time.Millisecond, c.WaitTime())
	assert.Equal(t, "Messages: 50, Interval: 0.5s, Sample messages: 50", c.Summary())
}

func TestValidate_CollectsProblems(t *testing.T) {
	c := Default()
	c.NumberOfMessages = 0
	c.WaitTimeSeconds = -1
	c.WindowTitleRegex = "(unclosed"
	c.SendButtonPatterns = nil
	c.EnabledWaitSeconds = -2

	err := c.Validate()
	require.Error(t, err)
	for _, want := range []string{"number_of_messages", "wait_time_seconds", "window_title_regex", "send_button_patterns", "enabled_wait_seconds"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_DurationOrderIsStable(t *testing.T) {
	c := Default()
	c.ConnectTimeoutSeconds = -1
	c.LaunchSettleSeconds = -1
	c.UISettleSeconds = -1
	c.DiscoveryTimeoutSeconds = -1

	want := "connect_timeout_seconds must be non-negative\n" +
		"launch_settle_seconds must be non-negative\n" +
		"ui_settle_seconds must be non-negative\n" +
		"discovery_timeout_seconds must be non-negative"
	for i := 0; i < 20; i++ {
		err := c.Validate()
		require.Error(t, err)
		assert.Equal(t, want, err.Error())
	}
}

func TestValidate_LaunchCommandRequired(t *testing.T) {
	c := Default()
	c.LaunchCommand = ""
	assert.ErrorContains(t, c.Validate(), "launch_command")

	c.LaunchIfNotFound = false
	assert.NoError(t, c.Validate())
}

func TestClone_IsDeep(t *testing.T) {
	c := Default()
	cp := c.Clone()
	cp.TextInputPatterns[0] = "changed"
	cp.SampleMessages[0] = "changed"
	assert.Equal(t, "InputTextBox", c.TextInputPatterns[0])
	assert.NotEqual(t, "changed", c.SampleMessages[0])
}

func TestSaveLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c := Default()
	c.NumberOfMessages = 3
	c.RegenerateMessages()
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestSaveLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := Default()
	c.WindowTitleRegex = `^Teams`
	require.NoError(t, c.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "window_title_regex: ^Teams")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoad_PartialFileKeepsDefaultsAndIgnoresUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"number_of_messages": 4,
		"gui_window_title": "Copilot UI Stress Test Configurator",
		"debug_script_path": "copilot_ui_debug.py"
	}`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, c.NumberOfMessages)
	assert.Len(t, c.SampleMessages, 4)
	assert.Equal(t, `^Copilot.*`, c.WindowTitleRegex)
	assert.NoError(t, c.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, path)

	again, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c, again)
}

func TestPatterns(t *testing.T) {
	c := Default()
	assert.Equal(t, c.TextInputPatterns, c.Patterns(model.RoleTextInput))
	assert.Equal(t, c.SendButtonPatterns, c.Patterns(model.RoleSendControl))
	assert.Equal(t, c.NewConversationPatterns, c.Patterns(model.RoleNewSession))
	assert.Nil(t, c.Patterns(model.Role("scrollbar")))
}
