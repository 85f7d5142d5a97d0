// Package config holds the run configuration and its file persistence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/mj1618/chatstress/internal/corpus"
	"github.com/mj1618/chatstress/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file used when --config is not given.
const DefaultFile = "config.json"

// Config is the full set of run parameters. Field names match the on-disk
// keys of existing configuration files.
type Config struct {
	WindowTitleRegex        string   `json:"window_title_regex"         yaml:"window_title_regex"`
	NumberOfMessages        int      `json:"number_of_messages"         yaml:"number_of_messages"`
	WaitTimeSeconds         float64  `json:"wait_time_seconds"          yaml:"wait_time_seconds"`
	TextInputPatterns       []string `json:"text_input_patterns"        yaml:"text_input_patterns"`
	SendButtonPatterns      []string `json:"send_button_patterns"       yaml:"send_button_patterns"`
	NewConversationPatterns []string `json:"new_conversation_patterns"  yaml:"new_conversation_patterns"`
	SampleMessages          []string `json:"sample_messages"            yaml:"sample_messages"`
	Language                string   `json:"language"                   yaml:"language"`
	Seed                    uint64   `json:"seed"                       yaml:"seed"`

	LaunchCommand    string `json:"launch_command"      yaml:"launch_command"`
	LaunchIfNotFound bool   `json:"launch_if_not_found" yaml:"launch_if_not_found"`

	ConnectTimeoutSeconds         float64 `json:"connect_timeout_seconds"          yaml:"connect_timeout_seconds"`
	RelaunchConnectTimeoutSeconds float64 `json:"relaunch_connect_timeout_seconds" yaml:"relaunch_connect_timeout_seconds"`
	LaunchSettleSeconds           float64 `json:"launch_settle_seconds"            yaml:"launch_settle_seconds"`
	UISettleSeconds               float64 `json:"ui_settle_seconds"                yaml:"ui_settle_seconds"`
	EnabledWaitSeconds            float64 `json:"enabled_wait_seconds"             yaml:"enabled_wait_seconds"`
	DiscoveryTimeoutSeconds       float64 `json:"discovery_timeout_seconds"        yaml:"discovery_timeout_seconds"`
	UseDiscoveryHelper            bool    `json:"use_discovery_helper"             yaml:"use_discovery_helper"`

	LogFile  string `json:"log_file"  yaml:"log_file"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Default returns the stock configuration with a freshly generated corpus.
func Default() *Config {
	c := &Config{
		WindowTitleRegex: `^Copilot.*`,
		NumberOfMessages: 50,
		WaitTimeSeconds:  0.5,
		TextInputPatterns: []string{
			"InputTextBox",
			"CIB-Compose-Box",
			"TextBox",
			"MessageInput",
			"ChatInput",
		},
		SendButtonPatterns: []string{
			"Snakk med Copilot",
			"OldComposerMicButton",
			"SendButton",
			"MicButton",
		},
		NewConversationPatterns: []string{
			"Hjem",
			"HomeButton",
			"Ny samtale",
			"New conversation",
		},
		Language:                      string(corpus.Both),
		Seed:                          1,
		LaunchCommand:                 "explorer.exe ms-copilot://",
		LaunchIfNotFound:              true,
		ConnectTimeoutSeconds:         5,
		RelaunchConnectTimeoutSeconds: 15,
		LaunchSettleSeconds:           10,
		UISettleSeconds:               1,
		EnabledWaitSeconds:            5,
		DiscoveryTimeoutSeconds:       30,
		LogFile:                       "session.log",
		LogLevel:                      "info",
	}
	c.RegenerateMessages()
	return c
}

// RegenerateMessages replaces the corpus with NumberOfMessages generated
// messages in the configured language.
func (c *Config) RegenerateMessages() {
	lang, err := corpus.ParseLanguage(c.Language)
	if err != nil {
		lang = corpus.Both
	}
	c.SampleMessages = corpus.Generate(c.NumberOfMessages, lang, c.Seed)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if c.NumberOfMessages <= 0 {
		errs = append(errs, errors.New("number_of_messages must be positive"))
	}
	if c.WaitTimeSeconds < 0 {
		errs = append(errs, errors.New("wait_time_seconds must be non-negative"))
	}
	if c.WindowTitleRegex == "" {
		errs = append(errs, errors.New("window_title_regex cannot be empty"))
	} else if _, err := regexp.Compile(c.WindowTitleRegex); err != nil {
		errs = append(errs, fmt.Errorf("window_title_regex: %w", err))
	}
	if len(c.TextInputPatterns) == 0 {
		errs = append(errs, errors.New("text_input_patterns cannot be empty"))
	}
	if len(c.SendButtonPatterns) == 0 {
		errs = append(errs, errors.New("send_button_patterns cannot be empty"))
	}
	if len(c.SampleMessages) == 0 {
		errs = append(errs, errors.New("sample_messages cannot be empty"))
	}
	if _, err := corpus.ParseLanguage(c.Language); err != nil {
		errs = append(errs, err)
	}
	if c.LaunchIfNotFound && strings.TrimSpace(c.LaunchCommand) == "" {
		errs = append(errs, errors.New("launch_command is required when launch_if_not_found is set"))
	}
	for _, d := range []struct {
		name  string
		value float64
	}{
		{"connect_timeout_seconds", c.ConnectTimeoutSeconds},
		{"relaunch_connect_timeout_seconds", c.RelaunchConnectTimeoutSeconds},
		{"launch_settle_seconds", c.LaunchSettleSeconds},
		{"ui_settle_seconds", c.UISettleSeconds},
		{"enabled_wait_seconds", c.EnabledWaitSeconds},
		{"discovery_timeout_seconds", c.DiscoveryTimeoutSeconds},
	} {
		if d.value < 0 {
			errs = append(errs, fmt.Errorf("%s must be non-negative", d.name))
		}
	}
	return errors.Join(errs...)
}

// TitlePattern compiles WindowTitleRegex.
func (c *Config) TitlePattern() (*regexp.Regexp, error) {
	return regexp.Compile(c.WindowTitleRegex)
}

// Patterns returns the known patterns configured for role.
func (c *Config) Patterns(role model.Role) []string {
	switch role {
	case model.RoleTextInput:
		return c.TextInputPatterns
	case model.RoleSendControl:
		return c.SendButtonPatterns
	case model.RoleNewSession:
		return c.NewConversationPatterns
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.TextInputPatterns = slices.Clone(c.TextInputPatterns)
	cp.SendButtonPatterns = slices.Clone(c.SendButtonPatterns)
	cp.NewConversationPatterns = slices.Clone(c.NewConversationPatterns)
	cp.SampleMessages = slices.Clone(c.SampleMessages)
	return &cp
}

// Summary is the one-line runtime summary logged at run start.
func (c *Config) Summary() string {
	return fmt.Sprintf("Messages: %d, Interval: %gs, Sample messages: %d",
		c.NumberOfMessages, c.WaitTimeSeconds, len(c.SampleMessages))
}

// Duration accessors.

func (c *Config) WaitTime() time.Duration         { return seconds(c.WaitTimeSeconds) }
func (c *Config) ConnectTimeout() time.Duration   { return seconds(c.ConnectTimeoutSeconds) }
func (c *Config) RelaunchTimeout() time.Duration  { return seconds(c.RelaunchConnectTimeoutSeconds) }
func (c *Config) LaunchSettle() time.Duration     { return seconds(c.LaunchSettleSeconds) }
func (c *Config) UISettle() time.Duration         { return seconds(c.UISettleSeconds) }
func (c *Config) EnabledWait() time.Duration      { return seconds(c.EnabledWaitSeconds) }
func (c *Config) DiscoveryTimeout() time.Duration { return seconds(c.DiscoveryTimeoutSeconds) }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a configuration file on top of the defaults, so keys missing
// from the file keep their default values. Unknown keys are ignored. When
// the file has no sample_messages the corpus is generated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := Default()
	c.SampleMessages = nil
	if isYAML(path) {
		err = yaml.Unmarshal(data, c)
	} else {
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(c.SampleMessages) == 0 {
		c.RegenerateMessages()
	}
	return c, nil
}

// Save writes c to path as indented JSON, or YAML for .yaml/.yml files.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "    ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// LoadOrCreate loads path, writing the defaults there first if it does not
// exist.
func LoadOrCreate(path string) (*Config, bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		c := Default()
		return c, true, c.Save(path)
	}
	c, err := Load(path)
	return c, false, err
}
