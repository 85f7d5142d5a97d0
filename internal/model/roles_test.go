package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeControlType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Edit", "Edit"},
		{"edit", "Edit"},
		{" Button ", "Button"},
		{"MenuItem", "MenuItem"},
		{"AXTextField", "Edit"},
		{"AXTextArea", "Edit"},
		{"AXButton", "Button"},
		{"AXWebArea", "Document"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeControlType(tt.input))
		})
	}
}

func TestNormalizeControlType_UnknownPassesThrough(t *testing.T) {
	for _, raw := range []string{"Slider", "AXProgressIndicator", "SomethingElse"} {
		assert.Equal(t, raw, NormalizeControlType(raw))
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
	}{
		{"text_input", RoleTextInput},
		{"input", RoleTextInput},
		{"send_control", RoleSendControl},
		{"send_button", RoleSendControl},
		{"SEND", RoleSendControl},
		{"new_session", RoleNewSession},
		{"new_conversation", RoleNewSession},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseRole("scrollbar")
	assert.Error(t, err)
}

func TestRole_IsControl(t *testing.T) {
	assert.False(t, RoleTextInput.IsControl())
	assert.True(t, RoleSendControl.IsControl())
	assert.True(t, RoleNewSession.IsControl())
}
