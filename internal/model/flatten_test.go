package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenElements_NestedPath(t *testing.T) {
	elements := []Element{
		{
			ControlType: "Window", Title: "Copilot",
			Children: []Element{
				{
					ControlType: "Pane",
					Children: []Element{
						{ControlType: "Edit", AutomationID: "InputTextBox"},
					},
				},
			},
		},
	}
	result := FlattenElements(elements, 0)
	require.Len(t, result, 3)
	assert.Equal(t, "Window", result[0].Path)
	assert.Equal(t, "Window > Pane", result[1].Path)
	assert.Equal(t, "Window > Pane > Edit", result[2].Path)
	assert.Equal(t, 2, result[2].Depth)
	assert.Equal(t, "InputTextBox", result[2].AutomationID)
}

func TestFlattenElements_DepthLimit(t *testing.T) {
	elements := []Element{
		{ControlType: "Window", Children: []Element{
			{ControlType: "Pane", Children: []Element{
				{ControlType: "Button"},
			}},
		}},
	}
	result := FlattenElements(elements, 1)
	require.Len(t, result, 2)
	assert.Equal(t, "Window > Pane", result[1].Path)
}

func TestFlattenElements_UnknownControlTypeSegment(t *testing.T) {
	result := FlattenElements([]Element{{Title: "anon"}}, 0)
	require.Len(t, result, 1)
	assert.Equal(t, "?", result[0].Path)
}

func TestFlattenElements_VisibilityFlags(t *testing.T) {
	result := FlattenElements([]Element{
		{ControlType: "Button", Visible: Bool(false), Enabled: Bool(false)},
		{ControlType: "Button"},
	}, 0)
	require.Len(t, result, 2)
	assert.False(t, result[0].Visible)
	assert.False(t, result[0].Enabled)
	assert.True(t, result[1].Visible)
	assert.True(t, result[1].Enabled)
}

func TestFlattenElements_NoChildren(t *testing.T) {
	assert.Empty(t, FlattenElements(nil, 0))
}
