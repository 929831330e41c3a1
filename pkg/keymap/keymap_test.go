package keymap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleKeymap = `
bindings:
  - keystrokes: ctrl-s
    action: workspace.save
  - keystrokes: ctrl-k ctrl-d
    action: editor.duplicate_line
    context: editor
  - keystrokes: escape
    action: menu.cancel
    context: menu
`

func TestLoadBindings(t *testing.T) {
	bindings, err := LoadBindings(strings.NewReader(sampleKeymap))
	require.NoError(t, err)
	require.Len(t, bindings, 3)

	assert.Equal(t, "ctrl-s", bindings[0].Keystrokes)
	assert.Equal(t, "workspace.save", bindings[0].Action)
	assert.Empty(t, bindings[0].Context)

	assert.Equal(t, "ctrl-k ctrl-d", bindings[1].Keystrokes)
	assert.Equal(t, "editor", bindings[1].Context)
}

func TestLoadBindingsRejectsIncomplete(t *testing.T) {
	_, err := LoadBindings(strings.NewReader("bindings:\n  - action: x\n"))
	require.Error(t, err)

	_, err = LoadBindings(strings.NewReader("bindings:\n  - keystrokes: ctrl-a\n"))
	require.Error(t, err)
}

func TestLoadBindingsRejectsBadYAML(t *testing.T) {
	_, err := LoadBindings(strings.NewReader("bindings: [broken"))
	require.Error(t, err)
}
