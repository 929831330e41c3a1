// Package keymap models key bindings and the contract with the external
// keymap-matching algorithm.
//
// The runtime's only obligations are to load binding declarations, thread
// the ordered stack of active key-context layers through each dispatch, and
// forward the matcher's verdict. The matching algorithm itself (including
// multi-keystroke pending sequences) is external.
package keymap

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-verve/verve/pkg/errors"
)

// Keystroke is one parsed key press, e.g. "ctrl-s" or "escape".
type Keystroke string

// Context is one key-context layer. Layers are pushed as the element tree
// paints, innermost last, and handed to the matcher in that order.
type Context string

// Binding maps a keystroke sequence to an action within a context.
type Binding struct {
	// Keystrokes is the space-separated sequence, e.g. "ctrl-k ctrl-d".
	Keystrokes string `yaml:"keystrokes"`
	// Action is the action name dispatched on a match.
	Action string `yaml:"action"`
	// Context restricts the binding to one context layer; empty matches all.
	Context string `yaml:"context,omitempty"`
}

// Result is the matcher's verdict for one keystroke.
type Result struct {
	// Action is the matched action name, empty when nothing matched.
	Action string
	// Pending reports that the keystrokes so far are a prefix of a longer
	// binding and dispatch should wait for more input.
	Pending bool
}

// Matcher is the external matching algorithm boundary. It consumes the
// ordered active context layers plus the keystroke sequence typed so far and
// returns zero or one matching action plus the pending flag.
type Matcher interface {
	Match(contexts []Context, pending []Keystroke) Result
}

type keymapFile struct {
	Bindings []Binding `yaml:"bindings"`
}

// LoadBindings parses a YAML keymap from r.
func LoadBindings(r io.Reader) ([]Binding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Resource("keymap.LoadBindings", err)
	}
	var file keymapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Resource("keymap.LoadBindings", fmt.Errorf("parse keymap: %w", err))
	}
	for i, b := range file.Bindings {
		if b.Keystrokes == "" || b.Action == "" {
			return nil, errors.Resource("keymap.LoadBindings",
				fmt.Errorf("binding %d: keystrokes and action are required", i))
		}
	}
	return file.Bindings, nil
}

// LoadFile parses a YAML keymap from the named file.
func LoadFile(path string) ([]Binding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Resource("keymap.LoadFile", err)
	}
	defer f.Close()
	return LoadBindings(f)
}
