// ABOUTME: Action bindings from named actions to controller buttons
// ABOUTME: Loaded from YAML lists of button names
package input

import (
	"fmt"
	"sort"

	"github.com/Resonate-Protocol/chime/pkg/input/controller"
	"gopkg.in/yaml.v3"
)

// Bindings maps an action name to the buttons that trigger it on any controller
type Bindings map[string][]controller.Button

// ActionsFor returns the actions bound to b, sorted by name
func (b Bindings) ActionsFor(button controller.Button) []string {
	var actions []string
	for action, buttons := range b {
		for _, bound := range buttons {
			if bound == button {
				actions = append(actions, action)
				break
			}
		}
	}
	sort.Strings(actions)
	return actions
}

// Actions returns every bound action name, sorted
func (b Bindings) Actions() []string {
	actions := make([]string, 0, len(b))
	for action := range b {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

// UnmarshalYAML reads a mapping of action names to lists of button names:
//
//	jump: [a]
//	fire: [right_shoulder, x]
func (b *Bindings) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string][]string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	out := make(Bindings, len(raw))
	for action, names := range raw {
		buttons := make([]controller.Button, 0, len(names))
		for _, name := range names {
			button, err := controller.ParseButton(name)
			if err != nil {
				return fmt.Errorf("binding %q: %w", action, err)
			}
			buttons = append(buttons, button)
		}
		out[action] = buttons
	}
	*b = out
	return nil
}

// MarshalYAML writes bindings in the form UnmarshalYAML reads
func (b Bindings) MarshalYAML() (interface{}, error) {
	raw := make(map[string][]string, len(b))
	for action, buttons := range b {
		names := make([]string, len(buttons))
		for i, button := range buttons {
			names[i] = button.String()
		}
		raw[action] = names
	}
	return raw, nil
}
