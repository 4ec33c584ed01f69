// ABOUTME: Soundboard configuration loaded from YAML
// ABOUTME: Sounds, action bindings, triggers, output device and bridge settings
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Resonate-Protocol/chime/pkg/audio/output"
	"github.com/Resonate-Protocol/chime/pkg/input"
	"gopkg.in/yaml.v3"
)

// DefaultBridgePort is where the controller bridge listens unless configured
const DefaultBridgePort = 8928

// Config represents the soundboard configuration
type Config struct {
	// Sounds by name
	Sounds map[string]Sound `yaml:"sounds"`

	// Action name to controller buttons
	Bindings input.Bindings `yaml:"bindings"`

	// Action name to the sound it plays
	Triggers map[string]string `yaml:"triggers"`

	Output OutputConfig `yaml:"output"`
	Bridge BridgeConfig `yaml:"bridge"`

	// Directory relative sound paths resolve against
	dir string
}

// Sound is one playable file
type Sound struct {
	Path   string  `yaml:"path"`
	Volume float32 `yaml:"volume"`
	Repeat uint16  `yaml:"repeat"`
}

// OutputConfig selects the audio device
type OutputConfig struct {
	Backend    string `yaml:"backend,omitempty"`
	Device     string `yaml:"device,omitempty"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
}

// BridgeConfig controls the websocket controller bridge
type BridgeConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"`
	Name      string `yaml:"name,omitempty"`
}

// UnmarshalYAML accepts either a mapping or a bare path:
//
//	click: sounds/click.wav
//	horn: {path: sounds/horn.ogg, volume: 0.5, repeat: 2}
func (s *Sound) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = Sound{Path: value.Value, Volume: 1, Repeat: 1}
		return nil
	}

	type plain Sound
	raw := plain{Volume: 1, Repeat: 1}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = Sound(raw)
	return nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Sounds:   map[string]Sound{},
		Bindings: input.Bindings{},
		Triggers: map[string]string{},
		Output: OutputConfig{
			Backend:    output.BackendOto.String(),
			SampleRate: output.DefaultSampleRate,
			Channels:   output.DefaultChannels,
		},
		Bridge: BridgeConfig{
			Enabled:   true,
			Port:      DefaultBridgePort,
			Advertise: true,
		},
	}
}

// LoadConfig loads configuration from file. A missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.dir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every reference in the config resolves
func (c *Config) Validate() error {
	if _, ok := output.ParseBackend(c.Output.Backend); !ok {
		return fmt.Errorf("unknown output backend %q", c.Output.Backend)
	}
	if c.Output.SampleRate <= 0 || c.Output.Channels <= 0 {
		return fmt.Errorf("output needs a positive sample rate and channel count")
	}
	if c.Bridge.Port < 0 || c.Bridge.Port > 65535 {
		return fmt.Errorf("bridge port %d out of range", c.Bridge.Port)
	}
	// port 0 selects the default
	if c.Bridge.Port == 0 {
		c.Bridge.Port = DefaultBridgePort
	}

	for _, name := range sortedKeys(c.Sounds) {
		if c.Sounds[name].Path == "" {
			return fmt.Errorf("sound %q has no path", name)
		}
	}

	for _, action := range sortedKeys(c.Triggers) {
		sound := c.Triggers[action]
		if _, ok := c.Sounds[sound]; !ok {
			return fmt.Errorf("trigger %q refers to unknown sound %q", action, sound)
		}
		if _, ok := c.Bindings[action]; !ok {
			return fmt.Errorf("trigger %q has no binding", action)
		}
	}

	return nil
}

// SoundPath resolves a sound's path relative to the config file
func (c *Config) SoundPath(name string) (string, error) {
	s, ok := c.Sounds[name]
	if !ok {
		return "", fmt.Errorf("sound not found: %s", name)
	}
	if filepath.IsAbs(s.Path) || c.dir == "" {
		return s.Path, nil
	}
	return filepath.Join(c.dir, s.Path), nil
}

// Backend returns the parsed output backend
func (c *Config) Backend() output.Backend {
	b, _ := output.ParseBackend(c.Output.Backend)
	return b
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
