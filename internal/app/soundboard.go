// ABOUTME: Soundboard application orchestration
// ABOUTME: Loads sounds, routes controller events through the input handler, and plays triggers
package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/chime/internal/config"
	"github.com/Resonate-Protocol/chime/internal/ui"
	"github.com/Resonate-Protocol/chime/pkg/audio"
	"github.com/Resonate-Protocol/chime/pkg/audio/decode"
	"github.com/Resonate-Protocol/chime/pkg/audio/output"
	"github.com/Resonate-Protocol/chime/pkg/input"
	"github.com/Resonate-Protocol/chime/pkg/input/controller"
	"go.uber.org/zap"
)

// Sound is a loaded, validated sound
type Sound struct {
	Name   string
	Source audio.Source
	Format audio.Format
	Volume float32
	Repeat uint16
}

// Soundboard plays configured sounds when bound actions are pressed
type Soundboard struct {
	cfg     *config.Config
	output  *output.Output
	handler *input.Handler
	sounds  map[string]*Sound
	logger  *zap.SugaredLogger
	status  func(ui.StatusMsg)

	mu     sync.Mutex
	master float32
	muted  bool

	plays atomic.Int64
}

// Options configures a Soundboard
type Options struct {
	Logger *zap.SugaredLogger

	// OnStatus receives UI updates; nil drops them
	OnStatus func(ui.StatusMsg)
}

// LoadSounds reads and validates every configured sound
func LoadSounds(cfg *config.Config, logger *zap.SugaredLogger) (map[string]*Sound, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	sounds := make(map[string]*Sound, len(cfg.Sounds))
	for name, sc := range cfg.Sounds {
		path, err := cfg.SoundPath(name)
		if err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read sound %q: %w", name, err)
		}

		buf, err := decode.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("sound %q (%s): %w", name, path, err)
		}

		sounds[name] = &Sound{
			Name:   name,
			Source: audio.NewSource(data),
			Format: buf.Format,
			Volume: sc.Volume,
			Repeat: sc.Repeat,
		}
		logger.Infow("Loaded sound", "name", name, "codec", buf.Format.Codec,
			"rate", buf.Format.SampleRate, "channels", buf.Format.Channels,
			"duration", buf.Duration())
	}

	return sounds, nil
}

// New creates a soundboard playing sounds on out
func New(cfg *config.Config, sounds map[string]*Sound, out *output.Output, opts Options) *Soundboard {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	status := opts.OnStatus
	if status == nil {
		status = func(ui.StatusMsg) {}
	}

	return &Soundboard{
		cfg:     cfg,
		output:  out,
		handler: input.NewHandler(cfg.Bindings, logger),
		sounds:  sounds,
		logger:  logger.Named("soundboard"),
		status:  status,
		master:  1.0,
	}
}

// Run routes controller events from every source until ctx is done or all
// sources are closed
func (s *Soundboard) Run(ctx context.Context, sources ...<-chan controller.Event) {
	merged := make(chan controller.Event)

	var wg sync.WaitGroup
	for _, src := range sources {
		if src == nil {
			continue
		}
		wg.Add(1)
		go func(src <-chan controller.Event) {
			defer wg.Done()
			for {
				select {
				case ev, ok := <-src:
					if !ok {
						return
					}
					select {
					case merged <- ev:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}(src)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	for {
		select {
		case ev, ok := <-merged:
			if !ok {
				return
			}
			s.HandleController(ev)
		case <-ctx.Done():
			return
		}
	}
}

// HandleController converts a raw controller event and plays any sound its
// actions trigger
func (s *Soundboard) HandleController(ev controller.Event) {
	for _, derived := range s.handler.Handle(input.FromController(ev)) {
		if pressed, ok := derived.(input.ActionPressed); ok {
			s.Trigger(pressed.Action)
		}
	}

	switch ev.(type) {
	case controller.Connected, controller.Disconnected:
		s.status(ui.StatusMsg{Controllers: s.handler.Controllers()})
	}
}

// Trigger plays the sound bound to action, reporting whether one was bound
func (s *Soundboard) Trigger(action string) bool {
	name, ok := s.cfg.Triggers[action]
	if !ok {
		return false
	}
	sound, ok := s.sounds[name]
	if !ok {
		s.logger.Warnw("Trigger refers to a sound that was not loaded", "action", action, "sound", name)
		return false
	}

	volume := sound.Volume * s.masterVolume()
	s.logger.Debugw("Playing sound", "action", action, "sound", name,
		"volume", volume, "repeat", sound.Repeat)

	s.output.PlayNTimes(sound.Source, volume, sound.Repeat)
	s.plays.Add(1)
	s.status(ui.StatusMsg{Played: name})
	return true
}

// SetVolume sets the master volume in percent and the mute state
func (s *Soundboard) SetVolume(percent int, muted bool) {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	s.mu.Lock()
	s.master = float32(percent) / 100
	s.muted = muted
	s.mu.Unlock()

	s.logger.Infow("Volume change", "volume", percent, "muted", muted)
}

func (s *Soundboard) masterVolume() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.muted {
		return 0
	}
	return s.master
}

// Plays returns how many sounds have been triggered
func (s *Soundboard) Plays() int64 {
	return s.plays.Load()
}

// Controllers returns the connected controller ids
func (s *Soundboard) Controllers() []uint32 {
	return s.handler.Controllers()
}

// Rows describes each sound for the UI, sorted by name
func (s *Soundboard) Rows() []ui.SoundRow {
	triggeredBy := make(map[string]string, len(s.cfg.Triggers))
	for action, sound := range s.cfg.Triggers {
		if prev, ok := triggeredBy[sound]; !ok || action < prev {
			triggeredBy[sound] = action
		}
	}

	rows := make([]ui.SoundRow, 0, len(s.sounds))
	for _, name := range s.SoundNames() {
		row := ui.SoundRow{Name: name, Action: "-"}
		if action, ok := triggeredBy[name]; ok {
			row.Action = action
			names := make([]string, 0, len(s.cfg.Bindings[action]))
			for _, b := range s.cfg.Bindings[action] {
				names = append(names, b.String())
			}
			row.Buttons = strings.Join(names, ", ")
		}
		rows = append(rows, row)
	}
	return rows
}

// SoundNames returns loaded sound names, sorted
func (s *Soundboard) SoundNames() []string {
	names := make([]string, 0, len(s.sounds))
	for name := range s.sounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
