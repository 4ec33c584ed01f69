// ABOUTME: Malgo-based output stream for explicit device selection
// ABOUTME: Uses miniaudio via malgo with a software mixer in the data callback
package output

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/chime/pkg/audio"
	"github.com/gen2brain/malgo"
	"go.uber.org/zap"
)

// malgoStream renders a Mixer on a miniaudio playback device
type malgoStream struct {
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	mixer    *Mixer
	format   audio.Format
	name     string
	logger   *zap.SugaredLogger

	lost atomic.Bool

	mu     sync.RWMutex
	closed bool
}

// openMalgo opens a playback device. An empty deviceName selects the system default.
func openMalgo(deviceName string, sampleRate, channels int, logger *zap.SugaredLogger) (*malgoStream, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	s := &malgoStream{
		malgoCtx: ctx,
		mixer:    NewMixer(),
		format:   streamFormat(sampleRate, channels),
		name:     defaultDeviceName,
		logger:   logger,
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	var infos []malgo.DeviceInfo
	if deviceName != "" {
		infos, err = ctx.Devices(malgo.Playback)
		if err != nil {
			s.freeContext()
			return nil, fmt.Errorf("failed to query playback devices: %w", err)
		}

		found := false
		for i := range infos {
			if infos[i].Name() != deviceName {
				continue
			}
			deviceConfig.Playback.DeviceID = infos[i].ID.Pointer()
			s.name = infos[i].Name()
			found = true
			break
		}
		if !found {
			s.freeContext()
			return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceName)
		}
		if s.name == "" {
			s.name = unknownDeviceName
		}
	}

	frameBytes := channels * 2
	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutput, _ []byte, frameCount uint32) {
			s.mixer.Read(pOutput[:int(frameCount)*frameBytes])
		},
		Stop: func() {
			s.lost.Store(true)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		s.freeContext()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		s.freeContext()
		return nil, fmt.Errorf("failed to start device: %w", err)
	}
	s.device = device

	logger.Infow("Audio output initialized", "backend", "malgo", "device", s.name,
		"sampleRate", sampleRate, "channels", channels)

	return s, nil
}

// NewPlayer adds a voice to the device mixer
func (s *malgoStream) NewPlayer(r io.Reader) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStreamClosed
	}
	if s.lost.Load() {
		return nil, fmt.Errorf("%w: %s", ErrDeviceLost, s.name)
	}
	return s.mixer.NewPlayer(r), nil
}

// Format returns the stream PCM layout
func (s *malgoStream) Format() audio.Format {
	return s.format
}

// Name returns the device name
func (s *malgoStream) Name() string {
	return s.name
}

// Close stops the device and frees the malgo context
func (s *malgoStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.device != nil {
		if err := s.device.Stop(); err != nil {
			s.logger.Warnw("Device stop error", "device", s.name, "error", err)
		}
		s.device.Uninit()
		s.device = nil
	}
	s.freeContext()

	s.logger.Debugw("Audio output closed", "backend", "malgo", "device", s.name)
	return nil
}

// freeContext releases the malgo context
func (s *malgoStream) freeContext() {
	if s.malgoCtx == nil {
		return
	}
	if err := s.malgoCtx.Uninit(); err != nil {
		s.logger.Warnw("Malgo context uninit error", "error", err)
	}
	s.malgoCtx.Free()
	s.malgoCtx = nil
}
