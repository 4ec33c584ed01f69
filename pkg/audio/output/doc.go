// ABOUTME: Audio output package for playing sounds
// ABOUTME: Provides Output, Sink and the oto and malgo stream backends
// Package output plays decoded sounds on an audio device.
//
// An Output pairs a device name with a handle to an open stream. Each play
// call spawns an independent Sink, queues the source, and detaches the sink so
// it plays to completion in the background.
//
// Two backends are available: oto (system default device) and malgo
// (miniaudio, any named playback device).
//
// Example:
//
//	stream, out, err := output.InitOutput()
//	defer stream.Close()
//
//	if err := out.TryPlayNTimes(src, 0.8, 3); errors.Is(err, output.ErrDecode) {
//	    ...
//	}
//	out.PlayOnce(src, 1.0) // errors are logged
package output
