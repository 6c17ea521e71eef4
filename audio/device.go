package audio

import "fmt"

// Output drives a render callback against an audio device. Stop pauses the
// device but keeps it usable; Close releases it.
type Output interface {
	Start() error
	Stop() error
	Close() error
}

// RenderFunc fills one planar stereo buffer. Both channels have the same
// length, never more than the configured buffer size.
type RenderFunc func(out [][]float32)

func newOutput(cfg Config, render RenderFunc) (Output, error) {
	switch cfg.Backend {
	case BackendPortAudio:
		return newPortAudioOutput(cfg, render)
	case BackendOto:
		return newOtoOutput(cfg, render)
	case BackendNone:
		return newHeadlessOutput(cfg, render), nil
	default:
		return nil, fmt.Errorf("unknown audio backend: %s", cfg.Backend)
	}
}
