//go:build !cgo

package audio

import "errors"

// The portaudio binding is a cgo package; without cgo the backend cannot be
// linked, so opening it reports an error and the caller falls back (oto needs
// no system audio library at build time).
func newPortAudioOutput(cfg Config, render RenderFunc) (Output, error) {
	return nil, errors.New("portaudio backend requires cgo")
}
