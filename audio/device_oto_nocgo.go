//go:build !cgo && !windows && !darwin && !js && !android

package audio

import "errors"

// oto's unix driver binds ALSA through cgo; on the remaining platforms a
// build without cgo cannot link it, so opening the backend reports an error.
func newOtoOutput(cfg Config, render RenderFunc) (Output, error) {
	return nil, errors.New("oto backend requires cgo on this platform")
}
