package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/youpy/go-wav"
)

// renderTail pads the end of an offline render, giving releasing envelopes
// room to fade out. One second covers the release leg of typical patches.
const renderTail = 1.0 // seconds

// RenderWAV plays track through the engine offline, at full speed, and
// writes the result to path as a 16-bit stereo WAV file. The engine must be
// turned off: rendering borrows the render callback and the recorder.
func RenderWAV(e *Engine, track *Track, path string) error {
	if e.Enabled() {
		return errors.New("turn audio off before rendering")
	}
	if e.rec == nil {
		return errors.New("engine has no voice to render")
	}
	if err := e.rec.Play(track, false); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	total := track.span() + int(renderTail*float64(e.cfg.SampleRate))
	w := wav.NewWriter(f, uint32(total), 2, uint32(e.cfg.SampleRate), 16)

	out := [][]float32{
		make([]float32, e.cfg.BufferSize),
		make([]float32, e.cfg.BufferSize),
	}
	chunk := make([]wav.Sample, e.cfg.BufferSize)

	e.on.Store(true)
	defer e.on.Store(false)

	rendered := 0
	for rendered < total {
		n := e.cfg.BufferSize
		if left := total - rendered; left < n {
			n = left
		}
		buf := [][]float32{out[0][:n], out[1][:n]}
		e.process(buf)
		for i := 0; i < n; i++ {
			chunk[i] = wav.Sample{Values: [2]int{pcm16(buf[0][i]), pcm16(buf[1][i])}}
		}
		if err := w.WriteSamples(chunk[:n]); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
		rendered += n
	}
	return nil
}

func pcm16(v float32) int {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int(v * 32767)
}
