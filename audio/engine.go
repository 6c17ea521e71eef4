package audio

import (
	"fmt"
	"sync/atomic"
)

// blockSize is the unit of event handling inside a device buffer. 16 samples
// gives about 0.35ms accuracy for key edges and track playback.
const blockSize = 16

// Engine mixes one or more synthesizer voices, runs the summed signal
// through the output chain and feeds the audio backend. The output device is
// opened lazily on the first TurnOn; a machine without audio hardware can
// still render offline.
type Engine struct {
	cfg    Config
	synths []*Synthesizer
	chain  []stage
	rec    *Recorder

	block []float64
	voice []float64

	out Output
	on  atomic.Bool
}

func NewEngine(cfg Config, synths ...*Synthesizer) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:    cfg,
		synths: synths,
		chain:  []stage{newWideBandPass(cfg)},
		block:  make([]float64, blockSize),
		voice:  make([]float64, blockSize),
	}
	if len(synths) > 0 {
		e.rec = newRecorder(synths[0])
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

// Recorder returns the track recorder bound to the first voice, or nil for
// an engine without voices.
func (e *Engine) Recorder() *Recorder { return e.rec }

// Enabled reports whether the engine is producing sound.
func (e *Engine) Enabled() bool { return e.on.Load() }

// TurnOn opens the output device on first use and starts rendering. All
// voice state survives on/off cycles.
func (e *Engine) TurnOn() error {
	if e.out == nil {
		out, err := newOutput(e.cfg, e.process)
		if err != nil {
			return fmt.Errorf("open audio output: %w", err)
		}
		e.out = out
	}
	e.on.Store(true)
	if err := e.out.Start(); err != nil {
		e.on.Store(false)
		return fmt.Errorf("start audio output: %w", err)
	}
	return nil
}

// TurnOff silences the engine and pauses the device without closing it.
func (e *Engine) TurnOff() error {
	e.on.Store(false)
	if e.out == nil {
		return nil
	}
	return e.out.Stop()
}

// Close releases the output device.
func (e *Engine) Close() error {
	e.on.Store(false)
	if e.out == nil {
		return nil
	}
	err := e.out.Close()
	e.out = nil
	return err
}

// process is the render callback. It walks the buffer in blocks: the
// recorder applies due track events, the voices render and sum, and the
// output chain clamps the result to the audible band. Both channels carry
// the same signal.
func (e *Engine) process(out [][]float32) {
	left, right := out[0], out[1]
	if !e.on.Load() {
		for n := range left {
			left[n], right[n] = 0, 0
		}
		return
	}
	scale := 1.0
	if len(e.synths) > 0 {
		scale = 1 / float64(len(e.synths))
	}
	for start := 0; start < len(left); start += blockSize {
		end := start + blockSize
		if end > len(left) {
			end = len(left)
		}
		block := e.block[:end-start]
		for n := range block {
			block[n] = 0
		}
		if e.rec != nil {
			e.rec.tick(len(block))
		}
		for _, s := range e.synths {
			s.fillBlock(e.voice[:len(block)])
			for n := range block {
				block[n] += e.voice[n] * scale
			}
		}
		for _, st := range e.chain {
			st.process(block)
		}
		for n, v := range block {
			sample := float32(v)
			left[start+n], right[start+n] = sample, sample
		}
	}
}
