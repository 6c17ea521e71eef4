package audio

import (
	"fmt"
	"log"
	"sync/atomic"
)

const (
	propVolume     = "volume"
	propBend       = "bend"
	propGlide      = "glide.on"
	propGlideTime  = "glide.time"
	propEnvAttack  = "env.attack"
	propEnvDecay   = "env.decay"
	propEnvSustain = "env.sustain"
	propLpCutoff   = "lp.cutoff"
	propLpContour  = "lp.contour"
	propLpAttack   = "lp.attack"
	propLpDecay    = "lp.decay"
	propLpSustain  = "lp.sustain"
)

const (
	maxEnvTime     = 15.0
	defaultAttack  = 0.005
	defaultDecay   = 0.3
	defaultSustain = 0.6
)

var defaultWaveforms = []string{"ramp", "shark", "square"}

// Synthesizer is a monophonic voice: oscillators mixed equally, a dynamic
// low-pass filter and a master volume. The embedded Props handles the scalar
// knobs; key edges travel through the event queue and are applied at block
// boundaries on the render thread.
type Synthesizer struct {
	*Props
	cfg    Config
	events *eventQueue
	oscs   []*oscillator
	lp     *lowPass
	volume *atomic.Value

	// render-owned
	keyDown   bool
	scratch   []float64
	modFlags  []bool
	onKeyDown []func(note int)
	onKeyUp   []func()
}

func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	cfg = cfg.withDefaults()
	lp, err := newLowPass(cfg)
	if err != nil {
		return nil, err
	}
	props := NewProps()
	s := &Synthesizer{
		Props:    props,
		cfg:      cfg,
		events:   newEventQueue(64),
		lp:       lp,
		scratch:  make([]float64, cfg.BufferSize),
		modFlags: make([]bool, 0, cfg.Oscillators),
	}

	s.volume = props.MustRegister(propVolume, setFloat64(0, 1), 0.7)
	bend := props.MustRegister(propBend, setFloat64(-1, 1), 0.0)
	glideOn := props.MustRegister(propGlide, setBool, false)
	glideTime := props.MustRegister(propGlideTime, setFloat64(0, 5), 0.1)

	for n := 0; n < cfg.Oscillators; n++ {
		o := &oscillator{
			env:            newEnvelope(cfg, defaultAttack, defaultDecay, defaultSustain),
			sampleInterval: cfg.sampleInterval(),
			modBuf:         make([]float64, cfg.BufferSize),
			pitchBend:      bend,
			glideOn:        glideOn,
			glideTime:      glideTime,
		}
		id := fmt.Sprintf("osc%d", n+1)
		o.wave = props.MustRegister(id+".wave", setWaveform, defaultWaveforms[n%len(defaultWaveforms)])
		o.rangeMul = props.MustRegister(id+".range", setFloat64(0.125, 8), 1.0)
		o.volume = props.MustRegister(id+".volume", setFloat64(0, 1), 0.8)
		o.keyTrack = props.MustRegister(id+".track", setBool, true)
		o.fmOn = props.MustRegister(id+".fm", setBool, false)
		o.isMod = props.MustRegister(id+".mod", setBool, false)
		o.modLevel = props.MustRegister(id+".modlevel", setFloat64(0, 1), 1.0)
		s.oscs = append(s.oscs, o)
	}

	// the envelope knobs fan out to every oscillator and precompute the
	// per-sample steps on change
	props.MustRegister(propEnvAttack, applyFloat64(0, maxEnvTime, func(t float64) {
		for _, o := range s.oscs {
			o.env.setAttack(t)
		}
	}), defaultAttack)
	props.MustRegister(propEnvDecay, applyFloat64(0, maxEnvTime, func(t float64) {
		for _, o := range s.oscs {
			o.env.setDecay(t)
		}
	}), defaultDecay)
	props.MustRegister(propEnvSustain, applyFloat64(0, 1, func(level float64) {
		for _, o := range s.oscs {
			o.env.setSustain(level)
		}
	}), defaultSustain)

	// any filter knob turn cancels a contour sweep in flight
	resetFilter := func(min, max float64) setter {
		return applyFloat64(min, max, func(float64) {
			s.pushEvent(controlEvent{kind: evFilterReset})
		})
	}
	s.lp.cutoff = props.MustRegister(propLpCutoff, resetFilter(20, bandPassHighEdge), 1000.0)
	s.lp.contour = props.MustRegister(propLpContour, resetFilter(0.25, 4), 2.0)
	s.lp.attack = props.MustRegister(propLpAttack, resetFilter(0, maxEnvTime), 0.1)
	s.lp.decay = props.MustRegister(propLpDecay, resetFilter(0, maxEnvTime), 0.5)
	s.lp.sustain = props.MustRegister(propLpSustain, resetFilter(0, 1), 0.3)

	return s, nil
}

// KeyDown presses a key. Overlapping presses don't restrike: holding a key
// and pressing another glides the pitch while the envelopes keep running.
func (s *Synthesizer) KeyDown(note int) {
	s.pushEvent(controlEvent{kind: evKeyDown, note: note})
}

// KeyUp releases the voice, no matter how many keys were pressed.
func (s *Synthesizer) KeyUp() {
	s.pushEvent(controlEvent{kind: evKeyUp})
}

// OnKeyDown registers an observer called on the render thread each time a
// key goes down. Register before the engine starts; the callback must not
// block.
func (s *Synthesizer) OnKeyDown(fn func(note int)) {
	s.onKeyDown = append(s.onKeyDown, fn)
}

// OnKeyUp registers an observer for key releases, under the same rules as
// OnKeyDown.
func (s *Synthesizer) OnKeyUp(fn func()) {
	s.onKeyUp = append(s.onKeyUp, fn)
}

func (s *Synthesizer) pushEvent(ev controlEvent) {
	if !s.events.push(ev) {
		log.Printf("synth: control event dropped, queue full")
	}
}

func (s *Synthesizer) apply(ev controlEvent) {
	switch ev.kind {
	case evKeyDown:
		for _, o := range s.oscs {
			o.setNote(ev.note + keyboardOffset)
		}
		if !s.keyDown {
			for _, o := range s.oscs {
				o.env.startAttack()
			}
			s.lp.startAttack()
		}
		s.keyDown = true
		for _, fn := range s.onKeyDown {
			fn(ev.note)
		}
	case evKeyUp:
		s.keyDown = false
		for _, o := range s.oscs {
			o.env.startRelease()
		}
		for _, fn := range s.onKeyUp {
			fn()
		}
	case evFilterReset:
		s.lp.reset()
	}
}

// fillBlock renders one block of the voice into dst, overwriting it.
// Modulator oscillators run first over the whole block: frequency modulation
// inside a block reads the modulator signal of the same block, never the
// previous one.
func (s *Synthesizer) fillBlock(dst []float64) {
	s.events.drain(s.apply)

	flags := s.modFlags[:0]
	for _, o := range s.oscs {
		flags = append(flags, o.isMod.Load().(bool))
	}
	var modSignal []float64
	audible := 0
	for i, o := range s.oscs {
		if !flags[i] {
			audible++
			continue
		}
		o.fillBuffer(s.scratch[:len(dst)], nil, fillClobber, 0)
		if modSignal == nil {
			modSignal = o.modBuf[:len(dst)]
		}
	}
	for n := range dst {
		dst[n] = 0
	}
	for i, o := range s.oscs {
		if flags[i] {
			continue
		}
		o.fillBuffer(dst, modSignal, fillMix, audible)
	}
	s.lp.process(dst)
	gain := s.volume.Load().(float64)
	for n := range dst {
		dst[n] *= gain
	}
}
