package audio

import (
	"math"
	"sync/atomic"
)

type envelopeState int

const (
	stateIdle envelopeState = iota
	stateAttack
	stateDecay
	stateSustain
	stateRelease
)

// envelope is the amplitude contour of a single oscillator. There are knobs
// for attack, decay and sustain only: the release leg reuses the decay time.
// Parameters and the step sizes derived from them live in atomics, making
// knob turns apply mid note. val, state and releaseStep belong to the render
// thread.
type envelope struct {
	attack  atomicFloat
	decay   atomicFloat
	sustain atomicFloat

	attackStep atomicFloat
	decayStep  atomicFloat

	sampleInterval float64

	val         float64
	state       envelopeState
	releaseStep float64
}

func newEnvelope(cfg Config, attack, decay, sustain float64) *envelope {
	e := &envelope{sampleInterval: cfg.sampleInterval()}
	e.setAttack(attack)
	e.setDecay(decay)
	e.setSustain(sustain)
	return e
}

// value advances the envelope by one sample and returns the amplitude
// coefficient in [0, 1]. The attack peaks at exactly 1 before decaying.
func (e *envelope) value() float64 {
	switch e.state {
	case stateAttack:
		e.val += e.attackStep.load()
		if e.val >= 1 {
			e.val = 1
			e.state = stateDecay
		}
	case stateDecay:
		sustain := e.sustain.load()
		e.val -= e.decayStep.load()
		if e.val <= sustain {
			e.val = sustain
			e.state = stateSustain
		}
	case stateSustain:
		// hold until startRelease
	case stateRelease:
		e.val -= e.releaseStep
		if e.val <= 0 {
			e.val = 0
			e.state = stateIdle
		}
	case stateIdle:
		e.val = 0
	}
	return e.val
}

// startAttack restarts the contour from silence with the current settings.
func (e *envelope) startAttack() {
	e.val = 0
	e.state = stateAttack
}

// startRelease computes the release step once, from the amplitude at release
// time. Calling it on an envelope that is already releasing does nothing, a
// second key-up must not speed up the fade.
func (e *envelope) startRelease() {
	if e.state == stateRelease {
		return
	}
	if decay := e.decay.load(); decay > 0 {
		e.releaseStep = e.val * e.sampleInterval / decay
	} else {
		e.releaseStep = 1
	}
	e.state = stateRelease
}

func (e *envelope) setAttack(t float64) {
	e.attack.store(t)
	if t <= 0 {
		// instant attack: one step to full level
		e.attackStep.store(1)
		return
	}
	e.attackStep.store(e.sampleInterval / t)
}

func (e *envelope) setDecay(t float64) {
	e.decay.store(t)
	e.decayStep.store(e.decayStepFor(t, e.sustain.load()))
}

func (e *envelope) setSustain(level float64) {
	e.sustain.store(level)
	e.decayStep.store(e.decayStepFor(e.decay.load(), level))
}

func (e *envelope) decayStepFor(t, sustain float64) float64 {
	if t <= 0 {
		return 1
	}
	return (1 - sustain) * e.sampleInterval / t
}

// atomicFloat is a float64 with atomic load and store.
type atomicFloat struct{ bits atomic.Uint64 }

func (f *atomicFloat) load() float64   { return math.Float64frombits(f.bits.Load()) }
func (f *atomicFloat) store(v float64) { f.bits.Store(math.Float64bits(v)) }
