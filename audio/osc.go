package audio

import (
	"fmt"
	"math"
	"sync/atomic"
)

const (
	// baseFrequency is the pitch of keyboard note 0, a low A.
	baseFrequency = 55.0
	noteOffset    = -4

	// keyboardOffset undoes noteOffset inside the pitch formula, putting the
	// 55 Hz reference on keyboard note 0.
	keyboardOffset = -noteOffset

	// bend range scale factors: roughly a major sixth while the keyboard
	// tracks the oscillator, three octaves while it doesn't
	bendScaleTracking = 5.0 / 3.0
	bendScaleFixed    = 8.0
)

type waveform int

const (
	waveTriangle waveform = iota
	waveShark
	waveRamp
	waveReverseRamp
	waveSquare
	waveFatPulse
	wavePulse
)

var waveformNames = map[string]waveform{
	"triangle": waveTriangle,
	"shark":    waveShark,
	"ramp":     waveRamp,
	"rramp":    waveReverseRamp,
	"square":   waveSquare,
	"fatpulse": waveFatPulse,
	"pulse":    wavePulse,
}

func (w waveform) String() string {
	for name, wave := range waveformNames {
		if wave == w {
			return name
		}
	}
	return "unknown"
}

// level maps progress through one cycle, in [0, 1), to a raw level in
// [-1, 1]. The shark tooth rises over the first quarter cycle and falls over
// the rest; the pulses run at one half, one third and one quarter duty.
func (w waveform) level(progress float64) float64 {
	switch w {
	case waveTriangle:
		switch {
		case progress < 0.25:
			return 4 * progress
		case progress < 0.75:
			return 2 - 4*progress
		default:
			return 4*progress - 4
		}
	case waveShark:
		if progress < 0.25 {
			return 8*progress - 1
		}
		return 1 - (progress-0.25)*(8.0/3.0)
	case waveRamp:
		return 2*progress - 1
	case waveReverseRamp:
		return 1 - 2*progress
	case waveSquare:
		if progress < 0.5 {
			return 1
		}
		return -1
	case waveFatPulse:
		if progress < 1.0/3.0 {
			return 1
		}
		return -1
	case wavePulse:
		if progress < 0.25 {
			return 1
		}
		return -1
	}
	return 0
}

func setWaveform(v interface{}, dest *atomic.Value) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("value is not a string: %v", v)
	}
	w, ok := waveformNames[s]
	if !ok {
		return fmt.Errorf("not a valid waveform type: %v", s)
	}
	dest.Store(w)
	return nil
}

type fillMode int

const (
	// fillClobber overwrites the buffer, fillAdd accumulates into it and
	// fillMix accumulates scaled by the number of audible oscillators.
	fillClobber fillMode = iota
	fillAdd
	fillMix
)

// oscillator produces one waveform voice. The control cells are wired to the
// owning synthesizer's property registry; pitchBend, glideOn and glideTime
// are shared between all oscillators of a voice. Everything below them is
// render-owned.
type oscillator struct {
	wave      *atomic.Value // waveform
	rangeMul  *atomic.Value // float64, octave range multiplier
	volume    *atomic.Value // float64, 0..1
	keyTrack  *atomic.Value // bool
	fmOn      *atomic.Value // bool
	isMod     *atomic.Value // bool
	modLevel  *atomic.Value // float64, 0..1
	pitchBend *atomic.Value // float64, -1..1
	glideOn   *atomic.Value // bool
	glideTime *atomic.Value // float64, seconds

	env            *envelope
	sampleInterval float64

	note      int
	phase     float64
	current   float64 // glide position in Hz
	target    float64
	glideStep float64
	hasPitch  bool

	// modBuf carries the scaled raw level to sibling oscillators, before
	// the envelope and volume are applied
	modBuf []float64
}

func (o *oscillator) setNote(note int) {
	o.note = note
}

// noteFrequency derives the momentary pitch from note, range and tuning
// offset. With keyboard tracking off the note is pinned to 0.
func (o *oscillator) noteFrequency() float64 {
	note := 0
	if o.keyTrack.Load().(bool) {
		note = o.note
	}
	return baseFrequency * o.rangeMul.Load().(float64) * math.Pow(2, float64(note+noteOffset)/12)
}

// bendRatio maps the bend wheel position to a frequency ratio. Positive bend
// multiplies, negative bend divides by the mirrored amount.
func (o *oscillator) bendRatio() float64 {
	bend := o.pitchBend.Load().(float64)
	scale := bendScaleFixed
	if o.keyTrack.Load().(bool) {
		scale = bendScaleTracking
	}
	normalized := math.Abs(bend*(scale-1)) + 1
	if bend >= 0 {
		return normalized
	}
	return 1 / normalized
}

// retarget recomputes the glide target from the current note and bend. The
// per-sample glide step is derived only when the target moves, from the
// remaining distance and the full glide duration.
func (o *oscillator) retarget() {
	target := o.noteFrequency() * o.bendRatio()
	if target == o.target {
		return
	}
	o.target = target
	if !o.hasPitch {
		return
	}
	o.glideStep = (target - o.current) / (o.glideTime.Load().(float64) / o.sampleInterval)
}

// glide advances the pitch one sample toward the target. The first note
// after construction snaps regardless of the glide switch, and so does a
// remainder smaller than one step.
func (o *oscillator) glide(enabled bool) float64 {
	if !enabled || !o.hasPitch {
		o.current = o.target
		o.hasPitch = true
		return o.current
	}
	if math.Abs(o.target-o.current) <= math.Abs(o.glideStep) {
		o.current = o.target
		return o.current
	}
	o.current += o.glideStep
	return o.current
}

// fillBuffer renders len(dst) samples into dst according to mode. The
// modulator signal, when non-nil, must already hold this block's samples:
// callers fill modulator oscillators before carriers.
func (o *oscillator) fillBuffer(dst, modulator []float64, mode fillMode, mixDivisor int) {
	if mixDivisor < 1 {
		mixDivisor = 1
	}
	var (
		wave     = o.wave.Load().(waveform)
		volume   = o.volume.Load().(float64)
		isMod    = o.isMod.Load().(bool)
		modLevel = o.modLevel.Load().(float64)
		glideOn  = o.glideOn.Load().(bool)
		fm       = o.fmOn.Load().(bool) && modulator != nil
		div      = float64(mixDivisor)
	)
	o.retarget()
	for n := range dst {
		coeff := o.env.value()
		freq := o.glide(glideOn)
		if fm {
			freq *= modulator[n]*0.75 + 1.25
		}
		o.phase += o.sampleInterval
		if cycle := 2 / freq; o.phase >= cycle {
			o.phase = math.Mod(o.phase, cycle)
		}
		level := wave.level(o.phase * freq / 2)
		if isMod {
			o.modBuf[n] = level * modLevel
		}
		sample := level * volume * coeff
		switch mode {
		case fillClobber:
			dst[n] = sample
		case fillAdd:
			dst[n] += sample
		case fillMix:
			dst[n] += sample / div
		}
	}
}
