package audio

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-dsp/dsp/filter/moog"
)

const (
	defaultCutoff   = 1000.0
	ladderResonance = 0.8
)

// lowPass is the voice filter. Its cutoff runs an attack/decay/sustain
// contour of its own on every fresh key-down, independent of the amplitude
// envelopes. The default engine is a pair of two-pole sections; Config.Filter
// selects a Moog ladder instead.
type lowPass struct {
	// control cells, wired up by the owning synthesizer
	cutoff  *atomic.Value // Hz
	contour *atomic.Value // peak multiplier
	attack  *atomic.Value // seconds
	decay   *atomic.Value // seconds
	sustain *atomic.Value // 0..1

	ramps []*param
	fn    func(float64) float64
}

func newLowPass(cfg Config) (*lowPass, error) {
	lp := &lowPass{}
	switch cfg.Filter {
	case FilterLadder:
		f, err := moog.New(float64(cfg.SampleRate),
			moog.WithVariant(moog.VariantHuovilainen),
			moog.WithCutoffHz(defaultCutoff),
			moog.WithResonance(ladderResonance),
		)
		if err != nil {
			return nil, fmt.Errorf("ladder filter: %w", err)
		}
		freq := newParam(cfg, defaultCutoff)
		last := defaultCutoff
		max := maxCutoffFraction * float64(cfg.SampleRate)
		lp.ramps = []*param{freq}
		lp.fn = func(in float64) float64 {
			if v := freq.step(); v != last {
				last = v
				if v > max {
					v = max
				}
				if v < minCutoff {
					v = minCutoff
				}
				// v is inside the filter's accepted range, SetCutoffHz
				// cannot fail
				_ = f.SetCutoffHz(v)
			}
			return f.ProcessSample(in)
		}
	case FilterBiquad:
		a := newFilterNode(cfg, modeLowPass, defaultCutoff)
		b := newFilterNode(cfg, modeLowPass, defaultCutoff)
		lp.ramps = []*param{a.freq, b.freq}
		lp.fn = func(in float64) float64 {
			return b.processSample(a.processSample(in))
		}
	default:
		return nil, fmt.Errorf("unknown filter engine: %s", cfg.Filter)
	}
	return lp, nil
}

// startAttack schedules the cutoff contour: start from the static cutoff,
// sweep to the contour peak over the attack time, then settle on the sustain
// point over the decay time. The sweep holds there until the next key-down
// or setter call.
func (lp *lowPass) startAttack() {
	cutoff := lp.cutoff.Load().(float64)
	peak := lp.contour.Load().(float64) * cutoff
	sustain := cutoff + lp.sustain.Load().(float64)*(peak-cutoff)
	attack := lp.attack.Load().(float64)
	decay := lp.decay.Load().(float64)
	for _, p := range lp.ramps {
		p.set(cutoff)
		p.exponentialRampTo(peak, attack)
		p.exponentialRampTo(sustain, decay)
	}
}

// reset cancels any sweep in flight and pins the cutoff to its static value.
func (lp *lowPass) reset() {
	for _, p := range lp.ramps {
		p.set(lp.cutoff.Load().(float64))
	}
}

func (lp *lowPass) kind() stageKind { return kindLowPass }

func (lp *lowPass) process(buf []float64) {
	for n := range buf {
		buf[n] = lp.fn(buf[n])
	}
}
