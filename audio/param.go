package audio

import "math"

type rampKind int

const (
	rampLinear rampKind = iota
	rampExponential
)

type rampSegment struct {
	kind     rampKind
	from, to float64
	duration float64 // seconds
	pos      float64 // seconds into the segment
}

// param is a scalar with sample-accurate ramp scheduling: set a value
// immediately, or queue linear and exponential ramps that play back to back.
// It belongs to the render thread; control code reaches it through the
// owner's event queue. Scheduling happens on key edges, never per sample, so
// the segment queue stays within its initial capacity.
type param struct {
	value          float64
	sampleInterval float64
	segments       []rampSegment
}

func newParam(cfg Config, value float64) *param {
	return &param{
		value:          value,
		sampleInterval: cfg.sampleInterval(),
		segments:       make([]rampSegment, 0, 4),
	}
}

// set applies a value immediately and drops any scheduled ramps.
func (p *param) set(v float64) {
	p.cancel()
	p.value = v
}

func (p *param) cancel() {
	p.segments = p.segments[:0]
}

func (p *param) linearRampTo(target, duration float64) {
	p.schedule(rampLinear, target, duration)
}

// exponentialRampTo queues a constant-ratio ramp. Both the current value and
// the target must be positive.
func (p *param) exponentialRampTo(target, duration float64) {
	p.schedule(rampExponential, target, duration)
}

func (p *param) schedule(kind rampKind, target, duration float64) {
	from := p.value
	if n := len(p.segments); n > 0 {
		from = p.segments[n-1].to
	}
	p.segments = append(p.segments, rampSegment{
		kind:     kind,
		from:     from,
		to:       target,
		duration: duration,
	})
}

// step advances one sample and returns the current value. A segment with a
// non-positive duration jumps straight to its target.
func (p *param) step() float64 {
	if len(p.segments) == 0 {
		return p.value
	}
	seg := &p.segments[0]
	seg.pos += p.sampleInterval
	if seg.pos >= seg.duration {
		p.value = seg.to
		p.segments = p.segments[:copy(p.segments, p.segments[1:])]
		return p.value
	}
	frac := seg.pos / seg.duration
	switch seg.kind {
	case rampLinear:
		p.value = seg.from + (seg.to-seg.from)*frac
	case rampExponential:
		p.value = seg.from * math.Pow(seg.to/seg.from, frac)
	}
	return p.value
}
