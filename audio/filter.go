package audio

import "math"

type stageKind int

const (
	kindLowPass stageKind = iota
	kindWideBandPass
)

// stage is one step in an output chain. kind tags the concrete filter shape,
// letting owners pick a stage out of a chain without reflection.
type stage interface {
	kind() stageKind
	process(buf []float64)
}

type filterMode int

const (
	modeLowPass filterMode = iota
	modeHighPass
)

const (
	numCoefficients = 5
	filterQ         = 1

	// cutoff clamps that keep the poles stable
	minCutoff         = 10.0
	maxCutoffFraction = 0.45
)

// filterNode is a two-pole filter section whose frequency is a schedulable
// param. Coefficients are recomputed only when the frequency moves.
type filterNode struct {
	mode         filterMode
	freq         *param
	coefficients []float64
	sampleRate   float64
	lastFreq     float64

	// state
	y1, y2 float64 // y[n-1] y[n-2]
}

func newFilterNode(cfg Config, mode filterMode, freq float64) *filterNode {
	f := &filterNode{
		mode:         mode,
		freq:         newParam(cfg, freq),
		coefficients: make([]float64, numCoefficients),
		sampleRate:   float64(cfg.SampleRate),
	}
	f.calculateCoefficients(freq)
	return f
}

func (f *filterNode) processSample(in float64) float64 {
	if freq := f.freq.step(); freq != f.lastFreq {
		f.calculateCoefficients(freq)
	}
	out := f.coefficients[0]*in + f.y1
	f.y1 = f.coefficients[1]*in - f.coefficients[3]*out + f.y2
	f.y2 = f.coefficients[2]*in - f.coefficients[4]*out
	return out
}

// Coefficients based on https://www.w3.org/2011/audio/audio-eq-cookbook.html
func (f *filterNode) calculateCoefficients(freq float64) {
	f.lastFreq = freq
	if max := maxCutoffFraction * f.sampleRate; freq > max {
		freq = max
	}
	if freq < minCutoff {
		freq = minCutoff
	}

	omega := 2 * math.Pi * freq / f.sampleRate
	cos := math.Cos(omega)
	sin := math.Sin(omega)
	alpha := sin / (2. * filterQ)

	var b0, b1, b2 float64
	switch f.mode {
	case modeLowPass:
		b0 = (1 - cos) / 2
		b1 = 1 - cos
		b2 = b0
	case modeHighPass:
		b0 = (1 + cos) / 2
		b1 = -(1 + cos)
		b2 = b0
	}
	a0 := 1 + alpha
	a1 := -2 * cos
	a2 := 1 - alpha

	f.coefficients[0] = b0 / a0
	f.coefficients[1] = b1 / a0
	f.coefficients[2] = b2 / a0
	f.coefficients[3] = a1 / a0
	f.coefficients[4] = a2 / a0
}

const (
	bandPassLowEdge  = 20.0
	bandPassHighEdge = 16000.0
)

// wideBandPass keeps the summed output inside the audible band: a high-pass
// edge strips DC and rumble, a low-pass edge strips fizz above 16 kHz.
type wideBandPass struct {
	high, low *filterNode
}

func newWideBandPass(cfg Config) *wideBandPass {
	return &wideBandPass{
		high: newFilterNode(cfg, modeHighPass, bandPassLowEdge),
		low:  newFilterNode(cfg, modeLowPass, bandPassHighEdge),
	}
}

func (w *wideBandPass) kind() stageKind { return kindWideBandPass }

func (w *wideBandPass) process(buf []float64) {
	for n := range buf {
		buf[n] = w.low.processSample(w.high.processSample(buf[n]))
	}
}
