package audio

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/ktye/fft"
)

func TestFilterNodeDCGain(t *testing.T) {
	cfg := Config{SampleRate: 44100}
	f := newFilterNode(cfg, modeLowPass, 1000)

	var out float64
	for i := 0; i < 44100; i++ {
		out = f.processSample(1)
	}
	if math.Abs(out-1) > 0.01 {
		t.Errorf("low-pass DC gain: want about 1, got %v", out)
	}
}

func TestFilterNodeHighPassBlocksDC(t *testing.T) {
	cfg := Config{SampleRate: 44100}
	f := newFilterNode(cfg, modeHighPass, 20)

	var out float64
	for i := 0; i < 44100; i++ {
		out = f.processSample(1)
	}
	if math.Abs(out) > 0.01 {
		t.Errorf("high-pass DC leak: want about 0, got %v", out)
	}
}

func TestWideBandPassStripsDC(t *testing.T) {
	cfg := Config{SampleRate: 44100}
	w := newWideBandPass(cfg)

	buf := make([]float64, 256)
	for i := 0; i < 200; i++ {
		for n := range buf {
			buf[n] = 1
		}
		w.process(buf)
	}
	if out := buf[len(buf)-1]; math.Abs(out) > 0.01 {
		t.Errorf("band-pass DC leak: want about 0, got %v", out)
	}
}

// A 500 Hz two-pole low-pass must pass 100 Hz nearly unchanged and knock
// 8 kHz down by well over 26 dB. The sample rate is chosen so both tones
// land exactly on FFT bins.
func TestFilterNodeAttenuation(t *testing.T) {
	const (
		rate = 40960
		n    = 4096 // bin width 10 Hz
	)
	cfg := Config{SampleRate: rate}
	f := newFilterNode(cfg, modeLowPass, 500)

	in := make([]complex128, n)
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		at := float64(i) / rate
		x := math.Sin(2*math.Pi*100*at) + math.Sin(2*math.Pi*8000*at)
		in[i] = complex(x, 0)
		out[i] = complex(f.processSample(x), 0)
	}

	ft, err := fft.New(n)
	if err != nil {
		t.Fatal(err)
	}
	inSpec := ft.Transform(in)
	outSpec := ft.Transform(out)

	low := cmplx.Abs(outSpec[10]) / cmplx.Abs(inSpec[10])
	high := cmplx.Abs(outSpec[800]) / cmplx.Abs(inSpec[800])
	if low < 0.7 || low > 1.4 {
		t.Errorf("100 Hz gain: want about 1, got %v", low)
	}
	if high > 0.05 {
		t.Errorf("8 kHz gain: want under 0.05, got %v", high)
	}
}

// The cutoff contour runs static cutoff -> contour peak over the attack,
// then settles on the sustain point over the decay and holds there.
func TestLowPassContour(t *testing.T) {
	s := mustSynth(t, Config{SampleRate: 1000})
	setProp(t, s, "lp.cutoff", 500.0)
	setProp(t, s, "lp.contour", 2.0)
	setProp(t, s, "lp.attack", 0.1)
	setProp(t, s, "lp.decay", 0.2)
	setProp(t, s, "lp.sustain", 0.5)

	s.lp.startAttack()
	p := s.lp.ramps[0]
	for i := 0; i < 100; i++ {
		p.step()
	}
	if want, got := 1000.0, p.value; want != got {
		t.Fatalf("contour peak: want %v, got %v", want, got)
	}
	for i := 0; i < 200; i++ {
		p.step()
	}
	if want, got := 750.0, p.value; want != got {
		t.Fatalf("sustain point: want %v, got %v", want, got)
	}
	for i := 0; i < 50; i++ {
		p.step()
	}
	if want, got := 750.0, p.value; want != got {
		t.Fatalf("sustain hold: want %v, got %v", want, got)
	}

	s.lp.reset()
	if want, got := 500.0, p.step(); want != got {
		t.Errorf("after reset: want %v, got %v", want, got)
	}
}

func TestLowPassEngines(t *testing.T) {
	for _, engine := range []string{FilterBiquad, FilterLadder} {
		s, err := NewSynthesizer(Config{Filter: engine})
		if err != nil {
			t.Fatalf("%s: %v", engine, err)
		}
		s.KeyDown(0)
		buf := make([]float64, 256)
		var heard bool
		for i := 0; i < 8; i++ {
			s.fillBlock(buf)
			for _, v := range buf {
				if v != 0 {
					heard = true
				}
			}
		}
		if !heard {
			t.Errorf("%s: no output with a key down", engine)
		}
	}
	if _, err := NewSynthesizer(Config{Filter: "resonator"}); err == nil {
		t.Error("expected error for an unknown filter engine")
	}
}
