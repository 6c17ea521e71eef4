package audio

import (
	"reflect"
	"testing"
)

// The output chain ends in the safety band-pass.
func TestEngineChain(t *testing.T) {
	cfg := Config{Backend: BackendNone}
	e := NewEngine(cfg, mustSynth(t, cfg))
	if want, got := 1, len(e.chain); want != got {
		t.Fatalf("chain length: want %v, got %v", want, got)
	}
	if want, got := kindWideBandPass, e.chain[0].kind(); want != got {
		t.Errorf("chain stage: want %v, got %v", want, got)
	}
}

func TestEngineOffSilence(t *testing.T) {
	cfg := Config{BufferSize: 64, Backend: BackendNone}
	s := mustSynth(t, cfg)
	e := NewEngine(cfg, s)
	s.KeyDown(0)

	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	for n := range out[0] {
		out[0][n], out[1][n] = 9, 9
	}
	e.process(out)
	for n := range out[0] {
		if out[0][n] != 0 || out[1][n] != 0 {
			t.Fatalf("expected silence while off, got %v/%v at %d", out[0][n], out[1][n], n)
		}
	}
}

func TestEngineUnknownBackend(t *testing.T) {
	cfg := Config{Backend: "tape"}
	s := mustSynth(t, cfg)
	e := NewEngine(cfg, s)
	if err := e.TurnOn(); err == nil {
		t.Error("expected error for an unknown backend")
	}
}

func TestEngineHeadless(t *testing.T) {
	cfg := Config{BufferSize: 64, Backend: BackendNone}
	s := mustSynth(t, cfg)
	e := NewEngine(cfg, s)

	if err := e.TurnOn(); err != nil {
		t.Fatal(err)
	}
	if !e.Enabled() {
		t.Fatal("expected the engine to be on")
	}

	s.KeyDown(3)
	e.out.(*headlessOutput).Pump(1)
	if !s.keyDown {
		t.Error("expected the render callback to apply the key")
	}

	if err := e.TurnOff(); err != nil {
		t.Fatal(err)
	}
	if e.Enabled() {
		t.Error("expected the engine to be off")
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
}

// Two identical voices mixed at half gain equal one voice at full gain.
func TestEngineVoiceSum(t *testing.T) {
	cfg := Config{BufferSize: 64, Backend: BackendNone}

	one := NewEngine(cfg, mustSynth(t, cfg))
	two := NewEngine(cfg, mustSynth(t, cfg), mustSynth(t, cfg))
	for _, e := range []*Engine{one, two} {
		for _, s := range e.synths {
			s.KeyDown(0)
		}
		e.on.Store(true)
	}

	bufOne := [][]float32{make([]float32, 64), make([]float32, 64)}
	bufTwo := [][]float32{make([]float32, 64), make([]float32, 64)}
	for i := 0; i < 4; i++ {
		one.process(bufOne)
		two.process(bufTwo)
	}
	if !reflect.DeepEqual(bufOne, bufTwo) {
		t.Errorf("voice sum mismatch:\nwant: %v\ngot:  %v", bufOne[0][:8], bufTwo[0][:8])
	}
}
