package main

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/hurstgoogle/mog/audio"
	"github.com/hurstgoogle/mog/prog"
)

type fakeDevice struct {
	props map[string]interface{}
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{props: make(map[string]interface{})}
}

func (d *fakeDevice) Set(key string, v interface{}) error {
	d.props[key] = v
	return nil
}

func (d *fakeDevice) Get(key string) (interface{}, error) {
	v, ok := d.props[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return v, nil
}

func TestEvalSetGet(t *testing.T) {
	d := newFakeDevice()
	env := &env{devices: map[string]audio.Device{"s1": d}}

	if _, err := env.eval("set s1 volume 0.5"); err != nil {
		t.Fatal(err)
	}
	if want, got := 0.5, d.props["volume"]; want != got {
		t.Errorf("volume: want %v, got %v", want, got)
	}
	if _, err := env.eval("set s1 osc1.wave shark"); err != nil {
		t.Fatal(err)
	}
	if want, got := "shark", d.props["osc1.wave"]; want != got {
		t.Errorf("wave: want %v, got %v", want, got)
	}

	out, err := env.eval("get s1 volume")
	if err != nil {
		t.Fatal(err)
	}
	if want := "0.5"; want != out {
		t.Errorf("get: want %v, got %v", want, out)
	}

	if _, err := env.eval("set nowhere volume 1"); err == nil {
		t.Error("expected error for an unknown device")
	}
}

func TestEvalErrors(t *testing.T) {
	env := &env{devices: map[string]audio.Device{}}
	for _, input := range []string{
		"warp 1",
		"get s1",
		"set s1 volume",
		"lift 3",
		"play",
		"render",
	} {
		if _, err := env.eval(input); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}

func TestEvalVoiceCommands(t *testing.T) {
	env := newTestEnv(t)
	for _, input := range []string{
		"key a2",
		"key 5",
		"lift",
		"patch fat-bass",
		"patches",
		"props synth",
		"play a2 c3",
		"stop",
	} {
		if _, err := env.eval(input); err != nil {
			t.Errorf("%s: %v", input, err)
		}
	}
	if _, err := env.eval("key volume"); err == nil {
		t.Error("expected error for a non-note key argument")
	}
	if _, err := env.eval("replay"); err == nil {
		t.Error("expected error replaying with no recording")
	}
}

func TestEvalQuit(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.eval("quit"); !errors.Is(err, errQuit) {
		t.Errorf("want errQuit, got %v", err)
	}
}

func newTestEnv(t *testing.T) *env {
	t.Helper()
	cfg := audio.Config{Backend: audio.BackendNone}
	synth, err := audio.NewSynthesizer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	engine := audio.NewEngine(cfg, synth)
	return &env{
		engine:  engine,
		voice:   synth,
		devices: map[string]audio.Device{"synth": synth},
	}
}

func TestBuildTrack(t *testing.T) {
	cfg := audio.Config{SampleRate: 1000}
	args := []prog.Node{
		prog.Note{Name: "a2", Num: 12, Hold: 1},
		prog.Slur{
			prog.Note{Name: "c2", Num: 3, Hold: 1},
			prog.Note{Name: "e2", Num: 7, Hold: 2},
		},
	}
	track, err := buildTrack(cfg, args)
	if err != nil {
		t.Fatal(err)
	}

	want := []audio.TrackEvent{
		{Offset: 0, Note: 12, Down: true},
		{Offset: 300, Down: false},
		{Offset: 350, Note: 3, Down: true},
		{Offset: 650, Note: 7, Down: true},
		{Offset: 1250, Down: false},
	}
	if got := track.Events(); !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}
	if want, got := 1300, track.Length(); want != got {
		t.Errorf("length: want %v, got %v", want, got)
	}

	if _, err := buildTrack(cfg, []prog.Node{prog.Int(3)}); err == nil {
		t.Error("expected error for a non-note argument")
	}
}

func TestReadArgs(t *testing.T) {
	var (
		s string
		n int
		f float64
	)
	args := []prog.Node{prog.Identifier("synth"), prog.Int(3), prog.Int(2)}
	if err := readArgs(args, &s, &n, &f); err != nil {
		t.Fatal(err)
	}
	if s != "synth" || n != 3 || f != 2.0 {
		t.Errorf("wrong values: %v %v %v", s, n, f)
	}

	if err := readArgs(args, &s, &n); err == nil {
		t.Error("expected error for a count mismatch")
	}
	if err := readArgs([]prog.Node{prog.Float(1.5)}, &n); err == nil {
		t.Error("expected error for a float in an int slot")
	}
	if err := readArgs([]prog.Node{prog.Int(1)}, &s); err == nil {
		t.Error("expected error for an int in a string slot")
	}
	if err := readArgs([]prog.Node{prog.String("x")}, &s); err != nil {
		t.Errorf("string slot must accept strings: %v", err)
	}
}
