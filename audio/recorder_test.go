package audio

import (
	"reflect"
	"testing"
)

// testRig is a synthesizer and engine pair driven by hand through the render
// callback, with key edge observers counting what the voice was told to do.
type testRig struct {
	synth  *Synthesizer
	engine *Engine
	out    [][]float32
	downs  []int
	ups    int
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	cfg := Config{SampleRate: 44100, BufferSize: 64, Backend: BackendNone}
	s := mustSynth(t, cfg)
	rig := &testRig{
		synth:  s,
		engine: NewEngine(cfg, s),
		out: [][]float32{
			make([]float32, cfg.BufferSize),
			make([]float32, cfg.BufferSize),
		},
	}
	s.OnKeyDown(func(note int) { rig.downs = append(rig.downs, note) })
	s.OnKeyUp(func() { rig.ups++ })
	rig.engine.on.Store(true)
	return rig
}

// render runs n device buffers through the engine.
func (r *testRig) render(n int) {
	for i := 0; i < n; i++ {
		r.engine.process(r.out)
	}
}

func TestRecorderCapture(t *testing.T) {
	rig := newTestRig(t)
	rec := rig.engine.Recorder()

	rec.Record()
	rig.synth.KeyDown(5)
	rig.render(1)
	rig.synth.KeyUp()
	rig.render(1)
	rec.Stop()

	track := rec.Recorded()
	want := []TrackEvent{
		{Offset: 0, Note: 5, Down: true},
		{Offset: 64, Down: false},
	}
	if got := track.Events(); !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}
	if want, got := 128, track.Length(); want != got {
		t.Errorf("track length: want %v, got %v", want, got)
	}
	if want, got := 0, rec.Dropped(); want != got {
		t.Errorf("dropped: want %v, got %v", want, got)
	}
}

func TestRecorderPlayback(t *testing.T) {
	rig := newTestRig(t)
	rec := rig.engine.Recorder()

	track := NewTrack()
	track.KeyDown(0, 3)
	track.KeyUp(100)
	track.SetLength(160)

	if err := rec.Play(track, false); err != nil {
		t.Fatal(err)
	}
	rig.render(4)

	if rec.Playing() {
		t.Error("expected playback to finish")
	}
	if want, got := []int{3}, rig.downs; !reflect.DeepEqual(want, got) {
		t.Errorf("downs: want %v, got %v", want, got)
	}
	// one release from the track, one safety release at the end
	if want, got := 2, rig.ups; want != got {
		t.Errorf("ups: want %v, got %v", want, got)
	}
	if rig.synth.keyDown {
		t.Error("voice left with the key down")
	}
}

func TestRecorderReplayRestarts(t *testing.T) {
	rig := newTestRig(t)
	rec := rig.engine.Recorder()

	track := NewTrack()
	track.KeyDown(0, 7)
	track.KeyUp(32)
	track.SetLength(64)

	for i := 0; i < 2; i++ {
		if err := rec.Play(track, false); err != nil {
			t.Fatal(err)
		}
		rig.render(2)
	}
	if want, got := []int{7, 7}, rig.downs; !reflect.DeepEqual(want, got) {
		t.Errorf("downs: want %v, got %v", want, got)
	}
}

func TestRecorderLoop(t *testing.T) {
	rig := newTestRig(t)
	rec := rig.engine.Recorder()

	track := NewTrack()
	track.KeyDown(0, 2)
	track.KeyUp(16)
	track.SetLength(64)

	if err := rec.Play(track, true); err != nil {
		t.Fatal(err)
	}
	rig.render(3)

	if !rec.Playing() {
		t.Error("expected looped playback to keep going")
	}
	if want, got := []int{2, 2, 2}, rig.downs; !reflect.DeepEqual(want, got) {
		t.Errorf("downs: want %v, got %v", want, got)
	}

	rec.Stop()
	if rec.Playing() {
		t.Error("expected stop to end the loop")
	}
}

func TestRecorderPlayNothing(t *testing.T) {
	rig := newTestRig(t)
	rec := rig.engine.Recorder()

	if err := rec.Play(nil, false); err == nil {
		t.Error("expected error for a nil track")
	}
	if err := rec.Play(NewTrack(), false); err == nil {
		t.Error("expected error for an empty track")
	}
}

// Recording more events than a track can hold drops the overflow and counts
// it instead of growing the slice on the render thread.
func TestRecorderBounded(t *testing.T) {
	rig := newTestRig(t)
	rec := rig.engine.Recorder()

	rec.Record()
	rig.render(1)
	track := rec.Recorded()
	track.events = track.events[:maxTrackEvents]

	rig.synth.KeyDown(1)
	rig.render(1)
	if want, got := 1, rec.Dropped(); want != got {
		t.Errorf("dropped: want %v, got %v", want, got)
	}
	if want, got := maxTrackEvents, len(track.Events()); want != got {
		t.Errorf("events: want %v, got %v", want, got)
	}
}
