package audio

import (
	"errors"
	"sync/atomic"
)

// maxTrackEvents bounds a recording; capturing appends on the render thread
// and must never grow the slice.
const maxTrackEvents = 4096

// TrackEvent is one key edge at an offset in samples from the track start.
type TrackEvent struct {
	Offset int
	Note   int
	Down   bool
}

// Track is a sequence of key edges sorted by offset, plus a playable length
// in samples. Events are quantized to block boundaries during both capture
// and playback.
type Track struct {
	events []TrackEvent
	length int
}

func NewTrack() *Track {
	return &Track{events: make([]TrackEvent, 0, maxTrackEvents)}
}

func (t *Track) KeyDown(offset, note int) {
	t.events = append(t.events, TrackEvent{Offset: offset, Note: note, Down: true})
}

func (t *Track) KeyUp(offset int) {
	t.events = append(t.events, TrackEvent{Offset: offset, Down: false})
}

func (t *Track) Events() []TrackEvent { return t.events }

func (t *Track) Length() int { return t.length }

// SetLength sets the playable span in samples.
func (t *Track) SetLength(n int) { t.length = n }

// span is the playback end: the length, stretched to cover a trailing event.
func (t *Track) span() int {
	length := t.length
	if n := len(t.events); n > 0 {
		if last := t.events[n-1].Offset; last >= length {
			length = last + 1
		}
	}
	return length
}

type recState int32

const (
	recIdle recState = iota
	recRecording
	recPlaying
)

// Recorder captures key edges from its target voice on a sample clock and
// plays them back, optionally looped. The control methods only touch
// atomics; the playhead and clock advance on the render thread, one block at
// a time.
type Recorder struct {
	target *Synthesizer

	state       atomic.Int32
	loop        atomic.Bool
	pendingRec  atomic.Pointer[Track]
	pendingPlay atomic.Pointer[Track]
	clock       atomic.Int64
	dropped     atomic.Uint32

	// render-owned
	recTrack   *Track
	track      *Track
	playhead   int
	next       int
	blockStart int64
}

func newRecorder(target *Synthesizer) *Recorder {
	r := &Recorder{target: target}
	target.OnKeyDown(func(note int) { r.capture(note, true) })
	target.OnKeyUp(func() { r.capture(0, false) })
	return r
}

// Record starts capturing key edges into a fresh track.
func (r *Recorder) Record() {
	r.dropped.Store(0)
	r.pendingRec.Store(NewTrack())
	r.state.Store(int32(recRecording))
}

// Stop ends recording or playback. A recording's length is fixed here, at
// the last block boundary the render thread reached.
func (r *Recorder) Stop() {
	if recState(r.state.Load()) == recRecording {
		if t := r.pendingRec.Load(); t != nil {
			t.length = int(r.clock.Load())
		}
	}
	r.state.Store(int32(recIdle))
}

// Play schedules a track for playback from the top.
func (r *Recorder) Play(t *Track, loop bool) error {
	if t == nil || len(t.events) == 0 {
		return errors.New("nothing to play")
	}
	// a fresh pointer, making a replay of the same track restart it
	play := &Track{events: t.events, length: t.length}
	r.loop.Store(loop)
	r.pendingPlay.Store(play)
	r.state.Store(int32(recPlaying))
	return nil
}

// Recorded returns the most recent recording, which may still be in
// progress.
func (r *Recorder) Recorded() *Track {
	return r.pendingRec.Load()
}

// Dropped reports how many captured events were discarded because the
// recording was full.
func (r *Recorder) Dropped() int {
	return int(r.dropped.Load())
}

func (r *Recorder) Playing() bool {
	return recState(r.state.Load()) == recPlaying
}

// tick runs once per block, before the block is rendered. While recording it
// advances the sample clock; while playing it applies the block's due events
// to the target voice.
func (r *Recorder) tick(n int) {
	switch recState(r.state.Load()) {
	case recRecording:
		if t := r.pendingRec.Load(); t != r.recTrack {
			r.recTrack = t
			r.clock.Store(0)
		}
		r.blockStart = r.clock.Load()
		r.clock.Store(r.blockStart + int64(n))
	case recPlaying:
		t := r.pendingPlay.Load()
		if t == nil {
			r.state.Store(int32(recIdle))
			return
		}
		if t != r.track {
			r.track = t
			r.playhead = 0
			r.next = 0
		}
		end := r.playhead + n
		for r.next < len(t.events) && t.events[r.next].Offset < end {
			r.apply(t.events[r.next])
			r.next++
		}
		r.playhead = end
		if r.playhead >= t.span() {
			if r.loop.Load() {
				r.playhead = 0
				r.next = 0
			} else {
				r.target.apply(controlEvent{kind: evKeyUp})
				r.track = nil
				r.state.Store(int32(recIdle))
			}
		}
	}
}

func (r *Recorder) apply(ev TrackEvent) {
	if ev.Down {
		r.target.apply(controlEvent{kind: evKeyDown, note: ev.Note})
	} else {
		r.target.apply(controlEvent{kind: evKeyUp})
	}
}

// capture appends a key edge to the recording. It runs on the render thread
// via the key observers, stamped with the current block's start offset.
func (r *Recorder) capture(note int, down bool) {
	if recState(r.state.Load()) != recRecording {
		return
	}
	t := r.pendingRec.Load()
	if t == nil {
		return
	}
	if t != r.recTrack {
		r.recTrack = t
		r.clock.Store(0)
		r.blockStart = 0
	}
	if len(t.events) == cap(t.events) {
		r.dropped.Add(1)
		return
	}
	t.events = append(t.events, TrackEvent{Offset: int(r.blockStart), Note: note, Down: down})
}
