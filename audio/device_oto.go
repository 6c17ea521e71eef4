//go:build cgo || windows || darwin || js || android

package audio

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoOutput is a pull-based backend: the player reads interleaved float32
// frames from the render callback. It needs no system audio library at build
// time, which makes it the fallback where PortAudio isn't available.
type otoOutput struct {
	player *oto.Player
	render RenderFunc
	planar [][]float32

	mu      sync.Mutex
	started bool
}

func newOtoOutput(cfg Config, render RenderFunc) (*otoOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(cfg.BufferSize) * time.Second / time.Duration(cfg.SampleRate),
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	o := &otoOutput{
		render: render,
		planar: [][]float32{
			make([]float32, cfg.BufferSize),
			make([]float32, cfg.BufferSize),
		},
	}
	o.player = ctx.NewPlayer(o)
	return o, nil
}

// Read renders audio on demand. The player asks for arbitrary byte counts;
// rendering happens in chunks of at most the configured buffer size.
func (o *otoOutput) Read(p []byte) (int, error) {
	const frameBytes = 8 // 2 channels x 4 bytes
	frames := len(p) / frameBytes
	done := 0
	for done < frames {
		n := frames - done
		if max := len(o.planar[0]); n > max {
			n = max
		}
		out := [][]float32{o.planar[0][:n], o.planar[1][:n]}
		o.render(out)
		for i := 0; i < n; i++ {
			off := (done + i) * frameBytes
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(out[0][i]))
			binary.LittleEndian.PutUint32(p[off+4:], math.Float32bits(out[1][i]))
		}
		done += n
	}
	return frames * frameBytes, nil
}

func (o *otoOutput) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return nil
	}
	o.player.Play()
	o.started = true
	return nil
}

func (o *otoOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		return nil
	}
	o.player.Pause()
	o.started = false
	return nil
}

func (o *otoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = false
	return o.player.Close()
}
