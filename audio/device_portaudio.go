//go:build cgo

package audio

import (
	"github.com/gordonklaus/portaudio"
)

// portAudioOutput is the default backend: a callback stream on the system's
// default output device.
type portAudioOutput struct {
	stream *portaudio.Stream
	render RenderFunc
}

func newPortAudioOutput(cfg Config, render RenderFunc) (*portAudioOutput, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	o := &portAudioOutput{render: render}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(cfg.SampleRate), cfg.BufferSize, o.process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	o.stream = stream
	return o, nil
}

func (o *portAudioOutput) process(out [][]float32) {
	o.render(out)
}

func (o *portAudioOutput) Start() error {
	return o.stream.Start()
}

func (o *portAudioOutput) Stop() error {
	return o.stream.Stop()
}

func (o *portAudioOutput) Close() error {
	err := o.stream.Close()
	portaudio.Terminate()
	return err
}
