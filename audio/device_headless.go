package audio

// headlessOutput renders on demand instead of against a device, for tests
// and environments without audio hardware. Time does not pass on its own:
// nothing is rendered until Pump is called.
type headlessOutput struct {
	render  RenderFunc
	planar  [][]float32
	started bool
}

func newHeadlessOutput(cfg Config, render RenderFunc) *headlessOutput {
	return &headlessOutput{
		render: render,
		planar: [][]float32{
			make([]float32, cfg.BufferSize),
			make([]float32, cfg.BufferSize),
		},
	}
}

func (o *headlessOutput) Start() error {
	o.started = true
	return nil
}

func (o *headlessOutput) Stop() error {
	o.started = false
	return nil
}

func (o *headlessOutput) Close() error {
	o.started = false
	return nil
}

// Pump renders n buffers through the callback, discarding the audio.
func (o *headlessOutput) Pump(n int) {
	if !o.started {
		return
	}
	for i := 0; i < n; i++ {
		o.render(o.planar)
	}
}
