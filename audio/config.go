package audio

// Audio backends selectable through Config.Backend.
const (
	BackendPortAudio = "portaudio"
	BackendOto       = "oto"
	BackendNone      = "none"
)

// Low-pass engines selectable through Config.Filter.
const (
	FilterBiquad = "biquad"
	FilterLadder = "ladder"
)

// Config carries the device and voice parameters shared by every stage of
// the signal chain. A single value is threaded through the constructors;
// there is no package level audio state.
type Config struct {
	SampleRate  int
	BufferSize  int
	Backend     string
	Filter      string
	Oscillators int
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = 44100
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 256
	}
	if c.Backend == "" {
		c.Backend = BackendPortAudio
	}
	if c.Filter == "" {
		c.Filter = FilterBiquad
	}
	if c.Oscillators <= 0 {
		c.Oscillators = 3
	}
	return c
}

// sampleInterval is the duration of a single sample in seconds.
func (c Config) sampleInterval() float64 {
	return 1 / float64(c.SampleRate)
}
