package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hurstgoogle/mog/audio"
	"github.com/hurstgoogle/mog/prog"
)

// stepSeconds and gapSeconds lay out the rhythm of played note sequences:
// each note holds the key for its hold factor times the step, with a short
// release gap before the next strike.
const (
	stepSeconds = 0.3
	gapSeconds  = 0.05
)

var errQuit = errors.New("quit")

type command struct {
	name string
	run  func(*env, []prog.Node) (string, error)
	// arity is the exact argument count; negative means at least that many.
	arity int
}

var commands = []command{
	{"set", setCommand, 3},
	{"get", getCommand, 2},
	{"props", propsCommand, 1},
	{"key", keyCommand, 1},
	{"lift", liftCommand, 0},
	{"play", playCommand, -1},
	{"rec", recCommand, 0},
	{"stop", stopCommand, 0},
	{"replay", replayCommand, 0},
	{"loop", loopCommand, 0},
	{"render", renderCommand, -2},
	{"patch", patchCommand, -1},
	{"patches", patchesCommand, 0},
	{"keys", keysCommand, 0},
	{"on", onCommand, 0},
	{"off", offCommand, 0},
	{"quit", quitCommand, 0},
}

func setCommand(env *env, args []prog.Node) (string, error) {
	var device, key string
	if err := readArgs(args[:2], &device, &key); err != nil {
		return "", err
	}
	switch v := args[2].(type) {
	case prog.Int:
		return "", env.setProp(device, key, int(v))
	case prog.Float:
		return "", env.setProp(device, key, float64(v))
	case prog.String:
		return "", env.setProp(device, key, string(v))
	case prog.Identifier:
		return "", env.setProp(device, key, string(v))
	default:
		return "", fmt.Errorf("cannot use %v as a property value", v)
	}
}

func getCommand(env *env, args []prog.Node) (string, error) {
	var device, key string
	if err := readArgs(args, &device, &key); err != nil {
		return "", err
	}
	v, err := env.getProp(device, key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", v), nil
}

func propsCommand(env *env, args []prog.Node) (string, error) {
	var device string
	if err := readArgs(args, &device); err != nil {
		return "", err
	}
	d, ok := env.devices[device]
	if !ok {
		return "", fmt.Errorf("unknown device: %s", device)
	}
	lister, ok := d.(interface{ Keys() []string })
	if !ok {
		return "", fmt.Errorf("device has no property listing: %s", device)
	}
	var b strings.Builder
	for _, key := range lister.Keys() {
		v, err := d.Get(key)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s = %v\n", key, v)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func keyCommand(env *env, args []prog.Node) (string, error) {
	switch v := args[0].(type) {
	case prog.Int:
		env.voice.KeyDown(int(v))
	case prog.Note:
		env.voice.KeyDown(v.Num)
	default:
		return "", errors.New("key wants a note name or a note number")
	}
	return "", nil
}

func liftCommand(env *env, args []prog.Node) (string, error) {
	env.voice.KeyUp()
	return "", nil
}

func recorder(env *env) (*audio.Recorder, error) {
	if r := env.engine.Recorder(); r != nil {
		return r, nil
	}
	return nil, errors.New("no voice available")
}

func playCommand(env *env, args []prog.Node) (string, error) {
	r, err := recorder(env)
	if err != nil {
		return "", err
	}
	track, err := buildTrack(env.engine.Config(), args)
	if err != nil {
		return "", err
	}
	return "", r.Play(track, false)
}

func recCommand(env *env, args []prog.Node) (string, error) {
	r, err := recorder(env)
	if err != nil {
		return "", err
	}
	r.Record()
	return "recording", nil
}

func stopCommand(env *env, args []prog.Node) (string, error) {
	r, err := recorder(env)
	if err != nil {
		return "", err
	}
	r.Stop()
	// Stopping mid-playback can leave the key held down.
	env.voice.KeyUp()
	if n := r.Dropped(); n > 0 {
		return fmt.Sprintf("stopped, %d events dropped", n), nil
	}
	return "stopped", nil
}

func replayCommand(env *env, args []prog.Node) (string, error) {
	r, err := recorder(env)
	if err != nil {
		return "", err
	}
	return "", r.Play(r.Recorded(), false)
}

func loopCommand(env *env, args []prog.Node) (string, error) {
	r, err := recorder(env)
	if err != nil {
		return "", err
	}
	return "", r.Play(r.Recorded(), true)
}

func renderCommand(env *env, args []prog.Node) (string, error) {
	var path string
	if err := readArgs(args[:1], &path); err != nil {
		return "", err
	}
	track, err := buildTrack(env.engine.Config(), args[1:])
	if err != nil {
		return "", err
	}
	wasOn := env.engine.Enabled()
	if wasOn {
		if err := env.engine.TurnOff(); err != nil {
			return "", err
		}
	}
	if err := audio.RenderWAV(env.engine, track, path); err != nil {
		return "", err
	}
	if wasOn {
		if err := env.engine.TurnOn(); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("rendered %s", path), nil
}

func patchCommand(env *env, args []prog.Node) (string, error) {
	if len(args) > 2 {
		return "", errors.New("patch wants a name and an optional device")
	}
	var name string
	if err := readArgs(args[:1], &name); err != nil {
		return "", err
	}
	target := audio.Device(env.voice)
	if len(args) == 2 {
		var deviceName string
		if err := readArgs(args[1:], &deviceName); err != nil {
			return "", err
		}
		d, ok := env.devices[deviceName]
		if !ok {
			return "", fmt.Errorf("unknown device: %s", deviceName)
		}
		target = d
	}
	return "", audio.LoadPatch(name, target)
}

func patchesCommand(env *env, args []prog.Node) (string, error) {
	return strings.Join(audio.Patches(), "\n"), nil
}

func keysCommand(env *env, args []prog.Node) (string, error) {
	return "", keyboardMode(env)
}

func onCommand(env *env, args []prog.Node) (string, error) {
	if err := env.engine.TurnOn(); err != nil {
		return "", err
	}
	return "audio on", nil
}

func offCommand(env *env, args []prog.Node) (string, error) {
	if err := env.engine.TurnOff(); err != nil {
		return "", err
	}
	return "audio off", nil
}

func quitCommand(env *env, args []prog.Node) (string, error) {
	return "", errQuit
}

// buildTrack lays out notes on the sample clock. Plain notes strike and
// release one by one; slurred notes hold the key through the whole run.
func buildTrack(cfg audio.Config, args []prog.Node) (*audio.Track, error) {
	var (
		step  = int(stepSeconds * float64(cfg.SampleRate))
		gap   = int(gapSeconds * float64(cfg.SampleRate))
		track = audio.NewTrack()
		pos   int
	)
	for _, arg := range args {
		switch v := arg.(type) {
		case prog.Note:
			track.KeyDown(pos, v.Num)
			pos += int(v.Hold * float64(step))
			track.KeyUp(pos)
			pos += gap
		case prog.Slur:
			for _, note := range v {
				track.KeyDown(pos, note.Num)
				pos += int(note.Hold * float64(step))
			}
			track.KeyUp(pos)
			pos += gap
		default:
			return nil, fmt.Errorf("play wants notes, got %v", arg)
		}
	}
	track.SetLength(pos)
	return track, nil
}

// readArgs copies args into typed slots. A *string slot accepts identifiers
// and strings, a *float64 slot also accepts ints.
func readArgs(args []prog.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return fmt.Errorf("want %d arguments, got %d", len(slots), len(args))
	}
	for i, arg := range args {
		switch slot := slots[i].(type) {
		case *string:
			switch arg := arg.(type) {
			case prog.Identifier:
				*slot = string(arg)
			case prog.String:
				*slot = string(arg)
			default:
				return fmt.Errorf("argument %d: not a string: %v", i+1, arg)
			}
		case *int:
			n, ok := arg.(prog.Int)
			if !ok {
				return fmt.Errorf("argument %d: not an int: %v", i+1, arg)
			}
			*slot = int(n)
		case *float64:
			switch arg := arg.(type) {
			case prog.Float:
				*slot = float64(arg)
			case prog.Int:
				*slot = float64(arg)
			default:
				return fmt.Errorf("argument %d: not a number: %v", i+1, arg)
			}
		default:
			return fmt.Errorf("argument %d: unsupported slot type %T", i+1, slot)
		}
	}
	return nil
}
