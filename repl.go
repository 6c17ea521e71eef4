package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/hurstgoogle/mog/audio"
	"github.com/hurstgoogle/mog/prog"
)

// env is the repl's view of the instrument: the engine, the playable voice
// and every named device with properties.
type env struct {
	engine  *audio.Engine
	voice   *audio.Synthesizer
	devices map[string]audio.Device
}

func (e *env) setProp(device, prop string, v interface{}) error {
	d, ok := e.devices[device]
	if !ok {
		return fmt.Errorf("unknown device: %s", device)
	}
	return d.Set(prop, v)
}

func (e *env) getProp(device, prop string) (interface{}, error) {
	d, ok := e.devices[device]
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", device)
	}
	return d.Get(prop)
}

// eval parses and runs a single command line. The returned string is user
// feedback; empty means success with nothing to say.
func (e *env) eval(input string) (string, error) {
	cmd, err := prog.Parse(input)
	if err != nil {
		return "", err
	}
	for _, command := range commands {
		if command.name != string(cmd.Name) {
			continue
		}
		if command.arity < 0 {
			if len(cmd.Args) < -command.arity {
				return "", fmt.Errorf("%s: wrong number of arguments: want at least %v, got %v",
					cmd.Name, -command.arity, len(cmd.Args))
			}
		} else if len(cmd.Args) != command.arity {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.Name, command.arity, len(cmd.Args))
		}
		result, err := command.run(e, cmd.Args)
		if err != nil {
			return "", fmt.Errorf("%s error: %w", cmd.Name, err)
		}
		return result, nil
	}
	return "", fmt.Errorf("unknown command: %s", cmd.Name)
}

func repl(env *env) error {
	rl, err := readline.New("mog> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result, err := env.eval(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if result != "" {
			fmt.Println(result)
		}
	}
}
