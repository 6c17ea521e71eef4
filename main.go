package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hurstgoogle/mog/audio"
)

func main() {
	var (
		rate    = flag.Int("rate", 44100, "sample rate in Hz")
		buffer  = flag.Int("buffer", 256, "device buffer size in samples")
		backend = flag.String("backend", audio.BackendPortAudio, "audio backend: portaudio, oto or none")
		filter  = flag.String("filter", audio.FilterBiquad, "low-pass engine: biquad or ladder")
		patch   = flag.String("patch", "", "load a named patch at startup")
		run     = flag.String("run", "", "run a command script before the prompt")
	)
	flag.Parse()

	cfg := audio.Config{
		SampleRate: *rate,
		BufferSize: *buffer,
		Backend:    *backend,
		Filter:     *filter,
	}
	synth, err := audio.NewSynthesizer(cfg)
	if err != nil {
		log.Fatal(err)
	}
	engine := audio.NewEngine(cfg, synth)
	defer engine.Close()

	env := &env{
		engine:  engine,
		voice:   synth,
		devices: map[string]audio.Device{"synth": synth},
	}

	if *patch != "" {
		if err := audio.LoadPatch(*patch, synth); err != nil {
			log.Fatal(err)
		}
	}
	if err := engine.TurnOn(); err != nil {
		log.Printf("no audio device: %v", err)
	}

	if *run != "" {
		err := runScript(env, *run)
		if errors.Is(err, errQuit) {
			return
		}
		if err != nil {
			log.Fatal(err)
		}
	}
	if err := repl(env); err != nil {
		log.Fatal(err)
	}
}

// runScript evaluates a file of commands, one per line. Blank lines and
// lines starting with # are skipped.
func runScript(env *env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := env.eval(line)
		if err != nil {
			return err
		}
		if result != "" {
			fmt.Println(result)
		}
	}
	return scanner.Err()
}
