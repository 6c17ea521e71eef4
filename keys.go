package main

import (
	"fmt"

	"github.com/eiannone/keyboard"
)

// keyNotes maps the bottom letter row to semitones, piano style: z is the
// tonic and the home row gives the sharps.
var keyNotes = map[rune]int{
	'z': 0, 's': 1, 'x': 2, 'd': 3, 'c': 4, 'v': 5, 'g': 6, 'b': 7,
	'h': 8, 'n': 9, 'j': 10, 'm': 11, ',': 12, 'l': 13, '.': 14,
}

const (
	lowestOctave  = -24
	highestOctave = 48
)

// keyboardMode plays the synthesizer from the terminal until esc is hit.
// Letters strike keys, space lifts, [ and ] shift the octave.
func keyboardMode(env *env) error {
	if err := keyboard.Open(); err != nil {
		return err
	}
	defer keyboard.Close()

	fmt.Println("z-row plays, [ and ] shift the octave, space lifts, esc leaves")

	octave := 0
	for {
		char, key, err := keyboard.GetKey()
		if err != nil {
			return err
		}
		switch {
		case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC:
			env.voice.KeyUp()
			return nil
		case key == keyboard.KeySpace:
			env.voice.KeyUp()
		case char == '[':
			if octave > lowestOctave {
				octave -= 12
			}
		case char == ']':
			if octave < highestOctave {
				octave += 12
			}
		default:
			if note, ok := keyNotes[char]; ok {
				env.voice.KeyDown(note + octave)
			}
		}
	}
}
