package prog

import (
	"fmt"
	"strconv"
)

// Node is an argument in a parsed command.
type Node interface {
	isNode()
}

type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string

type Int int

type Float float64

type String string

// Note is a keyboard note literal such as c3 or a#2, with an optional hold
// factor: c3:2 holds for twice the step time.
type Note struct {
	Name string
	Num  int
	Hold float64
}

// Slur is a run of notes tied together with ~, played legato: the pitch
// glides between them without restriking.
type Slur []Note

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}
func (Note) isNode()       {}
func (Slur) isNode()       {}

// lowA is the absolute semitone index of a1, counting from c0. Keyboard note
// numbers are relative to it: a1 is 0, a2 is 12.
const lowA = 21

var noteSemitones = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// ParseNote converts a note name such as c3 or a#2 into a keyboard note
// number, with the 55 Hz low A at zero. Flats are spelled with b: eb2.
func ParseNote(s string) (int, bool) {
	if len(s) < 2 {
		return 0, false
	}
	sem, ok := noteSemitones[s[0]]
	if !ok {
		return 0, false
	}
	rest := s[1:]
	switch rest[0] {
	case '#':
		sem++
		rest = rest[1:]
	case 'b':
		sem--
		rest = rest[1:]
	}
	if rest == "" {
		return 0, false
	}
	oct := 0
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return 0, false
		}
		oct = oct*10 + int(rest[i]-'0')
	}
	return oct*12 + sem - lowA, true
}

func Parse(input string) (Command, error) {
	var cmd Command
	tokens, err := lex(input)
	if err != nil {
		return cmd, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != typeEOF {
		p.pos++
	}
	return t
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) parse() (Command, error) {
	var cmd Command
	name := p.next()
	if name.typ != typeIdentifier {
		return cmd, unexpected(name)
	}
	cmd.Name = Identifier(name.text)
	for {
		t := p.next()
		switch t.typ {
		case typeEOF:
			return cmd, nil
		case typeInt:
			n, err := strconv.Atoi(t.text)
			if err != nil {
				return cmd, err
			}
			cmd.Args = append(cmd.Args, Int(n))
		case typeFloat:
			f, err := strconv.ParseFloat(t.text, 64)
			if err != nil {
				return cmd, err
			}
			cmd.Args = append(cmd.Args, Float(f))
		case typeString:
			cmd.Args = append(cmd.Args, String(t.text[1:len(t.text)-1]))
		case typeIdentifier:
			cmd.Args = append(cmd.Args, Identifier(t.text))
		case typeNote:
			arg, err := p.noteArg(t)
			if err != nil {
				return cmd, err
			}
			cmd.Args = append(cmd.Args, arg)
		default:
			return cmd, unexpected(t)
		}
	}
}

// noteArg parses a note, its optional hold factor, and any notes tied to it.
func (p *parser) noteArg(t token) (Node, error) {
	first, err := p.note(t)
	if err != nil {
		return nil, err
	}
	if p.peek().typ != typeTilde {
		return first, nil
	}
	slur := Slur{first}
	for p.peek().typ == typeTilde {
		p.next()
		t := p.next()
		if t.typ != typeNote {
			return nil, unexpected(t)
		}
		note, err := p.note(t)
		if err != nil {
			return nil, err
		}
		slur = append(slur, note)
	}
	return slur, nil
}

func (p *parser) note(t token) (Note, error) {
	num, ok := ParseNote(t.text)
	if !ok {
		return Note{}, fmt.Errorf("not a valid note: %s", t.text)
	}
	note := Note{Name: t.text, Num: num, Hold: 1}
	if p.peek().typ != typeColon {
		return note, nil
	}
	p.next()
	switch t := p.next(); t.typ {
	case typeInt:
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return note, err
		}
		note.Hold = float64(n)
	case typeFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return note, err
		}
		note.Hold = f
	default:
		return note, unexpected(t)
	}
	return note, nil
}

func unexpected(t token) error {
	return fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
}
