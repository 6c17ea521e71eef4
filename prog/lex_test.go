package prog

import "testing"

func TestLexer(t *testing.T) {
	type test struct {
		input  string
		expect []token
	}
	tests := []test{
		{
			input: "set synth lp.cutoff 500",
			expect: []token{
				token{typ: typeIdentifier, text: "set"},
				token{typ: typeIdentifier, text: "synth"},
				token{typ: typeIdentifier, text: "lp.cutoff"},
				token{typ: typeInt, text: "500"},
				token{typ: typeEOF},
			},
		},
		{
			input: "play a2 c3:2 e3~g3",
			expect: []token{
				token{typ: typeIdentifier, text: "play"},
				token{typ: typeNote, text: "a2"},
				token{typ: typeNote, text: "c3"},
				token{typ: typeColon, text: ":"},
				token{typ: typeInt, text: "2"},
				token{typ: typeNote, text: "e3"},
				token{typ: typeTilde, text: "~"},
				token{typ: typeNote, text: "g3"},
				token{typ: typeEOF},
			},
		},
		{
			input: "key a#2",
			expect: []token{
				token{typ: typeIdentifier, text: "key"},
				token{typ: typeNote, text: "a#2"},
				token{typ: typeEOF},
			},
		},
		{
			input: "key -12",
			expect: []token{
				token{typ: typeIdentifier, text: "key"},
				token{typ: typeInt, text: "-12"},
				token{typ: typeEOF},
			},
		},
		{
			input: "set synth volume 0.5",
			expect: []token{
				token{typ: typeIdentifier, text: "set"},
				token{typ: typeIdentifier, text: "synth"},
				token{typ: typeIdentifier, text: "volume"},
				token{typ: typeFloat, text: "0.5"},
				token{typ: typeEOF},
			},
		},
		{
			input: "x 1. -.5",
			expect: []token{
				token{typ: typeIdentifier, text: "x"},
				token{typ: typeFloat, text: "1."},
				token{typ: typeFloat, text: "-.5"},
				token{typ: typeEOF},
			},
		},
		{
			input: `render "out.wav" a2`,
			expect: []token{
				token{typ: typeIdentifier, text: "render"},
				token{typ: typeString, text: `"out.wav"`},
				token{typ: typeNote, text: "a2"},
				token{typ: typeEOF},
			},
		},
		{
			input: "patch fat-bass",
			expect: []token{
				token{typ: typeIdentifier, text: "patch"},
				token{typ: typeIdentifier, text: "fat-bass"},
				token{typ: typeEOF},
			},
		},
	}
	for _, test := range tests {
		t.Log(test.input)
		tokens, err := lex(test.input)
		if err != nil {
			t.Errorf("unexpected lex error: %v", err)
			continue
		}
		if len(tokens) != len(test.expect) {
			t.Fatalf("token mismatch: \nwant: %+v, \ngot:  %+v", test.expect, tokens)
		}
		for i, got := range tokens {
			want := test.expect[i]
			if want.typ != got.typ {
				t.Errorf("wrong type: want %v, got %v", want, got)
			}
			if want.text != got.text {
				t.Errorf("wrong text: want %v, got %v", want, got)
			}
		}
	}
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{
		"a $",
		"a -",
		"a 1.2.3",
		`load "unterminated`,
	} {
		_, err := lex(input)
		if err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}
