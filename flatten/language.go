package flatten

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/flat/automaton"
)

// ErrLanguageShape is returned (wrapped) for language descriptions not
// matching the automaton parameters.
var ErrLanguageShape = errors.New("language does not fit automaton")

// Expr is a regular-expression-like description of a set of words.
type Expr interface {
	String() string
}

// Word is a literal word.
type Word string

func (w Word) String() string {
	return string(w)
}

// Star is the Kleene star of an expression.
type Star struct {
	X Expr
}

func (s Star) String() string {
	return "(" + s.X.String() + ")*"
}

// Concat is the concatenation of expressions.
type Concat []Expr

func (c Concat) String() string {
	parts := make([]string, len(c))
	for i, x := range c {
		parts[i] = x.String()
	}
	return strings.Join(parts, " · ")
}

// Language describes a set of words w1* w2* … wq* for an automaton with
// parameters p and q: one word per block, each no longer than the block size p.
type Language struct {
	Concat
	fa    *automaton.Automaton
	words []string
}

// NewLanguage creates a language description w1* w2* … wq*. It returns an
// error wrapping ErrLanguageShape if the number of words is not q or if a
// word is longer than p.
func NewLanguage(p, q int, words ...string) (*Language, error) {
	fa, err := automaton.New(p, q)
	if err != nil {
		return nil, err
	}
	if len(words) != q {
		return nil, fmt.Errorf("%w: expected %d words, have %d", ErrLanguageShape, q, len(words))
	}
	L := &Language{fa: fa, words: append([]string(nil), words...)}
	for _, w := range words {
		if len([]rune(w)) > p {
			return nil, fmt.Errorf("%w: word %q is longer than %d", ErrLanguageShape, w, p)
		}
		L.Concat = append(L.Concat, Star{Word(w)})
	}
	return L, nil
}

// Words returns the words of the language description, one per block.
func (L *Language) Words() []string {
	return append([]string(nil), L.words...)
}

// Automaton returns the automaton the language is intended for.
func (L *Language) Automaton() *automaton.Automaton {
	return L.fa
}
