package main

import (
	"fmt"

	"github.com/npillmayer/flat/grammar"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Grammars of a session are stored in a table. Table entries are called
// tags, which avoids confusion with grammar symbols.

// --- Tags -------------------------------------------------------

// Tag is an entry of a grammar table.
type Tag struct {
	name   string
	G      *grammar.Grammar
	Origin string // file name or "def", "flatten"
}

// NewTag creates a new tag for a grammar.
func NewTag(nm string, g *grammar.Grammar) *Tag {
	return &Tag{name: nm, G: g}
}

// WithOrigin sets the origin of a tag. Use as
//
//    tag := NewTag("G", g).WithOrigin("g.txt")
//
func (t *Tag) WithOrigin(o string) *Tag {
	t.Origin = o
	return t
}

// Name gets the tag's name.
func (t *Tag) Name() string {
	return t.name
}

func (t *Tag) String() string {
	if t.G == nil {
		return fmt.Sprintf("<grammar '%s'>", t.name)
	}
	return fmt.Sprintf("<grammar '%s': %d productions, from %s>", t.name, t.G.Size(), t.Origin)
}

// === Grammar Tables ========================================================

// GrammarTable stores grammars by name (map-like semantics), together with
// a grammar currently in use.
type GrammarTable struct {
	Table   map[string]*Tag
	current *Tag
}

// NewGrammarTable creates an empty grammar table.
func NewGrammarTable() *GrammarTable {
	return &GrammarTable{
		Table: make(map[string]*Tag),
	}
}

// ResolveTag checks for a tag in the table.
// Returns a tag or nil.
func (t *GrammarTable) ResolveTag(name string) *Tag {
	return t.Table[name]
}

// InsertTag inserts a pre-created tag, overwriting an existing tag with this
// name. Returns the previously stored tag (or nil).
func (t *GrammarTable) InsertTag(tag *Tag) *Tag {
	old := t.ResolveTag(tag.name)
	t.Table[tag.name] = tag
	if old != nil && t.current == old {
		t.current = tag
	}
	return old
}

// Use makes the grammar with a given name the current one.
func (t *GrammarTable) Use(name string) (*Tag, error) {
	tag := t.ResolveTag(name)
	if tag == nil {
		return nil, fmt.Errorf("no grammar named %q", name)
	}
	t.current = tag
	return tag, nil
}

// Current returns the grammar in use, if any.
func (t *GrammarTable) Current() (*Tag, error) {
	if t.current == nil {
		return nil, fmt.Errorf("no grammar in use; load or define one")
	}
	return t.current, nil
}

// Size counts the tags in the table.
func (t *GrammarTable) Size() int {
	return len(t.Table)
}

// Each iterates over each tag in the table in order of names, executing a
// mapper function.
func (t *GrammarTable) Each(mapper func(string, *Tag)) {
	names := maps.Keys(t.Table)
	slices.Sort(names)
	for _, k := range names {
		mapper(k, t.Table[k])
	}
}
