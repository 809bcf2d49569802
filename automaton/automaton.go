/*
Package automaton implements a periodic index automaton.

For parameters p ≥ 1 and q ≥ 1 the automaton has n = p·q states 1…n,
partitioned into q blocks of p states each:

    block 1      block 2             block q
    1 … p        p+1 … 2p     …      n-p+1 … n

Within a block, states form a loop: the loop successor of a state is the next
state of its block, wrapping around to the block's first state (its entry).
Entries of all blocks but the last have a second successor, the entry of the
next block. The accepting state is the entry of the last block.

Automata are not stored objects; an Automaton is an immutable pair (p, q) and
all operations are pure functions of it.
*/
package automaton

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flat.automaton'.
func tracer() tracing.Trace {
	return tracing.Select("flat.automaton")
}

// ErrNotAnEntry is returned when asking for the entry successor of a state
// which is not the entry of a block.
var ErrNotAnEntry = errors.New("state is not an entry state")

// Automaton is a periodic index automaton with q blocks of p states.
type Automaton struct {
	p, q int
}

// New creates an automaton for parameters p and q, both of which have to be
// positive.
func New(p, q int) (*Automaton, error) {
	if p < 1 || q < 1 {
		return nil, fmt.Errorf("automaton parameters must be positive, are p=%d, q=%d", p, q)
	}
	return &Automaton{p: p, q: q}, nil
}

// P returns the block size.
func (fa *Automaton) P() int { return fa.p }

// Q returns the number of blocks.
func (fa *Automaton) Q() int { return fa.q }

// Size returns the number of states, p·q.
func (fa *Automaton) Size() int {
	return fa.p * fa.q
}

// States returns all states 1…n in ascending order.
func (fa *Automaton) States() []int {
	return span(1, fa.Size())
}

// Accepting returns the accepting state, i.e. the entry of the last block.
func (fa *Automaton) Accepting() int {
	return fa.Size() - fa.p + 1
}

// IsAccepting is true for the accepting state.
func (fa *Automaton) IsAccepting(i int) bool {
	return i == fa.Accepting()
}

// IsEntry is true if i is the first state of a block.
func (fa *Automaton) IsEntry(i int) bool {
	return (i-1)%fa.p == 0
}

// Entries returns the entry states of all blocks.
func (fa *Automaton) Entries() []int {
	entries := make([]int, 0, fa.q)
	for i := 1; i <= fa.Accepting(); i += fa.p {
		entries = append(entries, i)
	}
	return entries
}

// NonFinalEntries returns the entry states of blocks 1…q-1.
func (fa *Automaton) NonFinalEntries() []int {
	entries := make([]int, 0, fa.q-1)
	for i := 1; i < fa.Accepting(); i += fa.p {
		entries = append(entries, i)
	}
	return entries
}

// Block returns the number of the block owning state i, ⌈i/p⌉.
func (fa *Automaton) Block(i int) int {
	return (i + fa.p - 1) / fa.p
}

// BlockStates returns the loop states of block b, [1+p(b-1), pb].
func (fa *Automaton) BlockStates(b int) []int {
	e := 1 + fa.p*(b-1)
	return span(e, e+fa.p-1)
}

// LoopSuccessor returns the next state within the block of i, wrapping around
// to the block's entry after the block's last state.
func (fa *Automaton) LoopSuccessor(i int) int {
	if i%fa.p == 0 {
		return i - fa.p + 1
	}
	return i + 1
}

// EntrySuccessor returns the entry of the block following i's block. It is
// defined for entry states only and returns ErrNotAnEntry for other states.
//
// If configuration flag 'panic-on-automaton-misuse' is set, EntrySuccessor
// will panic instead of returning an error.
func (fa *Automaton) EntrySuccessor(i int) (int, error) {
	if !fa.IsEntry(i) {
		err := fmt.Errorf("%w: %d (p=%d, q=%d)", ErrNotAnEntry, i, fa.p, fa.q)
		tracer().Errorf("%v", err)
		if gconf.GetBool("panic-on-automaton-misuse") {
			panic(err)
		}
		return 0, err
	}
	return i + fa.p, nil
}

// Successors returns the loop successor of i and, if i is a non-final entry,
// its entry successor.
func (fa *Automaton) Successors(i int) []int {
	succ := []int{fa.LoopSuccessor(i)}
	if fa.IsEntry(i) && !fa.IsAccepting(i) {
		if e, err := fa.EntrySuccessor(i); err == nil && e != succ[0] {
			succ = append(succ, e)
		}
	}
	return succ
}

// Closure returns every state in or after the block of i, excluding i itself,
// in ascending order.
func (fa *Automaton) Closure(i int) []int {
	closure := make([]int, 0, fa.Size())
	for j := fa.closureStart(i); j <= fa.Size(); j++ {
		if j != i {
			closure = append(closure, j)
		}
	}
	return closure
}

// InClosure is true if j is a member of Closure(i).
func (fa *Automaton) InClosure(i, j int) bool {
	return j != i && j >= fa.closureStart(i) && j <= fa.Size()
}

// Compatible is true if (i,j) is an admissible index pair, i.e. if j is
// a member of Closure(i).
func (fa *Automaton) Compatible(i, j int) bool {
	return fa.InClosure(i, j)
}

// first state of the block of i
func (fa *Automaton) closureStart(i int) int {
	return 1 + fa.p*(fa.Block(i)-1)
}

func (fa *Automaton) String() string {
	return fmt.Sprintf("FA(p=%d, q=%d)", fa.p, fa.q)
}

func span(from, to int) []int {
	if to < from {
		return []int{}
	}
	s := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		s = append(s, i)
	}
	return s
}
