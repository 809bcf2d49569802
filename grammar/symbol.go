package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/utils"
)

// SymbolKind tells terminals from non-terminals.
type SymbolKind int8

// Kinds of grammar symbols.
const (
	NonterminalKind SymbolKind = iota
	TerminalKind
)

func (k SymbolKind) String() string {
	if k == TerminalKind {
		return "T"
	}
	return "N"
}

// Symbol is a grammar symbol. Symbols are comparable values and may be used
// as map keys; two symbols are equal if kind, name and tag are equal.
//
// Besides a plain name, a symbol may carry a tag of up to two automaton
// states. Flattened grammars use two kinds of tagged symbols:
//
//    A⊕(i,j)    a symbol of the source grammar, lifted to an interval of
//               automaton states; always a non-terminal (see Lift)
//    a(i)       a terminal, pinned to a single automaton state (see At)
//
// Fields are exported for the benefit of structural hashing; clients should
// treat symbols as immutable and create them with T, N, Lift and At.
type Symbol struct {
	Kind   SymbolKind // terminal or non-terminal
	Name   string     // name of the (untagged) base symbol
	Origin SymbolKind // kind of the base symbol, differs from Kind for lifted terminals
	Lifted bool       // lifted to a state interval ('⊕')
	Arity  int8       // number of state indices: 0, 1 or 2
	From   int        // first state index, if Arity > 0
	To     int        // second state index, if Arity > 1
}

// Reserved terminals.
var (
	Epsilon = T("ϵ") // the empty string
	EOF     = T("$") // end of input, used by the recognizer
)

// T creates a terminal symbol.
func T(name string) Symbol {
	return Symbol{Kind: TerminalKind, Name: name, Origin: TerminalKind}
}

// N creates a non-terminal symbol.
func N(name string) Symbol {
	return Symbol{Kind: NonterminalKind, Name: name, Origin: NonterminalKind}
}

// IsTerminal is true for terminals, including Epsilon and EOF.
func (A Symbol) IsTerminal() bool {
	return A.Kind == TerminalKind
}

// IsEpsilon is true for the Epsilon terminal.
func (A Symbol) IsEpsilon() bool {
	return A == Epsilon
}

// IsTagged is true if the symbol carries automaton states.
func (A Symbol) IsTagged() bool {
	return A.Arity > 0
}

// Base returns the untagged symbol a tagged symbol has been derived from.
func (A Symbol) Base() Symbol {
	return Symbol{Kind: A.Origin, Name: A.Name, Origin: A.Origin}
}

// Lift tags the base of a symbol with an interval (i,j) of automaton states.
// The result is always a non-terminal, even if A is a terminal: in a flattened
// grammar a terminal still has to encode which interval it consumes.
func (A Symbol) Lift(i, j int) Symbol {
	b := A.Base()
	return Symbol{
		Kind:   NonterminalKind,
		Name:   b.Name,
		Origin: b.Kind,
		Lifted: true,
		Arity:  2,
		From:   i,
		To:     j,
	}
}

// At pins the base of a terminal to a single automaton state i.
// It panics if A is a non-terminal.
func (A Symbol) At(i int) Symbol {
	b := A.Base()
	if !b.IsTerminal() {
		panic(fmt.Sprintf("cannot pin non-terminal %s to a state", b))
	}
	return Symbol{
		Kind:   TerminalKind,
		Name:   b.Name,
		Origin: TerminalKind,
		Arity:  1,
		From:   i,
	}
}

// Indices returns the state tag of a symbol, which may be empty.
func (A Symbol) Indices() []int {
	switch A.Arity {
	case 1:
		return []int{A.From}
	case 2:
		return []int{A.From, A.To}
	}
	return nil
}

func (A Symbol) String() string {
	if !A.IsTagged() {
		return A.Name
	}
	var b strings.Builder
	b.WriteString(A.Name)
	if A.Lifted {
		b.WriteString("⊕")
	}
	if A.Arity == 1 {
		fmt.Fprintf(&b, "(%d)", A.From)
	} else {
		fmt.Fprintf(&b, "(%d,%d)", A.From, A.To)
	}
	return b.String()
}

// untyped identity of a symbol, used to check disjointness of alphabets
func (A Symbol) identity() Symbol {
	A.Kind = NonterminalKind
	A.Origin = NonterminalKind
	return A
}

// CompareSymbols orders symbols by kind, name and tag. Non-terminals sort
// before terminals.
func CompareSymbols(A, B Symbol) int {
	if c := utils.Int8Comparator(int8(A.Kind), int8(B.Kind)); c != 0 {
		return c
	}
	if c := utils.StringComparator(A.Name, B.Name); c != 0 {
		return c
	}
	if c := utils.Int8Comparator(int8(A.Origin), int8(B.Origin)); c != 0 {
		return c
	}
	if A.Lifted != B.Lifted {
		if A.Lifted {
			return 1
		}
		return -1
	}
	if c := utils.Int8Comparator(A.Arity, B.Arity); c != 0 {
		return c
	}
	if c := utils.IntComparator(A.From, B.From); c != 0 {
		return c
	}
	return utils.IntComparator(A.To, B.To)
}

// symbolComparator adapts CompareSymbols for gods containers.
func symbolComparator(a, b interface{}) int {
	return CompareSymbols(a.(Symbol), b.(Symbol))
}
