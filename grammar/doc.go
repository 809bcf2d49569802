/*
Package grammar implements context-free grammars: symbols, productions
and read-only grammar objects.

Building a Grammar

Grammars are either constructed from explicit sets (see New) or, more
conveniently, with a grammar builder. Clients add rules, consisting of
non-terminal symbols and terminals.

Example:

    b := grammar.NewBuilder("G")
    b.LHS("S").T("a").N("S").T("d").End()   // S  ➞  a S d
    b.LHS("S").N("S'").End()                // S  ➞  S'
    b.LHS("S'").T("b").N("S'").T("c").End() // S' ➞  b S' c
    b.LHS("S'").Epsilon()                   // S' ➞  ϵ
    g, err := b.Grammar()

The first LHS becomes the start symbol, unless set explicitly with b.Start(…).

Grammar Queries

Grammars are immutable. They offer access to their alphabets and productions,
productions per non-terminal and a shallow FIRST-set (see Grammar.First).
On top of that, grammars may be used as a simple LL(1)-recognizer for input
words (see Grammar.Recognize), and a grammar's productions may be translated
into a Parikh formula (see Parikh).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flat.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("flat.grammar")
}
