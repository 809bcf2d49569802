/*
Package flat builds flattened context-free grammars.

A flattened grammar results from synchronizing the derivations of a grammar G
with a periodic index automaton of p·q states. Nonterminals and terminals of the
flattened grammar are tagged with automaton states, and its productions encode
how much of the automaton's state space a derivation step consumes. Package
structure is as follows:

■ grammar: Package grammar implements symbols, productions and read-only grammars,
together with a grammar builder, a (shallow) LL(1) recognizer and Parikh formulas.
Sub-package gdl reads grammars from a textual grammar definition language.

■ automaton: Package automaton implements the periodic index automaton, a stateless
index space partitioned into q blocks of p states.

■ flatten: Package flatten implements the flattening transform and descriptions of
the word sets it is intended for.

■ lr0: Package lr0 constructs LR(0) item sets, the characteristic finite state machine
and parser tables for any grammar, flattened or not.

■ scanner: Package scanner defines a tokenizer interface and lexmachine-based tokenizers
for input words.

■ cmd/flat: Command flat is an interactive tool for experiments with grammars
and their flattenings.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package flat
