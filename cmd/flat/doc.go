/*
Command flat provides an interactive command line tool for experiments with
grammar flattening. Users load or define grammars, inspect them and the
periodic index automaton, and create flattened grammars.

    flat [-trace level] [-init file] [-panic] [grammar-file]

Flag -panic sets configuration flag 'panic-on-automaton-misuse'.

Commands:

    load <file>                  load a grammar from a file
    def <name> <rules…>          define a grammar, e.g. "def G S -> a S b | ;"
    use <name>                   use a grammar defined previously
    list                         list all grammars of the session
    show                         print the current grammar
    first <N>                    print FIRST(N)
    flatten <p> <q>              flatten the current grammar
    automaton <p> <q>            print the index automaton
    lr0 [dotfile]                create the LR(0) CFSM, optionally export it
    parikh                       print the Parikh formula of the grammar
    recognize <word>             run the LL(1) recognizer
    lang <p> <q> <w1> … <wq>     print a language description
    quit

Flattened grammars are stored in the session under their name, e.g. G[3,2].
Grammar files use the syntax of package gdl.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flat.cli'
func tracer() tracing.Trace {
	return tracing.Select("flat.cli")
}
