// Package automaton implements deterministic and nondeterministic finite
// automata, finite-state transducers, and the regex surface language that
// compiles into an NFA.
//
// Every type here is immutable after construction: combinators and
// conversions always return a freshly built value and never mutate their
// receiver, the same discipline ictiobus's automaton.NFA/DFA use for Join
// and ToDFA.
package automaton

import (
	"unicode/utf8"

	"github.com/dekarrin/langauto/autoerr"
)

const epsilon = ""

// reserved holds the regex surface's seven operator characters, which may
// never appear in a caller-supplied alphabet.
var reserved = map[string]bool{
	"(": true, ")": true, "|": true, "*": true, "•": true, "€": true, "Ø": true,
}

// DFAKey addresses one cell of a DFA's transition function.
type DFAKey struct {
	State  string
	Symbol string
}

// NFAKey addresses one cell of an NFA's transition function; Symbol may be
// epsilon ("").
type NFAKey struct {
	State  string
	Symbol string
}

// FSTKey addresses one cell of an FST's transition function.
type FSTKey struct {
	State  string
	Symbol string
}

// FSTOutput is the (next state, emitted symbol) pair an FST transition
// produces.
type FSTOutput struct {
	State  string
	Output string
}

// checkSymbolArity reports a Symbol-arity error unless sym is exactly one
// rune: a transition symbol names a single character, never a string.
func checkSymbolArity(sym string) error {
	if utf8.RuneCountInString(sym) != 1 {
		return autoerr.SymbolArity(sym)
	}
	return nil
}

func isReserved(sym string) bool {
	return reserved[sym]
}
