package automaton

import (
	"strings"

	"github.com/dekarrin/langauto/autoerr"
	"github.com/dekarrin/langauto/internal/util"
)

// FST is a finite-state transducer (Q, Σin, Σout, δ, q0) with δ total on
// Q×Σin.
type FST struct {
	states   util.StringSet
	alphabet util.StringSet
	delta    map[FSTKey]FSTOutput
	start    string
}

// NewFST validates and constructs an FST. transitions values must each be
// an FSTOutput. Q is inferred from transitions' source states, Σin from
// transitions' keys.
func NewFST(transitions map[FSTKey]FSTOutput, start string) (*FST, error) {
	states := util.NewStringSet()
	alphabet := util.NewStringSet()
	for k := range transitions {
		states.Add(k.State)
		alphabet.Add(k.Symbol)
		if err := checkSymbolArity(k.Symbol); err != nil {
			return nil, err
		}
	}

	for k, out := range transitions {
		if !states.Has(out.State) {
			return nil, autoerr.RangeViolation(k.State, k.Symbol, out.State)
		}
	}

	for _, q := range states.Elements() {
		for _, a := range alphabet.Elements() {
			if _, ok := transitions[FSTKey{State: q, Symbol: a}]; !ok {
				return nil, autoerr.MissingCase(q, a)
			}
		}
	}

	if start == "" || !states.Has(start) {
		return nil, autoerr.StartNotInStates(start)
	}

	delta := make(map[FSTKey]FSTOutput, len(transitions))
	for k, v := range transitions {
		delta[k] = v
	}

	return &FST{states: states, alphabet: alphabet, delta: delta, start: start}, nil
}

// States returns the FST's states, sorted.
func (f *FST) States() []string { return f.states.Elements() }

// Alphabet returns the FST's input alphabet, sorted.
func (f *FST) Alphabet() []string { return f.alphabet.Elements() }

// Start returns the start state.
func (f *FST) Start() string { return f.start }

// Process simulates w deterministically, emitting each transition's output
// symbol and transitioning to its state, returning the concatenation of
// emitted symbols. Returns an Alphabet-input error on an unknown input
// symbol.
func (f *FST) Process(w string) (string, error) {
	current := f.start
	var out strings.Builder

	for _, r := range w {
		sym := string(r)
		if !f.alphabet.Has(sym) {
			return "", autoerr.AlphabetInput(sym)
		}
		next := f.delta[FSTKey{State: current, Symbol: sym}]
		out.WriteString(next.Output)
		current = next.State
	}
	return out.String(), nil
}

// Table renders the FST's transition function as a bordered table, cells
// holding "output -> next-state".
func (f *FST) Table() string {
	return renderTransitionTable(f.States(), f.Alphabet(), func(state, sym string) string {
		o := f.delta[FSTKey{State: state, Symbol: sym}]
		return o.Output + " -> " + o.State
	})
}
