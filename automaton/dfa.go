package automaton

import (
	"github.com/dekarrin/langauto/autoerr"
	"github.com/dekarrin/langauto/grammar"
	"github.com/dekarrin/langauto/internal/util"
)

// DFA is a deterministic finite automaton (Q, Σ, δ, q0, F) with δ total on
// Q×Σ.
type DFA struct {
	states   util.StringSet
	alphabet util.StringSet
	delta    map[DFAKey]string
	start    string
	accept   util.StringSet
}

// NewDFA validates and constructs a DFA. Q is inferred as the states
// appearing as a transition row's source; Σ is inferred as the symbols
// appearing in transitions' keys. transitions values must each be a
// string naming the target state.
func NewDFA(transitions map[DFAKey]any, start string, accept []string) (*DFA, error) {
	states := util.NewStringSet()
	alphabet := util.NewStringSet()
	for k := range transitions {
		states.Add(k.State)
		alphabet.Add(k.Symbol)
		if err := checkSymbolArity(k.Symbol); err != nil {
			return nil, err
		}
	}

	delta := make(map[DFAKey]string, len(transitions))
	for k, raw := range transitions {
		to, ok := raw.(string)
		if !ok {
			return nil, autoerr.RangeViolation(k.State, k.Symbol, "")
		}
		if !states.Has(to) {
			return nil, autoerr.RangeViolation(k.State, k.Symbol, to)
		}
		delta[k] = to
	}

	for _, q := range states.Elements() {
		for _, a := range alphabet.Elements() {
			if _, ok := delta[DFAKey{State: q, Symbol: a}]; !ok {
				return nil, autoerr.MissingCase(q, a)
			}
		}
	}

	if start == "" || !states.Has(start) {
		return nil, autoerr.StartNotInStates(start)
	}
	acceptSet := util.NewStringSet(accept...)
	for _, a := range acceptSet.Elements() {
		if !states.Has(a) {
			return nil, autoerr.AcceptNotSubset(a)
		}
	}

	return &DFA{states: states, alphabet: alphabet, delta: delta, start: start, accept: acceptSet}, nil
}

// States returns the DFA's states, sorted.
func (d *DFA) States() []string { return d.states.Elements() }

// Alphabet returns the DFA's alphabet, sorted.
func (d *DFA) Alphabet() []string { return d.alphabet.Elements() }

// Start returns the start state.
func (d *DFA) Start() string { return d.start }

// Accept returns the accepting states, sorted.
func (d *DFA) Accept() []string { return d.accept.Elements() }

// Accepts simulates w: start at q0, follow δ for each symbol, accept iff
// the final state is in F. Returns an Alphabet-input error if w contains a
// symbol outside Σ.
func (d *DFA) Accepts(w string) (bool, error) {
	current := d.start
	for _, r := range w {
		sym := string(r)
		if !d.alphabet.Has(sym) {
			return false, autoerr.AlphabetInput(sym)
		}
		current = d.delta[DFAKey{State: current, Symbol: sym}]
	}
	return d.accept.Has(current), nil
}

// NonDeterminize lifts δ to δ'(q,a) = {δ(q,a)}, carrying the same Q, Σ, q0,
// F.
func (d *DFA) NonDeterminize() *NFA {
	delta := make(map[NFAKey]util.StringSet, len(d.delta))
	for k, to := range d.delta {
		delta[NFAKey{State: k.State, Symbol: k.Symbol}] = util.NewStringSet(to)
	}
	return &NFA{
		states:   d.states.Copy(),
		alphabet: d.alphabet.Copy(),
		delta:    delta,
		start:    d.start,
		accept:   d.accept.Copy(),
	}
}

// Concat is defined via non_determinize/NFA.Concat/determinize and is
// potentially exponential in the size of the operands.
func (d *DFA) Concat(other *DFA) *DFA {
	return d.NonDeterminize().Concat(other.NonDeterminize()).Determinize()
}

// productConstruct builds the product automaton of d and other, routing
// symbols outside an operand's own alphabet to a per-operand trap state,
// and deciding acceptance of each reached pair via acceptRule.
func (d *DFA) productConstruct(other *DFA, acceptRule func(pAccept, qAccept bool) bool) *DFA {
	trapA := util.SideTag(0, "trap")
	trapB := util.SideTag(1, "trap")

	step := func(dfa *DFA, trap, state, sym string) string {
		if state == trap {
			return trap
		}
		if !dfa.alphabet.Has(sym) {
			return trap
		}
		return dfa.delta[DFAKey{State: state, Symbol: sym}]
	}
	accepting := func(dfa *DFA, trap, state string) bool {
		return state != trap && dfa.accept.Has(state)
	}

	alphabet := d.alphabet.Union(other.alphabet)
	delta := make(map[DFAKey]string)
	states := util.NewStringSet()
	accept := util.NewStringSet()

	type pair struct{ p, q string }
	startName := util.PairTag(d.start, other.start)
	named := map[string]pair{startName: {d.start, other.start}}
	states.Add(startName)
	if acceptRule(accepting(d, trapA, d.start), accepting(other, trapB, other.start)) {
		accept.Add(startName)
	}

	queue := []string{startName}
	seen := map[string]bool{startName: true}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		cur := named[name]

		for _, sym := range alphabet.Elements() {
			np := step(d, trapA, cur.p, sym)
			nq := step(other, trapB, cur.q, sym)
			nname := util.PairTag(np, nq)
			delta[DFAKey{State: name, Symbol: sym}] = nname

			if !seen[nname] {
				seen[nname] = true
				named[nname] = pair{np, nq}
				states.Add(nname)
				queue = append(queue, nname)
				if acceptRule(accepting(d, trapA, np), accepting(other, trapB, nq)) {
					accept.Add(nname)
				}
			}
		}
	}

	return &DFA{states: states, alphabet: alphabet, delta: delta, start: startName, accept: accept}
}

// Union is the product construction: F' = {(p,q) : p∈F1 ∨ q∈F2}, with a
// fresh trap state per operand absorbing symbols outside that operand's
// alphabet.
func (d *DFA) Union(other *DFA) *DFA {
	return d.productConstruct(other, func(p, q bool) bool { return p || q })
}

// Intersect is the dual of Union: F' = {(p,q) : p∈F1 ∧ q∈F2}.
func (d *DFA) Intersect(other *DFA) *DFA {
	return d.productConstruct(other, func(p, q bool) bool { return p && q })
}

// Complement flips the accept set; trivial given a DFA's totality.
func (d *DFA) Complement() *DFA {
	accept := util.NewStringSet()
	for _, s := range d.States() {
		if !d.accept.Has(s) {
			accept.Add(s)
		}
	}
	delta := make(map[DFAKey]string, len(d.delta))
	for k, v := range d.delta {
		delta[k] = v
	}
	return &DFA{states: d.states.Copy(), alphabet: d.alphabet.Copy(), delta: delta, start: d.start, accept: accept}
}

// CFGrammarize produces a grammar whose variables are the DFA's states,
// terminals Σ, start variable q0, with q -> a q' for each transition
// δ(q,a)=q', plus q -> € for every accepting q.
func (d *DFA) CFGrammarize() (*grammar.CFG, error) {
	rules := make(map[string][]grammar.RawProduction, d.states.Len())
	for _, q := range d.States() {
		rules[q] = nil
	}
	for k, to := range d.delta {
		rules[k.State] = append(rules[k.State], grammar.RawProduction([]string{k.Symbol, to}))
	}
	for _, f := range d.Accept() {
		rules[f] = append(rules[f], grammar.RawProduction("€"))
	}
	return grammar.NewCFG(rules, d.start)
}

// Table renders the DFA's transition function as a bordered table, one row
// per state, one column per symbol.
func (d *DFA) Table() string {
	return renderTransitionTable(d.States(), d.Alphabet(), func(state, sym string) string {
		return d.delta[DFAKey{State: state, Symbol: sym}]
	})
}
