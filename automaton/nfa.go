package automaton

import (
	"github.com/dekarrin/langauto/autoerr"
	"github.com/dekarrin/langauto/internal/util"
)

// NFA is a nondeterministic finite automaton (Q, Σ, δ, q0, F). δ maps
// (state, symbol) pairs — symbol may be epsilon — to a set of next states;
// entries absent from the transition table are treated as the empty set.
type NFA struct {
	states   util.StringSet
	alphabet util.StringSet
	delta    map[NFAKey]util.StringSet
	start    string
	accept   util.StringSet
}

// NewNFA validates and constructs an NFA. transitions values must each be a
// []string (the set of next states for that (state, symbol) pair, possibly
// empty); any other dynamic type is a Range-shape error, since the caller
// is handing over a dynamically-typed mapping with no static guarantee of
// shape. Q is inferred as the set of states with at least one outgoing row
// in transitions — a state with no real transitions (e.g. a dead-end
// accepting state) must still appear as a key, mapped to an empty or
// epsilon-only target list, to be considered part of Q. Σ is inferred as
// the non-epsilon symbols appearing in transitions' keys.
func NewNFA(transitions map[NFAKey]any, start string, accept []string) (*NFA, error) {
	states := util.NewStringSet()
	alphabet := util.NewStringSet()
	for k := range transitions {
		states.Add(k.State)
		if k.Symbol != epsilon {
			alphabet.Add(k.Symbol)
			if err := checkSymbolArity(k.Symbol); err != nil {
				return nil, err
			}
		}
	}

	delta := make(map[NFAKey]util.StringSet, len(transitions))
	for k, raw := range transitions {
		targets, ok := raw.([]string)
		if !ok {
			if raw == nil {
				targets = nil
			} else {
				return nil, autoerr.RangeShape(k.State, k.Symbol)
			}
		}
		set := util.NewStringSet(targets...)
		for _, t := range set.Elements() {
			if !states.Has(t) {
				return nil, autoerr.RangeViolation(k.State, k.Symbol, t)
			}
		}
		delta[k] = set
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

	return &NFA{states: states, alphabet: alphabet, delta: delta, start: start, accept: acceptSet}, nil
}

// States returns the NFA's states, sorted.
func (n *NFA) States() []string {
	return n.states.Elements()
}

// Alphabet returns the NFA's alphabet, sorted.
func (n *NFA) Alphabet() []string {
	return n.alphabet.Elements()
}

// Start returns the start state.
func (n *NFA) Start() string {
	return n.start
}

// Accept returns the accepting states, sorted.
func (n *NFA) Accept() []string {
	return n.accept.Elements()
}

// EpsilonClosure returns the least set containing from that is closed under
// epsilon-transitions, computed by breadth-first expansion.
func (n *NFA) EpsilonClosure(from util.StringSet) util.StringSet {
	closure := from.Copy()
	queue := from.Elements()
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, next := range n.delta[NFAKey{State: q, Symbol: epsilon}].Elements() {
			if !closure.Has(next) {
				closure.Add(next)
				queue = append(queue, next)
			}
		}
	}
	return closure
}

// Accepts simulates w against the NFA: C0 = closure({q0}), and for each
// symbol Ci+1 = closure(union of delta(q,a) for q in Ci). Accepts iff the
// final configuration intersects F. A symbol outside Σ simply has no
// transitions — a missing NFAKey yields the empty set from delta — so
// there is no separate alphabet-input error path the way DFA.Accepts has
// one; an out-of-alphabet symbol just causes the walk to die out.
func (n *NFA) Accepts(w string) bool {
	current := n.EpsilonClosure(util.NewStringSet(n.start))

	for _, r := range w {
		sym := string(r)
		next := util.NewStringSet()
		for _, q := range current.Elements() {
			next = next.Union(n.delta[NFAKey{State: q, Symbol: sym}])
		}
		current = n.EpsilonClosure(next)
	}

	for _, q := range current.Elements() {
		if n.accept.Has(q) {
			return true
		}
	}
	return false
}

// rename returns a copy of n with every state tagged via util.SideTag(side,
// ·), so that two NFAs sharing state names can be combined without
// collision.
func (n *NFA) rename(side int) *NFA {
	tag := func(s string) string { return util.SideTag(side, s) }

	delta := make(map[NFAKey]util.StringSet, len(n.delta))
	for k, targets := range n.delta {
		tagged := util.NewStringSet()
		for _, t := range targets.Elements() {
			tagged.Add(tag(t))
		}
		delta[NFAKey{State: tag(k.State), Symbol: k.Symbol}] = tagged
	}

	states := util.NewStringSet()
	for _, s := range n.states.Elements() {
		states.Add(tag(s))
	}
	accept := util.NewStringSet()
	for _, a := range n.accept.Elements() {
		accept.Add(tag(a))
	}

	return &NFA{
		states:   states,
		alphabet: n.alphabet.Copy(),
		delta:    delta,
		start:    tag(n.start),
		accept:   accept,
	}
}

func mergeDelta(dst map[NFAKey]util.StringSet, src map[NFAKey]util.StringSet) {
	for k, v := range src {
		if existing, ok := dst[k]; ok {
			dst[k] = existing.Union(v)
		} else {
			dst[k] = v.Copy()
		}
	}
}

func addEdge(delta map[NFAKey]util.StringSet, from, symbol, to string) {
	k := NFAKey{State: from, Symbol: symbol}
	set, ok := delta[k]
	if !ok {
		set = util.NewStringSet()
		delta[k] = set
	}
	set.Add(to)
}

// Union builds the Thompson-style union of n and other: a fresh start state
// with epsilon-edges to each renamed start, accepting iff either operand
// accepts.
func (n *NFA) Union(other *NFA) *NFA {
	a := n.rename(0)
	b := other.rename(1)

	freshStart := util.SideTag(2, "start")

	delta := make(map[NFAKey]util.StringSet)
	mergeDelta(delta, a.delta)
	mergeDelta(delta, b.delta)
	addEdge(delta, freshStart, epsilon, a.start)
	addEdge(delta, freshStart, epsilon, b.start)

	states := a.states.Union(b.states)
	states.Add(freshStart)

	return &NFA{
		states:   states,
		alphabet: a.alphabet.Union(b.alphabet),
		delta:    delta,
		start:    freshStart,
		accept:   a.accept.Union(b.accept),
	}
}

// Concat builds the Thompson-style concatenation of n and other: every
// accepting state of n gains an epsilon-edge to other's start, and the
// result accepts only where other does.
func (n *NFA) Concat(other *NFA) *NFA {
	a := n.rename(0)
	b := other.rename(1)

	delta := make(map[NFAKey]util.StringSet)
	mergeDelta(delta, a.delta)
	mergeDelta(delta, b.delta)
	for _, f := range a.accept.Elements() {
		addEdge(delta, f, epsilon, b.start)
	}

	return &NFA{
		states:   a.states.Union(b.states),
		alphabet: a.alphabet.Union(b.alphabet),
		delta:    delta,
		start:    a.start,
		accept:   b.accept.Copy(),
	}
}

// Star builds the Kleene star of n: a fresh, also-accepting start state
// with an epsilon-edge into n, and an epsilon-edge from every accepting
// state of n back to n's original start.
func (n *NFA) Star() *NFA {
	a := n.rename(0)
	freshStart := util.SideTag(2, "start")

	delta := make(map[NFAKey]util.StringSet)
	mergeDelta(delta, a.delta)
	addEdge(delta, freshStart, epsilon, a.start)
	for _, f := range a.accept.Elements() {
		addEdge(delta, f, epsilon, a.start)
	}

	states := a.states.Copy()
	states.Add(freshStart)
	accept := a.accept.Copy()
	accept.Add(freshStart)

	return &NFA{
		states:   states,
		alphabet: a.alphabet.Copy(),
		delta:    delta,
		start:    freshStart,
		accept:   accept,
	}
}

// Determinize performs subset construction: DFA states are the subsets of
// Q reachable from closure({q0}) by repeated image steps, so only reachable
// subsets are ever materialized. When some step's image is empty, the empty
// subset is materialized as a non-accepting dead state, keeping the
// resulting DFA's transition function total.
func (n *NFA) Determinize() *DFA {
	startSet := n.EpsilonClosure(util.NewStringSet(n.start))
	startName := startSet.Canonical()

	named := map[string]util.StringSet{startName: startSet}
	delta := make(map[DFAKey]string)
	accept := util.NewStringSet()
	if startSet.Intersects(n.accept) {
		accept.Add(startName)
	}

	queue := []string{startName}
	seen := map[string]bool{startName: true}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		set := named[name]

		for _, sym := range n.Alphabet() {
			image := util.NewStringSet()
			for _, q := range set.Elements() {
				image = image.Union(n.delta[NFAKey{State: q, Symbol: sym}])
			}
			closed := n.EpsilonClosure(image)
			closedName := closed.Canonical()
			delta[DFAKey{State: name, Symbol: sym}] = closedName
			if !seen[closedName] {
				seen[closedName] = true
				named[closedName] = closed
				queue = append(queue, closedName)
				if closed.Intersects(n.accept) {
					accept.Add(closedName)
				}
				_ = closedName
			}
		}
	}

	states := util.NewStringSet()
	for name := range named {
		states.Add(name)
	}

	return &DFA{
		states:   states,
		alphabet: n.alphabet.Copy(),
		delta:    delta,
		start:    startName,
		accept:   accept,
	}
}

// Table renders the NFA's transition function as a bordered table, one row
// per state and one column per symbol (epsilon included as its own
// column), cells holding the comma-joined target states.
func (n *NFA) Table() string {
	return renderTransitionTable(n.States(), append([]string{epsilonColumn}, n.Alphabet()...), func(state, sym string) string {
		if sym == epsilonColumn {
			sym = epsilon
		}
		return n.delta[NFAKey{State: state, Symbol: sym}].Canonical()
	})
}

const epsilonColumn = "ε"
