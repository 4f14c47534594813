// Package loaddef loads automaton and grammar definitions from TOML files
// for the langauto CLI demo. It is a thin, optional on-ramp into the
// library: the definition format lives entirely here, and callers end up
// holding one of the library's own public types (*automaton.DFA,
// *automaton.NFA, *automaton.FST, *grammar.CFG) or a regex pattern string.
// This mirrors a wire-struct-then-convert loader shape: unmarshal into an
// unexported struct tagged for the file format, then build the real
// domain type from it through its own validating constructor.
package loaddef

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/langauto/automaton"
	"github.com/dekarrin/langauto/grammar"
)

// Kind names the component a definition file describes.
type Kind string

const (
	KindDFA   Kind = "dfa"
	KindNFA   Kind = "nfa"
	KindFST   Kind = "fst"
	KindCFG   Kind = "cfg"
	KindRegex Kind = "regex"
)

// dfaRow is one row of a DFA transition table: δ(State, Symbol) = Next.
type dfaRow struct {
	State  string `toml:"state"`
	Symbol string `toml:"symbol"`
	Next   string `toml:"next"`
}

// nfaRow is one row of an NFA transition table: δ(State, Symbol) ⊇ Next.
// Symbol left empty denotes an ε-move. Next may list zero or more states.
type nfaRow struct {
	State  string   `toml:"state"`
	Symbol string   `toml:"symbol"`
	Next   []string `toml:"next"`
}

// fstRow is one row of an FST transition table: δ(State, Symbol) =
// (Next, Output).
type fstRow struct {
	State  string `toml:"state"`
	Symbol string `toml:"symbol"`
	Next   string `toml:"next"`
	Output string `toml:"output"`
}

// ruleRow is one CFG production: Variable -> Symbols. An empty or absent
// Symbols list denotes the epsilon production.
type ruleRow struct {
	Variable string   `toml:"variable"`
	Symbols  []string `toml:"symbols"`
}

// document is the full shape of a definition file; only the fields
// relevant to Type are expected to be populated. Every section the file
// format supports gets a field, and Type picks out the one that's live.
type document struct {
	Type Kind `toml:"type"`

	Start  string   `toml:"start"`
	Accept []string `toml:"accept"`

	DFATransitions []dfaRow `toml:"dfa_transition"`
	NFATransitions []nfaRow `toml:"nfa_transition"`
	FSTTransitions []fstRow `toml:"fst_transition"`

	Rules []ruleRow `toml:"rule"`

	Pattern  string   `toml:"pattern"`
	Alphabet []string `toml:"alphabet"`
}

// Definition holds the single component loaded from a definition file.
// Exactly one of its fields is non-nil/non-empty, selected by Kind.
type Definition struct {
	Kind Kind

	DFA   *automaton.DFA
	NFA   *automaton.NFA
	FST   *automaton.FST
	CFG   *grammar.CFG
	Regex string
}

// Load reads the TOML file at path and builds the component it describes,
// running it through the library's own validating constructor so every
// invariant the library enforces on direct construction is enforced here
// too.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, err
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Definition{}, fmt.Errorf("parse %s: %w", path, err)
	}

	switch doc.Type {
	case KindDFA:
		d, err := buildDFA(doc)
		if err != nil {
			return Definition{}, err
		}
		return Definition{Kind: KindDFA, DFA: d}, nil
	case KindNFA:
		n, err := buildNFA(doc)
		if err != nil {
			return Definition{}, err
		}
		return Definition{Kind: KindNFA, NFA: n}, nil
	case KindFST:
		f, err := buildFST(doc)
		if err != nil {
			return Definition{}, err
		}
		return Definition{Kind: KindFST, FST: f}, nil
	case KindCFG:
		g, err := buildCFG(doc)
		if err != nil {
			return Definition{}, err
		}
		return Definition{Kind: KindCFG, CFG: g}, nil
	case KindRegex:
		return Definition{Kind: KindRegex, Regex: doc.Pattern}, nil
	default:
		return Definition{}, fmt.Errorf("%s: unrecognized type %q, must be one of dfa, nfa, fst, cfg, regex", path, doc.Type)
	}
}

func buildDFA(doc document) (*automaton.DFA, error) {
	transitions := make(map[automaton.DFAKey]any, len(doc.DFATransitions))
	for _, row := range doc.DFATransitions {
		transitions[automaton.DFAKey{State: row.State, Symbol: row.Symbol}] = row.Next
	}
	return automaton.NewDFA(transitions, doc.Start, doc.Accept)
}

func buildNFA(doc document) (*automaton.NFA, error) {
	transitions := make(map[automaton.NFAKey]any, len(doc.NFATransitions))
	for _, row := range doc.NFATransitions {
		transitions[automaton.NFAKey{State: row.State, Symbol: row.Symbol}] = row.Next
	}
	return automaton.NewNFA(transitions, doc.Start, doc.Accept)
}

func buildFST(doc document) (*automaton.FST, error) {
	transitions := make(map[automaton.FSTKey]automaton.FSTOutput, len(doc.FSTTransitions))
	for _, row := range doc.FSTTransitions {
		transitions[automaton.FSTKey{State: row.State, Symbol: row.Symbol}] = automaton.FSTOutput{State: row.Next, Output: row.Output}
	}
	return automaton.NewFST(transitions, doc.Start)
}

func buildCFG(doc document) (*grammar.CFG, error) {
	rules := make(map[string][]grammar.RawProduction)
	for _, row := range doc.Rules {
		rules[row.Variable] = append(rules[row.Variable], grammar.RawProduction(row.Symbols))
	}
	return grammar.NewCFG(rules, doc.Start)
}
