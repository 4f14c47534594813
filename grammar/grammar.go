// Package grammar implements context-free grammars: construction with
// strict validation, derivation checking, and Chomsky Normal Form
// normalization.
//
// A grammar is immutable after construction; every transformation method
// returns a fresh CFG and leaves its receiver untouched, mirroring the
// purely-functional style ictiobus's grammar.Grammar uses for
// RemoveEpsilons/RemoveUnitProductions/RemoveLeftRecursion.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/langauto/autoerr"
	"github.com/dekarrin/langauto/internal/util"
	"github.com/google/uuid"
)

// Production is an ordered sequence of symbols (variables or terminals). An
// empty Production denotes the epsilon production; on the wire (RawProduction)
// it is spelled either "€" or "", but internally epsilon is always the
// zero-length slice, never a sentinel symbol.
type Production []string

// IsEpsilon reports whether p is the empty production.
func (p Production) IsEpsilon() bool {
	return len(p) == 0
}

func (p Production) key() string {
	return strings.Join(p, "\x1f")
}

func (p Production) String() string {
	if p.IsEpsilon() {
		return "€"
	}
	return strings.Join(p, " ")
}

func (p Production) copy() Production {
	cp := make(Production, len(p))
	copy(cp, p)
	return cp
}

// RawProduction is the input-side representation of a production: either a
// bare string (a one-symbol production, or "€"/"" for epsilon — a bare
// string is never split into characters, it names exactly one symbol) or
// an explicit []string sequence.
type RawProduction any

// CFG is a context-free grammar (V, T, R, S). V is the set of keys of R; T
// is inferred from every symbol used in a production that is not a key of
// R: terminals are never separately declared, membership in R's keys is
// what makes a symbol a variable.
type CFG struct {
	rules map[string][]Production
	terms util.StringSet
	start string
}

// NewCFG validates and constructs a CFG from rules (non-terminal -> set of
// productions) and a start symbol.
func NewCFG(rules map[string][]RawProduction, start string) (*CFG, error) {
	if rules == nil {
		return nil, autoerr.CFGShape("rules must be a non-nil mapping of variable to productions")
	}

	canon := make(map[string][]Production, len(rules))
	for v, raws := range rules {
		seen := map[string]bool{}
		var prods []Production
		for _, raw := range raws {
			p, err := canonicalizeProduction(raw)
			if err != nil {
				return nil, err
			}
			if seen[p.key()] {
				continue // rules are sets of productions; drop duplicates
			}
			seen[p.key()] = true
			prods = append(prods, p)
		}
		canon[v] = prods
	}

	g := &CFG{rules: canon, start: start}
	g.terms = g.inferTerminals()

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// canonicalizeProduction turns a RawProduction into its canonical
// Production form. A bare string "€" or "" is the empty production; any
// other bare string is a single-symbol production naming that entire
// string, never split into characters. A []string is taken as an explicit
// sequence of symbols.
func canonicalizeProduction(raw RawProduction) (Production, error) {
	switch v := raw.(type) {
	case string:
		if v == "" || v == "€" {
			return Production{}, nil
		}
		return Production{v}, nil
	case []string:
		for _, sym := range v {
			if sym == "" && len(v) != 1 {
				return nil, autoerr.CFGShape("empty symbol only allowed as the sole element of an epsilon production, found inside %v", v)
			}
		}
		if len(v) == 1 && v[0] == "" {
			return Production{}, nil
		}
		return Production(v).copy(), nil
	default:
		return nil, autoerr.CFGShape("production must be a string or []string, got %T", raw)
	}
}

func (g *CFG) inferTerminals() util.StringSet {
	terms := util.NewStringSet()
	for _, prods := range g.rules {
		for _, p := range prods {
			for _, sym := range p {
				if _, isVar := g.rules[sym]; !isVar {
					terms.Add(sym)
				}
			}
		}
	}
	return terms
}

func (g *CFG) validate() error {
	if len(g.rules) == 0 {
		return autoerr.CFGShape("grammar has no rules")
	}
	if g.start == "" {
		return autoerr.CFGShape("start symbol must be given")
	}
	if _, ok := g.rules[g.start]; !ok {
		return autoerr.CFGShape("start symbol %q is not a variable (not a key of the rule set)", g.start)
	}
	if g.terms.Len() == 0 {
		return autoerr.CFGShape("grammar has no terminals")
	}
	return nil
}

// Start returns the grammar's start variable.
func (g *CFG) Start() string {
	return g.start
}

// Variables returns the grammar's variables (non-terminals), sorted.
func (g *CFG) Variables() []string {
	return util.OrderedKeys(g.rules)
}

// Terminals returns the grammar's terminals, sorted.
func (g *CFG) Terminals() []string {
	return g.terms.Elements()
}

// IsVariable reports whether sym is one of the grammar's variables.
func (g *CFG) IsVariable(sym string) bool {
	_, ok := g.rules[sym]
	return ok
}

// Productions returns a defensive copy of the productions for variable v.
// Returns nil if v is not a variable of this grammar.
func (g *CFG) Productions(v string) []Production {
	prods, ok := g.rules[v]
	if !ok {
		return nil
	}
	cp := make([]Production, len(prods))
	for i := range prods {
		cp[i] = prods[i].copy()
	}
	return cp
}

func (g *CFG) String() string {
	var sb strings.Builder
	for _, v := range g.Variables() {
		prods := g.rules[v]
		strs := make([]string, len(prods))
		for i := range prods {
			strs[i] = prods[i].String()
		}
		fmt.Fprintf(&sb, "%s -> %s\n", v, strings.Join(strs, " | "))
	}
	return sb.String()
}

// maxTickSuffixAttempts bounds how many "'" we append before falling back
// to a uuid-tagged name; a pathological grammar could otherwise already
// define every tick-suffixed variant of original.
const maxTickSuffixAttempts = 8

// generateUniqueName returns a name derived from original that is not
// already a variable of g. It first tries appending "'" the way
// ictiobus's Grammar.GenerateUniqueName does, and only reaches for a
// uuid-tagged name if that doesn't converge within maxTickSuffixAttempts.
func (g *CFG) generateUniqueName(original string) string {
	name := original
	for i := 0; i < maxTickSuffixAttempts; i++ {
		name += "'"
		if !g.IsVariable(name) {
			return name
		}
	}

	for {
		name = original + "-" + uuid.NewString()
		if !g.IsVariable(name) {
			return name
		}
	}
}

// clone makes a deep, independent copy of the grammar's rule set so that
// in-place mutation during a transformation pipeline never reaches back
// into the original.
func (g *CFG) clone() *CFG {
	cp := &CFG{rules: make(map[string][]Production, len(g.rules)), start: g.start}
	for v, prods := range g.rules {
		copied := make([]Production, len(prods))
		for i := range prods {
			copied[i] = prods[i].copy()
		}
		cp.rules[v] = copied
	}
	cp.terms = cp.inferTerminals()
	return cp
}

func sortedProductionStrings(prods []Production) []string {
	strs := make([]string, len(prods))
	for i := range prods {
		strs[i] = prods[i].String()
	}
	sort.Strings(strs)
	return strs
}
