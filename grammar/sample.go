package grammar

import (
	"sort"
	"strings"

	"github.com/dekarrin/langauto/internal/util"
)

// productiveVariables returns the set of variables that can derive some
// string of terminals (possibly the empty string), computed as the least
// fixpoint of "has a production whose every variable symbol is already
// productive".
func (g *CFG) productiveVariables() util.StringSet {
	productive := util.NewStringSet()
	changed := true
	for changed {
		changed = false
		for _, v := range g.Variables() {
			if productive.Has(v) {
				continue
			}
			for _, p := range g.rules[v] {
				ok := true
				for _, sym := range p {
					if g.IsVariable(sym) && !productive.Has(sym) {
						ok = false
						break
					}
				}
				if ok {
					productive.Add(v)
					changed = true
					break
				}
			}
		}
	}
	return productive
}

// IsEmpty reports whether g's language is empty, i.e. whether the start
// variable is unproductive.
func (g *CFG) IsEmpty() bool {
	return !g.productiveVariables().Has(g.start)
}

// GenerateSample attempts to derive a string of g's language by always
// expanding a variable's shortest productive production first, giving up
// on any branch once maxDepth nested expansions have been used without
// reaching terminals. Returns ("", false) if the language is empty or no
// derivation completes within maxDepth.
func (g *CFG) GenerateSample(maxDepth int) (string, bool) {
	productive := g.productiveVariables()
	if !productive.Has(g.start) {
		return "", false
	}
	toks, ok := g.generateWithin(g.start, maxDepth, productive)
	if !ok {
		return "", false
	}
	return strings.Join(toks, ""), true
}

func (g *CFG) generateWithin(sym string, depth int, productive util.StringSet) ([]string, bool) {
	if !g.IsVariable(sym) {
		return []string{sym}, true
	}
	if !productive.Has(sym) {
		return nil, false
	}
	if depth <= 0 {
		for _, p := range g.rules[sym] {
			if p.IsEpsilon() {
				return nil, true
			}
		}
		return nil, false
	}

	prods := make([]Production, len(g.rules[sym]))
	copy(prods, g.rules[sym])
	sort.Slice(prods, func(i, j int) bool { return len(prods[i]) < len(prods[j]) })

	for _, p := range prods {
		usable := true
		for _, s := range p {
			if g.IsVariable(s) && !productive.Has(s) {
				usable = false
				break
			}
		}
		if !usable {
			continue
		}

		var out []string
		ok := true
		for _, s := range p {
			toks, got := g.generateWithin(s, depth-1, productive)
			if !got {
				ok = false
				break
			}
			out = append(out, toks...)
		}
		if ok {
			return out, true
		}
	}
	return nil, false
}
