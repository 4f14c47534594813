package grammar

import (
	"fmt"

	"github.com/dekarrin/langauto/internal/util"
)

// ChomskyNormalize produces an equivalent grammar in Chomsky Normal Form:
// every production is either a single terminal or exactly two variables,
// with the standard exception that the (new) start variable may still
// produce epsilon. The pipeline runs, in mandatory order, START, TERM, BIN,
// DEL, UNIT — each stage must see the previous stage's output, since e.g.
// DEL assumes BIN has already reduced every production to length <= 2 or
// 1, and UNIT assumes DEL has already removed every epsilon production
// except the start's.
func (g *CFG) ChomskyNormalize() (*CFG, error) {
	cp := g.applyStart()
	cp = cp.applyTerm()
	cp = cp.applyBin()
	cp = cp.applyDel()
	cp = cp.applyUnit()

	if err := cp.validate(); err != nil {
		return nil, err
	}
	return cp, nil
}

// applyStart introduces a fresh start variable S' -> S, so the start
// symbol itself never appears on any production's right-hand side.
func (g *CFG) applyStart() *CFG {
	cp := g.clone()
	newStart := cp.generateUniqueName(g.start)
	cp.rules[newStart] = []Production{{g.start}}
	cp.start = newStart
	cp.terms = cp.inferTerminals()
	return cp
}

// applyTerm introduces, for every terminal appearing inside a production
// of length >= 2, a fresh variable T_t -> t, and rewrites every such
// occurrence of t to T_t. A terminal gets exactly one fresh variable,
// reused at every occurrence.
func (g *CFG) applyTerm() *CFG {
	cp := g.clone()
	termVar := map[string]string{}

	for _, v := range cp.Variables() {
		prods := cp.rules[v]
		newProds := make([]Production, len(prods))
		for i, p := range prods {
			if len(p) < 2 {
				newProds[i] = p
				continue
			}
			np := make(Production, len(p))
			for j, sym := range p {
				if cp.IsVariable(sym) {
					np[j] = sym
					continue
				}
				fresh, ok := termVar[sym]
				if !ok {
					fresh = cp.generateUniqueName("T-" + sym)
					termVar[sym] = fresh
					cp.rules[fresh] = []Production{{sym}}
				}
				np[j] = fresh
			}
			newProds[i] = np
		}
		cp.rules[v] = newProds
	}
	cp.terms = cp.inferTerminals()
	return cp
}

// applyBin replaces every production A -> X1 X2 ... Xk with k > 2 by a
// chain A -> X1 A1, A1 -> X2 A2, ..., A_{k-2} -> X_{k-1} Xk of fresh
// variables, so every surviving production has at most two symbols on its
// right-hand side.
func (g *CFG) applyBin() *CFG {
	cp := g.clone()

	for _, v := range cp.Variables() {
		prods := cp.rules[v]
		var newProds []Production
		for _, p := range prods {
			if len(p) <= 2 {
				newProds = append(newProds, p)
				continue
			}

			k := len(p)
			numFresh := k - 2
			freshNames := make([]string, numFresh)
			for i := 0; i < numFresh; i++ {
				freshNames[i] = cp.generateUniqueName(fmt.Sprintf("%s-bin%d", v, i+1))
			}

			newProds = append(newProds, Production{p[0], freshNames[0]})
			for i := 0; i < numFresh-1; i++ {
				cp.rules[freshNames[i]] = []Production{{p[i+1], freshNames[i+1]}}
			}
			cp.rules[freshNames[numFresh-1]] = []Production{{p[k-2], p[k-1]}}
		}
		cp.rules[v] = newProds
	}
	cp.terms = cp.inferTerminals()
	return cp
}

// nullableVariables returns the set of variables that can derive epsilon,
// computed as the least fixpoint of "has an epsilon production, or a
// production consisting entirely of already-nullable variables".
func (g *CFG) nullableVariables() util.StringSet {
	nullable := util.NewStringSet()
	changed := true
	for changed {
		changed = false
		for _, v := range g.Variables() {
			if nullable.Has(v) {
				continue
			}
			for _, p := range g.rules[v] {
				if p.IsEpsilon() {
					nullable.Add(v)
					changed = true
					break
				}
				allNullable := true
				for _, sym := range p {
					if !nullable.Has(sym) {
						allNullable = false
						break
					}
				}
				if allNullable {
					nullable.Add(v)
					changed = true
					break
				}
			}
		}
	}
	return nullable
}

// nullableRewrites returns every production obtainable from p by omitting
// some subset of its nullable-variable occurrences (including the empty
// subset, i.e. p itself), deduplicated.
func nullableRewrites(p Production, nullable util.StringSet) []Production {
	var positions []int
	for i, sym := range p {
		if nullable.Has(sym) {
			positions = append(positions, i)
		}
	}
	if len(positions) == 0 {
		return []Production{p.copy()}
	}

	seen := map[string]bool{}
	var results []Production
	n := len(positions)
	for mask := 0; mask < (1 << n); mask++ {
		omit := make(map[int]bool, n)
		for b := 0; b < n; b++ {
			if mask&(1<<b) != 0 {
				omit[positions[b]] = true
			}
		}
		var np Production
		for i, sym := range p {
			if omit[i] {
				continue
			}
			np = append(np, sym)
		}
		if np == nil {
			np = Production{}
		}
		if seen[np.key()] {
			continue
		}
		seen[np.key()] = true
		results = append(results, np)
	}
	return results
}

// applyDel eliminates epsilon productions: every production is replaced by
// the set of productions obtainable by omitting any subset of its
// nullable-variable occurrences, and every resulting empty production is
// dropped except for the start variable's (so S' -> epsilon survives when
// the language contains the empty string).
func (g *CFG) applyDel() *CFG {
	cp := g.clone()
	nullable := cp.nullableVariables()

	for _, v := range cp.Variables() {
		seen := map[string]bool{}
		var newProds []Production
		for _, p := range cp.rules[v] {
			for _, variant := range nullableRewrites(p, nullable) {
				if variant.IsEpsilon() && v != cp.start {
					continue
				}
				if seen[variant.key()] {
					continue
				}
				seen[variant.key()] = true
				newProds = append(newProds, variant)
			}
		}
		cp.rules[v] = newProds
	}
	cp.terms = cp.inferTerminals()
	return cp
}

func isUnitProduction(p Production, g *CFG) bool {
	return len(p) == 1 && g.IsVariable(p[0])
}

// unitClosureProductions returns every non-unit production reachable from
// start by following zero or more unit productions A -> B.
func unitClosureProductions(g *CFG, start string) []Production {
	visited := map[string]bool{start: true}
	queue := []string{start}
	seen := map[string]bool{}
	var result []Production

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, p := range g.rules[v] {
			if isUnitProduction(p, g) {
				b := p[0]
				if !visited[b] {
					visited[b] = true
					queue = append(queue, b)
				}
				continue
			}
			if seen[p.key()] {
				continue
			}
			seen[p.key()] = true
			result = append(result, p)
		}
	}
	return result
}

// applyUnit replaces every unit production A -> B with A's direct
// non-unit productions reached by following the unit-production chain
// starting at B, and removes the unit productions themselves.
func (g *CFG) applyUnit() *CFG {
	cp := g.clone()
	resolved := make(map[string][]Production, len(cp.rules))
	for _, v := range cp.Variables() {
		resolved[v] = unitClosureProductions(cp, v)
	}
	cp.rules = resolved
	cp.terms = cp.inferTerminals()
	return cp
}
