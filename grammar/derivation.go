package grammar

// IsValidDerivation reports whether steps is a valid leftmost-unrestricted
// derivation in g: steps[0] must be exactly [Start()], and for every
// consecutive pair (s_i, s_{i+1}) there must be some split
// s_i = alpha . [v] . beta with v a variable and some production v -> gamma
// in R such that s_{i+1} = alpha . gamma . beta. Exactly one variable is
// rewritten per step; empty productions contribute zero symbols to the
// successor.
func (g *CFG) IsValidDerivation(steps [][]string) (bool, error) {
	if len(steps) == 0 {
		return false, nil
	}
	if len(steps[0]) != 1 || steps[0][0] != g.start {
		return false, nil
	}

	for i := 0; i+1 < len(steps); i++ {
		if !g.stepIsValid(steps[i], steps[i+1]) {
			return false, nil
		}
	}
	return true, nil
}

// stepIsValid reports whether `to` follows `from` by rewriting exactly one
// variable occurrence in `from` with one of its productions.
func (g *CFG) stepIsValid(from, to []string) bool {
	for j, sym := range from {
		if !g.IsVariable(sym) {
			continue
		}
		alpha := from[:j]
		beta := from[j+1:]
		for _, gamma := range g.rules[sym] {
			if len(to) != len(alpha)+len(gamma)+len(beta) {
				continue
			}
			if matchesConcat(to, alpha, gamma, beta) {
				return true
			}
		}
	}
	return false
}

func matchesConcat(to []string, alpha, gamma Production, beta []string) bool {
	idx := 0
	for _, s := range alpha {
		if to[idx] != s {
			return false
		}
		idx++
	}
	for _, s := range gamma {
		if to[idx] != s {
			return false
		}
		idx++
	}
	for _, s := range beta {
		if to[idx] != s {
			return false
		}
		idx++
	}
	return true
}
