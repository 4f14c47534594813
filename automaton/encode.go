package automaton

import (
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/langauto/autoerr"
	"github.com/dekarrin/langauto/internal/util"
	"github.com/google/uuid"
)

const (
	epsilonSym = "€"
	emptySym   = "Ø"
)

// paren wraps s in parentheses unless it is already a single token, so that
// a multi-symbol regex fragment used as an operand of •, |, or * never
// changes meaning by precedence.
func paren(s string) string {
	if utf8.RuneCountInString(s) <= 1 {
		return s
	}
	return "(" + s + ")"
}

// concatRegex concatenates regex fragments left to right. An "€" fragment
// collapses (contributes nothing), since a concatenation with an epsilon
// factor means the same thing without it; an "Ø" fragment makes the whole
// concatenation "Ø".
func concatRegex(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p == "" || p == epsilonSym {
			continue
		}
		if p == emptySym {
			return emptySym
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return epsilonSym
	}
	var sb strings.Builder
	for i, k := range kept {
		if i > 0 {
			sb.WriteString("•")
		}
		sb.WriteString(paren(k))
	}
	return sb.String()
}

// altRegex alternates two regex fragments; a missing ("") or "Ø" operand
// drops out since it contributes no strings.
func altRegex(a, b string) string {
	if a == "" || a == emptySym {
		return b
	}
	if b == "" || b == emptySym {
		return a
	}
	if a == b {
		return a
	}
	return a + "|" + b
}

type edgeKey struct{ From, To string }

// Encode converts the DFA into a generalized NFA labeled by regex
// fragments, then eliminates every original state one at a time, folding
// each into its neighbors via the self-loop closure rule α·β*·γ, and
// returns the regex left on the single edge from a fresh start to a fresh
// accept state. Returns "Ø" if no such edge survives (the language is
// empty).
//
// A DFA's alphabet carries no restriction against the seven reserved regex
// characters the way a regex's own alphabet does: it may contain one of
// them as an ordinary transition symbol. Since the regex surface language
// has no escape mechanism for them, Encode reports an error rather than
// silently emitting a literal that would parse back as an operator instead
// of the symbol it names.
func (d *DFA) Encode() (string, error) {
	for _, sym := range d.Alphabet() {
		if isReserved(sym) {
			return "", autoerr.RegexSurface("alphabet symbol %q collides with a reserved regex character and cannot be encoded", sym)
		}
	}

	// uuid-tagged so the fresh nodes can never collide with a state name
	// the caller's DFA actually uses, no matter how it names its states.
	start := util.SideTag(2, "encode-start-"+uuid.NewString())
	accept := util.SideTag(2, "encode-accept-"+uuid.NewString())

	edges := make(map[edgeKey]string)
	setEdge := func(from, to, label string) {
		k := edgeKey{from, to}
		if existing, ok := edges[k]; ok {
			edges[k] = altRegex(existing, label)
		} else {
			edges[k] = label
		}
	}

	for k, to := range d.delta {
		setEdge(k.State, to, k.Symbol)
	}
	setEdge(start, d.start, epsilonSym)
	for _, f := range d.Accept() {
		setEdge(f, accept, epsilonSym)
	}

	for _, r := range d.States() {
		loopKey := edgeKey{r, r}
		loop, hasLoop := edges[loopKey]
		delete(edges, loopKey)

		var incoming []edgeKey
		var outgoing []edgeKey
		for k := range edges {
			if k.To == r && k.From != r {
				incoming = append(incoming, k)
			}
			if k.From == r && k.To != r {
				outgoing = append(outgoing, k)
			}
		}

		type labeled struct {
			other, label string
		}
		incs := make([]labeled, len(incoming))
		for i, k := range incoming {
			incs[i] = labeled{k.From, edges[k]}
			delete(edges, k)
		}
		outs := make([]labeled, len(outgoing))
		for i, k := range outgoing {
			outs[i] = labeled{k.To, edges[k]}
			delete(edges, k)
		}

		loopStar := ""
		if hasLoop && loop != epsilonSym {
			loopStar = paren(loop) + "*"
		}

		for _, in := range incs {
			for _, out := range outs {
				var label string
				if loopStar != "" {
					label = concatRegex(in.label, loopStar, out.label)
				} else {
					label = concatRegex(in.label, out.label)
				}
				setEdge(in.other, out.other, label)
			}
		}
	}

	final, ok := edges[edgeKey{start, accept}]
	if !ok || final == "" {
		return emptySym, nil
	}
	return final, nil
}
