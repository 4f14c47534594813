package automaton

import (
	"unicode/utf8"

	"github.com/dekarrin/langauto/autoerr"
	"github.com/dekarrin/langauto/internal/util"
)

type tokenKind int

const (
	kindLiteral tokenKind = iota
	kindLParen
	kindRParen
	kindOr
	kindConcatOp
	kindStar
	kindEpsilon
	kindEmpty
)

type token struct {
	kind  tokenKind
	value string
}

// Fit compiles a regex surface-language pattern into an NFA via Thompson
// construction, evaluated directly off a postfix stack with no
// intermediate AST. alphabet defaults to the printable character set minus
// the seven reserved operator characters when nil or empty.
func Fit(pattern string, alphabet []string) (*NFA, error) {
	effective, err := resolveAlphabet(alphabet)
	if err != nil {
		return nil, err
	}

	tokens, err := tokenizeRegex(pattern, effective)
	if err != nil {
		return nil, err
	}
	if err := checkAdjacentOperators(tokens); err != nil {
		return nil, err
	}
	tokens = insertImplicitConcat(tokens)

	postfix, err := shuntingYard(tokens)
	if err != nil {
		return nil, err
	}
	return evaluatePostfix(postfix)
}

func resolveAlphabet(alphabet []string) (util.StringSet, error) {
	if len(alphabet) == 0 {
		return defaultAlphabet(), nil
	}
	set := util.NewStringSet()
	for _, s := range alphabet {
		if utf8.RuneCountInString(s) != 1 {
			return nil, autoerr.RegexSurface("alphabet symbol %q is not a single character", s)
		}
		if isReserved(s) {
			return nil, autoerr.RegexSurface("alphabet symbol %q collides with a reserved regex character", s)
		}
		set.Add(s)
	}
	return set, nil
}

// defaultAlphabet is the printable ASCII range minus all seven reserved
// operator characters, which are always available as operators regardless
// of the supplied alphabet.
func defaultAlphabet() util.StringSet {
	set := util.NewStringSet()
	for r := rune(0x20); r <= 0x7E; r++ {
		s := string(r)
		if isReserved(s) {
			continue
		}
		set.Add(s)
	}
	return set
}

func tokenizeRegex(pattern string, alphabet util.StringSet) ([]token, error) {
	var tokens []token
	for _, r := range pattern {
		s := string(r)
		switch s {
		case "(":
			tokens = append(tokens, token{kind: kindLParen, value: s})
		case ")":
			tokens = append(tokens, token{kind: kindRParen, value: s})
		case "|":
			tokens = append(tokens, token{kind: kindOr, value: s})
		case "•":
			tokens = append(tokens, token{kind: kindConcatOp, value: s})
		case "*":
			tokens = append(tokens, token{kind: kindStar, value: s})
		case "€":
			tokens = append(tokens, token{kind: kindEpsilon, value: s})
		case "Ø":
			tokens = append(tokens, token{kind: kindEmpty, value: s})
		default:
			if !alphabet.Has(s) {
				return nil, autoerr.RegexSurface("character %q is neither in the alphabet nor a reserved operator", s)
			}
			tokens = append(tokens, token{kind: kindLiteral, value: s})
		}
	}
	return tokens, nil
}

func isBinaryOp(t token) bool {
	return t.kind == kindOr || t.kind == kindConcatOp
}

// checkAdjacentOperators rejects a binary operator immediately followed by
// another binary operator, such as "a||b" or "a|•b"; `*` and parenthesis
// context never trigger this since they aren't binary operators.
func checkAdjacentOperators(tokens []token) error {
	for i := 0; i+1 < len(tokens); i++ {
		if isBinaryOp(tokens[i]) && isBinaryOp(tokens[i+1]) {
			return autoerr.RegexSurface("binary operator %q immediately followed by operator %q", tokens[i].value, tokens[i+1].value)
		}
	}
	return nil
}

func isConcatLeftEdge(t token) bool {
	switch t.kind {
	case kindLiteral, kindRParen, kindStar, kindEpsilon, kindEmpty:
		return true
	}
	return false
}

func isConcatRightEdge(t token) bool {
	switch t.kind {
	case kindLiteral, kindLParen, kindEpsilon, kindEmpty:
		return true
	}
	return false
}

// insertImplicitConcat inserts an explicit • token between every adjacent
// pair (x,y) where x is the end of a complete subexpression and y starts
// one, so "ab" parses the same as "a•b".
func insertImplicitConcat(tokens []token) []token {
	var out []token
	for i, t := range tokens {
		out = append(out, t)
		if i+1 >= len(tokens) {
			continue
		}
		if isConcatLeftEdge(t) && isConcatRightEdge(tokens[i+1]) {
			out = append(out, token{kind: kindConcatOp, value: "•"})
		}
	}
	return out
}

var precedence = map[tokenKind]int{
	kindOr:       1,
	kindConcatOp: 2,
}

// shuntingYard runs Dijkstra's operator-precedence algorithm over tokens,
// producing postfix. `*` is pushed straight to the output, since as a
// postfix unary operator at the highest precedence it always binds to the
// immediately preceding completed subexpression.
func shuntingYard(tokens []token) ([]token, error) {
	var output []token
	var stack []token

	for _, t := range tokens {
		switch t.kind {
		case kindLiteral, kindEpsilon, kindEmpty, kindStar:
			output = append(output, t)
		case kindOr, kindConcatOp:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.kind == kindLParen {
					break
				}
				if precedence[top.kind] >= precedence[t.kind] {
					output = append(output, top)
					stack = stack[:len(stack)-1]
					continue
				}
				break
			}
			stack = append(stack, t)
		case kindLParen:
			stack = append(stack, t)
		case kindRParen:
			found := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.kind == kindLParen {
					found = true
					break
				}
				output = append(output, top)
			}
			if !found {
				return nil, autoerr.RegexSurface("unmatched closing parenthesis")
			}
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind == kindLParen {
			return nil, autoerr.RegexSurface("unmatched opening parenthesis")
		}
		output = append(output, top)
	}
	return output, nil
}

func literalNFA(c string) *NFA {
	return &NFA{
		states:   util.NewStringSet("q0", "q1"),
		alphabet: util.NewStringSet(c),
		delta: map[NFAKey]util.StringSet{
			{State: "q0", Symbol: c}: util.NewStringSet("q1"),
		},
		start:  "q0",
		accept: util.NewStringSet("q1"),
	}
}

func epsilonNFA() *NFA {
	return &NFA{
		states:   util.NewStringSet("q0"),
		alphabet: util.NewStringSet(),
		delta:    map[NFAKey]util.StringSet{},
		start:    "q0",
		accept:   util.NewStringSet("q0"),
	}
}

func emptyLanguageNFA() *NFA {
	return &NFA{
		states:   util.NewStringSet("q0", "q1"),
		alphabet: util.NewStringSet(),
		delta:    map[NFAKey]util.StringSet{},
		start:    "q0",
		accept:   util.NewStringSet(),
	}
}

// evaluatePostfix assembles Thompson NFAs directly off a stack, per the
// postfix token stream: literal pushes a two-state fragment, € and Ø push
// their fixed fragments, • and | pop two operands and push their
// combinator's result, * pops one.
func evaluatePostfix(postfix []token) (*NFA, error) {
	var stack []*NFA

	pop2 := func() (*NFA, *NFA, bool) {
		if len(stack) < 2 {
			return nil, nil, false
		}
		b := stack[len(stack)-1]
		a := stack[len(stack)-2]
		stack = stack[:len(stack)-2]
		return a, b, true
	}

	for _, t := range postfix {
		switch t.kind {
		case kindLiteral:
			stack = append(stack, literalNFA(t.value))
		case kindEpsilon:
			stack = append(stack, epsilonNFA())
		case kindEmpty:
			stack = append(stack, emptyLanguageNFA())
		case kindConcatOp:
			a, b, ok := pop2()
			if !ok {
				return nil, autoerr.RegexSurface("malformed expression: concatenation missing an operand")
			}
			stack = append(stack, a.Concat(b))
		case kindOr:
			a, b, ok := pop2()
			if !ok {
				return nil, autoerr.RegexSurface("malformed expression: alternation missing an operand")
			}
			stack = append(stack, a.Union(b))
		case kindStar:
			if len(stack) < 1 {
				return nil, autoerr.RegexSurface("malformed expression: star missing an operand")
			}
			a := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, a.Star())
		}
	}

	if len(stack) != 1 {
		return nil, autoerr.RegexSurface("malformed expression: %d operands remain after evaluation", len(stack))
	}
	return stack[0], nil
}
