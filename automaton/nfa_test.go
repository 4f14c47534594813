package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// binaryNFA builds the NFA δ(q0,1)=q1, δ(q0,0)=q0, δ(q1,0)=q0, δ(q1,1)=q1,
// start q0, accept {q1} — i.e. "ends in 1", the NFA analogue of endsIn1DFA.
func binaryNFA(t *testing.T) *NFA {
	t.Helper()
	n, err := NewNFA(map[NFAKey]any{
		{State: "q0", Symbol: "0"}: []string{"q0"},
		{State: "q0", Symbol: "1"}: []string{"q1"},
		{State: "q1", Symbol: "0"}: []string{"q0"},
		{State: "q1", Symbol: "1"}: []string{"q1"},
	}, "q0", []string{"q1"})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func Test_NewNFA_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		transitions map[NFAKey]any
		start       string
		accept      []string
		expectErr   bool
	}{
		{
			name: "accept state never declared as a row",
			transitions: map[NFAKey]any{
				{State: "q0", Symbol: "a"}: []string{"q1"},
			},
			start:     "q0",
			accept:    []string{"q1"},
			expectErr: true,
		},
		{
			name: "dead-end accept state declared via an empty row",
			transitions: map[NFAKey]any{
				{State: "q0", Symbol: "a"}: []string{"q1"},
				{State: "q1", Symbol: "a"}: []string{},
			},
			start:     "q0",
			accept:    []string{"q1"},
			expectErr: false,
		},
		{
			name: "start not in states",
			transitions: map[NFAKey]any{
				{State: "q0", Symbol: "a"}: []string{"q0"},
			},
			start:     "q9",
			expectErr: true,
		},
		{
			name: "accept not subset",
			transitions: map[NFAKey]any{
				{State: "q0", Symbol: "a"}: []string{"q0"},
			},
			start:     "q0",
			accept:    []string{"q9"},
			expectErr: true,
		},
		{
			name: "range violation",
			transitions: map[NFAKey]any{
				{State: "q0", Symbol: "a"}: []string{"q9"},
			},
			start:     "q0",
			expectErr: true,
		},
		{
			name: "bad shape",
			transitions: map[NFAKey]any{
				{State: "q0", Symbol: "a"}: "q0",
			},
			start:     "q0",
			expectErr: true,
		},
		{
			name: "symbol arity",
			transitions: map[NFAKey]any{
				{State: "q0", Symbol: "ab"}: []string{"q0"},
			},
			start:     "q0",
			expectErr: true,
		},
		{
			name: "epsilon edge",
			transitions: map[NFAKey]any{
				{State: "q0", Symbol: ""}:  []string{"q1"},
				{State: "q1", Symbol: "a"}: []string{"q1"},
			},
			start:     "q0",
			accept:    []string{"q1"},
			expectErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			_, err := NewNFA(tc.transitions, tc.start, tc.accept)
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_NFA_Accepts(t *testing.T) {
	n := binaryNFA(t)

	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{"ends in 1", "1", true},
		{"ends in 0", "0", false},
		{"empty", "", false},
		{"longer, ends in 1", "0101", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expected, n.Accepts(tc.input))
		})
	}
}

func Test_NFA_Determinize_Equivalence(t *testing.T) {
	assert := assert.New(t)
	n := binaryNFA(t)
	d := n.Determinize()

	for _, w := range []string{"", "0", "1", "01", "10", "0101", "111", "000"} {
		nfaResult := n.Accepts(w)
		dfaResult, err := d.Accepts(w)
		if !assert.NoError(err) {
			continue
		}
		assert.Equal(nfaResult, dfaResult, "mismatch for %q", w)
	}
}

func Test_NFA_Union(t *testing.T) {
	assert := assert.New(t)

	a, err := NewNFA(map[NFAKey]any{
		{State: "s", Symbol: "a"}: []string{"f"},
		{State: "f", Symbol: "a"}: []string{},
	}, "s", []string{"f"})
	if !assert.NoError(err) {
		return
	}
	b, err := NewNFA(map[NFAKey]any{
		{State: "s", Symbol: "b"}: []string{"f"},
		{State: "f", Symbol: "b"}: []string{},
	}, "s", []string{"f"})
	if !assert.NoError(err) {
		return
	}

	u := a.Union(b)
	assert.True(u.Accepts("a"))
	assert.True(u.Accepts("b"))
	assert.False(u.Accepts("c"))
	assert.False(u.Accepts(""))
}

func Test_NFA_Concat(t *testing.T) {
	assert := assert.New(t)

	a, err := NewNFA(map[NFAKey]any{
		{State: "s", Symbol: "a"}: []string{"f"},
		{State: "f", Symbol: "a"}: []string{},
	}, "s", []string{"f"})
	if !assert.NoError(err) {
		return
	}
	b, err := NewNFA(map[NFAKey]any{
		{State: "s", Symbol: "b"}: []string{"f"},
		{State: "f", Symbol: "b"}: []string{},
	}, "s", []string{"f"})
	if !assert.NoError(err) {
		return
	}

	c := a.Concat(b)
	assert.True(c.Accepts("ab"))
	assert.False(c.Accepts("a"))
	assert.False(c.Accepts("b"))
	assert.False(c.Accepts("ba"))
}

func Test_NFA_Star(t *testing.T) {
	assert := assert.New(t)

	a, err := NewNFA(map[NFAKey]any{
		{State: "s", Symbol: "a"}: []string{"f"},
		{State: "f", Symbol: "a"}: []string{},
	}, "s", []string{"f"})
	if !assert.NoError(err) {
		return
	}

	star := a.Star()
	assert.True(star.Accepts(""))
	assert.True(star.Accepts("a"))
	assert.True(star.Accepts("aaaa"))
	assert.False(star.Accepts("aab"))
}

func Test_NFA_Accessors_DefensiveCopy(t *testing.T) {
	assert := assert.New(t)
	n := binaryNFA(t)

	states := n.States()
	states[0] = "mutated"

	states2 := n.States()
	assert.NotEqual("mutated", states2[0])
}
