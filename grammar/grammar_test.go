package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewCFG(t *testing.T) {
	testCases := []struct {
		name      string
		rules     map[string][]RawProduction
		start     string
		expectErr bool
	}{
		{
			name:      "nil rules",
			rules:     nil,
			start:     "S",
			expectErr: true,
		},
		{
			name:      "empty rules",
			rules:     map[string][]RawProduction{},
			start:     "S",
			expectErr: true,
		},
		{
			name: "start not a variable",
			rules: map[string][]RawProduction{
				"A": {"a"},
			},
			start:     "S",
			expectErr: true,
		},
		{
			name: "no terminals",
			rules: map[string][]RawProduction{
				"S": {[]string{"S"}},
			},
			start:     "S",
			expectErr: true,
		},
		{
			name: "simple grammar",
			rules: map[string][]RawProduction{
				"S": {[]string{"a", "S", "b"}, "€"},
			},
			start:     "S",
			expectErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := NewCFG(tc.rules, tc.start)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.start, g.Start())
		})
	}
}

func Test_CFG_Variables_And_Terminals(t *testing.T) {
	assert := assert.New(t)

	g, err := NewCFG(map[string][]RawProduction{
		"S": {[]string{"a", "S", "b"}, "€"},
	}, "S")
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]string{"S"}, g.Variables())
	assert.Equal([]string{"a", "b"}, g.Terminals())
	assert.True(g.IsVariable("S"))
	assert.False(g.IsVariable("a"))
}

func Test_CFG_Productions_DefensiveCopy(t *testing.T) {
	assert := assert.New(t)

	g, err := NewCFG(map[string][]RawProduction{
		"S": {[]string{"a", "S", "b"}, "€"},
	}, "S")
	if !assert.NoError(err) {
		return
	}

	prods := g.Productions("S")
	prods[0][0] = "z"

	prods2 := g.Productions("S")
	assert.Equal("a", prods2[0][0])
}

func Test_CFG_IsValidDerivation(t *testing.T) {
	testCases := []struct {
		name     string
		steps    [][]string
		expected bool
	}{
		{
			name:     "just the start symbol",
			steps:    [][]string{{"S"}},
			expected: true,
		},
		{
			name:     "one expansion to epsilon",
			steps:    [][]string{{"S"}, {}},
			expected: true,
		},
		{
			name:     "full derivation of aabb",
			steps:    [][]string{{"S"}, {"a", "S", "b"}, {"a", "a", "S", "b", "b"}, {"a", "a", "b", "b"}},
			expected: true,
		},
		{
			name:     "wrong first step",
			steps:    [][]string{{"a"}},
			expected: false,
		},
		{
			name:     "skips a rewrite",
			steps:    [][]string{{"S"}, {"a", "a", "S", "b", "b"}},
			expected: false,
		},
		{
			name:     "applies two rewrites in one step",
			steps:    [][]string{{"S"}, {"a", "S", "b"}, {"a", "a", "b", "b"}},
			expected: false,
		},
	}

	g, err := NewCFG(map[string][]RawProduction{
		"S": {[]string{"a", "S", "b"}, "€"},
	}, "S")
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := g.IsValidDerivation(tc.steps)
			assert.NoError(err)
			assert.Equal(tc.expected, actual)
		})
	}
}

func Test_CFG_IsEmpty(t *testing.T) {
	testCases := []struct {
		name     string
		rules    map[string][]RawProduction
		expected bool
	}{
		{
			name: "productive grammar",
			rules: map[string][]RawProduction{
				"S": {[]string{"a", "S"}, "a"},
			},
			expected: false,
		},
		{
			name: "unproductive grammar",
			rules: map[string][]RawProduction{
				"S": {[]string{"S", "a"}},
				"A": {"b"},
			},
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := NewCFG(tc.rules, "S")
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expected, g.IsEmpty())
		})
	}
}

func Test_CFG_GenerateSample(t *testing.T) {
	assert := assert.New(t)

	g, err := NewCFG(map[string][]RawProduction{
		"S": {[]string{"a", "S", "b"}, "€"},
	}, "S")
	if !assert.NoError(err) {
		return
	}

	sample, ok := g.GenerateSample(10)
	assert.True(ok)
	assert.True(isBalancedAB(sample), "expected a^n b^n, got %q", sample)
}

// isBalancedAB reports whether s is of the form a^n b^n, the language of
// the S -> aSb | epsilon grammar above.
func isBalancedAB(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	half := len(s) / 2
	for i := 0; i < half; i++ {
		if s[i] != 'a' {
			return false
		}
	}
	for i := half; i < len(s); i++ {
		if s[i] != 'b' {
			return false
		}
	}
	return true
}
