package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// rot1FST maps 'a'->'b' and 'b'->'a', a two-symbol substitution cipher,
// staying in a single state.
func rot1FST(t *testing.T) *FST {
	t.Helper()
	f, err := NewFST(map[FSTKey]FSTOutput{
		{State: "s", Symbol: "a"}: {State: "s", Output: "b"},
		{State: "s", Symbol: "b"}: {State: "s", Output: "a"},
	}, "s")
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func Test_FST_Process(t *testing.T) {
	assert := assert.New(t)
	f := rot1FST(t)

	out, err := f.Process("aabba")
	assert.NoError(err)
	assert.Equal("bbaab", out)

	out, err = f.Process("")
	assert.NoError(err)
	assert.Equal("", out)

	_, err = f.Process("c")
	assert.Error(err)
}

func Test_NewFST_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		transitions map[FSTKey]FSTOutput
		start       string
		expectErr   bool
	}{
		{
			name: "valid",
			transitions: map[FSTKey]FSTOutput{
				{State: "s", Symbol: "a"}: {State: "s", Output: "b"},
			},
			start:     "s",
			expectErr: false,
		},
		{
			name: "range violation",
			transitions: map[FSTKey]FSTOutput{
				{State: "s", Symbol: "a"}: {State: "nowhere", Output: "b"},
			},
			start:     "s",
			expectErr: true,
		},
		{
			name: "start not in states",
			transitions: map[FSTKey]FSTOutput{
				{State: "s", Symbol: "a"}: {State: "s", Output: "b"},
			},
			start:     "z",
			expectErr: true,
		},
		{
			name: "missing case",
			transitions: map[FSTKey]FSTOutput{
				{State: "s", Symbol: "a"}: {State: "t", Output: "b"},
				{State: "t", Symbol: "b"}: {State: "s", Output: "a"},
			},
			start:     "s",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			_, err := NewFST(tc.transitions, tc.start)
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}
