package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	a, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, a, DefaultLength)

	b, err := Generate(20)
	require.NoError(t, err)
	assert.Len(t, b, 20)
	for _, r := range b {
		assert.True(t, strings.ContainsRune(alphabet, r))
	}
}

func TestNewInstanceID(t *testing.T) {
	first := NewInstanceID(PrefixWorker)
	second := NewInstanceID(PrefixWorker)
	assert.NotEqual(t, first, second)

	prefix, short, err := ParsePrefixedID(first)
	require.NoError(t, err)
	assert.Equal(t, PrefixWorker, prefix)
	assert.Len(t, short, DefaultLength)
}

func TestParsePrefixedID_Invalid(t *testing.T) {
	for _, in := range []string{"", "srv", "_abc", "srv_"} {
		_, _, err := ParsePrefixedID(in)
		assert.Error(t, err, in)
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "server", Kind(NewInstanceID(PrefixServer)))
	assert.Equal(t, "worker", Kind("wrk_abc"))
	assert.Equal(t, "cli", Kind("cli_abc"))
	assert.Equal(t, "unknown", Kind("node_abc"))
	assert.Equal(t, "unknown", Kind("garbage"))
}

func FuzzParsePrefixedID(f *testing.F) {
	for _, seed := range []string{"srv_xK9mP2vL3nQa", "wrk_a_b", "", "_", "cli"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		prefix, short, err := ParsePrefixedID(input)
		if err != nil {
			return
		}
		if prefix+"_"+short != input {
			t.Errorf("round trip mismatch: %q -> %q, %q", input, prefix, short)
		}
		if strings.Contains(prefix, "_") {
			t.Errorf("prefix %q contains separator", prefix)
		}
	})
}
