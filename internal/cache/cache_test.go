package cache

import (
	"os"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/bruparis/dobf/internal/reducer"
)

func TestPutGetRoundtrip(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	results := []reducer.Result{
		{NodeIdx: 3, Vars: []byte("xyz"), TruthTable: []int{0, 1, 1, 0}, Coeffs: []int64{1, 0, 0, 1}},
	}
	require.NoError(t, c.Put("x^y^z", results))

	got, ok, err := c.Get("x^y^z")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, results, got)
}

func TestGetMissOnUnknownLine(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	_, ok, err := c.Get("never put")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetTreatsStaleEntryAsMiss(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Put("x^y", []reducer.Result{{NodeIdx: 1}}))

	// Overwrite the cached entry in place (simulating a stale file whose
	// digest-derived path no longer matches its own recorded Line) and
	// confirm Get refuses to serve it.
	raw, err := cbor.Marshal(Entry{Line: "a different line", Results: nil})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.path(Key("x^y")), raw, 0o644))

	_, ok, err := c.Get("x^y")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKeyIsDeterministic(t *testing.T) {
	require.Equal(t, Key("x^y^z"), Key("x^y^z"))
	require.NotEqual(t, Key("x^y^z"), Key("x^y"))
}
