package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

func TestEncodeID(t *testing.T) {
	assert.Equal(t, "t1", EncodeID(nil, "t1"))
	assert.Equal(t, "c1_t1", EncodeID([]string{"c1"}, "t1"))
	assert.Equal(t, "c1_a1_m1", EncodeID([]string{"c1", "a1"}, "m1"))
}

func TestDecodeID_Root(t *testing.T) {
	ancestors, leaf, err := DecodeID("t1", 0)
	require.NoError(t, err)
	assert.Empty(t, ancestors)
	assert.Equal(t, "t1", leaf)
}

func TestDecodeID_Nested(t *testing.T) {
	ancestors, leaf, err := DecodeID("c1_t1", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ancestors)
	assert.Equal(t, "t1", leaf)
}

func TestDecodeID_LeafKeepsExtraTokens(t *testing.T) {
	// Separators beyond the ancestor positions belong to the leaf id.
	ancestors, leaf, err := DecodeID("c1_tx_2024_001", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ancestors)
	assert.Equal(t, "tx_2024_001", leaf)
}

func TestDecodeID_Malformed(t *testing.T) {
	cases := []struct {
		name      string
		id        string
		ancestors int
	}{
		{"empty root id", "", 0},
		{"too few tokens", "t1", 1},
		{"empty ancestor token", "_t1", 1},
		{"empty leaf token", "c1_", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeID(tc.id, tc.ancestors)
			assert.Equal(t, errors.CodeMalformedID, errors.CodeOf(err))
		})
	}
}

func TestCompoundID_RoundTrip(t *testing.T) {
	cases := []struct {
		ancestors []string
		leaf      string
	}{
		{nil, "solo"},
		{[]string{"c1"}, "t1"},
		{[]string{"c1", "a2"}, "m3"},
		{[]string{"alpha"}, "leaf_with_separator"},
	}
	for _, tc := range cases {
		id := EncodeID(tc.ancestors, tc.leaf)
		gotAncestors, gotLeaf, err := DecodeID(id, len(tc.ancestors))
		require.NoError(t, err)
		assert.Equal(t, tc.leaf, gotLeaf)
		if len(tc.ancestors) > 0 {
			assert.Equal(t, tc.ancestors, gotAncestors)
		}
	}
}
