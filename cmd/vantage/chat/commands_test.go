package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/internal/types"
)

func TestParseSearchArgs(t *testing.T) {
	params, err := parseSearchArgs("BioTech Labs | Boston | 15")
	require.NoError(t, err)
	assert.Equal(t, types.SearchParams{Query: "BioTech Labs", Location: "Boston", RadiusKm: 15}, params)
}

func TestParseSearchArgsDefaultRadius(t *testing.T) {
	params, err := parseSearchArgs("coffee roasters | Portland")
	require.NoError(t, err)
	assert.Equal(t, 10, params.RadiusKm)
}

func TestParseSearchArgsRadiusSuffix(t *testing.T) {
	params, err := parseSearchArgs("gyms | Austin | 25km")
	require.NoError(t, err)
	assert.Equal(t, 25, params.RadiusKm)
}

func TestParseSearchArgsErrors(t *testing.T) {
	for _, input := range []string{"", "only-niche", "niche |", "a | b | zero", "a | b | -3"} {
		_, err := parseSearchArgs(input)
		assert.Error(t, err, "input %q", input)
	}
}
