package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"vantage/internal/types"
)

func TestExtractFencedJSON(t *testing.T) {
	raw := "Here is what I found.\n```json\n[{\"name\": \"Acme Labs\", \"address\": \"1 Main St\", \"website\": \"acme.test\", \"rating\": \"4.5\"}]\n```\nThese leads look strong."

	result := New(nil).Extract(raw)

	want := []types.Lead{{
		Name:    "Acme Labs",
		Address: "1 Main St",
		Website: "acme.test",
		Rating:  "4.5",
	}}
	if diff := cmp.Diff(want, result.Leads); diff != "" {
		t.Errorf("leads mismatch (-want +got):\n%s", diff)
	}

	assert.NotContains(t, result.Summary, "```")
	assert.NotContains(t, result.Summary, "Acme Labs")
	assert.Contains(t, result.Summary, "These leads look strong.")
}

func TestExtractMalformedFence(t *testing.T) {
	raw := "Partial results below.\n```json\n[{\"name\": \"Broken\",]\n```\nSummary text."

	result := New(nil).Extract(raw)

	assert.Empty(t, result.Leads)
	// Summary stripping is independent of parse success.
	assert.Contains(t, result.Summary, "Partial results below.")
	assert.Contains(t, result.Summary, "Summary text.")
	assert.NotContains(t, result.Summary, "Broken")
}

func TestExtractBracketFallback(t *testing.T) {
	raw := `The businesses are [{"name": "No Fence Inc", "phone": "555-0100"}] as requested.`

	result := New(nil).Extract(raw)

	require.Len(t, result.Leads, 1)
	assert.Equal(t, "No Fence Inc", result.Leads[0].Name)
	assert.Equal(t, "555-0100", result.Leads[0].Phone)
}

func TestExtractNoStructuredData(t *testing.T) {
	result := New(nil).Extract("I could not find any matching businesses.")

	assert.Empty(t, result.Leads)
	assert.Equal(t, "I could not find any matching businesses.", result.Summary)
}

func TestExtractSummaryFallback(t *testing.T) {
	raw := "```json\n[{\"name\": \"Only Leads LLC\"}]\n```"

	result := New(nil).Extract(raw)

	require.Len(t, result.Leads, 1)
	assert.Equal(t, fallbackSummary, result.Summary)
}

func TestExtractMissingAndNullFields(t *testing.T) {
	raw := "```json\n[{\"name\": \"Sparse Co\", \"website\": null, \"email\": \"\"}]\n```"

	result := New(nil).Extract(raw)

	require.Len(t, result.Leads, 1)
	lead := result.Leads[0]
	assert.Equal(t, "Sparse Co", lead.Name)
	assert.Empty(t, lead.Website)
	assert.Empty(t, lead.Email)
	assert.Empty(t, lead.Rating)
}

func TestExtractNumericRatingCoercion(t *testing.T) {
	raw := "```json\n[{\"name\": \"Rated\", \"rating\": 4.5}, {\"name\": \"Whole\", \"rating\": 4}]\n```"

	result := New(nil).Extract(raw)

	require.Len(t, result.Leads, 2)
	assert.Equal(t, "4.5", result.Leads[0].Rating)
	assert.Equal(t, "4", result.Leads[1].Rating)
}

func TestExtractMultipleFencesAllStripped(t *testing.T) {
	raw := "First batch:\n```json\n[{\"name\": \"A\"}]\n```\nand a second one\n```json\n[{\"name\": \"B\"}]\n```\ndone."

	result := New(nil).Extract(raw)

	// First fence wins for leads; all fences are stripped from the summary.
	require.Len(t, result.Leads, 1)
	assert.Equal(t, "A", result.Leads[0].Name)
	assert.NotContains(t, result.Summary, "```")
	assert.Contains(t, result.Summary, "done.")
}

func TestExtractCustomStrategy(t *testing.T) {
	e := New(nil)
	e.Use(func(text string) ([]types.Lead, bool) {
		if text == "magic" {
			return []types.Lead{{Name: "Injected"}}, true
		}
		return nil, false
	})

	result := e.Extract("magic")
	require.Len(t, result.Leads, 1)
	assert.Equal(t, "Injected", result.Leads[0].Name)
}

func TestSources(t *testing.T) {
	chunks := []*genai.GroundingChunk{
		{Web: &genai.GroundingChunkWeb{URI: "https://a.test", Title: "A"}},
		{Web: &genai.GroundingChunkWeb{URI: "https://b.test"}},
		{Maps: &genai.GroundingChunkMaps{URI: "https://maps.test/x"}},
		{Web: &genai.GroundingChunkWeb{Title: "no uri, skipped"}},
		nil,
	}

	got := Sources(chunks)

	want := []types.GroundingSource{
		{Title: "A", URI: "https://a.test"},
		{Title: "Web Source", URI: "https://b.test"},
		{Title: "Google Maps", URI: "https://maps.test/x"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}

func TestSourcesEmpty(t *testing.T) {
	assert.Empty(t, Sources(nil))
}
