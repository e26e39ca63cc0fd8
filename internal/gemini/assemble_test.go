package gemini

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"vantage/internal/types"
)

func TestHistoryContentsReplaysRoleAndTextOnly(t *testing.T) {
	history := []types.Message{
		{Role: types.RoleUser, Text: "find dentists", Image: base64.StdEncoding.EncodeToString([]byte("jpeg")),
			GroundingSources: []types.GroundingSource{{URI: "https://a.test"}}},
		{Role: types.RoleModel, Text: "here are some", RelatedLeads: []types.Lead{{Name: "X"}}},
	}

	contents := historyContents(history)

	require.Len(t, contents, 2)
	assert.Equal(t, genai.Role(genai.RoleUser), genai.Role(contents[0].Role))
	assert.Equal(t, genai.Role(genai.RoleModel), genai.Role(contents[1].Role))
	for i, c := range contents {
		require.Len(t, c.Parts, 1, "turn %d must carry only its text", i)
		assert.Nil(t, c.Parts[0].InlineData, "past images are not replayed")
	}
	assert.Equal(t, "find dentists", contents[0].Parts[0].Text)
	assert.Equal(t, "here are some", contents[1].Parts[0].Text)
}

func TestTurnPartsImageFirst(t *testing.T) {
	img := base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff})

	parts, err := turnParts("draft an email to lead #1", img)
	require.NoError(t, err)

	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "image/jpeg", parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, parts[0].InlineData.Data)
	assert.Equal(t, "draft an email to lead #1", parts[1].Text)
}

func TestTurnPartsTextOnly(t *testing.T) {
	parts, err := turnParts("hello", "")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "hello", parts[0].Text)
}

func TestTurnPartsRejectsBadImage(t *testing.T) {
	_, err := turnParts("hello", "not base64 at all!!!")
	assert.Error(t, err)
}

func TestSystemInstructionWithoutLeads(t *testing.T) {
	got := systemInstruction(nil)
	assert.Contains(t, got, "Enterprise AI Assistant")
	assert.NotContains(t, got, "Current Leads Context")
}

func TestSystemInstructionEmbedsLeadContext(t *testing.T) {
	leads := []types.Lead{{Name: "Acme Labs", Email: "a@acme.test"}}

	got := systemInstruction(leads)

	assert.Contains(t, got, "Current Leads Context (JSON):")
	assert.Contains(t, got, `"name":"Acme Labs"`)
	assert.Contains(t, got, "draft outreach emails")
}

func TestSystemInstructionCapsAtTwentyLeads(t *testing.T) {
	leads := make([]types.Lead, 25)
	for i := range leads {
		leads[i] = types.Lead{Name: "Lead " + string(rune('A'+i))}
	}

	got := systemInstruction(leads)

	assert.Equal(t, 20, strings.Count(got, `"name"`))
}

func TestLeadPromptDirectives(t *testing.T) {
	prompt := leadPrompt(types.SearchParams{Query: "BioTech Labs", Location: "Boston", RadiusKm: 15})

	assert.Contains(t, prompt, `"BioTech Labs"`)
	assert.Contains(t, prompt, `"Boston"`)
	assert.Contains(t, prompt, "Approximately 15 km")
	assert.Contains(t, prompt, "```json")
	for _, key := range []string{`"name"`, `"address"`, `"website"`, `"email"`, `"phone"`, `"type"`, `"rating"`} {
		assert.Contains(t, prompt, key)
	}
}
