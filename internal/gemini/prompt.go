package gemini

import (
	"encoding/json"
	"fmt"

	"vantage/internal/types"
)

// leadPrompt builds the one-shot generation instruction. The output-format
// directives are strict because the extractor depends on the fenced block and
// the fixed key set.
func leadPrompt(params types.SearchParams) string {
	return fmt.Sprintf(`I need you to act as an Enterprise Lead Generator.
Task: Find businesses matching %q in or near %q.
Range: Approximately %d km.

Instructions:
1. Use Google Maps to find as many entities as possible matching the criteria.
2. For EVERY entity found, use Google Search to find their website, email, and phone number if not provided by Maps.
3. CRITICAL: You MUST include every single business found in the final JSON array. If you find 20 businesses, the JSON array must contain 20 objects. Do not summarize or omit any found businesses.

Output Format:
Return the response as a valid JSON array of objects.
Each object must have these keys: "name", "address", "website", "email", "phone", "type", "rating".
If a field is not found, use null or an empty string.

After the JSON, provide a brief summary text analyzing the quality of these leads.

CRITICAL: Ensure the JSON is valid. Wrap the JSON block in `+"```json ... ```"+`.`,
		params.Query, params.Location, params.RadiusKm)
}

// maxContextLeads caps how many leads are embedded in the chat system
// instruction to keep the preamble compact.
const maxContextLeads = 20

// systemInstruction builds the advisory chat preamble. When the current lead
// set is non-empty a compact JSON snippet of at most the first 20 leads is
// embedded verbatim as read-only decision context.
func systemInstruction(leads []types.Lead) string {
	instruction := `You are an intelligent Enterprise AI Assistant.
You help users analyze business leads, draft emails, and answer questions.`

	if len(leads) == 0 {
		return instruction
	}

	if len(leads) > maxContextLeads {
		leads = leads[:maxContextLeads]
	}
	snippet, err := json.Marshal(leads)
	if err != nil {
		// Leads are plain string fields; this cannot fail in practice.
		return instruction
	}

	return instruction + fmt.Sprintf(`

Current Leads Context (JSON):
%s

Use this context to answer questions about specific businesses, draft outreach emails, or compare them.`, snippet)
}
