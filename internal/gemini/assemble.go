package gemini

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"

	"vantage/internal/types"
)

// historyContents replays a session's message log in the capability's turn
// format. Only role and text survive into history: image attachments and
// grounding sources of past turns are deliberately not replayed.
func historyContents(history []types.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == types.RoleModel {
			role = genai.Role(genai.RoleModel)
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}
	return contents
}

// turnParts builds the new turn's content parts. An attached image goes
// first as inline JPEG data, the text second; without an image the turn is
// text only.
func turnParts(text, imageB64 string) ([]genai.Part, error) {
	var parts []genai.Part
	if imageB64 != "" {
		data, err := base64.StdEncoding.DecodeString(imageB64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image attachment: %w", err)
		}
		parts = append(parts, genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: data},
		})
	}
	parts = append(parts, genai.Part{Text: text})
	return parts, nil
}
