package extract

import (
	"google.golang.org/genai"

	"vantage/internal/types"
)

// Default display titles when a grounding chunk carries a uri but no title.
const (
	defaultWebTitle  = "Web Source"
	defaultMapsTitle = "Google Maps"
)

// Sources accumulates web and maps grounding references from the response
// metadata into one ordered list. Chunk order is preserved; chunks without a
// usable uri are skipped.
func Sources(chunks []*genai.GroundingChunk) []types.GroundingSource {
	var sources []types.GroundingSource
	for _, chunk := range chunks {
		if chunk == nil {
			continue
		}
		if chunk.Web != nil && chunk.Web.URI != "" {
			title := chunk.Web.Title
			if title == "" {
				title = defaultWebTitle
			}
			sources = append(sources, types.GroundingSource{Title: title, URI: chunk.Web.URI})
		}
		if chunk.Maps != nil && chunk.Maps.URI != "" {
			title := chunk.Maps.Title
			if title == "" {
				title = defaultMapsTitle
			}
			sources = append(sources, types.GroundingSource{Title: title, URI: chunk.Maps.URI})
		}
	}
	return sources
}
