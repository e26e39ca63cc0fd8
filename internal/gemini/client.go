// Package gemini calls the hosted Gemini API for the two capabilities the
// application outsources: one-shot lead generation with search and maps
// grounding, and the stateful advisory chat. Callers depend on the
// Capability interface so everything above this package is testable without
// the network.
package gemini

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"vantage/internal/extract"
	"vantage/internal/types"
)

// Default model ids. Generation runs on the flash model because search/maps
// grounding dominates latency; chat uses the stronger reasoning model.
const (
	DefaultGenerateModel = "gemini-2.5-flash"
	DefaultChatModel     = "gemini-3-pro-preview"
)

// LatLng is an optional geolocation bias for generation requests.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// GenerationResult is a normalized lead-generation reply.
type GenerationResult struct {
	Summary string
	Leads   []types.Lead
	Sources []types.GroundingSource
}

// ChatResult is a normalized chat reply.
type ChatResult struct {
	Text    string
	Sources []types.GroundingSource
}

// Capability is the boundary to the external generative model.
type Capability interface {
	// GenerateLeads issues a one-shot grounded generation request. loc is an
	// optional location bias and may be nil.
	GenerateLeads(ctx context.Context, params types.SearchParams, loc *LatLng) (*GenerationResult, error)

	// SendChat sends one advisory chat turn with the full replayed history,
	// the current lead set as read-only context, and an optional base64 JPEG
	// attachment.
	SendChat(ctx context.Context, history []types.Message, text string, leads []types.Lead, imageB64 string) (*ChatResult, error)
}

// Config holds client settings.
type Config struct {
	APIKey        string
	GenerateModel string
	ChatModel     string
}

// Client implements Capability against the Gemini API.
type Client struct {
	client        *genai.Client
	generateModel string
	chatModel     string
	extractor     *extract.Extractor
	log           *zap.Logger
}

// NewClient creates a Gemini-backed capability client.
func NewClient(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	generateModel := cfg.GenerateModel
	if generateModel == "" {
		generateModel = DefaultGenerateModel
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	return &Client{
		client:        client,
		generateModel: generateModel,
		chatModel:     chatModel,
		extractor:     extract.New(log.Named("extract")),
		log:           log,
	}, nil
}

// GenerateLeads implements Capability.
func (c *Client) GenerateLeads(ctx context.Context, params types.SearchParams, loc *LatLng) (*GenerationResult, error) {
	config := &genai.GenerateContentConfig{
		// Low temperature for factual data.
		Temperature: genai.Ptr[float32](0.2),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
			{GoogleMaps: &genai.GoogleMaps{}},
		},
	}
	if loc != nil {
		config.ToolConfig = &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(loc.Latitude),
					Longitude: genai.Ptr(loc.Longitude),
				},
			},
		}
	}

	c.log.Info("generating leads",
		zap.String("model", c.generateModel),
		zap.String("query", params.Query),
		zap.String("location", params.Location),
		zap.Int("radius_km", params.RadiusKm),
		zap.Bool("location_bias", loc != nil))

	resp, err := c.client.Models.GenerateContent(ctx, c.generateModel, genai.Text(leadPrompt(params)), config)
	if err != nil {
		return nil, fmt.Errorf("lead generation failed: %w", err)
	}

	result := c.extractor.Extract(resp.Text())
	return &GenerationResult{
		Summary: result.Summary,
		Leads:   result.Leads,
		Sources: extract.Sources(groundingChunks(resp)),
	}, nil
}

// SendChat implements Capability. Search grounding is requested on every
// turn to keep answers current.
func (c *Client) SendChat(ctx context.Context, history []types.Message, text string, leads []types.Lead, imageB64 string) (*ChatResult, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(leads), genai.RoleUser),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	chat, err := c.client.Chats.Create(ctx, c.chatModel, config, historyContents(history))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	parts, err := turnParts(text, imageB64)
	if err != nil {
		return nil, err
	}

	c.log.Info("sending chat turn",
		zap.String("model", c.chatModel),
		zap.Int("history_len", len(history)),
		zap.Int("context_leads", len(leads)),
		zap.Bool("image", imageB64 != ""))

	resp, err := chat.SendMessage(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("chat turn failed: %w", err)
	}

	return &ChatResult{
		Text:    resp.Text(),
		Sources: extract.Sources(groundingChunks(resp)),
	}, nil
}

// groundingChunks pulls the grounding metadata list off the first candidate.
func groundingChunks(resp *genai.GenerateContentResponse) []*genai.GroundingChunk {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	return resp.Candidates[0].GroundingMetadata.GroundingChunks
}
