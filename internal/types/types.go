// Package types defines the shared data model for vantage: leads produced by
// the generation capability, grounding citations, and the append-only chat
// session log the rest of the system operates on.
package types

import "time"

// Role identifies the author of a message turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Lead is one prospective business returned by a generation call. Leads carry
// no identity beyond their field values; duplicates are possible and are not
// deduplicated. A lead is immutable once produced, and the active lead set is
// replaced wholesale on every new generation.
type Lead struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Type    string `json:"type,omitempty"`
	Rating  string `json:"rating,omitempty"` // 0-5 scale, kept as an opaque string
}

// GroundingSource is a citation (web page or map entry) the model used to
// support its answer. Purely advisory; consumers typically show the first few.
type GroundingSource struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// Message is one turn in a conversation. Messages are append-only: once
// created they are never edited or deleted.
type Message struct {
	ID               string            `json:"id"`
	Role             Role              `json:"role"`
	Text             string            `json:"text"`
	Timestamp        time.Time         `json:"timestamp"`
	IsError          bool              `json:"isError,omitempty"`
	GroundingSources []GroundingSource `json:"groundingSources,omitempty"`
	RelatedLeads     []Lead            `json:"relatedLeads,omitempty"` // leads produced by this turn
	Image            string            `json:"image,omitempty"`        // base64-encoded JPEG attachment
}

// ChatSession is an independent ordered conversation log. The name is set at
// creation time and never renamed; message order is insertion order.
type ChatSession struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayLabel returns the sidebar label for a session: the first message's
// text truncated to 30 characters, or the session name while it is empty.
func (s ChatSession) DisplayLabel() string {
	if len(s.Messages) == 0 {
		return s.Name
	}
	text := s.Messages[0].Text
	runes := []rune(text)
	if len(runes) > 30 {
		return string(runes[:30])
	}
	return text
}

// SearchParams describes one lead-generation request.
type SearchParams struct {
	Query    string
	Location string
	RadiusKm int
}
