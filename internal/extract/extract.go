// Package extract turns raw model output text into structured results: a
// human-readable summary and a typed lead list. The model is asked to wrap
// its structured payload in a ```json fence, but the extraction is
// best-effort: a malformed payload degrades to zero leads and never aborts
// summary extraction.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"vantage/internal/types"
)

// fallbackSummary is shown when the model's reply contains nothing but the
// structured payload.
const fallbackSummary = "Leads generated successfully. See the table below."

// fenceRe matches a ```json ... ``` block, non-greedy so multiple fences in
// one reply are each matched on their own.
var fenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Result is the normalized form of one generation reply.
type Result struct {
	Summary string
	Leads   []types.Lead
}

// Strategy attempts to pull a lead array out of raw model text. The boolean
// reports whether the strategy recognized the text as containing a structured
// payload at all; recognition with an unparseable payload yields zero leads,
// and later strategies are not consulted.
type Strategy func(text string) ([]types.Lead, bool)

// Extractor applies an ordered list of strategies, first recognition wins.
type Extractor struct {
	strategies []Strategy
	log        *zap.Logger
}

// New returns an Extractor with the default strategy order: fenced JSON
// block first, then the first-bracket/last-bracket span of the raw text.
func New(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Extractor{log: log}
	e.strategies = []Strategy{e.fencedJSON, e.bracketSpan}
	return e
}

// Use appends a custom strategy after the defaults.
func (e *Extractor) Use(s Strategy) {
	e.strategies = append(e.strategies, s)
}

// Extract normalizes one raw generation reply. Summary stripping is
// independent of lead parsing: a reply whose fence holds invalid JSON still
// yields the surrounding prose as summary.
func (e *Extractor) Extract(raw string) Result {
	var leads []types.Lead
	for _, s := range e.strategies {
		if parsed, ok := s(raw); ok {
			leads = parsed
			break
		}
	}

	summary := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	if summary == "" {
		summary = fallbackSummary
	}

	return Result{Summary: summary, Leads: leads}
}

// fencedJSON parses the first ```json fence as a lead array.
func (e *Extractor) fencedJSON(text string) ([]types.Lead, bool) {
	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	leads, err := parseLeadArray(m[1])
	if err != nil {
		e.log.Warn("failed to parse fenced lead payload", zap.Error(err))
		return []types.Lead{}, true
	}
	return leads, true
}

// bracketSpan parses the substring between the first '[' and the last ']'
// when the model skipped the fence entirely.
func (e *Extractor) bracketSpan(text string) ([]types.Lead, bool) {
	open := strings.Index(text, "[")
	close := strings.LastIndex(text, "]")
	if open == -1 || close == -1 || close < open {
		return nil, false
	}
	leads, err := parseLeadArray(text[open : close+1])
	if err != nil {
		e.log.Warn("failed to parse bracketed lead payload", zap.Error(err))
		return []types.Lead{}, true
	}
	return leads, true
}

// parseLeadArray decodes a JSON array of lead objects. Field values are
// coerced to strings: the model is instructed to emit strings but routinely
// returns ratings as bare numbers, and null/absent/empty all mean "no value".
func parseLeadArray(payload string) ([]types.Lead, error) {
	var raw []map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, err
	}

	leads := make([]types.Lead, 0, len(raw))
	for _, obj := range raw {
		leads = append(leads, types.Lead{
			Name:    coerceString(obj["name"]),
			Address: coerceString(obj["address"]),
			Website: coerceString(obj["website"]),
			Email:   coerceString(obj["email"]),
			Phone:   coerceString(obj["phone"]),
			Type:    coerceString(obj["type"]),
			Rating:  coerceString(obj["rating"]),
		})
	}
	return leads, nil
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON numbers decode as float64; %v renders 4.0 as "4" and 4.5 as "4.5".
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
