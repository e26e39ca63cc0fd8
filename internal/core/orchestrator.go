// Package core coordinates user-triggered operations: issuing a
// lead-generation request or a chat turn, recording both sides of the
// exchange in the active session, and keeping the active lead set in step.
// Failures never escape as errors to the session log: they are converted
// into model-role messages flagged as errors, so the conversation always
// records what happened.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vantage/internal/gemini"
	"vantage/internal/geo"
	"vantage/internal/store"
	"vantage/internal/types"
)

// User-facing texts for capability failures. Fixed apologies per operation
// kind; the underlying error goes to the log only.
const (
	generationErrorText = "System intelligence encountered an anomaly during lead verification. Please retry your query."
	chatErrorText       = "Communication bridge failure. Ensure your connection and API authorization are active."
)

// In-flight gates: one operation of each kind at a time.
var (
	ErrGenerationInFlight = errors.New("a lead generation request is already in flight")
	ErrChatInFlight       = errors.New("a chat turn is already in flight")
)

// DefaultTimeout bounds a single capability call. Grounded generation is
// slow but not unbounded from the user's point of view.
const DefaultTimeout = 5 * time.Minute

// Orchestrator drives the two operation kinds against the capability and
// the session store.
type Orchestrator struct {
	store      *store.Store
	capability gemini.Capability
	locator    geo.Provider // nil disables location bias
	timeout    time.Duration
	log        *zap.Logger

	mu         sync.Mutex
	generating bool
	chatting   bool

	locateOnce sync.Once
	location   *gemini.LatLng
}

// New creates an Orchestrator. locator may be nil; timeout <= 0 selects
// DefaultTimeout.
func New(st *store.Store, capability gemini.Capability, locator geo.Provider, timeout time.Duration, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{
		store:      st,
		capability: capability,
		locator:    locator,
		timeout:    timeout,
		log:        log,
	}
}

// Store exposes the owned application state to the UI layer.
func (o *Orchestrator) Store() *store.Store {
	return o.store
}

// Generating reports whether a generation request is in flight.
func (o *Orchestrator) Generating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generating
}

// Chatting reports whether a chat turn is in flight.
func (o *Orchestrator) Chatting() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.chatting
}

// GenerateLeads runs one lead-generation operation against the active
// session. The synthetic request message is appended before the capability
// call, so the user's intent is recorded even when the call fails. On
// success the active lead set is replaced wholesale; on failure it is left
// unchanged and the returned message carries IsError. The returned error is
// non-nil only for the in-flight gate.
func (o *Orchestrator) GenerateLeads(ctx context.Context, params types.SearchParams) (types.Message, error) {
	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return types.Message{}, ErrGenerationInFlight
	}
	o.generating = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.generating = false
		o.mu.Unlock()
	}()

	sessionID := o.store.Active().ID
	o.appendMessage(sessionID, types.Message{
		ID:        uuid.NewString(),
		Role:      types.RoleUser,
		Text:      fmt.Sprintf("Researching: %s in %s within %dkm", params.Query, params.Location, params.RadiusKm),
		Timestamp: time.Now(),
	})

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	result, err := o.capability.GenerateLeads(callCtx, params, o.locate(callCtx))
	if err != nil {
		o.log.Error("lead generation failed", zap.Error(err), zap.String("query", params.Query))
		errMsg := types.Message{
			ID:        uuid.NewString(),
			Role:      types.RoleModel,
			Text:      generationErrorText,
			IsError:   true,
			Timestamp: time.Now(),
		}
		o.appendMessage(sessionID, errMsg)
		return errMsg, nil
	}

	o.store.SetActiveLeads(result.Leads)
	msg := types.Message{
		ID:               uuid.NewString(),
		Role:             types.RoleModel,
		Text:             result.Summary,
		Timestamp:        time.Now(),
		RelatedLeads:     result.Leads,
		GroundingSources: result.Sources,
	}
	o.appendMessage(sessionID, msg)
	o.log.Info("lead generation settled",
		zap.String("query", params.Query),
		zap.Int("leads", len(result.Leads)),
		zap.Int("sources", len(result.Sources)))
	return msg, nil
}

// SendChat runs one advisory chat turn against the active session. History
// is captured before the user message is appended, matching the replay
// contract: the new text travels as the new turn, not as history. The
// active lead set is never modified by a chat turn.
func (o *Orchestrator) SendChat(ctx context.Context, text, imageB64 string) (types.Message, error) {
	o.mu.Lock()
	if o.chatting {
		o.mu.Unlock()
		return types.Message{}, ErrChatInFlight
	}
	o.chatting = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.chatting = false
		o.mu.Unlock()
	}()

	session := o.store.Active()
	history := session.Messages
	o.appendMessage(session.ID, types.Message{
		ID:        uuid.NewString(),
		Role:      types.RoleUser,
		Text:      text,
		Image:     imageB64,
		Timestamp: time.Now(),
	})

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	result, err := o.capability.SendChat(callCtx, history, text, o.store.ActiveLeads(), imageB64)
	if err != nil {
		o.log.Error("chat turn failed", zap.Error(err))
		errMsg := types.Message{
			ID:        uuid.NewString(),
			Role:      types.RoleModel,
			Text:      chatErrorText,
			IsError:   true,
			Timestamp: time.Now(),
		}
		o.appendMessage(session.ID, errMsg)
		return errMsg, nil
	}

	msg := types.Message{
		ID:               uuid.NewString(),
		Role:             types.RoleModel,
		Text:             result.Text,
		Timestamp:        time.Now(),
		GroundingSources: result.Sources,
	}
	o.appendMessage(session.ID, msg)
	return msg, nil
}

// locate resolves the location bias once per process and caches the answer.
// Denial or failure is non-fatal and simply omits the bias.
func (o *Orchestrator) locate(ctx context.Context) *gemini.LatLng {
	if o.locator == nil {
		return nil
	}
	o.locateOnce.Do(func() {
		loc, err := o.locator.Locate(ctx)
		if err != nil {
			o.log.Warn("geolocation unavailable, proceeding without bias", zap.Error(err))
			return
		}
		o.location = &gemini.LatLng{Latitude: loc.Latitude, Longitude: loc.Longitude}
	})
	return o.location
}

// appendMessage records a message, logging (not propagating) persistence
// failures: the in-memory log is still consistent and the next successful
// mutation rewrites the whole snapshot anyway.
func (o *Orchestrator) appendMessage(sessionID string, msg types.Message) {
	if err := o.store.Append(sessionID, msg); err != nil {
		o.log.Error("failed to persist message", zap.Error(err), zap.String("session", sessionID))
	}
}
