// Package session orchestrates one conflict-resolution session: it runs the
// wingman crew over a conversation transcript and recovers the structured
// outputs of every therapeutic agent.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shivanandmn/wingman/wingman/config"
	"github.com/shivanandmn/wingman/wingman/crew"
	"github.com/shivanandmn/wingman/wingman/extract"
	"github.com/shivanandmn/wingman/wingman/observability"
	"github.com/shivanandmn/wingman/wingman/schema"
)

var tracer = otel.Tracer("wingman/session")

// Request carries one conversation to process.
type Request struct {
	Transcript         string   `json:"transcript"`
	ConflictTypes      []string `json:"conflict_types"`
	PartnerABackground string   `json:"partner_a_background"`
	PartnerBBackground string   `json:"partner_b_background"`
}

// Validate checks that the request can drive a session.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Transcript) == "" {
		return fmt.Errorf("transcript is required")
	}
	if len(r.ConflictTypes) == 0 {
		return fmt.Errorf("at least one conflict type is required")
	}
	return nil
}

// Result is the structured outcome of one session.
type Result struct {
	SessionID          string         `json:"session_id"`
	RequestID          string         `json:"request_id"`
	EmotionAnalysis    map[string]any `json:"emotion_analysis"`
	PartnerAResponse   map[string]any `json:"partner_a_response"`
	PartnerBResponse   map[string]any `json:"partner_b_response"`
	CounselorResponse  map[string]any `json:"counselor_response"`
	EncouragerResponse map[string]any `json:"encourager_response"`
	IntegratedDialogue string         `json:"integrated_dialogue"`
}

// slot binds one result field to the task whose output fills it.
type slot struct {
	taskID string
	schema *schema.Schema
	assign func(*Result, map[string]any)
}

var slots = []slot{
	{"analyze_emotions_task", schema.EmotionAnalysis, func(r *Result, v map[string]any) { r.EmotionAnalysis = v }},
	{"simulate_partner_a_task", schema.PartnerResponse, func(r *Result, v map[string]any) { r.PartnerAResponse = v }},
	{"simulate_partner_b_task", schema.PartnerResponse, func(r *Result, v map[string]any) { r.PartnerBResponse = v }},
	{"provide_counseling_task", schema.CounselorResponse, func(r *Result, v map[string]any) { r.CounselorResponse = v }},
	{"provide_encouragement_task", schema.EncouragerResponse, func(r *Result, v map[string]any) { r.EncouragerResponse = v }},
}

// Orchestrator drives sessions end to end: context materialization, one
// crew run, then extraction and recovery for each output slot.
type Orchestrator struct {
	manager *crew.Manager
	locator *extract.Locator
	logger  crew.Logger
}

// NewOrchestrator creates an Orchestrator on top of a crew manager.
func NewOrchestrator(manager *crew.Manager, logger crew.Logger) (*Orchestrator, error) {
	if manager == nil {
		return nil, fmt.Errorf("orchestrator requires a crew manager")
	}
	return &Orchestrator{
		manager: manager,
		locator: extract.NewLocator(),
		logger:  logger.Bind("component", "session"),
	}, nil
}

// ProcessConversation runs one full session over the request's transcript.
// Recovery never fails a session that produced a crew result: a slot whose
// raw text defeats all tiers comes back as an empty mapping.
func (o *Orchestrator) ProcessConversation(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session request: %w", err)
	}

	sessionID := uuid.NewString()
	requestID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "session.process")
	span.SetAttributes(
		attribute.String("wingman.session.id", sessionID),
		attribute.String("wingman.request.id", requestID),
	)
	defer span.End()

	logger := o.logger.Bind("session_id", sessionID)
	start := time.Now()

	o.manager.UpdateTaskContext(map[string]string{
		"transcript":           req.Transcript,
		"conflict_types":       strings.Join(req.ConflictTypes, ", "),
		"partner_a_background": req.PartnerABackground,
		"partner_b_background": req.PartnerBBackground,
	})

	crewResult, err := o.manager.RunCrew(ctx, config.WingmanCrewID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.RecordSession("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	result := &Result{SessionID: sessionID, RequestID: requestID}
	for _, s := range slots {
		raw := o.locator.Locate(crewResult, s.taskID, "")
		recovered, ok := extract.Recover(s.schema, raw)
		if !ok {
			logger.Warn("recovery exhausted", "task", s.taskID, "schema", s.schema.Name)
			s.assign(result, map[string]any{})
			continue
		}
		logger.Debug("slot recovered", "task", s.taskID, "tier", recovered.Tier)
		s.assign(result, recovered.Values)
	}
	result.IntegratedDialogue = strings.TrimSpace(o.locator.Locate(crewResult, "generate_interaction_task", ""))

	observability.RecordSession("success", time.Since(start).Seconds())
	logger.Info("session completed", "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}
