// Package httpapi exposes the wingman session engine over HTTP.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shivanandmn/wingman/wingman/config"
	"github.com/shivanandmn/wingman/wingman/crew"
	"github.com/shivanandmn/wingman/wingman/schema"
	"github.com/shivanandmn/wingman/wingman/session"
	"github.com/shivanandmn/wingman/wingman/typeutil"
)

// Server routes HTTP requests to the session orchestrator and the crew
// manager.
type Server struct {
	orchestrator *session.Orchestrator
	manager      *crew.Manager
	schemas      *schema.Registry
	logger       crew.Logger
	mux          *http.ServeMux
}

// NewServer creates the HTTP surface.
func NewServer(orchestrator *session.Orchestrator, manager *crew.Manager, logger crew.Logger) *Server {
	s := &Server{
		orchestrator: orchestrator,
		manager:      manager,
		schemas:      schema.DefaultRegistry(),
		logger:       logger.Bind("component", "httpapi"),
		mux:          http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/v1/wingman/conversation", s.handleConversation)
	s.mux.HandleFunc("POST /api/v1/wingman/conversation/legacy", s.handleConversationLegacy)
	s.mux.HandleFunc("POST /api/v1/agent/content", s.handleContent)
	s.mux.HandleFunc("GET /api/v1/wingman/schemas", s.handleSchemas)
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Detail: err.Error()})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request body: %w", err))
		return false
	}
	return true
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	var req session.Request
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.orchestrator.ProcessConversation(r.Context(), &req)
	if err != nil {
		s.logger.Error("conversation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// legacyConversationResponse is the pre-structured response format, kept for
// callers that predate the per-agent schemas.
type legacyConversationResponse struct {
	ConflictAnalysis     string `json:"conflict_analysis"`
	DialogueScript       string `json:"dialogue_script"`
	EmpathyGuidance      string `json:"empathy_guidance"`
	ResolutionStrategies string `json:"resolution_strategies"`
}

func (s *Server) handleConversationLegacy(w http.ResponseWriter, r *http.Request) {
	var req session.Request
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.orchestrator.ProcessConversation(r.Context(), &req)
	if err != nil {
		s.logger.Error("legacy conversation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	counselorAnalysis := typeutil.SafeStringDefault(result.CounselorResponse["analysis"], "")
	partnerAPerspective := typeutil.SafeStringDefault(result.PartnerAResponse["perspective"], "")
	partnerBPerspective := typeutil.SafeStringDefault(result.PartnerBResponse["perspective"], "")

	conflictAnalysis := fmt.Sprintf("Counselor Analysis: %s\n\n", counselorAnalysis)
	conflictAnalysis += fmt.Sprintf("Partner A Perspective: %s\n\n", partnerAPerspective)
	conflictAnalysis += fmt.Sprintf("Partner B Perspective: %s", partnerBPerspective)

	strategies := typeutil.SafeStringDefault(result.EncouragerResponse["motivation_strategies"], "")
	guidance := typeutil.SafeStringDefault(result.CounselorResponse["guidance"], "")

	s.writeJSON(w, http.StatusOK, legacyConversationResponse{
		ConflictAnalysis:     conflictAnalysis,
		DialogueScript:       result.IntegratedDialogue,
		EmpathyGuidance:      guidance,
		ResolutionStrategies: fmt.Sprintf("Motivation Strategies: %s\n\nCounselor Guidance: %s", strategies, guidance),
	})
}

type topicRequest struct {
	Topic string `json:"topic"`
}

type agentResponse struct {
	Result string `json:"result"`
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Topic == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("topic is required"))
		return
	}

	s.manager.UpdateTaskContext(map[string]string{"topic": req.Topic})
	result, err := s.manager.RunCrew(r.Context(), config.ContentCrewID)
	if err != nil {
		s.logger.Error("content crew failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, agentResponse{Result: contentResult(result)})
}

// contentResult flattens a crew result to the written article: the final
// task's output when the result is the usual record list, the whole result
// rendered as text otherwise.
func contentResult(result any) string {
	if m, ok := typeutil.SafeMapStringAny(result); ok {
		if records, ok := typeutil.SafeSlice(m["task_results"]); ok && len(records) > 0 {
			if last, ok := typeutil.SafeMapStringAny(records[len(records)-1]); ok {
				if out := typeutil.Stringify(last["result"]); out != "" {
					return out
				}
			}
		}
	}
	return typeutil.Stringify(result)
}

type schemaDescription struct {
	Name   string         `json:"name"`
	Fields []schema.Field `json:"fields"`
}

// handleSchemas lists the structured-output contracts every session result
// conforms to.
func (s *Server) handleSchemas(w http.ResponseWriter, r *http.Request) {
	out := make([]schemaDescription, 0)
	for _, name := range s.schemas.Names() {
		sc := s.schemas.Get(name)
		out = append(out, schemaDescription{Name: sc.Name, Fields: sc.Describe()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
