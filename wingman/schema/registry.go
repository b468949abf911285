package schema

import (
	"fmt"
	"sync"
)

// Registry holds the declared schemas in registration order.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]*Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Schema),
	}
}

// Register adds a schema to the registry. Duplicate names and malformed
// schemas are rejected.
func (r *Registry) Register(s *Schema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[s.Name]; exists {
		return fmt.Errorf("schema '%s' already registered", s.Name)
	}
	r.byName[s.Name] = s
	r.order = append(r.order, s.Name)
	return nil
}

// Get returns the schema with the given name, or nil if not registered.
func (r *Registry) Get(name string) *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// Names returns schema names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// =============================================================================
// Built-in schemas
// =============================================================================

// EmotionAnalysis is the structured output contract for the emotion
// recognition agent.
var EmotionAnalysis = &Schema{
	Name: "emotion_analysis",
	Fields: []Field{
		{Name: "partner_a_emotions", Type: FieldTypeMapping, Description: "Emotions detected for Partner A with intensity scores (0.0-1.0)"},
		{Name: "partner_b_emotions", Type: FieldTypeMapping, Description: "Emotions detected for Partner B with intensity scores (0.0-1.0)"},
		{Name: "emotional_triggers", Type: FieldTypeList, Description: "Identified emotional triggers in the conversation"},
		{Name: "recommendations", Type: FieldTypeText, Description: "Recommendations for addressing the emotional dynamics"},
	},
}

// PartnerResponse is the structured output contract for the partner
// simulation agents. It is used twice, once per partner.
var PartnerResponse = &Schema{
	Name: "partner_response",
	Fields: []Field{
		{Name: "emotional_state", Type: FieldTypeText, Description: "Current emotional state based on the conversation"},
		{Name: "perspective", Type: FieldTypeText, Description: "Partner's perspective on the conflict"},
		{Name: "potential_dialogue", Type: FieldTypeText, Description: "How the partner might respond in this situation"},
	},
}

// CounselorResponse is the structured output contract for the counselor agent.
var CounselorResponse = &Schema{
	Name: "counselor_response",
	Fields: []Field{
		{Name: "analysis", Type: FieldTypeText, Description: "Analysis of the underlying issues and dynamics"},
		{Name: "mediation_dialogue", Type: FieldTypeText, Description: "Mediation dialogue to help partners communicate better"},
		{Name: "guidance", Type: FieldTypeText, Description: "Guidance for a more productive conversation"},
	},
}

// EncouragerResponse is the structured output contract for the encourager
// agent.
var EncouragerResponse = &Schema{
	Name: "encourager_response",
	Fields: []Field{
		{Name: "positive_observations", Type: FieldTypeText, Description: "Observations of positive behaviors or intentions"},
		{Name: "reinforcement_dialogue", Type: FieldTypeText, Description: "Dialogue to reinforce positive actions"},
		{Name: "motivation_strategies", Type: FieldTypeText, Description: "Strategies to motivate continued positive behavior"},
	},
}

// DefaultRegistry returns a registry with all built-in schemas registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range []*Schema{EmotionAnalysis, PartnerResponse, CounselorResponse, EncouragerResponse} {
		if err := r.Register(s); err != nil {
			// Built-in schemas are validated by tests; a registration failure
			// here is a programming error.
			panic(err)
		}
	}
	return r
}
