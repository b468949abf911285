package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanandmn/wingman/wingman/config"
	"github.com/shivanandmn/wingman/wingman/crew"
	"github.com/shivanandmn/wingman/wingman/session"
	"github.com/shivanandmn/wingman/wingman/testutil"
)

func newOrchestrator(t *testing.T, engine crew.Engine) *session.Orchestrator {
	t.Helper()
	manager, err := crew.NewManager(config.Default(), engine, testutil.NewMockLogger())
	require.NoError(t, err)
	o, err := session.NewOrchestrator(manager, testutil.NewMockLogger())
	require.NoError(t, err)
	return o
}

func validRequest() *session.Request {
	return &session.Request{
		Transcript:         "A: you never listen to me\nB: I am trying my best",
		ConflictTypes:      []string{"communication", "expectations"},
		PartnerABackground: "works long hours",
		PartnerBBackground: "feels unheard",
	}
}

func TestProcessConversationValidation(t *testing.T) {
	o := newOrchestrator(t, &testutil.StaticEngine{})

	_, err := o.ProcessConversation(context.Background(), &session.Request{})
	assert.ErrorContains(t, err, "transcript")
}

func TestProcessConversationCrewFailure(t *testing.T) {
	o := newOrchestrator(t, &testutil.StaticEngine{Err: errors.New("provider down")})

	_, err := o.ProcessConversation(context.Background(), validRequest())
	assert.ErrorContains(t, err, "provider down")
}

func TestProcessConversationStructuredResult(t *testing.T) {
	engine := &testutil.StaticEngine{Result: map[string]any{
		"task_results": []any{
			map[string]any{
				"task_id": "analyze_emotions_task",
				"agent":   "emotion_analyzer",
				"result": `{"partner_a_emotions": {"anger": 0.8}, "partner_b_emotions": {"hurt": 0.6},
					"emotional_triggers": ["dismissive tone"], "recommendations": "slow the pace"}`,
			},
			map[string]any{
				"task_id": "simulate_partner_a_task",
				"agent":   "partner_a_simulator",
				"result":  `{"emotional_state": "frustrated", "perspective": "feels criticized", "potential_dialogue": "I hear you"}`,
			},
			map[string]any{
				"task_id": "simulate_partner_b_task",
				"agent":   "partner_b_simulator",
				"result":  "Emotional State: exhausted\nPerspective: wants acknowledgment",
			},
			map[string]any{
				"task_id": "provide_counseling_task",
				"agent":   "counselor",
				"result":  `{"analysis": "cycle of blame", "mediation_dialogue": "A: ...", "guidance": "use I statements"}`,
			},
			map[string]any{
				"task_id": "generate_interaction_task",
				"agent":   "interaction_generator",
				"result":  "A: I feel unheard.\nB: I want to understand.",
			},
		},
	}}
	o := newOrchestrator(t, engine)

	result, err := o.ProcessConversation(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, map[string]float64{"anger": 0.8}, result.EmotionAnalysis["partner_a_emotions"])
	assert.Equal(t, []string{"dismissive tone"}, result.EmotionAnalysis["emotional_triggers"])

	assert.Equal(t, "frustrated", result.PartnerAResponse["emotional_state"])

	// partner B came back as labeled prose, recovered field by field
	assert.Equal(t, "exhausted", result.PartnerBResponse["emotional_state"])
	assert.Equal(t, "wants acknowledgment", result.PartnerBResponse["perspective"])

	assert.Equal(t, "use I statements", result.CounselorResponse["guidance"])

	// encourager never produced output; its slot is the schema's empty instance
	assert.Equal(t, "", result.EncouragerResponse["positive_observations"])

	assert.Equal(t, "A: I feel unheard.\nB: I want to understand.", result.IntegratedDialogue)
}

func TestProcessConversationTextBlobResult(t *testing.T) {
	blob := `=== EMOTION ANALYSIS ===
{"partner_a_emotions": {"anger": 0.5}, "partner_b_emotions": {}, "emotional_triggers": [], "recommendations": "breathe"}
=== COUNSELING ===
just unstructured advice with no labels
=== INTEGRATED DIALOGUE ===
A: let's try again.`

	o := newOrchestrator(t, &testutil.StaticEngine{Result: blob})

	result, err := o.ProcessConversation(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"anger": 0.5}, result.EmotionAnalysis["partner_a_emotions"])

	// the counseling section defeats json and pattern tiers; analysis keeps
	// a prefix of the raw text
	assert.Equal(t, "just unstructured advice with no labels", result.CounselorResponse["analysis"])

	// per-partner task ids have no blob section; their slots are empty
	// instances
	assert.Equal(t, "", result.PartnerAResponse["emotional_state"])

	assert.Equal(t, "A: let's try again.", result.IntegratedDialogue)
}

func TestProcessConversationContextReachesTasks(t *testing.T) {
	llm := &testutil.MockLLM{Fallback: "ok"}
	engine, err := crew.NewSequentialEngine(llm, config.APIConfig{Model: "m"}, testutil.NewMockLogger())
	require.NoError(t, err)
	o := newOrchestrator(t, engine)

	_, err = o.ProcessConversation(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotEmpty(t, llm.Prompts)
	assert.Contains(t, llm.Prompts[0], "A: you never listen to me")
	assert.Contains(t, llm.Prompts[0], "communication, expectations")
}
