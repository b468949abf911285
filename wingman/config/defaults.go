package config

// WingmanCrewID is the crew that runs one conflict-resolution session.
const WingmanCrewID = "ai_wingman_crew"

// ContentCrewID is the generic content-creation crew exposed by the agent API.
const ContentCrewID = "content_creation_crew"

// Default returns the built-in configuration: the six wingman role agents,
// their task templates, and the two crews. LoadDir-provided configuration
// replaces these tables wholesale, it does not merge.
func Default() *Config {
	cfg := &Config{
		Agents: []AgentConfig{
			{
				ID:        "emotion_analyzer",
				Role:      "Emotion Recognition Specialist",
				Goal:      "Identify the emotional tones, intensities, and triggers present in a couple's conversation",
				Backstory: "You are an expert in affective science who reads transcripts and maps each partner's emotional landscape with calibrated intensity scores.",
			},
			{
				ID:        "partner_a_simulator",
				Role:      "Partner A Simulator",
				Goal:      "Represent Partner A's inner experience and likely responses during the conflict",
				Backstory: "You embody Partner A, grounded in their background, and voice their emotional state and perspective faithfully.",
			},
			{
				ID:        "partner_b_simulator",
				Role:      "Partner B Simulator",
				Goal:      "Represent Partner B's inner experience and likely responses during the conflict",
				Backstory: "You embody Partner B, grounded in their background, and voice their emotional state and perspective faithfully.",
			},
			{
				ID:        "counselor",
				Role:      "Couples Counselor",
				Goal:      "Analyze the underlying dynamics of the conflict and mediate a more productive conversation",
				Backstory: "You are a seasoned couples therapist trained in emotionally focused therapy who turns raw conflict into structured mediation.",
			},
			{
				ID:        "encourager",
				Role:      "Positive Reinforcement Coach",
				Goal:      "Surface positive behaviors in the conversation and motivate both partners to continue them",
				Backstory: "You are a coach who finds the constructive moments inside difficult conversations and builds on them.",
			},
			{
				ID:        "interaction_generator",
				Role:      "Therapeutic Dialogue Writer",
				Goal:      "Integrate the analyses into one complete therapeutic dialogue the couple can read aloud",
				Backstory: "You are a writer of therapeutic scripts who weaves analysis, mediation, and encouragement into a single natural dialogue.",
			},
		},
		Tasks: []TaskConfig{
			{
				ID:    "analyze_emotions_task",
				Agent: "emotion_analyzer",
				Description: "Analyze the emotional content of the following conversation between two partners.\n" +
					"Conflict types: {conflict_types}\n\nTranscript:\n{transcript}",
				ExpectedOutput: "A JSON object with partner_a_emotions, partner_b_emotions (emotion -> intensity 0.0-1.0), " +
					"emotional_triggers (list), and recommendations (text).",
			},
			{
				ID:    "simulate_partner_a_task",
				Agent: "partner_a_simulator",
				Description: "Given the transcript and Partner A's background, simulate Partner A's inner experience.\n" +
					"Background: {partner_a_background}\n\nTranscript:\n{transcript}",
				ExpectedOutput: "A JSON object with emotional_state, perspective, and potential_dialogue.",
			},
			{
				ID:    "simulate_partner_b_task",
				Agent: "partner_b_simulator",
				Description: "Given the transcript and Partner B's background, simulate Partner B's inner experience.\n" +
					"Background: {partner_b_background}\n\nTranscript:\n{transcript}",
				ExpectedOutput: "A JSON object with emotional_state, perspective, and potential_dialogue.",
			},
			{
				ID:    "provide_counseling_task",
				Agent: "counselor",
				Description: "Analyze the underlying issues in this conflict ({conflict_types}) and draft mediation guidance.\n" +
					"Transcript:\n{transcript}",
				ExpectedOutput: "A JSON object with analysis, mediation_dialogue, and guidance.",
			},
			{
				ID:    "provide_encouragement_task",
				Agent: "encourager",
				Description: "Identify positive behaviors or intentions in the transcript and draft reinforcement.\n" +
					"Transcript:\n{transcript}",
				ExpectedOutput: "A JSON object with positive_observations, reinforcement_dialogue, and motivation_strategies.",
			},
			{
				ID:    "generate_interaction_task",
				Agent: "interaction_generator",
				Description: "Integrate the emotion analysis, partner simulations, counseling, and encouragement into one " +
					"complete therapeutic dialogue for the couple. Conflict types: {conflict_types}",
				ExpectedOutput: "A complete therapeutic dialogue as plain text.",
			},
			{
				ID:             "research_task",
				Agent:          "counselor",
				Description:    "Research the topic: {topic}. Collect the key factual points a writer would need.",
				ExpectedOutput: "A bullet list of key points about {topic}.",
			},
			{
				ID:             "write_task",
				Agent:          "interaction_generator",
				Description:    "Write a clear, engaging article about {topic} using the research notes.",
				ExpectedOutput: "A complete article about {topic} as plain text.",
			},
		},
		Crews: []CrewConfig{
			{
				ID: WingmanCrewID,
				Agents: []string{
					"emotion_analyzer", "partner_a_simulator", "partner_b_simulator",
					"counselor", "encourager", "interaction_generator",
				},
				Tasks: []string{
					"analyze_emotions_task", "simulate_partner_a_task", "simulate_partner_b_task",
					"provide_counseling_task", "provide_encouragement_task", "generate_interaction_task",
				},
				Process: "sequential",
			},
			{
				ID:      ContentCrewID,
				Agents:  []string{"counselor", "interaction_generator"},
				Tasks:   []string{"research_task", "write_task"},
				Process: "sequential",
			},
		},
	}
	if err := cfg.Validate(); err != nil {
		// The default tables are covered by tests; failing validation here is
		// a programming error.
		panic(err)
	}
	return cfg
}
