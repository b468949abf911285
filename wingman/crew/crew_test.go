package crew_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanandmn/wingman/wingman/config"
	"github.com/shivanandmn/wingman/wingman/crew"
	"github.com/shivanandmn/wingman/wingman/testutil"
)

func newManager(t *testing.T, engine crew.Engine) *crew.Manager {
	t.Helper()
	m, err := crew.NewManager(config.Default(), engine, testutil.NewMockLogger())
	require.NoError(t, err)
	return m
}

func TestNewManager(t *testing.T) {
	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := &config.Config{
			Crews: []config.CrewConfig{{ID: "c", Tasks: []string{"missing"}}},
		}
		_, err := crew.NewManager(cfg, &testutil.StaticEngine{}, testutil.NewMockLogger())
		assert.Error(t, err)
	})

	t.Run("rejects nil engine", func(t *testing.T) {
		_, err := crew.NewManager(config.Default(), nil, testutil.NewMockLogger())
		assert.Error(t, err)
	})
}

func TestUpdateTaskContext(t *testing.T) {
	m := newManager(t, &testutil.StaticEngine{})

	m.UpdateTaskContext(map[string]string{
		"transcript":           "A: you never listen\nB: that is unfair",
		"conflict_types":       "communication",
		"partner_a_background": "works long hours",
		"partner_b_background": "feels neglected",
	})

	task := m.Task("analyze_emotions_task")
	require.NotNil(t, task)
	assert.Contains(t, task.Description, "A: you never listen")
	assert.NotContains(t, task.Description, "{transcript}")

	t.Run("re-materializes from pristine templates", func(t *testing.T) {
		m.UpdateTaskContext(map[string]string{
			"transcript":     "second conversation",
			"conflict_types": "finances",
		})
		task := m.Task("analyze_emotions_task")
		require.NotNil(t, task)
		assert.Contains(t, task.Description, "second conversation")
		assert.NotContains(t, task.Description, "A: you never listen")
	})
}

func TestRunCrew(t *testing.T) {
	t.Run("unknown crew", func(t *testing.T) {
		m := newManager(t, &testutil.StaticEngine{})
		_, err := m.RunCrew(context.Background(), "no_such_crew")
		assert.ErrorContains(t, err, "unknown crew")
	})

	t.Run("returns engine result", func(t *testing.T) {
		engine := &testutil.StaticEngine{Result: map[string]any{"task_results": []any{}}}
		m := newManager(t, engine)

		result, err := m.RunCrew(context.Background(), config.WingmanCrewID)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"task_results": []any{}}, result)
		assert.Equal(t, []string{config.WingmanCrewID}, engine.Calls)
	})

	t.Run("wraps engine error", func(t *testing.T) {
		engine := &testutil.StaticEngine{Err: errors.New("provider down")}
		m := newManager(t, engine)

		_, err := m.RunCrew(context.Background(), config.WingmanCrewID)
		assert.ErrorContains(t, err, "provider down")
		assert.ErrorContains(t, err, config.WingmanCrewID)
	})
}

func TestSequentialEngine(t *testing.T) {
	t.Run("requires provider", func(t *testing.T) {
		_, err := crew.NewSequentialEngine(nil, config.APIConfig{}, testutil.NewMockLogger())
		assert.Error(t, err)
	})

	t.Run("runs tasks in order and shapes task_results", func(t *testing.T) {
		llm := &testutil.MockLLM{Responses: []string{"first out", "second out"}}
		engine, err := crew.NewSequentialEngine(llm, config.APIConfig{Model: "gpt-4o-mini"}, testutil.NewMockLogger())
		require.NoError(t, err)

		cfg := config.Default()
		crewCfg := cfg.GetCrew(config.ContentCrewID)
		require.NotNil(t, crewCfg)

		agents := map[string]*config.AgentConfig{}
		tasks := []*config.TaskConfig{}
		for _, id := range crewCfg.Agents {
			agents[id] = cfg.GetAgent(id)
		}
		for _, id := range crewCfg.Tasks {
			tasks = append(tasks, cfg.GetTask(id))
		}

		result, err := engine.Kickoff(context.Background(), crewCfg, agents, tasks)
		require.NoError(t, err)

		m, ok := result.(map[string]any)
		require.True(t, ok)
		records, ok := m["task_results"].([]any)
		require.True(t, ok)
		require.Len(t, records, len(tasks))

		first, ok := records[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, tasks[0].ID, first["task_id"])
		assert.Equal(t, tasks[0].Agent, first["agent"])
		assert.Equal(t, "first out", first["result"])
	})

	t.Run("later prompts carry earlier outputs", func(t *testing.T) {
		llm := &testutil.MockLLM{Responses: []string{"first out", "second out"}}
		engine, err := crew.NewSequentialEngine(llm, config.APIConfig{}, testutil.NewMockLogger())
		require.NoError(t, err)

		cfg := config.Default()
		crewCfg := cfg.GetCrew(config.ContentCrewID)
		agents := map[string]*config.AgentConfig{}
		tasks := []*config.TaskConfig{}
		for _, id := range crewCfg.Agents {
			agents[id] = cfg.GetAgent(id)
		}
		for _, id := range crewCfg.Tasks {
			tasks = append(tasks, cfg.GetTask(id))
		}
		require.GreaterOrEqual(t, len(tasks), 2)

		_, err = engine.Kickoff(context.Background(), crewCfg, agents, tasks)
		require.NoError(t, err)

		require.Len(t, llm.Prompts, len(tasks))
		assert.False(t, strings.Contains(llm.Prompts[0], "first out"))
		assert.Contains(t, llm.Prompts[1], "first out")
	})

	t.Run("llm failure aborts", func(t *testing.T) {
		llm := &testutil.MockLLM{Err: errors.New("rate limited")}
		engine, err := crew.NewSequentialEngine(llm, config.APIConfig{}, testutil.NewMockLogger())
		require.NoError(t, err)

		cfg := config.Default()
		crewCfg := cfg.GetCrew(config.ContentCrewID)
		agents := map[string]*config.AgentConfig{}
		tasks := []*config.TaskConfig{}
		for _, id := range crewCfg.Agents {
			agents[id] = cfg.GetAgent(id)
		}
		for _, id := range crewCfg.Tasks {
			tasks = append(tasks, cfg.GetTask(id))
		}

		_, err = engine.Kickoff(context.Background(), crewCfg, agents, tasks)
		assert.ErrorContains(t, err, "rate limited")
	})

	t.Run("unknown agent aborts", func(t *testing.T) {
		llm := &testutil.MockLLM{Fallback: "out"}
		engine, err := crew.NewSequentialEngine(llm, config.APIConfig{}, testutil.NewMockLogger())
		require.NoError(t, err)

		crewCfg := &config.CrewConfig{ID: "c"}
		tasks := []*config.TaskConfig{{ID: "t", Agent: "ghost", Description: "d"}}

		_, err = engine.Kickoff(context.Background(), crewCfg, map[string]*config.AgentConfig{}, tasks)
		assert.ErrorContains(t, err, "ghost")
	})
}
