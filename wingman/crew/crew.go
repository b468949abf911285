// Package crew manages the configured agent crews and drives their
// execution. The Manager owns materialized task descriptions; an Engine
// runs a crew and returns an opaque result for the extraction layer.
package crew

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shivanandmn/wingman/wingman/config"
	"github.com/shivanandmn/wingman/wingman/observability"
)

// Logger is the interface for logging.
type Logger interface {
	Info(msg string, fields ...any)
	Debug(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	Bind(fields ...any) Logger
}

// LLMProvider is the interface for LLM providers.
type LLMProvider interface {
	Generate(ctx context.Context, model string, prompt string, options map[string]any) (string, error)
}

// Engine runs one crew to completion. The result shape is engine-specific
// and opaque to callers; the extraction layer sniffs it at runtime.
type Engine interface {
	Kickoff(ctx context.Context, crewCfg *config.CrewConfig, agents map[string]*config.AgentConfig, tasks []*config.TaskConfig) (any, error)
}

var tracer = otel.Tracer("wingman/crew")

// Manager holds the configured agents, tasks and crews, and the current
// materialized task descriptions. Task templates from configuration are
// never mutated; each context update re-materializes from the pristine
// template.
type Manager struct {
	cfg    *config.Config
	engine Engine
	logger Logger

	mu    sync.RWMutex
	tasks map[string]*config.TaskConfig
}

// NewManager creates a Manager from validated configuration. Construction
// fails fast on an invalid config so that a broken deployment is caught at
// startup, not on the first session.
func NewManager(cfg *config.Config, engine Engine, logger Logger) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("crew manager config: %w", err)
	}
	if engine == nil {
		return nil, fmt.Errorf("crew manager requires an engine")
	}

	m := &Manager{
		cfg:    cfg,
		engine: engine,
		logger: logger.Bind("component", "crew_manager"),
	}
	m.materialize(nil)
	return m, nil
}

// materialize rebuilds the working task set from the pristine templates,
// substituting contextVars into each description.
func (m *Manager) materialize(contextVars map[string]string) {
	tasks := make(map[string]*config.TaskConfig, len(m.cfg.Tasks))
	for i := range m.cfg.Tasks {
		materialized := m.cfg.Tasks[i]
		materialized.Description = FormatWithContext(materialized.Description, contextVars)
		materialized.ExpectedOutput = FormatWithContext(materialized.ExpectedOutput, contextVars)
		tasks[materialized.ID] = &materialized
	}
	m.mu.Lock()
	m.tasks = tasks
	m.mu.Unlock()
}

// UpdateTaskContext substitutes contextVars into every task description.
// Always starts from the configured templates, so repeated updates never
// compound.
func (m *Manager) UpdateTaskContext(contextVars map[string]string) {
	m.materialize(contextVars)
	m.logger.Debug("task context updated", "vars", len(contextVars))
}

// Task returns the current materialized task, or nil if unknown.
func (m *Manager) Task(id string) *config.TaskConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tasks[id]
}

// RunCrew executes the crew with the given id and returns the engine's
// result.
func (m *Manager) RunCrew(ctx context.Context, crewID string) (any, error) {
	crewCfg := m.cfg.GetCrew(crewID)
	if crewCfg == nil {
		return nil, fmt.Errorf("unknown crew '%s'", crewID)
	}

	ctx, span := tracer.Start(ctx, "crew.run")
	span.SetAttributes(attribute.String("wingman.crew.id", crewID))
	defer span.End()

	agents := make(map[string]*config.AgentConfig, len(crewCfg.Agents))
	for _, agentID := range crewCfg.Agents {
		agents[agentID] = m.cfg.GetAgent(agentID)
	}

	m.mu.RLock()
	tasks := make([]*config.TaskConfig, 0, len(crewCfg.Tasks))
	for _, taskID := range crewCfg.Tasks {
		tasks = append(tasks, m.tasks[taskID])
	}
	m.mu.RUnlock()

	logger := m.logger.Bind("crew", crewID)
	logger.Info("crew starting", "tasks", len(tasks))

	start := time.Now()
	result, err := m.engine.Kickoff(ctx, crewCfg, agents, tasks)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.RecordCrewRun(crewID, "error", elapsed.Seconds())
		logger.Error("crew failed", "error", err, "duration_ms", elapsed.Milliseconds())
		return nil, fmt.Errorf("crew '%s': %w", crewID, err)
	}

	observability.RecordCrewRun(crewID, "success", elapsed.Seconds())
	logger.Info("crew completed", "duration_ms", elapsed.Milliseconds())
	return result, nil
}
