package crew

import (
	"context"
	"fmt"
	"strings"

	"github.com/shivanandmn/wingman/wingman/config"
)

// SequentialEngine runs a crew's tasks in declared order, one LLM call per
// task. Each task sees the outputs of the tasks before it, so a later agent
// can build on an earlier one's work.
//
// The result is a task_results record list: the primary container shape the
// extraction layer expects.
type SequentialEngine struct {
	llm    LLMProvider
	api    config.APIConfig
	logger Logger
}

// NewSequentialEngine creates a SequentialEngine backed by the given
// provider.
func NewSequentialEngine(llm LLMProvider, api config.APIConfig, logger Logger) (*SequentialEngine, error) {
	if llm == nil {
		return nil, fmt.Errorf("sequential engine requires an llm provider")
	}
	return &SequentialEngine{
		llm:    llm,
		api:    api,
		logger: logger.Bind("component", "sequential_engine"),
	}, nil
}

// Kickoff executes the crew's tasks in order. A task whose agent is unknown
// and a failed LLM call both abort the run.
func (e *SequentialEngine) Kickoff(ctx context.Context, crewCfg *config.CrewConfig, agents map[string]*config.AgentConfig, tasks []*config.TaskConfig) (any, error) {
	records := make([]any, 0, len(tasks))
	var priorOutputs []string

	for _, task := range tasks {
		if task == nil {
			continue
		}
		agent := agents[task.Agent]
		if agent == nil {
			return nil, fmt.Errorf("task '%s' references agent '%s' not in crew '%s'", task.ID, task.Agent, crewCfg.ID)
		}

		prompt := e.buildPrompt(agent, task, priorOutputs)
		e.logger.Debug("dispatching task", "task", task.ID, "agent", agent.ID)

		output, err := e.llm.Generate(ctx, e.api.Model, prompt, map[string]any{
			"temperature": e.api.Temperature,
			"max_tokens":  e.api.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("task '%s' agent '%s': %w", task.ID, agent.ID, err)
		}

		records = append(records, map[string]any{
			"task_id": task.ID,
			"agent":   agent.ID,
			"result":  output,
		})
		priorOutputs = append(priorOutputs, fmt.Sprintf("[%s] %s", task.ID, output))
	}

	return map[string]any{"task_results": records}, nil
}

// buildPrompt renders the agent persona, accumulated context and task brief
// into one prompt.
func (e *SequentialEngine) buildPrompt(agent *config.AgentConfig, task *config.TaskConfig, priorOutputs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", agent.Role)
	if agent.Goal != "" {
		fmt.Fprintf(&b, "Your goal: %s\n", agent.Goal)
	}
	if agent.Backstory != "" {
		fmt.Fprintf(&b, "Background: %s\n", agent.Backstory)
	}
	if len(priorOutputs) > 0 {
		b.WriteString("\nContext from earlier tasks:\n")
		for _, out := range priorOutputs {
			b.WriteString(out)
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "\nTask: %s\n", task.Description)
	if task.ExpectedOutput != "" {
		fmt.Fprintf(&b, "Expected output: %s\n", task.ExpectedOutput)
	}
	return b.String()
}
