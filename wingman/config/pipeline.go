// Package config provides crew, task, and agent configuration for the
// wingman session engine.
//
// Configuration comes from two places: the in-code default tables below, and
// YAML files loaded by LoadDir. Both produce the same Config value; the crew
// manager consumes it at construction time and fails fast on dangling
// agent/task references.
package config

import "fmt"

// AgentConfig is the declarative agent configuration.
type AgentConfig struct {
	// Identity
	ID   string `yaml:"id" json:"id"`
	Role string `yaml:"role" json:"role"`

	// Persona
	Goal      string `yaml:"goal" json:"goal"`
	Backstory string `yaml:"backstory" json:"backstory"`

	// Behavior
	Verbose         bool `yaml:"verbose" json:"verbose"`
	AllowDelegation bool `yaml:"allow_delegation" json:"allow_delegation"`
}

// Validate validates the agent configuration and fills persona defaults.
func (c *AgentConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("AgentConfig.ID is required")
	}
	if c.Role == "" {
		c.Role = "Agent"
	}
	if c.Goal == "" {
		c.Goal = fmt.Sprintf("Perform tasks as a %s agent", c.Role)
	}
	if c.Backstory == "" {
		c.Backstory = fmt.Sprintf("You are a %s agent designed to help with various tasks.", c.Role)
	}
	return nil
}

// TaskConfig is the declarative task configuration. Description and
// ExpectedOutput are templates with {key} placeholders materialized from the
// run-time context immediately before a crew run.
type TaskConfig struct {
	ID             string `yaml:"id" json:"id"`
	Description    string `yaml:"description" json:"description"`
	ExpectedOutput string `yaml:"expected_output" json:"expected_output"`
	Agent          string `yaml:"agent" json:"agent"`
	AsyncExecution bool   `yaml:"async_execution" json:"async_execution"`
}

// Validate validates the task configuration.
func (c *TaskConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("TaskConfig.ID is required")
	}
	if c.Agent == "" {
		return fmt.Errorf("task '%s' has no agent binding", c.ID)
	}
	if c.Description == "" {
		return fmt.Errorf("task '%s' has no description", c.ID)
	}
	return nil
}

// CrewConfig defines an ordered batch of tasks executed by a set of agents.
type CrewConfig struct {
	ID      string   `yaml:"id" json:"id"`
	Agents  []string `yaml:"agents" json:"agents"`
	Tasks   []string `yaml:"tasks" json:"tasks"`
	Process string   `yaml:"process" json:"process"`
	Verbose bool     `yaml:"verbose" json:"verbose"`
	MaxRPM  int      `yaml:"max_rpm" json:"max_rpm"`
}

// Validate validates the crew configuration and applies defaults.
func (c *CrewConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("CrewConfig.ID is required")
	}
	if len(c.Tasks) == 0 {
		return fmt.Errorf("crew '%s' has no tasks", c.ID)
	}
	if c.Process == "" {
		c.Process = "sequential"
	}
	if c.MaxRPM == 0 {
		c.MaxRPM = 20
	}
	return nil
}

// APIConfig holds language model provider settings.
type APIConfig struct {
	APIKey      string  `yaml:"api_key" json:"-"`
	BaseURL     string  `yaml:"base_url" json:"base_url"`
	Model       string  `yaml:"model" json:"model"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
}

// Validate applies provider defaults. The API key is checked by the provider
// constructor, not here, so that extraction-only use never needs a key.
func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4000
	}
	return nil
}

// Config aggregates all crew configuration.
type Config struct {
	Agents []AgentConfig `yaml:"agents" json:"agents"`
	Tasks  []TaskConfig  `yaml:"tasks" json:"tasks"`
	Crews  []CrewConfig  `yaml:"crews" json:"crews"`
	API    APIConfig     `yaml:"api" json:"api"`

	// HTTP server
	Addr string `yaml:"addr" json:"addr"`
}

// Validate validates every table and all cross references.
func (c *Config) Validate() error {
	agents := make(map[string]bool, len(c.Agents))
	for i := range c.Agents {
		if err := c.Agents[i].Validate(); err != nil {
			return err
		}
		if agents[c.Agents[i].ID] {
			return fmt.Errorf("duplicate agent id: %s", c.Agents[i].ID)
		}
		agents[c.Agents[i].ID] = true
	}

	tasks := make(map[string]bool, len(c.Tasks))
	for i := range c.Tasks {
		if err := c.Tasks[i].Validate(); err != nil {
			return err
		}
		if tasks[c.Tasks[i].ID] {
			return fmt.Errorf("duplicate task id: %s", c.Tasks[i].ID)
		}
		if !agents[c.Tasks[i].Agent] {
			return fmt.Errorf("agent '%s' not found for task '%s'", c.Tasks[i].Agent, c.Tasks[i].ID)
		}
		tasks[c.Tasks[i].ID] = true
	}

	crews := make(map[string]bool, len(c.Crews))
	for i := range c.Crews {
		if err := c.Crews[i].Validate(); err != nil {
			return err
		}
		if crews[c.Crews[i].ID] {
			return fmt.Errorf("duplicate crew id: %s", c.Crews[i].ID)
		}
		crews[c.Crews[i].ID] = true
		for _, agentID := range c.Crews[i].Agents {
			if !agents[agentID] {
				return fmt.Errorf("agent '%s' not found for crew '%s'", agentID, c.Crews[i].ID)
			}
		}
		for _, taskID := range c.Crews[i].Tasks {
			if !tasks[taskID] {
				return fmt.Errorf("task '%s' not found for crew '%s'", taskID, c.Crews[i].ID)
			}
		}
	}

	if err := c.API.Validate(); err != nil {
		return err
	}
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	return nil
}

// GetAgent gets an agent config by id.
func (c *Config) GetAgent(id string) *AgentConfig {
	for i := range c.Agents {
		if c.Agents[i].ID == id {
			return &c.Agents[i]
		}
	}
	return nil
}

// GetTask gets a task config by id.
func (c *Config) GetTask(id string) *TaskConfig {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return &c.Tasks[i]
		}
	}
	return nil
}

// GetCrew gets a crew config by id.
func (c *Config) GetCrew(id string) *CrewConfig {
	for i := range c.Crews {
		if c.Crews[i].ID == id {
			return &c.Crews[i]
		}
	}
	return nil
}
