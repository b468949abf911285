// Package testutil provides shared mocks for wingman tests.
package testutil

import (
	"context"
	"sync"

	"github.com/shivanandmn/wingman/wingman/config"
	"github.com/shivanandmn/wingman/wingman/crew"
)

// =============================================================================
// MOCK LOGGER
// =============================================================================

// LogEntry represents a captured log entry.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// MockLogger implements crew.Logger for testing.
type MockLogger struct {
	// Logs captures all log entries.
	Logs []LogEntry

	mu sync.Mutex
}

// NewMockLogger creates a MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		Logs: make([]LogEntry, 0),
	}
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.log("debug", msg, keysAndValues...)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.log("info", msg, keysAndValues...)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.log("warn", msg, keysAndValues...)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.log("error", msg, keysAndValues...)
}

func (m *MockLogger) Bind(fields ...any) crew.Logger {
	return m
}

func (m *MockLogger) log(level, msg string, keysAndValues ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields := make(map[string]any)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	m.Logs = append(m.Logs, LogEntry{Level: level, Message: msg, Fields: fields})
}

// HasMessage reports whether any entry carries the given message.
func (m *MockLogger) HasMessage(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Message == msg {
			return true
		}
	}
	return false
}

// =============================================================================
// MOCK LLM PROVIDER
// =============================================================================

// MockLLM implements crew.LLMProvider for testing. Responses are served in
// call order; when they run out, Fallback is returned.
type MockLLM struct {
	Responses []string
	Fallback  string
	Err       error

	mu      sync.Mutex
	Prompts []string
}

func (m *MockLLM) Generate(ctx context.Context, model, prompt string, options map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.Prompts = append(m.Prompts, prompt)
	if n := len(m.Prompts) - 1; n < len(m.Responses) {
		return m.Responses[n], nil
	}
	return m.Fallback, nil
}

// =============================================================================
// STATIC ENGINE
// =============================================================================

// StaticEngine implements crew.Engine with a fixed result, for tests that
// exercise everything downstream of crew execution.
type StaticEngine struct {
	Result any
	Err    error

	mu    sync.Mutex
	Calls []string
}

func (e *StaticEngine) Kickoff(ctx context.Context, crewCfg *config.CrewConfig, agents map[string]*config.AgentConfig, tasks []*config.TaskConfig) (any, error) {
	e.mu.Lock()
	e.Calls = append(e.Calls, crewCfg.ID)
	e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Result, nil
}
