package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LoadDir reads every *.yml / *.yaml file in dir into a Config. Each file
// populates the section named after the file (agents.yaml -> agents); when
// the document's top-level key matches the section name, the content is
// unwrapped from under it. ${ENV_VAR} references anywhere in the document are
// replaced with the environment value when set, and left verbatim otherwise.
func LoadDir(dir string) (*Config, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config directory: %w", err)
	}

	cfg := &Config{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		section := strings.TrimSuffix(entry.Name(), ext)
		if err := loadFile(cfg, path, section); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path, section string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	doc = substituteEnv(doc)

	// Unwrap the content from under a top-level key matching the file name.
	if m, ok := doc.(map[string]any); ok {
		if inner, exists := m[section]; exists {
			doc = inner
		}
	}

	switch section {
	case "agents":
		agents, err := decodeKeyed[AgentConfig](doc, func(c *AgentConfig, id string) { c.ID = id })
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cfg.Agents = agents
	case "tasks":
		tasks, err := decodeKeyed[TaskConfig](doc, func(c *TaskConfig, id string) { c.ID = id })
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cfg.Tasks = tasks
	case "crew", "crews":
		crews, err := decodeKeyed[CrewConfig](doc, func(c *CrewConfig, id string) { c.ID = id })
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cfg.Crews = crews
	case "api":
		// The provider settings may sit under a provider key (api.openai).
		if m, ok := doc.(map[string]any); ok {
			if inner, exists := m["openai"]; exists {
				doc = inner
			}
		}
		if err := reencode(doc, &cfg.API); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	case "server":
		var server struct {
			Addr string `yaml:"addr"`
		}
		if err := reencode(doc, &server); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cfg.Addr = server.Addr
	default:
		// Unknown sections are ignored, matching the permissive directory scan.
	}
	return nil
}

// decodeKeyed decodes a mapping of id -> entry into an id-sorted slice.
func decodeKeyed[T any](doc any, setID func(*T, string)) ([]T, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a mapping of ids to entries, got %T", doc)
	}

	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		var entry T
		if err := reencode(m[id], &entry); err != nil {
			return nil, fmt.Errorf("entry '%s': %w", id, err)
		}
		setID(&entry, id)
		out = append(out, entry)
	}
	return out, nil
}

// reencode converts an untyped YAML value into a typed struct.
func reencode(v any, out any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

// substituteEnv walks a parsed YAML value and replaces ${ENV_VAR} references
// in strings with the environment value when one is set.
func substituteEnv(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = substituteEnv(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = substituteEnv(item)
		}
		return out
	case string:
		return envVarPattern.ReplaceAllStringFunc(val, func(match string) string {
			name := envVarPattern.FindStringSubmatch(match)[1]
			if env, ok := os.LookupEnv(name); ok {
				return env
			}
			return match
		})
	default:
		return v
	}
}
