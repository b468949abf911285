// Package extract turns the opaque result of one crew run into per-task raw
// text (Locator) and coerces that text onto a schema (Recovery).
//
// The crew execution engine's result format is not contractually stable, so
// the locator sniffs the runtime shape of the value with an ordered list of
// matchers instead of trusting any single container layout. A lookup that
// matches no shape, or matches a shape but finds no record, yields empty
// text — never an error.
package extract

import (
	"regexp"
	"strings"

	"github.com/shivanandmn/wingman/wingman/observability"
	"github.com/shivanandmn/wingman/wingman/typeutil"
)

// Section markers recognized when the crew result is a single text blob.
// The per-partner simulation tasks share one section; they have no blob
// mapping of their own.
var sectionPatterns = map[string]*regexp.Regexp{
	"analyze_emotions_task":      regexp.MustCompile(`(?s)===\s*EMOTION ANALYSIS\s*===(.*?)(?:===\s*|$)`),
	"simulate_partners_task":     regexp.MustCompile(`(?s)===\s*PARTNER SIMULATION\s*===(.*?)(?:===\s*|$)`),
	"provide_counseling_task":    regexp.MustCompile(`(?s)===\s*COUNSELING\s*===(.*?)(?:===\s*|$)`),
	"provide_encouragement_task": regexp.MustCompile(`(?s)===\s*ENCOURAGEMENT\s*===(.*?)(?:===\s*|$)`),
	"generate_interaction_task":  regexp.MustCompile(`(?s)===\s*INTEGRATED DIALOGUE\s*===(.*?)(?:===\s*|$)`),
}

// shapeMatcher pairs a shape predicate with its extractor. Matchers are
// tried in priority order; the first whose predicate holds decides the
// lookup, whether or not it finds the task.
type shapeMatcher struct {
	name    string
	match   func(result any) bool
	extract func(result any, taskID, agentFilter string) string
}

// Locator resolves the raw text attributable to one task within a crew run
// result of unknown shape.
type Locator struct {
	matchers []shapeMatcher
}

// NewLocator creates a Locator with the standard shape matchers.
func NewLocator() *Locator {
	return &Locator{
		matchers: []shapeMatcher{
			{
				name:    "task_results",
				match:   hasRecordSequence("task_results"),
				extract: extractTaskResults,
			},
			{
				name:    "tasks",
				match:   hasRecordSequence("tasks"),
				extract: extractTasks,
			},
			{
				name: "direct",
				match: func(result any) bool {
					_, ok := typeutil.SafeMapStringAny(result)
					return ok
				},
				extract: extractDirect,
			},
			{
				name: "list",
				match: func(result any) bool {
					_, ok := typeutil.SafeSlice(result)
					return ok
				},
				extract: extractList,
			},
			{
				name: "text",
				match: func(result any) bool {
					_, ok := typeutil.SafeString(result)
					return ok
				},
				extract: extractSections,
			},
		},
	}
}

// Locate returns the raw text for taskID within result, optionally requiring
// the producing agent to equal agentFilter. Returns empty text when the task
// cannot be found; never fails.
func (l *Locator) Locate(result any, taskID, agentFilter string) string {
	for _, m := range l.matchers {
		if m.match(result) {
			observability.RecordLocatorMatch(m.name)
			return m.extract(result, taskID, agentFilter)
		}
	}
	observability.RecordLocatorMatch("none")
	return ""
}

func hasRecordSequence(key string) func(any) bool {
	return func(result any) bool {
		m, ok := typeutil.SafeMapStringAny(result)
		if !ok {
			return false
		}
		_, ok = typeutil.SafeSlice(m[key])
		return ok
	}
}

// extractTaskResults handles {"task_results": [{task_id, agent, result}]}.
// An agent mismatch keeps scanning: a later record may carry the same
// task_id under the wanted agent.
func extractTaskResults(result any, taskID, agentFilter string) string {
	m, _ := typeutil.SafeMapStringAny(result)
	records, _ := typeutil.SafeSlice(m["task_results"])
	for _, recAny := range records {
		rec, ok := typeutil.SafeMapStringAny(recAny)
		if !ok {
			continue
		}
		if typeutil.SafeStringDefault(rec["task_id"], "") != taskID {
			continue
		}
		if agentFilter != "" && typeutil.SafeStringDefault(rec["agent"], "") != agentFilter {
			continue
		}
		return typeutil.Stringify(rec["result"])
	}
	return ""
}

// extractTasks handles {"tasks": [{id|task_id, agent, output|result}]}.
func extractTasks(result any, taskID, agentFilter string) string {
	m, _ := typeutil.SafeMapStringAny(result)
	records, _ := typeutil.SafeSlice(m["tasks"])
	for _, recAny := range records {
		rec, ok := typeutil.SafeMapStringAny(recAny)
		if !ok {
			continue
		}
		if typeutil.SafeStringDefault(rec["id"], "") != taskID &&
			typeutil.SafeStringDefault(rec["task_id"], "") != taskID {
			continue
		}
		if agentFilter != "" && typeutil.SafeStringDefault(rec["agent"], "") != agentFilter {
			continue
		}
		if out := typeutil.Stringify(rec["output"]); out != "" {
			return out
		}
		return typeutil.Stringify(rec["result"])
	}
	return ""
}

// extractDirect handles a mapping keyed directly by task identifier.
func extractDirect(result any, taskID, _ string) string {
	m, _ := typeutil.SafeMapStringAny(result)
	v, exists := m[taskID]
	if !exists {
		return ""
	}
	return typeutil.Stringify(v)
}

// extractList handles a bare sequence of task-result records.
func extractList(result any, taskID, agentFilter string) string {
	records, _ := typeutil.SafeSlice(result)
	for _, recAny := range records {
		rec, ok := typeutil.SafeMapStringAny(recAny)
		if !ok {
			continue
		}
		if typeutil.SafeStringDefault(rec["task_id"], "") != taskID &&
			typeutil.SafeStringDefault(rec["id"], "") != taskID {
			continue
		}
		if agentFilter != "" && typeutil.SafeStringDefault(rec["agent"], "") != agentFilter {
			continue
		}
		if out := typeutil.Stringify(rec["result"]); out != "" {
			return out
		}
		return typeutil.Stringify(rec["output"])
	}
	return ""
}

// extractSections handles a single text blob with `=== SECTION ===` markers.
func extractSections(result any, taskID, agentFilter string) string {
	blob, _ := typeutil.SafeString(result)
	pattern, known := sectionPatterns[taskID]
	if !known {
		return ""
	}
	match := pattern.FindStringSubmatch(blob)
	if match == nil {
		return ""
	}
	section := match[1]

	if agentFilter != "" {
		agentPattern := regexp.MustCompile(`(?is)` + regexp.QuoteMeta(agentFilter) + `\s*[:=]\s*(.*?)(?:===|$)`)
		if agentMatch := agentPattern.FindStringSubmatch(section); agentMatch != nil {
			return strings.TrimSpace(agentMatch[1])
		}
	}
	return strings.TrimSpace(section)
}
