package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shivanandmn/wingman/wingman/observability"
	"github.com/shivanandmn/wingman/wingman/schema"
	"github.com/shivanandmn/wingman/wingman/typeutil"
)

// Recovery tiers, in the order they are attempted.
const (
	TierEmpty   = "empty"
	TierStrict  = "strict"
	TierPattern = "pattern"
	TierDefault = "default"
	TierFailed  = "failed"
)

var (
	jsonSpanPattern = regexp.MustCompile(`(?s)\{.*\}`)
	mappingPairs    = regexp.MustCompile(`([\w\s]+):\s*([0-9.]+)`)
)

// Recovered is one recovery outcome: the schema instance and the tier that
// produced it.
type Recovered struct {
	Values map[string]any
	Tier   string
}

// Recover coerces raw text onto sc through tiered attempts:
//
//	empty    blank input yields the schema's empty instance
//	strict   parse a JSON object and build all fields
//	pattern  scrape fields one by one with per-field regexes
//	default  synthesize from field defaults, seeded with the raw text
//
// Each tier is a (value, ok) attempt; the first success wins. Recover only
// returns ok=false when even default synthesis fails.
func Recover(sc *schema.Schema, raw string) (Recovered, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		observability.RecordRecovery(sc.Name, TierEmpty)
		return Recovered{Values: sc.Empty(), Tier: TierEmpty}, true
	}

	if values, ok := recoverStrict(sc, trimmed); ok {
		observability.RecordRecovery(sc.Name, TierStrict)
		return Recovered{Values: values, Tier: TierStrict}, true
	}

	if values, ok := recoverPattern(sc, trimmed); ok {
		observability.RecordRecovery(sc.Name, TierPattern)
		return Recovered{Values: values, Tier: TierPattern}, true
	}

	values, err := sc.Defaults(trimmed)
	if err != nil {
		observability.RecordRecovery(sc.Name, TierFailed)
		return Recovered{Tier: TierFailed}, false
	}
	observability.RecordRecovery(sc.Name, TierDefault)
	return Recovered{Values: values, Tier: TierDefault}, true
}

// recoverStrict locates a JSON object span in the text (the whole text when
// no span is found), parses it, and builds the full schema instance. Any
// parse or build failure falls through to the next tier.
func recoverStrict(sc *schema.Schema, raw string) (map[string]any, bool) {
	candidate := raw
	if span := jsonSpanPattern.FindString(raw); span != "" {
		candidate = span
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, false
	}
	values, err := sc.Build(parsed)
	if err != nil {
		return nil, false
	}
	return values, true
}

// fieldPatterns builds the capture patterns tried, in order, for one field:
// quoted then line-bound value, keyed by the raw field name and then by its
// display form.
func fieldPatterns(f schema.Field) []*regexp.Regexp {
	const quoted = `\s*[:=]\s*["'](.*?)["']`
	const plain = `\s*[:=]\s*(.*?)(?:\n|$)`
	display := f.DisplayName()
	return []*regexp.Regexp{
		regexp.MustCompile(`(?is)` + regexp.QuoteMeta(f.Name) + quoted),
		regexp.MustCompile(`(?is)` + regexp.QuoteMeta(f.Name) + plain),
		regexp.MustCompile(`(?is)` + regexp.QuoteMeta(display) + quoted),
		regexp.MustCompile(`(?is)` + regexp.QuoteMeta(display) + plain),
	}
}

// recoverPattern scrapes field values out of freeform text. The first
// pattern that matches wins the field; coercion happens afterwards, and a
// fragment that cannot be coerced is left for BuildPartial to default. Zero
// captured fields means the tier did not apply.
func recoverPattern(sc *schema.Schema, raw string) (map[string]any, bool) {
	captured := 0
	values := map[string]any{}
	for _, f := range sc.Fields {
		for _, pattern := range fieldPatterns(f) {
			match := pattern.FindStringSubmatch(raw)
			if match == nil {
				continue
			}
			captured++
			if value, ok := coerceFragment(f, strings.TrimSpace(match[1])); ok {
				values[f.Name] = value
			}
			break
		}
	}
	if captured == 0 {
		return nil, false
	}
	instance, err := sc.BuildPartial(values)
	if err != nil {
		return nil, false
	}
	return instance, true
}

// coerceFragment shapes one captured text fragment into the field's type.
func coerceFragment(f schema.Field, fragment string) (any, bool) {
	switch f.Type {
	case schema.FieldTypeText:
		return fragment, true
	case schema.FieldTypeList:
		if strings.HasPrefix(fragment, "[") && strings.HasSuffix(fragment, "]") {
			var parsed []any
			if err := json.Unmarshal([]byte(fragment), &parsed); err == nil {
				if items, ok := typeutil.SafeStringSlice(parsed); ok {
					return items, true
				}
			}
		}
		var items []string
		for _, part := range strings.Split(fragment, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if items == nil {
			return nil, false
		}
		return items, true
	case schema.FieldTypeMapping:
		if strings.HasPrefix(fragment, "{") && strings.HasSuffix(fragment, "}") {
			var parsed map[string]any
			if err := json.Unmarshal([]byte(fragment), &parsed); err == nil {
				out := map[string]float64{}
				for k, v := range parsed {
					n, ok := typeutil.SafeFloat64(v)
					if !ok {
						continue
					}
					out[k] = n
				}
				return out, true
			}
		}
		pairs := mappingPairs.FindAllStringSubmatch(fragment, -1)
		if len(pairs) == 0 {
			return nil, false
		}
		out := map[string]float64{}
		for _, pair := range pairs {
			key := strings.TrimSpace(pair[1])
			var n float64
			if _, err := fmt.Sscanf(pair[2], "%g", &n); err != nil {
				continue
			}
			out[key] = n
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	}
	return nil, false
}
