package crew

import "regexp"

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// FormatWithContext substitutes {key} placeholders in template with values
// from contextVars. Substitution is a single pass: a placeholder inside a
// substituted value is left as-is, and a placeholder with no matching key
// stays verbatim. Deterministic for any map iteration order.
func FormatWithContext(template string, contextVars map[string]string) string {
	if len(contextVars) == 0 {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := contextVars[key]; ok {
			return value
		}
		return match
	})
}
