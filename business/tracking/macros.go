package tracking

import "regexp"

var macroPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// ExpandMacros substitutes every {token} in the template with its value from
// vars. Unknown tokens become empty strings; substitution is total, so no
// brace pairs from matched tokens survive in the output.
func ExpandMacros(template string, vars map[string]string) string {
	return macroPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		return vars[name]
	})
}
