// Package resolve implements best-effort :token substitution for templated
// sidebar items. Tokens take the form :identifier where the identifier is a
// run of letters, digits, and underscores, optionally dotted
// (":row.id" references the row binding "row.id"). Missing bindings leave
// the token in place; downstream code guards against surviving tokens.
package resolve

import (
	"regexp"
	"strings"
)

// tokenPattern matches a :token with optional dotted segments. A segment
// boundary followed by a non-identifier character backtracks, so
// ":schema.:name" yields the two tokens "schema" and "name".
var tokenPattern = regexp.MustCompile(`:([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)*)`)

// Apply substitutes every :token in template with its binding. A dotted
// token falls back to progressively shorter prefixes: for ":schema.users"
// with only "schema" bound, the prefix resolves and ".users" is kept as
// literal text. A token with no resolvable prefix survives unchanged.
func Apply(template string, bindings map[string]string) string {
	if template == "" || !strings.ContainsRune(template, ':') {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		ident := match[1:]
		if v, ok := bindings[ident]; ok {
			return v
		}
		// Trim trailing dotted segments until a prefix resolves.
		for i := strings.LastIndex(ident, "."); i > 0; i = strings.LastIndex(ident[:i], ".") {
			if v, ok := bindings[ident[:i]]; ok {
				return v + ident[i:]
			}
		}
		return match
	})
}

// RowBindings converts a result row into resolver bindings. Every column is
// available both under its bare name and under a "row." prefix, so action
// params may reference ":id" or ":row.id" interchangeably.
func RowBindings(row map[string]string) map[string]string {
	if len(row) == 0 {
		return nil
	}
	out := make(map[string]string, len(row)*2)
	for col, val := range row {
		out[col] = val
		out["row."+col] = val
	}
	return out
}

// TemplateMatches reports whether a concrete identifier could have been
// produced by substituting tokens in the template. Literal runs must match
// exactly; each token matches one or more characters.
func TemplateMatches(template, concrete string) bool {
	if !strings.ContainsRune(template, ':') {
		return template == concrete
	}
	var pattern strings.Builder
	pattern.WriteString("^")
	last := 0
	for _, loc := range tokenPattern.FindAllStringIndex(template, -1) {
		pattern.WriteString(regexp.QuoteMeta(template[last:loc[0]]))
		pattern.WriteString(".+?")
		last = loc[1]
	}
	pattern.WriteString(regexp.QuoteMeta(template[last:]))
	pattern.WriteString("$")
	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return false
	}
	return re.MatchString(concrete)
}

// Union merges binding maps left to right; later maps win on key collision.
func Union(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
