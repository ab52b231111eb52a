package expr

import (
	"regexp"
	"strings"
)

// ifCallPattern matches a bare "if(" call not already written as "milkif(".
// MilkDrop preset authors write C-style "if(cond, a, b)"; the dialect has no
// boolean type, so Preprocess rewrites it to the float-returning milkif
// before parsing (spec.md §4.2).
var ifCallPattern = regexp.MustCompile(`\bif\s*\(`)

// intLiteralAssignPattern matches a whole statement of the form
// "ident = INT_LITERAL" with no decimal point, so Preprocess can force float
// typing by appending ".0" (spec.md §4.2 preprocessor step 2).
var intLiteralAssignPattern = regexp.MustCompile(`^(\s*[A-Za-z_][A-Za-z0-9_.]*\s*=\s*)([+-]?[0-9]+)(\s*)$`)

// Preprocess rewrites raw preset equation text into the dialect's own
// surface syntax. It must run once per statement before lexing.
func Preprocess(source string) string {
	source = ifCallPattern.ReplaceAllString(source, "milkif(")
	if m := intLiteralAssignPattern.FindStringSubmatch(source); m != nil {
		source = m[1] + m[2] + ".0" + m[3]
	}
	return source
}

// SplitStatements splits a per-frame/per-pixel equation block into
// individual "target = expr" statements, one per line or semicolon-joined
// clause, discarding blank lines and full-line comments (// ...).
func SplitStatements(block string) []string {
	var out []string
	for _, rawLine := range strings.Split(block, "\n") {
		line := rawLine
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			out = append(out, stmt)
		}
	}
	return out
}
