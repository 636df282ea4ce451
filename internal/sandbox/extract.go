// Package sandbox extracts code snippets from model responses, rewrites them
// to bind against the in-memory record set, and executes them in a
// restricted Go interpreter. This is the only place model-generated code
// runs; everything here assumes the input is untrusted.
package sandbox

import (
	"regexp"
	"strings"
)

// fencedBlock matches the first fenced code block regardless of its
// language tag.
var fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*[ \t]*\r?\n(.*?)```")

// ExtractCode returns the body of the first fenced code block in text.
// ok is false when the response carries no code at all, in which case the
// sandbox is a no-op.
func ExtractCode(text string) (string, bool) {
	m := fencedBlock.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	code := strings.TrimSpace(m[1])
	if code == "" {
		return "", false
	}
	return code, true
}
