// Package references extracts cited document names from reply text. It is the
// fallback source when no citations were recorded during the turn: agents are
// instructed to close grounded answers with a "References: a.pdf, b.pdf" line.
package references

import (
	"regexp"
	"strings"
)

var referencesLine = regexp.MustCompile(`(?i)References:\s*(.*?)(?:\n|$)`)

// Extract returns the document names listed after a "References:" label in
// the content. The label match is case-insensitive and entries may be comma
// or semicolon separated. Returns an empty slice when no label is present.
func Extract(content string) []string {
	refs := []string{}
	if content == "" {
		return refs
	}

	match := referencesLine.FindStringSubmatch(content)
	if match == nil {
		return refs
	}

	for _, part := range strings.FieldsFunc(match[1], func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		part = strings.TrimSpace(part)
		if part != "" {
			refs = append(refs, part)
		}
	}

	return refs
}
