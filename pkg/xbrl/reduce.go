package xbrl

import (
	"strings"

	"github.com/Marcximus/dansk-firma-finder/pkg/taxonomy"
)

const (
	// reduceThreshold is the line count above which a document is
	// reduced before indexing.
	reduceThreshold = 800
	// preambleLines are always kept: schema, namespace and context
	// declarations live at the top of the document, and dropping them
	// would break context resolution entirely.
	preambleLines = 300
	// factLineCap bounds how many allow-listed fact lines are kept
	// from the remainder.
	factLineCap = 500
)

// Reduce bounds the cost of indexing a multi-megabyte filing. Documents
// under the threshold pass through untouched. Oversized documents keep
// the full preamble, then only remainder lines carrying a financial-tag
// namespace prefix (the minority of lines holding numeric facts), capped,
// plus the closing root element so the result stays structurally valid.
func Reduce(doc string) string {
	lines := strings.Split(doc, "\n")
	if len(lines) <= reduceThreshold {
		return doc
	}

	kept := make([]string, 0, preambleLines+factLineCap+1)
	kept = append(kept, lines[:preambleLines]...)

	factLines := 0
	for _, line := range lines[preambleLines:] {
		if factLines >= factLineCap {
			break
		}
		if hasFinancialTag(line) {
			kept = append(kept, line)
			factLines++
		}
	}

	if closing := closingRoot(lines); closing != "" && (len(kept) == 0 || kept[len(kept)-1] != closing) {
		kept = append(kept, closing)
	}
	return strings.Join(kept, "\n")
}

func hasFinancialTag(line string) bool {
	lowered := strings.ToLower(line)
	for _, prefix := range taxonomy.NamespacePrefixes {
		if strings.Contains(lowered, "<"+prefix) || strings.Contains(lowered, "</"+prefix) {
			return true
		}
	}
	return false
}

// closingRoot finds the last closing element in the document, assumed to
// be the root.
func closingRoot(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "</") {
			return lines[i]
		}
	}
	return ""
}
