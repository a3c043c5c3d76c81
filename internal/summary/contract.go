package summary

import (
	"strings"

	"github.com/accordlabs/accord/internal/ingest"
)

// BuildContract summarizes a parsed contract. Blank elements are skipped,
// each kept text is truncated to 1200 characters, and the clause list stops
// at 40 entries while segment_count records the full element count.
func BuildContract(doc *ingest.Document) *ContractSummary {
	result := &ContractSummary{
		SourceFile:   doc.SourceFile,
		SegmentCount: doc.ElementCount,
		Clauses:      make([]Clause, 0, MaxClauses),
	}

	for _, element := range doc.Elements {
		text := strings.TrimSpace(element.Text)
		if text == "" {
			continue
		}

		result.Clauses = append(result.Clauses, Clause{
			Index:      element.Index,
			Kind:       element.Kind,
			Text:       truncate(text, MaxClauseChars),
			PageNumber: element.Metadata.PageNumber,
		})

		if len(result.Clauses) == MaxClauses {
			break
		}
	}

	return result
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// back up to a rune boundary
	for limit > 0 && (s[limit]&0xC0) == 0x80 {
		limit--
	}
	return s[:limit]
}
