package docindex

import (
	"fmt"
	"strings"
)

// FormatSearchResults formats search results for terminal display.
// Each hit shows its rank, title, score, path and snippet; hits are
// separated by blank lines.
func FormatSearchResults(results []*SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s (%.4f)\n", i+1, r.Title, RoundScore(r.Score))
		fmt.Fprintf(&b, "   %s [%s]\n", r.Path, r.Section)
		fmt.Fprintf(&b, "   %s", r.URL)
		if r.Snippet != "" {
			snippet := strings.Join(strings.Fields(r.Snippet), " ")
			fmt.Fprintf(&b, "\n   %s", snippet)
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

// FormatDocument formats a document for terminal display: a title heading,
// its location and description, then the content.
func FormatDocument(doc *Document) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(doc.Title)
	b.WriteString("\n\n")
	b.WriteString("path: ")
	b.WriteString(doc.Path)
	b.WriteString("\nsection: ")
	b.WriteString(doc.Section)
	b.WriteString("\nurl: ")
	b.WriteString(doc.URL)
	if doc.Description != "" {
		b.WriteString("\ndescription: ")
		b.WriteString(doc.Description)
	}
	b.WriteString("\n\n")
	b.WriteString(doc.Content)
	return b.String()
}
