package docindex

import (
	"regexp"
	"strings"
)

var (
	liquidTagRe    = regexp.MustCompile(`\{%.*?%\}`)
	liquidOutputRe = regexp.MustCompile(`\{\{.*?\}\}`)
	htmlCommentRe  = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
)

// CleanContent strips markup that should not be indexed from a markdown
// body. Templating directives go first, then HTML comments, then any
// remaining HTML tags; the result is trimmed.
func CleanContent(content string) string {
	content = liquidTagRe.ReplaceAllString(content, "")
	content = liquidOutputRe.ReplaceAllString(content, "")
	content = htmlCommentRe.ReplaceAllString(content, "")
	content = htmlTagRe.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}
