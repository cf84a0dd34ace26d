package docindex

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RootSection is the section of documents at the top of the tree.
const RootSection = "root"

// DefaultBaseURL is the documentation site documents link to by default.
const DefaultBaseURL = "https://spark.apache.org/docs/latest"

// IsMarkdown reports whether name has a markdown file extension.
func IsMarkdown(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

// DeriveSection returns the first segment of a slash-separated relative
// path, or RootSection if the file is at the top level.
func DeriveSection(relPath string) string {
	relPath = strings.TrimPrefix(path.Clean(relPath), "/")
	if i := strings.IndexByte(relPath, '/'); i > 0 {
		return relPath[:i]
	}
	return RootSection
}

// DeriveURL maps a relative markdown path to its published page under
// baseURL: the markdown extension becomes .html.
// Example: sql-ref/syntax.md → https://.../sql-ref/syntax.html
func DeriveURL(baseURL, relPath string) string {
	p := strings.TrimSuffix(relPath, ".markdown")
	p = strings.TrimSuffix(p, ".md")
	if !strings.HasSuffix(p, ".html") {
		p += ".html"
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(p, "/")
}

// TitleFromFilename derives a title from a file name by dropping the
// extension, turning '-' and '_' into spaces and title-casing each word.
// Example: getting-started_guide.md → Getting Started Guide
func TitleFromFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)

	words := strings.Fields(base)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// titleWord upper-cases the first letter of w and lower-cases the rest.
func titleWord(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}
