package reader

import "github.com/metcalfc/txtoc/internal/chapter"

// MarkdownFormat implements Format for Markdown files.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

// MarkdownHeadings matches ATX headers (# to ######) at the start of a line.
const MarkdownHeadings = `(?m)^#{1,6}[ \t]+.+$`

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

func (f *MarkdownFormat) Extract(filename string) (string, error) {
	return readDecoded(filename)
}

// SuggestRule detects chapters at Markdown headers.
func (f *MarkdownFormat) SuggestRule() chapter.Rule {
	return chapter.Regex(MarkdownHeadings)
}
