package reader

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/metcalfc/txtoc/internal/chapter"
)

// Format defines a file format reader for extracting text.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (string, error)
}

// RuleSuggester is an optional interface for formats whose headings follow
// a known shape.
type RuleSuggester interface {
	SuggestRule() chapter.Rule
}

var registry []Format

// Register adds a format reader to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// FormatFor returns the registered format for filename's extension, or nil.
func FormatFor(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f
			}
		}
	}
	return nil
}

// SuggestedRule returns the detection rule the file's format prefers.
func SuggestedRule(filename string) (chapter.Rule, bool) {
	if s, ok := FormatFor(filename).(RuleSuggester); ok {
		return s.SuggestRule(), true
	}
	return chapter.Default(), false
}

// ExtractText extracts text from a file, using a registered format or
// decoded plain text as a fallback.
func ExtractText(filename string) (string, error) {
	if f := FormatFor(filename); f != nil {
		return f.Extract(filename)
	}
	return readDecoded(filename)
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

func readDecoded(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	text, enc, err := Decode(data)
	if err != nil {
		return "", err
	}
	if enc != UTF8 {
		slog.Debug("decoded text", "file", filename, "encoding", string(enc))
	}
	return text, nil
}

// TextFormat implements Format for plain text files in any supported
// encoding.
type TextFormat struct{}

func init() {
	Register(&TextFormat{})
}

func (f *TextFormat) Name() string         { return "Text" }
func (f *TextFormat) Extensions() []string { return []string{".txt", ".text"} }
func (f *TextFormat) Extract(filename string) (string, error) {
	return readDecoded(filename)
}
