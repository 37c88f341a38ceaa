package reader

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// previewWidth is the display width of a TOC entry preview.
const previewWidth = 48

// TOCEntry is one line of a book outline.
type TOCEntry struct {
	Title   string
	Preview string
	Offset  int
	Index   int
}

// TOC builds the outline of a book from its chapter table. The preview is
// the first body line after the heading line.
func TOC(b *Book) []TOCEntry {
	entries := make([]TOCEntry, len(b.Chapters))
	for i, e := range b.Chapters {
		entries[i] = TOCEntry{
			Title:   e.Title,
			Preview: preview(b.ChapterText(i)),
			Offset:  e.Offset,
			Index:   i,
		}
	}
	return entries
}

func preview(section string) string {
	lines := strings.Split(section, "\n")
	for _, line := range lines[1:] {
		if t := strings.TrimSpace(line); t != "" {
			return runewidth.Truncate(t, previewWidth, "…")
		}
	}
	return ""
}
