// Package reader loads books as decoded text and navigates them by the
// chapter table the detection engine produces.
package reader

import (
	"github.com/metcalfc/txtoc/internal/chapter"
)

// Book holds a decoded document and its chapter table.
type Book struct {
	Text     []rune
	Chapters chapter.Table
	Rule     chapter.Rule

	// Position is the rune offset the reader is at.
	Position       int
	CurrentChapter int
}

// NewBook creates a Book from decoded text.
func NewBook(text string) *Book {
	return &Book{
		Text:           []rune(text),
		Rule:           chapter.Default(),
		CurrentChapter: -1,
	}
}

// Parse detects chapters with p and replaces the chapter table. On failure
// the previous table is kept.
func (b *Book) Parse(p *chapter.Parser, tok *chapter.Token) error {
	table, err := p.Parse(b.Text, tok)
	if err != nil {
		return err
	}
	b.SetDetected(p.Rule(), table)
	return nil
}

// SetDetected installs the table a detection with rule produced and
// updates the current chapter.
func (b *Book) SetDetected(rule chapter.Rule, table chapter.Table) {
	b.Rule = rule
	b.Chapters = table
	b.updateCurrentChapter()
}

// SetPosition moves to a rune offset, clamped to the text.
func (b *Book) SetPosition(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.Text) {
		offset = len(b.Text)
	}
	b.Position = offset
	b.updateCurrentChapter()
}

// JumpToChapter moves to the start of chapter i.
func (b *Book) JumpToChapter(i int) bool {
	if i < 0 || i >= len(b.Chapters) {
		return false
	}
	b.Position = b.Chapters[i].Offset
	b.CurrentChapter = i
	return true
}

// NextChapter moves to the start of the following chapter.
func (b *Book) NextChapter() bool {
	return b.JumpToChapter(b.CurrentChapter + 1)
}

// PrevChapter moves to the start of the preceding chapter.
func (b *Book) PrevChapter() bool {
	return b.JumpToChapter(b.CurrentChapter - 1)
}

func (b *Book) updateCurrentChapter() {
	b.CurrentChapter = b.Chapters.Index(b.Position)
}

// CurrentChapterTitle returns the title of the current chapter.
func (b *Book) CurrentChapterTitle() string {
	if b.CurrentChapter >= 0 && b.CurrentChapter < len(b.Chapters) {
		return b.Chapters[b.CurrentChapter].Title
	}
	return ""
}

// ChapterText returns the text of chapter i, from its heading up to the
// next chapter.
func (b *Book) ChapterText(i int) string {
	start, end := b.Chapters.Bounds(i, len(b.Text))
	return string(b.Text[start:end])
}

// Progress returns the current position and the text length in runes.
func (b *Book) Progress() (current, total int) {
	return b.Position, len(b.Text)
}
