package chapter

import (
	"sort"
	"unicode/utf8"
)

// Entry is a detected chapter boundary.
type Entry struct {
	Offset   int    `json:"offset"`
	Title    string `json:"title"`
	TitleLen int    `json:"title_len"`
}

// Table holds chapter entries in document order.
type Table []Entry

func newEntry(offset int, title string) Entry {
	return Entry{
		Offset:   offset,
		Title:    title,
		TitleLen: utf8.RuneCountInString(title),
	}
}

// Bounds returns the region of chapter i: from its offset up to the next
// entry's offset, or textLen for the last entry.
func (t Table) Bounds(i, textLen int) (start, end int) {
	if i < 0 || i >= len(t) {
		return 0, 0
	}
	start = t[i].Offset
	end = textLen
	if i+1 < len(t) {
		end = t[i+1].Offset
	}
	if end < start {
		end = start
	}
	return start, end
}

// Index returns the index of the chapter containing offset, or -1 when
// offset precedes the first entry.
func (t Table) Index(offset int) int {
	i := sort.Search(len(t), func(i int) bool {
		return t[i].Offset > offset
	})
	return i - 1
}

// Titles returns the entry titles in order.
func (t Table) Titles() []string {
	titles := make([]string, len(t))
	for i, e := range t {
		titles[i] = e.Title
	}
	return titles
}
