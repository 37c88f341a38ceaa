package chapter

// SplitFunc is the line-splitting service. Given the remaining text it
// returns the length of the first line (terminator excluded) and whether
// the line is blank. ok is false when no text remains.
type SplitFunc func(text []rune) (length int, blank bool, ok bool)

// GetLine is the default SplitFunc. Lines end at '\n'; a line is blank when
// it is empty or made only of blank characters.
func GetLine(text []rune) (int, bool, bool) {
	if len(text) == 0 {
		return 0, false, false
	}
	blank := true
	for i, ch := range text {
		if ch == '\n' {
			return i, blank, true
		}
		if !IsBlank(ch) {
			blank = false
		}
	}
	return len(text), blank, true
}

// Line is a window into the text buffer denoting one line.
type Line struct {
	Start int
	Len   int
	Blank bool
}

// Next returns the offset just past the line terminator.
func (l Line) Next() int {
	return l.Start + l.Len + 1
}

// Scanner walks the lines of a text buffer in order.
type Scanner struct {
	text  []rune
	pos   int
	split SplitFunc
}

// NewScanner returns a Scanner over text. A nil split uses GetLine.
func NewScanner(text []rune, split SplitFunc) *Scanner {
	if split == nil {
		split = GetLine
	}
	return &Scanner{text: text, split: split}
}

// Pos returns the offset of the line the scanner will read next.
func (s *Scanner) Pos() int { return s.pos }

// Line returns the line at the current position without advancing.
func (s *Scanner) Line() (Line, bool) {
	return s.At(s.pos)
}

// At returns the line starting at pos. It reports false at end of buffer.
func (s *Scanner) At(pos int) (Line, bool) {
	if pos < 0 || pos >= len(s.text) {
		return Line{}, false
	}
	rest := s.text[pos:]
	n, blank, ok := s.split(rest)
	if !ok {
		return Line{}, false
	}
	// A misbehaving splitter must not push the window outside the buffer.
	if n < 0 {
		n = 0
	}
	if n > len(rest) {
		n = len(rest)
	}
	return Line{Start: pos, Len: n, Blank: blank}, true
}

// Advance moves the scanner to pos. Positions past the end clamp to the
// buffer length, so a final line without terminator is consumed once.
func (s *Scanner) Advance(pos int) {
	if pos > len(s.text) {
		pos = len(s.text)
	}
	if pos > s.pos {
		s.pos = pos
	}
}

// Text returns the runes of l.
func (s *Scanner) Text(l Line) []rune {
	return s.text[l.Start : l.Start+l.Len]
}
