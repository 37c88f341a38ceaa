package chapter

// lineState is the per-line state of the default detector. Every line
// starts in stateScanning and yields at most one entry.
type lineState int

const (
	stateScanning lineState = iota
	stateMarkerFound
	stateLegacyCheck
)

// detectDefault combines numeric markers bound to a following title line
// with the structural keyword pattern (第…章/卷/部/节, 楔子, 序章). The marker
// path wins when both could apply to a line.
func (p *Parser) detectDefault(text []rune, tok *Token) (Table, error) {
	sc := NewScanner(text, p.split)
	var table Table

	for {
		if tok.Canceled() {
			return nil, ErrCanceled
		}
		line, ok := sc.Line()
		if !ok {
			return table, nil
		}

		next := line.Next()
		state := stateScanning
		var marker string
		if !line.Blank {
			if m, ok := ExtractNumberMarker(sc.Text(line)); ok {
				marker = m
				state = stateMarkerFound
			}
		}

		if state == stateMarkerFound {
			title, end := bindTitle(sc, line)
			if combined := BuildChapterTitle(marker, title); combined != "" {
				table = append(table, newEntry(line.Start, combined))
				next = end
			} else {
				state = stateLegacyCheck
			}
		} else {
			state = stateLegacyCheck
		}

		if state == stateLegacyCheck {
			lineText := sc.Text(line)
			if anchor, ok := matchStructural(lineText); ok {
				table = append(table, newEntry(line.Start, truncateTitle(lineText[anchor:])))
			}
		}

		sc.Advance(next)
	}
}

// bindTitle looks ahead a few lines after a marker line, skipping blank and
// separator lines, for a line that reads as a title. It returns the title
// and the offset where scanning resumes. When no title binds, only the
// marker line is consumed.
func bindTitle(sc *Scanner, marker Line) (string, int) {
	pos := marker.Next()
	for i := 0; i < markerLookahead; i++ {
		l, ok := sc.At(pos)
		if !ok {
			break
		}
		lineText := sc.Text(l)
		if l.Blank || IsSeparatorLine(lineText) {
			pos = l.Next()
			continue
		}
		if LooksLikeTitle(lineText) {
			return string(lineText), l.Next()
		}
		break
	}
	return "", marker.Next()
}

// matchStructural finds the legacy structural heading in a line and
// returns the index the title starts at.
//
// After a 第, a 卷/章/部/节 followed by a blank, a colon or the end of line
// closes the heading; the span between them must be a numeral expression.
// Before any 第, 楔子 or 序章 followed by a blank or the end of line is a
// heading on its own.
func matchStructural(line []rune) (int, bool) {
	first := -1
	for i, ch := range line {
		if ch == '第' {
			first = i
			continue
		}
		if first > -1 && isStructuralKeyword(ch) && delimitedAt(line, i+1, true) {
			if isNumeralSpan(line[first+1 : i]) {
				return first, true
			}
			return -1, false
		}
		if first == -1 && (pairAt(line, i, '楔', '子') || pairAt(line, i, '序', '章')) && delimitedAt(line, i+2, false) {
			return i, true
		}
	}
	return -1, false
}

func pairAt(line []rune, i int, a, b rune) bool {
	return i+1 < len(line) && line[i] == a && line[i+1] == b
}

func delimitedAt(line []rune, i int, colon bool) bool {
	if i >= len(line) {
		return true
	}
	ch := line[i]
	return IsBlank(ch) || (colon && (ch == ':' || ch == '：'))
}

func isNumeralSpan(span []rune) bool {
	if len(span) == 0 {
		return false
	}
	for _, ch := range span {
		if !isNumeral(ch) {
			return false
		}
	}
	return true
}
