package chapter

import "unicode/utf8"

// detectRegex emits an entry for each successive non-overlapping match.
// Every search runs on the unconsumed tail of the text, so ^ without (?m)
// matches only where that tail begins.
func (p *Parser) detectRegex(text []rune, tok *Token) (Table, error) {
	s := string(text)
	var table Table

	pos, offset := 0, 0 // byte position in s, rune offset in text
	for pos <= len(s) {
		if tok.Canceled() {
			return nil, ErrCanceled
		}
		loc := p.re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		offset += utf8.RuneCountInString(s[pos:start])

		if start == end {
			// Empty match: step over one rune so the scan always advances.
			if start >= len(s) {
				break
			}
			_, size := utf8.DecodeRuneInString(s[start:])
			pos = start + size
			offset++
			continue
		}

		match := []rune(s[start:end])
		table = append(table, newEntry(offset, truncateTitle(match)))
		offset += len(match)
		pos = end
	}
	return table, nil
}
