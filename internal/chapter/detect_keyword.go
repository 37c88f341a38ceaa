package chapter

// detectKeyword emits one entry per line containing the keyword. The title
// runs from the first occurrence to the end of the line.
func (p *Parser) detectKeyword(text []rune, tok *Token) (Table, error) {
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
		if len(p.keyword) <= line.Len {
			lineText := sc.Text(line)
			if i := indexRunes(lineText, p.keyword); i >= 0 {
				table = append(table, newEntry(line.Start, truncateTitle(lineText[i:])))
			}
		}
		sc.Advance(line.Next())
	}
}

func indexRunes(s, sub []rune) int {
	n := len(sub)
	for i := 0; i+n <= len(s); i++ {
		match := true
		for j := 0; j < n; j++ {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
