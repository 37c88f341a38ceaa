package chapter

// IsBlank reports whether ch is a blank character: ASCII space, tab,
// ideographic space or no-break space.
func IsBlank(ch rune) bool {
	switch ch {
	case ' ', '\t', '\u3000', '\u00a0':
		return true
	}
	return false
}

// IsSeparator reports whether ch is a dash, rule, punctuation or bracket
// character that carries no title content.
func IsSeparator(ch rune) bool {
	switch ch {
	case '-', '—', '–', '_', '~', '=', '|', '·', '•',
		'.', '。', ':', '：', '、', ',', '，',
		'!', '！', '?', '？', '…',
		'【', '】', '(', ')', '（', '）', '[', ']', '{', '}',
		'《', '》', '〈', '〉', '「', '」', '『', '』':
		return true
	}
	return false
}

// IsContent reports whether ch is neither blank nor a separator.
func IsContent(ch rune) bool {
	return !IsBlank(ch) && !IsSeparator(ch)
}

// IsSeparatorLine reports whether line holds at least one non-blank
// character and every non-blank character is a separator.
func IsSeparatorLine(line []rune) bool {
	hasChar := false
	for _, ch := range line {
		if IsBlank(ch) {
			continue
		}
		hasChar = true
		if !IsSeparator(ch) {
			return false
		}
	}
	return hasChar
}

// isNumeral reports whether ch may appear between 第 and a structural
// keyword: digits, CJK numerals and magnitudes (plain and financial forms),
// and blanks.
func isNumeral(ch rune) bool {
	if ch >= '0' && ch <= '9' {
		return true
	}
	switch ch {
	case ' ', '\t', '\u3000',
		'零', '一', '二', '三', '四', '五', '六', '七', '八', '九',
		'十', '百', '千', '万', '亿',
		'壹', '贰', '叁', '肆', '伍', '陆', '柒', '捌', '玖',
		'拾', '佰', '仟', '萬', '億', '两':
		return true
	}
	return false
}

func isStructuralKeyword(ch rune) bool {
	switch ch {
	case '卷', '章', '部', '节':
		return true
	}
	return false
}
