package chapter

import "strings"

const (
	// MaxChapterLength bounds chapter titles; a title holds at most
	// MaxChapterLength-1 runes.
	MaxChapterLength = 256

	// MaxTitleLineLength is the longest line accepted as a standalone title.
	MaxTitleLineLength = 60

	// MaxMarkerDigits is the longest numeric chapter marker.
	MaxMarkerDigits = 4

	markerLookahead = 3
)

var genericTitles = []string{"contents", "table of contents", "目录"}

// TrimBlank strips leading and trailing blank characters.
func TrimBlank(line []rune) []rune {
	start, end := 0, len(line)
	for start < end && IsBlank(line[start]) {
		start++
	}
	for end > start && IsBlank(line[end-1]) {
		end--
	}
	return line[start:end]
}

func isGenericTitle(title string) bool {
	for _, g := range genericTitles {
		if strings.EqualFold(title, g) {
			return true
		}
	}
	return false
}

// LooksLikeTitle reports whether line can stand alone as a chapter title.
func LooksLikeTitle(line []rune) bool {
	if len(line) == 0 || len(line) > MaxTitleLineLength {
		return false
	}
	trimmed := TrimBlank(line)
	if len(trimmed) == 0 {
		return false
	}
	if isGenericTitle(string(trimmed)) {
		return false
	}
	if IsSeparatorLine(trimmed) {
		return false
	}
	for _, ch := range trimmed {
		if IsContent(ch) {
			return true
		}
	}
	return false
}

// ExtractNumberMarker returns the digits of a line that holds nothing but a
// numeric chapter marker such as "第123" or "123", ignoring blanks and
// separators. At most one 第 may precede the digits. Any other character
// rejects the line.
func ExtractNumberMarker(line []rune) (string, bool) {
	var digits []rune
	sawPrefix := false
	for _, ch := range line {
		switch {
		case IsBlank(ch) || IsSeparator(ch):
			continue
		case ch == '第' && len(digits) == 0:
			if sawPrefix {
				return "", false
			}
			sawPrefix = true
		case ch >= '0' && ch <= '9':
			digits = append(digits, ch)
		default:
			return "", false
		}
	}
	if len(digits) == 0 || len(digits) > MaxMarkerDigits {
		return "", false
	}
	return string(digits), true
}

// BuildChapterTitle joins marker and title with a single space and
// truncates the result to MaxChapterLength-1 runes.
func BuildChapterTitle(marker, title string) string {
	combined := marker
	if title != "" {
		combined += " " + title
	}
	return truncateTitle([]rune(combined))
}

func truncateTitle(title []rune) string {
	if len(title) > MaxChapterLength-1 {
		title = title[:MaxChapterLength-1]
	}
	return string(title)
}
