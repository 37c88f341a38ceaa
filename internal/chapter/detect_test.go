package chapter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func detect(t *testing.T, text string, rule Rule) Table {
	t.Helper()
	table, err := Detect([]rune(text), rule, nil)
	if err != nil {
		t.Fatalf("Detect(%v): %v", rule, err)
	}
	return table
}

func assertEntries(t *testing.T, got Table, want []Entry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries %+v, want %d %+v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i].Offset != want[i].Offset || got[i].Title != want[i].Title {
			t.Errorf("entry %d = {%d %q}, want {%d %q}", i, got[i].Offset, got[i].Title, want[i].Offset, want[i].Title)
		}
		if got[i].TitleLen != utf8.RuneCountInString(got[i].Title) {
			t.Errorf("entry %d TitleLen = %d, title has %d runes", i, got[i].TitleLen, utf8.RuneCountInString(got[i].Title))
		}
	}
}

func TestDefaultStructural(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Entry
	}{
		{"cjk numerals", "第十二章 风起\n正文内容\n", []Entry{{Offset: 0, Title: "第十二章 风起"}}},
		{"colon", "第三章：大战\n", []Entry{{Offset: 0, Title: "第三章：大战"}}},
		{"keyword at end of line", "前言\n第一卷\n", []Entry{{Offset: 3, Title: "第一卷"}}},
		{"indented", "　　第二部 归来\n", []Entry{{Offset: 0, Title: "第二部 归来"}}},
		{"digits after prefix", "第1024章 测试\n", []Entry{{Offset: 0, Title: "第1024章 测试"}}},
		{"digit volume", "第12卷\n", []Entry{{Offset: 0, Title: "第12卷"}}},
		{"wedge", "楔子 开端\n", []Entry{{Offset: 0, Title: "楔子 开端"}}},
		{"prologue alone", "序章\n", []Entry{{Offset: 0, Title: "序章"}}},
		{"wedge before no-break space", "楔子\u00a0开端\n", []Entry{{Offset: 0, Title: "楔子\u00a0开端"}}},
		{"wedge in prose", "这是楔子的故事\n", nil},
		{"ordinal in prose", "他是第一个到的\n", nil},
		{"keyword not delimited", "第一百章节\n", nil},
		{"non numeral", "第X章 Y\n", nil},
		{"empty span", "第章 空\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEntries(t, detect(t, tt.text, Default()), tt.want)
		})
	}
}

func TestDefaultMarkerLookahead(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Entry
	}{
		{
			"title after blank and rule",
			"第12\n\n———\n风起云涌\n正文\n",
			[]Entry{{Offset: 0, Title: "12 风起云涌"}},
		},
		{
			"indented title kept as written",
			"序\n7\n　　归来\n",
			[]Entry{{Offset: 2, Title: "7 　　归来"}},
		},
		{
			"title beyond lookahead",
			"12\n\n\n\n风起\n",
			[]Entry{{Offset: 0, Title: "12"}},
		},
		{
			"body line is not a title",
			"3\n" + strings.Repeat("字", 70) + "\n",
			[]Entry{{Offset: 0, Title: "3"}},
		},
		{
			"generic label is not a title",
			"1\n目录\n",
			[]Entry{{Offset: 0, Title: "1"}},
		},
		{
			"marker wins over structural pattern",
			"第1024\n测试\n第五章 后来\n",
			[]Entry{{Offset: 0, Title: "1024 测试"}, {Offset: 9, Title: "第五章 后来"}},
		},
		{
			"marker at end without terminator",
			"第9",
			[]Entry{{Offset: 0, Title: "9"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEntries(t, detect(t, tt.text, Default()), tt.want)
		})
	}
}

func TestDefaultLookaheadNotRematched(t *testing.T) {
	// The bound title line is consumed and must not produce its own entry.
	text := "1\n第二章 标题\n内容\n"
	assertEntries(t, detect(t, text, Default()), []Entry{{Offset: 0, Title: "1 第二章 标题"}})
}

func TestDefaultOffsetsIncrease(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("第一章 开始\n\n")
		sb.WriteString("12\n————\n标题\n")
		sb.WriteString("楔子 x\n")
		sb.WriteString("正文正文正文\n")
	}
	table := detect(t, sb.String(), Default())
	if len(table) != 150 {
		t.Fatalf("got %d entries, want 150", len(table))
	}
	for i := 1; i < len(table); i++ {
		if table[i].Offset <= table[i-1].Offset {
			t.Fatalf("entry %d offset %d not after %d", i, table[i].Offset, table[i-1].Offset)
		}
	}
}

func TestKeywordDetector(t *testing.T) {
	assertEntries(t, detect(t, "This is Chapter One", Keyword("Chapter")),
		[]Entry{{Offset: 0, Title: "Chapter One"}})

	text := "intro\nThis is Chapter One\nfoo\nChapter Two begins\nCh\n"
	assertEntries(t, detect(t, text, Keyword("Chapter")), []Entry{
		{Offset: 6, Title: "Chapter One"},
		{Offset: 30, Title: "Chapter Two begins"},
	})

	assertEntries(t, detect(t, "卷首\n正文 第一回 开始\n", Keyword("第一回")),
		[]Entry{{Offset: 3, Title: "第一回 开始"}})
}

func TestKeywordTruncation(t *testing.T) {
	text := "Chapter " + strings.Repeat("x", 500)
	table := detect(t, text, Keyword("Chapter"))
	if len(table) != 1 {
		t.Fatalf("got %d entries, want 1", len(table))
	}
	if table[0].TitleLen != MaxChapterLength-1 {
		t.Errorf("TitleLen = %d, want %d", table[0].TitleLen, MaxChapterLength-1)
	}
}

const threeChapters = "Chapter 1\nalpha\nChapter 2\nbeta\nChapter 3\ngamma\n"

func TestRegexDetector(t *testing.T) {
	table := detect(t, threeChapters, Regex(`(?m)^Chapter \d+`))
	assertEntries(t, table, []Entry{
		{Offset: 0, Title: "Chapter 1"},
		{Offset: 16, Title: "Chapter 2"},
		{Offset: 31, Title: "Chapter 3"},
	})
}

func TestRegexRuneOffsets(t *testing.T) {
	text := []rune("前言\n第一章\n内容\n第二章\n")
	table, err := Detect(text, Regex(`第.章`), nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	assertEntries(t, table, []Entry{{Offset: 3, Title: "第一章"}, {Offset: 10, Title: "第二章"}})
	for _, e := range table {
		if text[e.Offset] != '第' {
			t.Errorf("offset %d points at %q", e.Offset, text[e.Offset])
		}
	}
}

func TestRegexSectionsCoverDocument(t *testing.T) {
	text := []rune(threeChapters)
	table, err := Detect(text, Regex(`(?m)^Chapter \d+`), nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	var sb strings.Builder
	prevEnd := 0
	for i := range table {
		start, end := table.Bounds(i, len(text))
		if start != prevEnd {
			t.Fatalf("section %d starts at %d, previous ended at %d", i, start, prevEnd)
		}
		sb.WriteString(string(text[start:end]))
		prevEnd = end
	}
	if sb.String() != threeChapters {
		t.Errorf("sections do not reconstruct the document:\n%q", sb.String())
	}
}

func TestRegexEmptyMatches(t *testing.T) {
	done := make(chan Table, 1)
	go func() {
		table, _ := Detect([]rune("abc"), Regex(`x*`), nil)
		done <- table
	}()
	select {
	case table := <-done:
		if len(table) != 0 {
			t.Errorf("empty matches produced entries: %+v", table)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("regex detector did not terminate on empty matches")
	}
}

func TestInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"bad regex", Regex("(")},
		{"empty regex", Regex("")},
		{"empty keyword", Keyword("")},
		{"unknown kind", Rule{Kind: Kind(9)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Detect([]rune(threeChapters), tt.rule, nil)
			if !errors.Is(err, ErrInvalidRule) {
				t.Errorf("err = %v, want ErrInvalidRule", err)
			}
			if table != nil {
				t.Errorf("got table %+v with configuration error", table)
			}
		})
	}
}

func TestEmptyInput(t *testing.T) {
	rules := []Rule{Default(), Keyword("Chapter"), Regex(`Chapter`)}
	for _, rule := range rules {
		for _, text := range []string{"", "\n\n\n"} {
			table := detect(t, text, rule)
			if len(table) != 0 {
				t.Errorf("%v on %q: got %+v, want empty", rule, text, table)
			}
		}
	}
}

func TestCancellation(t *testing.T) {
	text := []rune(strings.Repeat("第一章 开始\nChapter 1\n正文\n", 10000))
	rules := []Rule{Default(), Keyword("Chapter"), Regex(`Chapter \d`)}
	for _, rule := range rules {
		t.Run(rule.Kind.String(), func(t *testing.T) {
			var tok Token
			tok.Cancel()
			table, err := Detect(text, rule, &tok)
			if !errors.Is(err, ErrCanceled) {
				t.Errorf("err = %v, want ErrCanceled", err)
			}
			if table != nil {
				t.Errorf("canceled parse returned %d entries", len(table))
			}

			tok.Reset()
			table, err = Detect(text, rule, &tok)
			if err != nil || len(table) == 0 {
				t.Errorf("after Reset: %d entries, err %v", len(table), err)
			}
		})
	}
}

func TestCancellationMidScan(t *testing.T) {
	text := []rune(strings.Repeat("第一章 开始\nChapter 1\n", 100))
	for _, rule := range []Rule{Default(), Keyword("Chapter")} {
		t.Run(rule.Kind.String(), func(t *testing.T) {
			var tok Token
			calls := 0
			split := func(text []rune) (int, bool, bool) {
				calls++
				if calls == 5 {
					tok.Cancel()
				}
				return GetLine(text)
			}
			table, err := Detect(text, rule, &tok, WithSplitter(split))
			if !errors.Is(err, ErrCanceled) {
				t.Errorf("err = %v, want ErrCanceled", err)
			}
			if table != nil {
				t.Errorf("canceled parse returned %d entries", len(table))
			}
			if calls > 10 {
				t.Errorf("scan went on for %d lines after cancel", calls)
			}
		})
	}
}

func TestTokenWatch(t *testing.T) {
	var tok Token
	ctx, cancel := context.WithCancel(context.Background())
	stop := tok.Watch(ctx)
	defer stop()

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for !tok.Canceled() {
		if time.Now().After(deadline) {
			t.Fatal("token not canceled after context end")
		}
		time.Sleep(time.Millisecond)
	}

	var nilTok *Token
	if nilTok.Canceled() {
		t.Error("nil token reports canceled")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"default", KindDefault, false},
		{"", KindDefault, false},
		{"Keyword", KindKeyword, false},
		{" regex ", KindRegex, false},
		{"fuzzy", KindDefault, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestCustomSplitter(t *testing.T) {
	// Lines terminated by '|' instead of '\n'.
	split := func(text []rune) (int, bool, bool) {
		if len(text) == 0 {
			return 0, false, false
		}
		for i, ch := range text {
			if ch == '|' {
				return i, i == 0, true
			}
		}
		return len(text), false, true
	}
	table, err := Detect([]rune("intro|Chapter A|Chapter B"), Keyword("Chapter"), nil, WithSplitter(split))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	assertEntries(t, table, []Entry{{Offset: 6, Title: "Chapter A"}, {Offset: 16, Title: "Chapter B"}})
}

func BenchmarkDetectDefault(b *testing.B) {
	text := []rune(strings.Repeat("第一章 开始\n\n12\n标题\n正文正文正文正文正文\n", 2000))
	p, err := Compile(Default())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Parse(text, nil)
	}
}
