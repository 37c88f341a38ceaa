// Package chapter detects chapter headings in decoded plain text and
// produces an ordered table of chapter offsets and titles.
package chapter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrCanceled is returned when a parse is aborted through its Token.
	ErrCanceled = errors.New("chapter parse canceled")

	// ErrInvalidRule is returned when a Rule cannot be compiled.
	ErrInvalidRule = errors.New("invalid chapter rule")
)

// Kind selects a detection strategy.
type Kind int

const (
	KindDefault Kind = iota
	KindKeyword
	KindRegex
)

var kindNames = []string{"default", "keyword", "regex"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a rule name ("default", "keyword", "regex") to its Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return KindDefault, nil
	}
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return KindDefault, fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, s)
}

// Rule selects one detector and carries its parameter: the keyword for
// KindKeyword, the pattern for KindRegex.
type Rule struct {
	Kind    Kind
	Pattern string
}

func Default() Rule             { return Rule{Kind: KindDefault} }
func Keyword(word string) Rule  { return Rule{Kind: KindKeyword, Pattern: word} }
func Regex(pattern string) Rule { return Rule{Kind: KindRegex, Pattern: pattern} }

func (r Rule) String() string {
	if r.Kind == KindDefault {
		return r.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", r.Kind, r.Pattern)
}

// Option configures a Parser.
type Option func(*Parser)

// WithSplitter replaces the default line splitter.
func WithSplitter(split SplitFunc) Option {
	return func(p *Parser) {
		if split != nil {
			p.split = split
		}
	}
}

// Parser is a compiled Rule. It holds no per-parse state and may be reused
// across parses, one at a time per Token.
type Parser struct {
	rule    Rule
	keyword []rune
	re      *regexp.Regexp
	split   SplitFunc
}

// Compile validates rule and prepares a Parser for it.
func Compile(rule Rule, opts ...Option) (*Parser, error) {
	p := &Parser{rule: rule, split: GetLine}
	switch rule.Kind {
	case KindDefault:
	case KindKeyword:
		if rule.Pattern == "" {
			return nil, fmt.Errorf("%w: empty keyword", ErrInvalidRule)
		}
		p.keyword = []rune(rule.Pattern)
	case KindRegex:
		if rule.Pattern == "" {
			return nil, fmt.Errorf("%w: empty pattern", ErrInvalidRule)
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRule, err)
		}
		p.re = re
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidRule, int(rule.Kind))
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Rule returns the rule p was compiled from.
func (p *Parser) Rule() Rule { return p.rule }

// Parse runs the selected detector over text. On cancellation it returns
// ErrCanceled and no table.
func (p *Parser) Parse(text []rune, tok *Token) (Table, error) {
	var (
		table Table
		err   error
	)
	switch p.rule.Kind {
	case KindKeyword:
		table, err = p.detectKeyword(text, tok)
	case KindRegex:
		table, err = p.detectRegex(text, tok)
	default:
		table, err = p.detectDefault(text, tok)
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

// Detect compiles rule and parses text with it.
func Detect(text []rune, rule Rule, tok *Token, opts ...Option) (Table, error) {
	p, err := Compile(rule, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(text, tok)
}
