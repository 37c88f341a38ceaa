package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/metcalfc/txtoc/internal/chapter"
	"github.com/metcalfc/txtoc/internal/config"
	"github.com/metcalfc/txtoc/internal/reader"
	"github.com/metcalfc/txtoc/internal/state"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	rule       string
	keyword    string
	regex      string
	preset     string
	configPath string
	list       bool
	fresh      bool
	debug      bool
	version    bool
}

func registerFlags(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.rule, "rule", "", "Detection rule: default, keyword or regex")
	fs.StringVar(&o.keyword, "keyword", "", "Keyword for the keyword rule (implies -rule keyword)")
	fs.StringVar(&o.regex, "regex", "", "Pattern for the regex rule (implies -rule regex)")
	fs.StringVar(&o.preset, "preset", "", "Named regex preset (chinese, english, markdown, or from config)")
	fs.StringVar(&o.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/txtoc/config.toml)")
	fs.BoolVar(&o.list, "list", false, "Print the chapter table and exit")
	fs.BoolVar(&o.fresh, "fresh", false, "Ignore saved rule and position")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&o.version, "v", false, "Show version information")
	fs.BoolVar(&o.version, "version", false, "Show version information")
	return o
}

// ruleConfig returns the rule chosen on the command line. -keyword and
// -regex imply their kind.
func (o *options) ruleConfig() config.RuleConfig {
	rc := config.RuleConfig{Kind: o.rule, Keyword: o.keyword, Regex: o.regex, Preset: o.preset}
	if rc.Kind == "" {
		switch {
		case o.regex != "":
			rc.Kind = chapter.KindRegex.String()
		case o.keyword != "":
			rc.Kind = chapter.KindKeyword.String()
		}
	}
	return rc
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadText reads a book from filename, or from stdin when filename is empty.
func loadText(filename string, stdin io.Reader) (string, error) {
	if filename != "" {
		return reader.ExtractText(filename)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	text, _, err := reader.Decode(data)
	return text, err
}

func savedRuleConfig(st *state.ReadingState) config.RuleConfig {
	if st == nil || st.Rule == "" {
		return config.RuleConfig{}
	}
	return config.RuleConfig{Kind: st.Rule, Keyword: st.Pattern, Regex: st.Pattern}
}

// resolveRule picks the detection rule from the command line, then the
// book's saved state, then the config file, then the file format.
func resolveRule(o *options, cfg *config.Config, saved *state.ReadingState, filename string) (chapter.Rule, error) {
	for _, rc := range []config.RuleConfig{o.ruleConfig(), savedRuleConfig(saved), cfg.Rule} {
		if rc.IsSet() {
			return cfg.Resolve(rc)
		}
	}
	rule, _ := reader.SuggestedRule(filename)
	return rule, nil
}

// session is one opened book with its compiled rule and saved state.
type session struct {
	book   *reader.Book
	parser *chapter.Parser
	store  *state.StateStore
	hash   string
	saved  *state.ReadingState
}

func openSession(o *options, filename string, stdin io.Reader) (*session, error) {
	path := o.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	text, err := loadText(filename, stdin)
	if err != nil {
		return nil, err
	}
	s := &session{book: reader.NewBook(text)}

	if filename != "" {
		if store, err := state.NewStateStore(); err == nil {
			s.store = store
			if hash, err := state.ComputeHash(filename); err == nil {
				s.hash = hash
				if o.fresh {
					if err := store.Clear(hash); err != nil {
						slog.Warn("clearing reading state", "err", err)
					}
				} else if st, ok := store.Get(hash); ok {
					s.saved = &st
				}
			}
		} else {
			slog.Warn("state store unavailable", "err", err)
		}
	}

	rule, err := resolveRule(o, cfg, s.saved, filename)
	if err != nil {
		return nil, err
	}
	if s.parser, err = chapter.Compile(rule); err != nil {
		return nil, err
	}
	return s, nil
}

// restore moves the book to the saved position after chapters are known.
func (s *session) restore() {
	if s.saved != nil {
		s.book.SetPosition(s.saved.Offset)
	}
}

func (s *session) save() {
	if s.store == nil || s.hash == "" {
		return
	}
	rule := s.parser.Rule()
	st := state.ReadingState{
		Offset:  s.book.Position,
		Chapter: s.book.CurrentChapter,
		Rule:    rule.Kind.String(),
		Pattern: rule.Pattern,
	}
	if err := s.store.Set(s.hash, st); err != nil {
		slog.Warn("saving reading state", "err", err)
	}
}

// detect parses the session's book; the parse stops when ctx ends.
func (s *session) detect(ctx context.Context) error {
	var tok chapter.Token
	stop := tok.Watch(ctx)
	defer stop()

	start := time.Now()
	if err := s.book.Parse(s.parser, &tok); err != nil {
		return err
	}
	s.restore()
	slog.Debug("chapters detected",
		"rule", s.parser.Rule().String(),
		"count", len(s.book.Chapters),
		"elapsed", time.Since(start))
	return nil
}

func writeTable(w io.Writer, table chapter.Table) error {
	for _, e := range table {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", e.Offset, e.Title); err != nil {
			return err
		}
	}
	return nil
}
