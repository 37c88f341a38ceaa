//go:build !gui

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metcalfc/txtoc/internal/chapter"
	"github.com/metcalfc/txtoc/internal/config"
	"github.com/metcalfc/txtoc/internal/reader"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))
)

type viewState int

const (
	viewParsing viewState = iota
	viewList
	viewChapter
)

// tocItem adapts a TOC entry to the list component.
type tocItem struct {
	reader.TOCEntry
}

func (i tocItem) Title() string       { return i.TOCEntry.Title }
func (i tocItem) Description() string { return fmt.Sprintf("@%d  %s", i.Offset, i.Preview) }
func (i tocItem) FilterValue() string { return i.TOCEntry.Title }

type parsedMsg struct {
	table   chapter.Table
	err     error
	elapsed time.Duration
}

type model struct {
	sess    *session
	tok     *chapter.Token
	state   viewState
	spinner spinner.Model
	list    list.Model
	pager   viewport.Model
	err     error
	width   int
	height  int

	quitting bool
}

func newModel(sess *session) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	l := list.New(nil, list.NewDefaultDelegate(), 80, 23)
	l.SetStatusBarItemName("chapter", "chapters")

	return model{
		sess:    sess,
		tok:     &chapter.Token{},
		spinner: sp,
		list:    l,
		pager:   viewport.New(80, 22),
		width:   80,
		height:  24,
	}
}

// parseCmd runs detection off the UI loop.
func parseCmd(p *chapter.Parser, text []rune, tok *chapter.Token) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		table, err := p.Parse(text, tok)
		return parsedMsg{table: table, err: err, elapsed: time.Since(start)}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, parseCmd(m.sess.parser, m.sess.book.Text, m.tok))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
		m.pager.Width = msg.Width
		m.pager.Height = msg.Height - 2
		if m.state == viewChapter {
			m.loadChapter()
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != viewParsing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case parsedMsg:
		return m.handleParsed(msg)

	case tea.KeyMsg:
		switch m.state {
		case viewParsing:
			switch msg.String() {
			case "esc", "q", "ctrl+c":
				m.tok.Cancel()
			}
			return m, nil

		case viewList:
			if m.list.FilterState() == list.Filtering {
				break
			}
			switch msg.String() {
			case "enter":
				if item, ok := m.list.SelectedItem().(tocItem); ok {
					m.openChapter(item.Index)
				}
				return m, nil
			case "q", "ctrl+c":
				return m.quit()
			}

		case viewChapter:
			switch msg.String() {
			case "esc", "backspace":
				m.state = viewList
				m.list.ResetFilter()
				m.list.Select(m.sess.book.CurrentChapter)
				return m, nil
			case "n", "right":
				if m.sess.book.NextChapter() {
					m.loadChapter()
				}
				return m, nil
			case "p", "left":
				if m.sess.book.PrevChapter() {
					m.loadChapter()
				}
				return m, nil
			case "q", "ctrl+c":
				return m.quit()
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case viewList:
		m.list, cmd = m.list.Update(msg)
	case viewChapter:
		m.pager, cmd = m.pager.Update(msg)
	}
	return m, cmd
}

func (m model) handleParsed(msg parsedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	}

	book := m.sess.book
	book.SetDetected(m.sess.parser.Rule(), msg.table)
	m.sess.restore()
	slog.Debug("chapters detected",
		"rule", m.sess.parser.Rule().String(),
		"count", len(msg.table),
		"elapsed", msg.elapsed)

	toc := reader.TOC(book)
	items := make([]list.Item, len(toc))
	for i, e := range toc {
		items[i] = tocItem{e}
	}
	cmd := m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("Chapters · %s", m.sess.parser.Rule())
	if book.CurrentChapter >= 0 {
		m.list.Select(book.CurrentChapter)
	}
	m.state = viewList
	return m, cmd
}

func (m *model) openChapter(i int) {
	if m.sess.book.JumpToChapter(i) {
		m.loadChapter()
		m.state = viewChapter
	}
}

func (m *model) loadChapter() {
	book := m.sess.book
	text := book.ChapterText(book.CurrentChapter)
	m.pager.SetContent(lipgloss.NewStyle().Width(m.pager.Width).Render(text))
	m.pager.GotoTop()
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.sess.save()
	m.quitting = true
	return m, tea.Quit
}

func bookPercent(b *reader.Book) int {
	cur, total := b.Progress()
	if total == 0 {
		return 100
	}
	return cur * 100 / total
}

func (m model) View() string {
	if m.quitting {
		if errors.Is(m.err, chapter.ErrCanceled) {
			return warnStyle.Render("\n  Chapter detection canceled.\n")
		}
		return ""
	}

	switch m.state {
	case viewParsing:
		return fmt.Sprintf("\n  %s Detecting chapters (%s)\n\n  %s\n",
			m.spinner.View(),
			m.sess.parser.Rule(),
			controlsStyle.Render("ESC: cancel"))

	case viewList:
		return m.list.View()
	}

	book := m.sess.book
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(book.CurrentChapterTitle()))
	sb.WriteString("\n")
	sb.WriteString(m.pager.View())
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(fmt.Sprintf("Chapter %d/%d | %3.0f%% | book %d%%",
		book.CurrentChapter+1, len(book.Chapters), m.pager.ScrollPercent()*100, bookPercent(book))))
	sb.WriteString(controlsStyle.Render("↑/↓: scroll  ←/→: chapter  ESC: outline  Q: quit"))
	return sb.String()
}

func main() {
	opts := registerFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "txtoc - Chapter Outline for Plain-Text Books\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  txtoc [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  txtoc book.txt                        Browse chapters found by the default rule\n")
		fmt.Fprintf(os.Stderr, "  txtoc -keyword Chapter book.txt       Lines containing \"Chapter\" start chapters\n")
		fmt.Fprintf(os.Stderr, "  txtoc -regex '(?m)^Part \\d+' book.txt Regex matches start chapters\n")
		fmt.Fprintf(os.Stderr, "  txtoc -list -preset chinese book.txt  Print offset and title of each chapter\n")
		fmt.Fprintf(os.Stderr, "  cat book.txt | txtoc -list            Read from stdin\n")
		fmt.Fprintf(os.Stderr, "\nSupported formats: %s\n", strings.Join(reader.SupportedFormats(), ", "))
		fmt.Fprintf(os.Stderr, "Built-in presets: %s\n", strings.Join((&config.Config{}).PresetNames(), ", "))
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  ENTER    Open chapter\n")
		fmt.Fprintf(os.Stderr, "  ←/→      Previous/next chapter\n")
		fmt.Fprintf(os.Stderr, "  /        Filter chapters\n")
		fmt.Fprintf(os.Stderr, "  ESC      Back to outline, or cancel detection\n")
		fmt.Fprintf(os.Stderr, "  Q        Quit\n")
	}
	flag.Parse()

	if opts.version {
		fmt.Printf("txtoc %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}
	setupLogging(os.Stderr, opts.debug)

	var filename string
	if flag.NArg() > 0 {
		filename = flag.Arg(0)
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Error: No input provided. Provide a file or pipe text to stdin.")
			fmt.Fprintln(os.Stderr, "Try: txtoc -h")
			os.Exit(1)
		}
	}

	sess, err := openSession(opts, filename, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if strings.TrimSpace(string(sess.book.Text)) == "" {
		fmt.Fprintln(os.Stderr, "Error: No text to read.")
		os.Exit(1)
	}

	if opts.list {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err := sess.detect(ctx)
		stop()
		if err == nil {
			err = writeTable(os.Stdout, sess.book.Chapters)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(newModel(sess), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(model); ok && m.err != nil && !errors.Is(m.err, chapter.ErrCanceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", m.err)
		os.Exit(1)
	}
}
