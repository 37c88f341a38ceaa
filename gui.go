//go:build gui

package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/metcalfc/txtoc/internal/chapter"
	"github.com/metcalfc/txtoc/internal/reader"
)

// parseRun is one detection in flight. done is only read and written on the
// UI goroutine.
type parseRun struct {
	tok  *chapter.Token
	done bool
}

func main() {
	opts := registerFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "txtoc - GUI Chapter Outline\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  txtoc [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported formats: %s\n", strings.Join(reader.SupportedFormats(), ", "))
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
	book := sess.book

	a := app.New()
	w := a.NewWindow("txtoc - Chapter Outline")

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter

	titleLabel := widget.NewLabel("")
	titleLabel.TextStyle.Bold = true
	bodyLabel := widget.NewLabel("")
	bodyLabel.Wrapping = fyne.TextWrapWord
	bodyScroll := container.NewVScroll(bodyLabel)

	var titles []string
	chapterList := widget.NewList(
		func() int { return len(titles) },
		func() fyne.CanvasObject { return widget.NewLabel("Chapter") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(titles[id])
		},
	)

	showChapter := func() {
		i := book.CurrentChapter
		if i < 0 {
			titleLabel.SetText("")
			bodyLabel.SetText("")
			return
		}
		titleLabel.SetText(book.CurrentChapterTitle())
		bodyLabel.SetText(book.ChapterText(i))
		bodyScroll.ScrollToTop()
		cur, total := book.Progress()
		statusLabel.SetText(fmt.Sprintf("Chapter %d/%d | rune %d/%d | %s",
			i+1, len(book.Chapters), cur, total, sess.parser.Rule()))
	}

	chapterList.OnSelected = func(id widget.ListItemID) {
		if book.JumpToChapter(id) {
			showChapter()
		}
	}

	rule := sess.parser.Rule()
	kindSelect := widget.NewSelect(
		[]string{chapter.KindDefault.String(), chapter.KindKeyword.String(), chapter.KindRegex.String()},
		nil,
	)
	kindSelect.SetSelected(rule.Kind.String())
	patternEntry := widget.NewEntry()
	patternEntry.SetPlaceHolder("keyword or regular expression")
	patternEntry.SetText(rule.Pattern)

	detectButton := widget.NewButton("Detect", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	cancelButton.Disable()

	var run *parseRun
	detect := func(p *chapter.Parser, restore bool) {
		if run != nil && !run.done {
			run.tok.Cancel()
		}
		r := &parseRun{tok: &chapter.Token{}}
		run = r
		detectButton.Disable()
		cancelButton.Enable()
		statusLabel.SetText(fmt.Sprintf("Detecting chapters (%s)…", p.Rule()))

		go func() {
			start := time.Now()
			table, err := p.Parse(book.Text, r.tok)
			elapsed := time.Since(start)
			fyne.Do(func() {
				r.done = true
				if run != r {
					return
				}
				detectButton.Enable()
				cancelButton.Disable()
				switch {
				case errors.Is(err, chapter.ErrCanceled):
					statusLabel.SetText("Chapter detection canceled.")
					return
				case err != nil:
					statusLabel.SetText(fmt.Sprintf("Error: %v", err))
					return
				}
				sess.parser = p
				book.SetDetected(p.Rule(), table)
				titles = table.Titles()
				if restore {
					sess.restore()
				}
				slog.Debug("chapters detected", "rule", p.Rule().String(), "count", len(table), "elapsed", elapsed)
				chapterList.Refresh()
				if book.CurrentChapter >= 0 {
					chapterList.Select(book.CurrentChapter)
				}
				showChapter()
				if len(table) == 0 {
					statusLabel.SetText(fmt.Sprintf("No chapters found (%s)", p.Rule()))
				}
			})
		}()
	}

	detectButton.OnTapped = func() {
		kind, err := chapter.ParseKind(kindSelect.Selected)
		if err != nil {
			statusLabel.SetText(fmt.Sprintf("Error: %v", err))
			return
		}
		p, err := chapter.Compile(chapter.Rule{Kind: kind, Pattern: patternEntry.Text})
		if err != nil {
			statusLabel.SetText(fmt.Sprintf("Error: %v", err))
			return
		}
		detect(p, false)
	}
	cancelButton.OnTapped = func() {
		if run != nil {
			run.tok.Cancel()
		}
	}

	prevButton := widget.NewButton("◀ Prev", func() {
		if book.PrevChapter() {
			chapterList.Select(book.CurrentChapter)
		}
	})
	nextButton := widget.NewButton("Next ▶", func() {
		if book.NextChapter() {
			chapterList.Select(book.CurrentChapter)
		}
	})

	toolbar := container.NewBorder(nil, nil,
		kindSelect,
		container.NewHBox(detectButton, cancelButton),
		patternEntry,
	)
	reading := container.NewBorder(
		titleLabel,
		container.NewBorder(nil, nil, prevButton, nextButton, statusLabel),
		nil, nil,
		bodyScroll,
	)
	split := container.NewHSplit(chapterList, reading)
	split.Offset = 0.3

	w.SetContent(container.NewBorder(toolbar, nil, nil, nil, split))
	w.Resize(fyne.NewSize(960, 640))

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyEscape:
			if run != nil && !run.done {
				run.tok.Cancel()
			}
		case fyne.KeyRight:
			nextButton.OnTapped()
		case fyne.KeyLeft:
			prevButton.OnTapped()
		}
	})

	w.SetOnClosed(func() {
		if run != nil && !run.done {
			run.tok.Cancel()
		}
		sess.save()
	})

	detect(sess.parser, true)
	w.ShowAndRun()
}
