package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"numis/console/internal/coin"
)

type redirect struct {
	target  string
	replace bool
}

// Screen is what a handler draws on and reads from.
type Screen struct {
	Out        io.Writer
	In         Prompter
	Present    *coin.Presenter
	DateLayout string

	next *redirect
}

// NewScreen returns a Screen.
func NewScreen(out io.Writer, in Prompter, present *coin.Presenter, dateLayout string) *Screen {
	if dateLayout == "" {
		dateLayout = "2006-01-02 15:04:05"
	}
	return &Screen{Out: out, In: in, Present: present, DateLayout: dateLayout}
}

// Redirect asks the navigator to open target once the handler returns.
func (s *Screen) Redirect(target string) { s.next = &redirect{target: target} }

// RedirectReplace is Redirect replacing the current history entry.
func (s *Screen) RedirectReplace(target string) { s.next = &redirect{target: target, replace: true} }

func (s *Screen) takeRedirect() *redirect {
	r := s.next
	s.next = nil
	return r
}

func (s *Screen) Printf(format string, args ...any) { fmt.Fprintf(s.Out, format, args...) }

func (s *Screen) Println(args ...any) { fmt.Fprintln(s.Out, args...) }

// Heading prints a title underlined to its width.
func (s *Screen) Heading(title string) {
	fmt.Fprintf(s.Out, "\n%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))
}

// Notice prints an informational line.
func (s *Screen) Notice(msg string) { fmt.Fprintln(s.Out, "» "+msg) }

// Error prints a failure line.
func (s *Screen) Error(msg string) { fmt.Fprintln(s.Out, "! "+msg) }

// Field prints a label/value pair.
func (s *Screen) Field(label, value string) { fmt.Fprintf(s.Out, "  %-20s %s\n", label+":", value) }

// Table prints rows in aligned columns.
func (s *Screen) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(s.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}
