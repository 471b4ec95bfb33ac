// Package util holds terminal helpers used when rendering help output.
package util

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal
const DefaultWidth = 80

// Terminal abstracts the terminal queries of golang.org/x/term so they can be replaced in tests
type Terminal interface {
	IsTerminal(fd int) bool
	GetSize(fd int) (width, height int, err error)
}

// DefaultTerminal implements Terminal with golang.org/x/term
type DefaultTerminal struct{}

func (DefaultTerminal) IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

func (DefaultTerminal) GetSize(fd int) (int, int, error) {
	return term.GetSize(fd)
}

// TerminalWidth returns the column count of w when it is a terminal, DefaultWidth otherwise
func TerminalWidth(t Terminal, w any) int {
	f, ok := w.(*os.File)
	if !ok || t == nil {
		return DefaultWidth
	}
	fd := int(f.Fd())
	if !t.IsTerminal(fd) {
		return DefaultWidth
	}
	width, _, err := t.GetSize(fd)
	if err != nil || width <= 0 {
		return DefaultWidth
	}

	return width
}

// Wrap breaks text into lines no longer than width, indenting every line after the first by
// indent spaces. Words longer than the available width are kept whole.
func Wrap(text string, width, indent int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if width-indent < 10 {
		return strings.Join(words, " ")
	}

	var sb strings.Builder
	pad := strings.Repeat(" ", indent)
	lineLen := 0
	for i, word := range words {
		switch {
		case i == 0:
		case lineLen+1+len(word) > width-indent:
			sb.WriteString("\n")
			sb.WriteString(pad)
			lineLen = 0
		default:
			sb.WriteByte(' ')
			lineLen++
		}
		sb.WriteString(word)
		lineLen += len(word)
	}

	return sb.String()
}
