/*
Package util provides various utility functions shared by the aa-greeting packages.
*/
package util

import (
	"os"
	"runtime/debug"
	"strings"

	"golang.org/x/term"
)

const (
	// Width used for help text when no terminal is attached.
	defaultWidth = 80
	// Help text gets hard to read on very wide terminals.
	maxWidth = 120

	tabWidth = 8
)

// TerminalSize tries to return the character dimensions of the terminal.
// It works through all the standard file descriptors until they are exhausted.
// That's because if a descriptor is being redirected, the call to term.GetSize() will fail.
func TerminalSize() (int, int, error) {
	var cols, rows int
	var err error
	if cols, rows, err = term.GetSize(int(os.Stdout.Fd())); err == nil {
		return cols, rows, nil
	}
	if cols, rows, err = term.GetSize(int(os.Stderr.Fd())); err == nil {
		return cols, rows, nil
	}
	return term.GetSize(int(os.Stdin.Fd()))
}

// HelpWidth returns the width to wrap help text to.
func HelpWidth() int {
	cols, _, err := TerminalSize()
	if err != nil || cols <= 0 {
		return defaultWidth
	}
	return min(cols, maxWidth)
}

// Version returns the module version the binary was built from, or "(devel)".
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}

// WrapTextToWidth takes paragraphs in a multi-line string and writes them into a string, wrapping before the specified
// width when possible, without breaking up words.
// It's not possible to wrap in time if a single word is longer than the width.
// Lines within a paragraph are joined before wrapping; paragraphs are separated by a blank line.
// Leading whitespace of a paragraph is kept as its indent.
func WrapTextToWidth(width int, str string) string {
	var sb strings.Builder

	str = strings.Trim(str, "\n")

	for i, paragraph := range strings.Split(str, "\n\n") {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(wrapParagraph(width, paragraph))
		sb.WriteString("\n")
	}

	return sb.String()
}

// wrapParagraph wraps a single paragraph without adding a trailing newline.
func wrapParagraph(width int, paragraph string) string {
	joined := strings.Join(strings.Split(paragraph, "\n"), " ")
	indent := joined[:len(joined)-len(strings.TrimLeft(joined, " \t"))]

	var sb strings.Builder
	sb.WriteString(indent)
	pos := visualWidth(0, indent)
	lineStart := true

	for _, word := range strings.Fields(joined) {
		if !lineStart && pos+1+len(word) > width {
			sb.WriteString("\n")
			pos = 0
			lineStart = true
		}
		if !lineStart {
			sb.WriteByte(' ')
			pos++
		}
		sb.WriteString(word)
		pos += len(word)
		lineStart = false
	}

	return sb.String()
}

// visualWidth returns the column reached after writing str starting at column pos, expanding tabs to tab stops.
func visualWidth(pos int, str string) int {
	for _, char := range str {
		if char == '\t' {
			pos += tabWidth - (pos % tabWidth)
		} else {
			pos++
		}
	}
	return pos
}
