// Package debug renders indented trees used by String() dumps of layout
// objects.
package debug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxText limits quoted text, paragraphs would make dumps unreadable.
const maxText = 48

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes quoted, possibly shortened, text value.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Fields writes label followed by key=value pairs, odd trailing key is
// written as is.
func (tw TreeWriter) Fields(depth int, label string, kv ...any) {
	tw.indent(depth)
	tw.w.WriteString(label)
	for i := 0; i < len(kv); i += 2 {
		if i == 0 {
			tw.w.WriteString(": ")
		} else {
			tw.w.WriteString(", ")
		}
		if i+1 < len(kv) {
			fmt.Fprintf(tw.w, "%v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(tw.w, "%v", kv[i])
		}
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	if utf8.RuneCountInString(raw) > maxText {
		raw = string([]rune(raw)[:maxText-1]) + "…"
	}
	return strconv.Quote(raw)
}
