package debug

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// TreeWriter builds indented text dumps of hierarchical structures.
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

// TextBlock writes labeled value quoted so invisible characters are visible.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Element writes name followed by attributes in natural key order so dumps
// are stable between runs.
func (tw TreeWriter) Element(depth int, name string, attrs map[string]string) {
	tw.indent(depth)
	tw.w.WriteString(name)
	if len(attrs) > 0 {
		keys := slices.Collect(maps.Keys(attrs))
		sort.Sort(natural.StringSlice(keys))
		tw.w.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				tw.w.WriteByte(' ')
			}
			tw.w.WriteString(k)
			tw.w.WriteByte('=')
			tw.w.WriteString(attrs[k])
		}
		tw.w.WriteByte(']')
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
