// Package inspect reads produced docx packages back to check what ended up in
// the document body.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"dxw/state"
)

// Heading is outline entry found in document body.
type Heading struct {
	Level int
	Text  string
}

// Summary describes body of the docx package.
type Summary struct {
	Paragraphs int
	Tables     int
	Styles     map[string]int
	Headings   []Heading
}

// Read parses docx package and summarizes its body.
func Read(r io.ReaderAt, size int64) (*Summary, error) {
	doc, err := docx.Parse(r, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	s := &Summary{Styles: make(map[string]int)}
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			s.Paragraphs++
			style := paragraphStyle(it)
			if style != "" {
				s.Styles[style]++
			}
			if level := headingLevel(style); level > 0 {
				s.Headings = append(s.Headings, Heading{Level: level, Text: paragraphText(it)})
			}
		case *docx.Table:
			s.Tables++
		}
	}
	return s, nil
}

func paragraphStyle(p *docx.Paragraph) string {
	if p.Properties == nil || p.Properties.Style == nil {
		return ""
	}
	return p.Properties.Style.Val
}

// headingLevel understands both style ids and names of heading styles.
func headingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	rest, ok := strings.CutPrefix(s, "heading")
	if !ok {
		return 0
	}
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 || level > 9 {
		return 0
	}
	return level
}

func paragraphText(p *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range p.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// Write outputs human readable summary.
func (s *Summary) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Paragraphs: %d\nTables: %d\n", s.Paragraphs, s.Tables)

	names := make([]string, 0, len(s.Styles))
	for name := range s.Styles {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	fmt.Fprintf(&b, "Styles: %d\n", len(names))
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %d\n", name, s.Styles[name])
	}

	if len(s.Headings) > 0 {
		b.WriteString("Outline:\n")
		for _, h := range s.Headings {
			fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", h.Level), h.Text)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Run is "inspect" command action.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inspect")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no docx file has been specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open docx file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	s, err := Read(f, fi.Size())
	if err != nil {
		return err
	}

	out := os.Stdout
	fname := cmd.Args().Get(1)
	if len(fname) > 0 {
		if out, err = os.Create(fname); err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	} else {
		fname = "STDOUT"
	}
	log.Info("Outputing document summary", zap.String("docx", filepath.Base(src)), zap.String("file", fname))

	return s.Write(out)
}
