package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dxw/common"
	"dxw/doctree"
	"dxw/misc"
	"dxw/state"
)

// Content holds single loaded source document ready for translation.
type Content struct {
	SrcName string
	Format  common.InputFmt
	Tree    *doctree.Node
	// Doc is parsed XML source, nil for markdown input.
	Doc   *etree.Document
	Title string
	ID    uuid.UUID
	// BaseDir is used to resolve relative image locations.
	BaseDir string
	WorkDir string
}

// Prepare reads and parses source document. When format is auto it is
// detected from srcName extension and, failing that, from the data itself.
func Prepare(ctx context.Context, r io.Reader, srcName, baseDir string, format common.InputFmt, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read source: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("source is empty")
	}

	if format == common.InputFmtAuto {
		format = common.DetectInputFmt(srcName)
	}
	if format == common.InputFmtAuto {
		format = sniffInputFmt(data)
		log.Debug("Source format detected from content", zap.String("file", srcName), zap.Stringer("format", format))
	}

	c := &Content{
		SrcName: srcName,
		Format:  format,
		BaseDir: baseDir,
	}

	switch format {
	case common.InputFmtDoctree:
		if c.Tree, c.Doc, err = doctree.ReadXML(bytes.NewReader(dropWideEncoding(data)), log); err != nil {
			return nil, fmt.Errorf("unable to parse doctree: %w", err)
		}
	case common.InputFmtMarkdown:
		var exts []string
		if env.Cfg != nil {
			exts = env.Cfg.Document.Input.MarkdownExtensions
		}
		if c.Tree, err = doctree.NewMarkdown(exts, log).Convert(data); err != nil {
			return nil, fmt.Errorf("unable to parse markdown: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}

	if c.ID, err = uuid.NewV7(); err != nil {
		return nil, fmt.Errorf("unable to generate document UUID: %w", err)
	}
	c.Title = documentTitle(c.Tree, srcName)

	if c.WorkDir, err = os.MkdirTemp("", misc.GetAppName()+"-"); err != nil {
		return nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}
	env.Rpt.StoreWorkDir(fmt.Sprintf("%s-%s", misc.GetAppName(), c.ID), c.WorkDir)

	// Save source and parsed tree for debugging
	if env.Rpt != nil {
		baseSrcName := filepath.Base(srcName)
		if c.Doc != nil {
			err = c.Doc.WriteToFile(filepath.Join(c.WorkDir, baseSrcName))
		} else {
			err = os.WriteFile(filepath.Join(c.WorkDir, baseSrcName), data, 0644)
		}
		if err != nil {
			return nil, fmt.Errorf("unable to write input doc for debugging: %w", err)
		}
		if err := os.WriteFile(filepath.Join(c.WorkDir, baseSrcName+"_tree"), []byte(c.String()), 0644); err != nil {
			return nil, fmt.Errorf("unable to write parsed doc for debugging: %w", err)
		}
	}
	return c, nil
}

// Cleanup removes working directory unless it is kept for the report.
func (c *Content) Cleanup(keep bool) error {
	if c == nil || c.WorkDir == "" || keep {
		return nil
	}
	return os.RemoveAll(c.WorkDir)
}

var wideEncodingRe = regexp.MustCompile(`(?i)^(\s*<\?xml[^>]*?)\s+encoding\s*=\s*["']utf-(16|32)(le|be)?["']`)

// dropWideEncoding removes UTF-16/32 encoding declaration from XML prolog.
// When such prolog is readable as ASCII the data was already decoded to UTF-8.
func dropWideEncoding(data []byte) []byte {
	return wideEncodingRe.ReplaceAll(data, []byte("$1"))
}

func sniffInputFmt(data []byte) common.InputFmt {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("<?xml")) || bytes.HasPrefix(data, []byte("<document")) || bytes.HasPrefix(data, []byte("<!DOCTYPE document")) {
		return common.InputFmtDoctree
	}
	return common.InputFmtMarkdown
}

// documentTitle returns text of the first document level title, then root
// "title" attribute and finally source file name without extension.
func documentTitle(root *doctree.Node, srcName string) string {
	if root != nil {
		for _, n := range root.Children {
			if n.Kind == doctree.KindTitle {
				if t := strings.TrimSpace(n.AsText()); t != "" {
					return t
				}
			}
			if n.Kind == doctree.KindSection {
				for _, s := range n.Children {
					if s.Kind == doctree.KindTitle {
						if t := strings.TrimSpace(s.AsText()); t != "" {
							return t
						}
					}
				}
				break
			}
		}
		if t := strings.TrimSpace(root.AttrOr("title", "")); t != "" {
			return t
		}
	}
	base := filepath.Base(srcName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
