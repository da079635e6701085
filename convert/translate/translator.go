// Package translate walks content tree and drives document composer with
// paragraphs, headings, list items, tables and pictures.
package translate

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"dxw/common"
	"dxw/doctree"
)

// Action tells traversal controller what to do after enter handler.
type Action int

const (
	// Descend visits children and then calls exit handler.
	Descend Action = iota
	// SkipSubtree skips children and exit handler, observer still sees exit.
	SkipSubtree
)

// Options configure single translation pass.
type Options struct {
	// BaseDir is used to resolve relative image locations.
	BaseDir string
	// Language selects localized labels (BCP 47).
	Language string
	// PageBreaks enables page break at every start of file unit.
	PageBreaks  bool
	Orientation common.Orientation
	Prober      ImageProber
	Observer    Observer
}

// Translator holds all mutable state of one conversion pass. It is not safe
// for concurrent use and must not be reused.
type Translator struct {
	comp   Composer
	prober ImageProber
	obs    Observer
	opts   Options
	labels Labels
	log    *zap.Logger

	frames      frameStack
	blocks      []block
	lists       listState
	table       *tableState
	admonitions []admonitionState
	path        []*doctree.Node

	sectionLevel   int
	blockLevel     int
	lineBlockLevel int

	used bool
}

// New creates translator feeding comp.
func New(comp Composer, opts Options, log *zap.Logger) *Translator {
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return &Translator{
		comp:   comp,
		prober: opts.Prober,
		obs:    obs,
		opts:   opts,
		labels: LabelsFor(opts.Language),
		log:    log.Named("translate"),
		frames: newFrameStack(),
		lists:  listState{maxID: comp.MaxNumberingID()},
	}
}

// Translate walks the tree rooted at root. The first fatal error stops the
// walk and is returned, in which case composer state should be discarded.
func (t *Translator) Translate(ctx context.Context, root *doctree.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.used {
		return errors.New("translator can only be used once")
	}
	t.used = true
	if root == nil {
		return nil
	}
	if err := t.walk(ctx, root); err != nil {
		return err
	}
	// whatever is left when tree has no document root
	t.flushAll("")
	return nil
}

func (t *Translator) walk(ctx context.Context, n *doctree.Node) error {
	depth := len(t.path)
	h := handlers[kindIndex(n.Kind)]

	t.obs.Enter(n, depth)
	action := SkipSubtree
	if h.enter != nil {
		var err error
		if action, err = h.enter(t, n); err != nil {
			return err
		}
	}
	if action == SkipSubtree {
		t.obs.Exit(n, depth)
		return nil
	}

	t.path = append(t.path, n)
	for _, c := range n.Children {
		if err := t.walk(ctx, c); err != nil {
			return err
		}
	}
	t.path = t.path[:len(t.path)-1]

	if h.exit != nil {
		if err := h.exit(t, n); err != nil {
			return err
		}
	}
	t.obs.Exit(n, depth)
	return nil
}

func kindIndex(k doctree.Kind) doctree.Kind {
	if !k.IsValid() {
		return doctree.KindUnknown
	}
	return k
}

// parent returns node whose children are being visited.
func (t *Translator) parent() *doctree.Node {
	if len(t.path) == 0 {
		return nil
	}
	return t.path[len(t.path)-1]
}

func (t *Translator) pathString() string {
	names := make([]string, 0, len(t.path))
	for _, n := range t.path {
		names = append(names, n.Kind.String())
	}
	return strings.Join(names, "/")
}

func (t *Translator) structural(n *doctree.Node, err error) error {
	return &StructuralError{Kind: n.Kind, Path: t.pathString(), Err: err}
}
