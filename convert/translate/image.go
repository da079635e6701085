package translate

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"dxw/doctree"
)

// PixelToPoint converts image pixels to composer units (points).
const PixelToPoint = 0.7

// points per unit for absolute units, anything else is taken as points.
var unitPoints = map[string]float64{
	"px": PixelToPoint,
	"pt": 1,
	"pc": 12,
	"in": 72,
	"cm": 72 / 2.54,
	"mm": 72 / 25.4,
}

type length struct {
	value float64
	unit  string
}

func (l length) points() float64 {
	if k, ok := unitPoints[l.unit]; ok {
		return l.value * k
	}
	return l.value
}

// parseLength splits "12.5cm" into value and unit, pixels are assumed when
// unit is absent.
func parseLength(s string) (length, error) {
	s = strings.TrimSpace(s)
	unit := "px"
	if len(s) > 2 {
		tail := s[len(s)-2:]
		if unicode.IsLetter(rune(tail[0])) && unicode.IsLetter(rune(tail[1])) {
			unit = strings.ToLower(tail)
			s = s[:len(s)-2]
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return length{}, err
	}
	return length{value: v, unit: unit}, nil
}

func (t *Translator) imageLength(n *doctree.Node, attr string) (length, bool) {
	v, ok := n.Attr(attr)
	if !ok {
		return length{}, false
	}
	l, err := parseLength(v)
	if err != nil {
		t.log.Warn("Invalid image dimension, ignoring", zap.String("attr", attr), zap.String("value", v), zap.Error(err))
		return length{}, false
	}
	return l, true
}

// imageScale returns scale factor from percent attribute.
func (t *Translator) imageScale(n *doctree.Node) float64 {
	v, ok := n.Attr("scale")
	if !ok {
		return 1
	}
	scale, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		t.log.Warn("Invalid image scale, using 100%", zap.String("scale", v), zap.Error(err))
		return 1
	}
	if scale < 1 {
		t.log.Warn("Image scale out of range, using 1%", zap.Int("scale", scale))
		scale = 1
	}
	return float64(scale) / 100
}

// imageSize resolves picture size in points. Native size is only probed when
// a dimension is missing.
func (t *Translator) imageSize(n *doctree.Node, path string) (int, int, error) {
	scale := t.imageScale(n)
	width, hasW := t.imageLength(n, "width")
	height, hasH := t.imageLength(n, "height")

	var w, h float64
	if hasW && hasH {
		w, h = width.points(), height.points()
	} else {
		if t.prober == nil {
			return 0, 0, fmt.Errorf("%w: %s", ErrMissingMetadata, path)
		}
		info, err := t.prober.Probe(path)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %s: %w", ErrMissingMetadata, path, err)
		}
		if info.Width <= 0 || info.Height <= 0 {
			return 0, 0, fmt.Errorf("%w: %s: bad native size %dx%d", ErrMissingMetadata, path, info.Width, info.Height)
		}
		nw, nh := float64(info.Width)*PixelToPoint, float64(info.Height)*PixelToPoint
		switch {
		case hasW:
			w = width.points()
			h = nh * w / nw
		case hasH:
			h = height.points()
			w = nw * h / nh
		default:
			w, h = nw, nh
		}
	}
	return int(w * scale), int(h * scale), nil
}

func (t *Translator) enterImage(n *doctree.Node) (Action, error) {
	t.flushPendingItem()
	t.flush("")

	uri := n.AttrOr("uri", "")
	if uri == "" {
		t.log.Warn("Image without uri, skipping", zap.String("path", t.pathString()))
		return SkipSubtree, nil
	}
	path := filepath.FromSlash(uri)
	if !filepath.IsAbs(path) && t.opts.BaseDir != "" {
		path = filepath.Join(t.opts.BaseDir, path)
	}

	w, h, err := t.imageSize(n, path)
	if err != nil {
		return SkipSubtree, err
	}
	if err := t.comp.Picture(path, "", w, h); err != nil {
		return SkipSubtree, fmt.Errorf("unable to embed image %q: %w", uri, err)
	}
	return SkipSubtree, nil
}
