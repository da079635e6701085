package translate

import (
	"go.uber.org/zap"

	"dxw/convert/model"
)

// frame accumulates fragments of a single future paragraph.
type frame []model.Fragment

// frameStack is never empty, its top is the last element.
type frameStack []frame

func newFrameStack() frameStack {
	return frameStack{nil}
}

func (s *frameStack) top() *frame {
	if len(*s) == 0 {
		*s = append(*s, nil)
	}
	return &(*s)[len(*s)-1]
}

func (s *frameStack) open() {
	*s = append(*s, nil)
}

func (s *frameStack) reset() {
	*s = frameStack{nil}
}

func (s frameStack) height() int {
	return len(s)
}

// cut removes and returns frames above height h. The stack keeps at least
// one frame.
func (s *frameStack) cut(h int) []frame {
	if h < 0 {
		h = 0
	}
	if h >= len(*s) {
		return nil
	}
	out := make([]frame, len(*s)-h)
	copy(out, (*s)[h:])
	*s = (*s)[:h]
	if len(*s) == 0 {
		s.reset()
	}
	return out
}

// nonEmpty returns frames holding at least one fragment, bottom to top.
func (s frameStack) nonEmpty() []frame {
	var out []frame
	for _, f := range s {
		if len(f) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// push opens a new frame. Outside of lists, cells and admonitions the
// pending top frame becomes a paragraph first.
func (t *Translator) push() {
	if len(t.blocks) == 0 {
		t.flush("")
	}
	t.frames.open()
}

func (t *Translator) appendText(text string) {
	top := t.frames.top()
	*top = append(*top, model.Plain(text))
}

func (t *Translator) appendBreak() {
	top := t.frames.top()
	*top = append(*top, model.LineBreak())
}

// flush emits the top frame as a paragraph when it is not empty and clears
// it in place.
func (t *Translator) flush(style string) {
	top := t.frames.top()
	if len(*top) == 0 {
		return
	}
	t.comp.Paragraph(*top, style, t.blockLevel)
	*top = nil
}

// flushAll emits every non-empty frame bottom to top and leaves a single
// empty frame.
func (t *Translator) flushAll(style string) {
	for _, f := range t.frames.nonEmpty() {
		t.comp.Paragraph(f, style, t.blockLevel)
	}
	t.frames.reset()
}

// pop removes the top frame and merges its fragments onto the new top,
// prefix is prepended to the first fragment text of non-empty frames.
func (t *Translator) pop(prefix *string) {
	if len(t.frames) == 0 {
		t.log.Debug("Frame stack underflow, resetting")
		t.frames.reset()
		return
	}
	popped := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]
	if prefix != nil && len(popped) > 0 {
		if popped[0].Break {
			popped = append(frame{model.Plain(*prefix)}, popped...)
		} else {
			popped[0].Text = *prefix + popped[0].Text
		}
	}
	if len(t.frames) == 0 {
		t.frames.open()
	}
	top := t.frames.top()
	*top = append(*top, popped...)
}

// popTop removes and returns the top frame content without merging.
func (t *Translator) popTop() frame {
	if len(t.frames) == 0 {
		t.log.Debug("Frame stack underflow, resetting", zap.String("op", "popTop"))
		t.frames.reset()
		return nil
	}
	popped := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]
	if len(t.frames) == 0 {
		t.frames.open()
	}
	return popped
}
