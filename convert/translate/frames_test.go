package translate

import (
	"testing"

	"dxw/convert/model"
)

func newTestTranslator(t *testing.T) (*Translator, *fakeComposer) {
	t.Helper()
	comp := &fakeComposer{}
	return New(comp, Options{}, testLogger(t)), comp
}

func TestFrameStackNeverEmpty(t *testing.T) {
	tr, comp := newTestTranslator(t)

	for range 3 {
		tr.pop(nil)
		if tr.frames.height() < 1 {
			t.Fatalf("height after pop = %d", tr.frames.height())
		}
	}
	_ = tr.popTop()
	_ = tr.popTop()
	if tr.frames.height() != 1 {
		t.Errorf("height after popTop = %d, want 1", tr.frames.height())
	}
	tr.frames.cut(0)
	if tr.frames.height() != 1 {
		t.Errorf("height after cut(0) = %d, want 1", tr.frames.height())
	}
	tr.appendText("still works")
	tr.flush("")
	if len(comp.units) != 1 || comp.units[0].text() != "still works" {
		t.Errorf("units = %v", comp.units)
	}
}

func TestFlushSkipsEmptyFrames(t *testing.T) {
	tr, comp := newTestTranslator(t)

	tr.flush("")
	tr.frames.open()
	tr.frames.open()
	tr.flushAll("")
	if len(comp.units) != 0 {
		t.Fatalf("units = %s, want none", comp.ops())
	}

	tr.appendText("a")
	tr.frames.open()
	tr.frames.open()
	tr.appendText("b")
	tr.flushAll("S")
	checkUnits(t, comp, []string{
		`paragraph("a" style="S" level=0)`,
		`paragraph("b" style="S" level=0)`,
	})
	if tr.frames.height() != 1 {
		t.Errorf("height after flushAll = %d, want 1", tr.frames.height())
	}
}

func TestFlushClearsInPlace(t *testing.T) {
	tr, comp := newTestTranslator(t)
	tr.frames.open()
	tr.appendText("x")
	h := tr.frames.height()
	tr.flush("")
	if tr.frames.height() != h {
		t.Errorf("height = %d, want %d", tr.frames.height(), h)
	}
	if len(*tr.frames.top()) != 0 {
		t.Error("top frame not cleared")
	}
	if len(comp.units) != 1 {
		t.Errorf("units = %s", comp.ops())
	}
}

func TestPushFlushesOutsideBlocks(t *testing.T) {
	tr, comp := newTestTranslator(t)
	tr.appendText("pending")
	tr.push()
	if len(comp.units) != 1 {
		t.Fatalf("push outside blocks: units = %s", comp.ops())
	}

	tr.appendText("kept")
	tr.pushBlock(blockBullet)
	tr.push()
	if len(comp.units) != 1 {
		t.Errorf("push inside list emitted %s", comp.ops())
	}
}

func TestPopMergesWithPrefix(t *testing.T) {
	prefix := "P: "

	t.Run("text", func(t *testing.T) {
		tr, _ := newTestTranslator(t)
		tr.appendText("base ")
		tr.frames.open()
		tr.appendText("inner")
		tr.pop(&prefix)
		top := *tr.frames.top()
		if got := model.PlainText(top); got != "base P: inner" {
			t.Errorf("merged = %q", got)
		}
	})

	t.Run("leading break", func(t *testing.T) {
		tr, _ := newTestTranslator(t)
		tr.frames.open()
		tr.appendBreak()
		tr.pop(&prefix)
		top := *tr.frames.top()
		if len(top) != 2 || top[0].Text != prefix || !top[1].Break {
			t.Errorf("merged = %+v", top)
		}
	})

	t.Run("empty frame gets no prefix", func(t *testing.T) {
		tr, _ := newTestTranslator(t)
		tr.frames.open()
		tr.pop(&prefix)
		if len(*tr.frames.top()) != 0 {
			t.Errorf("merged = %+v, want empty", *tr.frames.top())
		}
	})
}

func TestCut(t *testing.T) {
	s := newFrameStack()
	s.open()
	*s.top() = frame{model.Plain("a")}
	s.open()
	*s.top() = frame{model.Plain("b")}

	if got := s.cut(5); got != nil {
		t.Errorf("cut above height = %v", got)
	}
	out := s.cut(1)
	if len(out) != 2 || out[0][0].Text != "a" || out[1][0].Text != "b" {
		t.Errorf("cut(1) = %+v", out)
	}
	if s.height() != 1 {
		t.Errorf("height = %d, want 1", s.height())
	}
}
