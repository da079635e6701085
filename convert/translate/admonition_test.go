package translate

import (
	"testing"

	"dxw/doctree"
)

func TestScenarioNote(t *testing.T) {
	comp := mustTranslate(t, doc(el(doctree.KindNote, para(txt("Be careful")))), Options{})

	if len(comp.units) != 1 {
		t.Fatalf("ops = %s, want single paragraph", comp.ops())
	}
	u := comp.units[0]
	if u.style != "Admonition-note" {
		t.Errorf("style = %q, want Admonition-note", u.style)
	}
	if len(u.frags) != 2 {
		t.Fatalf("fragments = %+v, want 2", u.frags)
	}
	if u.frags[0].Text != "Note: " || u.frags[0].Style() != "label-note" {
		t.Errorf("label = %+v, want \"Note: \" styled label-note", u.frags[0])
	}
	if u.frags[1].Text != "Be careful" || len(u.frags[1].Styles) != 0 {
		t.Errorf("content = %+v", u.frags[1])
	}
}

func TestAdmonitionDoesNotCaptureEarlierText(t *testing.T) {
	root := doc(para(txt("intro")), el(doctree.KindWarning, para(txt("hot")), para(txt("very"))))
	comp := mustTranslate(t, root, Options{})
	checkUnits(t, comp, []string{
		`paragraph("intro" style="" level=0)`,
		`paragraph("Warning: hot" style="Admonition-warning" level=0)`,
		`paragraph("very" style="Admonition-warning" level=0)`,
	})
}

func TestEmptyAdmonition(t *testing.T) {
	comp := mustTranslate(t, doc(el(doctree.KindTip)), Options{})
	checkUnits(t, comp, []string{
		`paragraph("Tip: " style="Admonition-tip" level=0)`,
	})
}

func TestGenericAdmonition(t *testing.T) {
	root := doc(el(doctree.KindAdmonition, el(doctree.KindTitle, txt("Custom")), para(txt("body"))))
	comp := mustTranslate(t, root, Options{})
	checkUnits(t, comp, []string{
		`paragraph("Custom: body" style="Admonition-admonition" level=0)`,
	})
}

func TestLocalizedLabels(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"", "Note: x"},
		{"en-US", "Note: x"},
		{"de", "Bemerkung: x"},
		{"ru-RU", "Примечание: x"},
		{"xx-invalid-tag-!!", "Note: x"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			comp := mustTranslate(t, doc(el(doctree.KindNote, para(txt("x")))), Options{Language: tt.lang})
			if len(comp.units) != 1 {
				t.Fatalf("ops = %s", comp.ops())
			}
			if got := comp.units[0].text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabelsComplete(t *testing.T) {
	for i, set := range labelSets {
		for k := doctree.KindAttention; k <= doctree.KindWarning; k++ {
			if set.Admonitions[k] == "" {
				t.Errorf("label set %v misses %v", labelLanguages[i], k)
			}
		}
		if set.SeeAlso == "" {
			t.Errorf("label set %v misses see also", labelLanguages[i])
		}
	}
}
