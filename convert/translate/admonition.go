package translate

import (
	"golang.org/x/text/language"

	"dxw/convert/model"
	"dxw/doctree"
)

// Labels holds localized texts the translator inserts into output.
type Labels struct {
	Admonitions map[doctree.Kind]string
	SeeAlso     string
}

var labelLanguages = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Russian,
}

var labelSets = []Labels{
	{
		Admonitions: map[doctree.Kind]string{
			doctree.KindAttention: "Attention",
			doctree.KindCaution:   "Caution",
			doctree.KindDanger:    "Danger",
			doctree.KindError:     "Error",
			doctree.KindHint:      "Hint",
			doctree.KindImportant: "Important",
			doctree.KindNote:      "Note",
			doctree.KindTip:       "Tip",
			doctree.KindWarning:   "Warning",
		},
		SeeAlso: "See also",
	},
	{
		Admonitions: map[doctree.Kind]string{
			doctree.KindAttention: "Achtung",
			doctree.KindCaution:   "Vorsicht",
			doctree.KindDanger:    "Gefahr",
			doctree.KindError:     "Fehler",
			doctree.KindHint:      "Hinweis",
			doctree.KindImportant: "Wichtig",
			doctree.KindNote:      "Bemerkung",
			doctree.KindTip:       "Tipp",
			doctree.KindWarning:   "Warnung",
		},
		SeeAlso: "Siehe auch",
	},
	{
		Admonitions: map[doctree.Kind]string{
			doctree.KindAttention: "Attention",
			doctree.KindCaution:   "Prudence",
			doctree.KindDanger:    "Danger",
			doctree.KindError:     "Erreur",
			doctree.KindHint:      "Indication",
			doctree.KindImportant: "Important",
			doctree.KindNote:      "Note",
			doctree.KindTip:       "Astuce",
			doctree.KindWarning:   "Avertissement",
		},
		SeeAlso: "Voir aussi",
	},
	{
		Admonitions: map[doctree.Kind]string{
			doctree.KindAttention: "Atención",
			doctree.KindCaution:   "Precaución",
			doctree.KindDanger:    "Peligro",
			doctree.KindError:     "Error",
			doctree.KindHint:      "Consejo",
			doctree.KindImportant: "Importante",
			doctree.KindNote:      "Nota",
			doctree.KindTip:       "Truco",
			doctree.KindWarning:   "Advertencia",
		},
		SeeAlso: "Ver también",
	},
	{
		Admonitions: map[doctree.Kind]string{
			doctree.KindAttention: "Внимание",
			doctree.KindCaution:   "Осторожно",
			doctree.KindDanger:    "Опасно",
			doctree.KindError:     "Ошибка",
			doctree.KindHint:      "Подсказка",
			doctree.KindImportant: "Важно",
			doctree.KindNote:      "Примечание",
			doctree.KindTip:       "Совет",
			doctree.KindWarning:   "Предупреждение",
		},
		SeeAlso: "См. также",
	},
}

var labelMatcher = language.NewMatcher(labelLanguages)

// LabelsFor returns label set best matching BCP 47 language tag. Empty or
// unparsable tags select English.
func LabelsFor(lang string) Labels {
	if lang == "" {
		return labelSets[0]
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return labelSets[0]
	}
	_, idx, conf := labelMatcher.Match(tag)
	if conf == language.No {
		return labelSets[0]
	}
	return labelSets[idx]
}

// admonitionState remembers where content of an open admonition starts.
type admonitionState struct {
	base    int
	name    string
	label   string
	labeled bool
}

func (t *Translator) enterAdmonition(n *doctree.Node) (Action, error) {
	t.flushPendingItem()
	t.push()
	t.admonitions = append(t.admonitions, admonitionState{
		base:  t.frames.height() - 1,
		name:  n.Kind.String(),
		label: t.labels.Admonitions[n.Kind],
	})
	t.pushBlock(blockAdmonition)
	return Descend, nil
}

// enterGenericAdmonition handles admonition directive with custom title,
// which serves as the label.
func (t *Translator) enterGenericAdmonition(n *doctree.Node) (Action, error) {
	label := ""
	for _, c := range n.Children {
		if c.Kind == doctree.KindTitle {
			label = c.AsText()
			break
		}
	}
	t.flushPendingItem()
	t.push()
	t.admonitions = append(t.admonitions, admonitionState{
		base:  t.frames.height() - 1,
		name:  n.Kind.String(),
		label: label,
	})
	t.pushBlock(blockAdmonition)
	return Descend, nil
}

func (t *Translator) exitAdmonition(*doctree.Node) error {
	if len(t.admonitions) == 0 {
		return nil
	}
	adm := t.admonitions[len(t.admonitions)-1]
	t.admonitions = t.admonitions[:len(t.admonitions)-1]
	t.popBlock()

	t.labelAdmonition(&adm)
	if t.inCell() {
		return nil
	}
	t.emitAdmonition(&adm, t.frames.cut(adm.base))
	return nil
}

// flushPendingAdmonition emits admonition text preceding a list, so it is
// not reordered after list items. Admonition keeps an empty frame for the
// rest of its content.
func (t *Translator) flushPendingAdmonition() {
	if b, ok := t.peekBlock(0); !ok || b != blockAdmonition || len(t.admonitions) == 0 {
		return
	}
	adm := &t.admonitions[len(t.admonitions)-1]
	t.labelAdmonition(adm)
	t.emitAdmonition(adm, t.frames.cut(adm.base))
	t.frames.open()
}

func (t *Translator) labelAdmonition(adm *admonitionState) {
	if adm.labeled || adm.label == "" {
		return
	}
	t.insertLabel(adm.base, model.Styled(adm.label+": ", "label-"+adm.name))
	adm.labeled = true
}

func (t *Translator) emitAdmonition(adm *admonitionState, frames []frame) {
	for _, f := range frames {
		if len(f) > 0 {
			t.comp.Paragraph(f, "Admonition-"+adm.name, t.blockLevel)
		}
	}
}

// insertLabel places label in front of the first non-empty frame at or
// above base, or into the top frame when everything is empty.
func (t *Translator) insertLabel(base int, label model.Fragment) {
	base = min(max(base, 0), t.frames.height()-1)
	for i := base; i < t.frames.height(); i++ {
		if len(t.frames[i]) > 0 {
			t.frames[i] = append(frame{label}, t.frames[i]...)
			return
		}
	}
	top := t.frames.top()
	*top = append(frame{label}, *top...)
}
