package translate

import (
	"strings"

	"dxw/convert/model"
	"dxw/doctree"
)

type handler struct {
	enter func(*Translator, *doctree.Node) (Action, error)
	exit  func(*Translator, *doctree.Node) error
}

func descend(*Translator, *doctree.Node) (Action, error) { return Descend, nil }
func skip(*Translator, *doctree.Node) (Action, error)    { return SkipSubtree, nil }

var (
	passThrough = handler{enter: descend}
	skipped     = handler{enter: skip}
	inline      = handler{enter: descend, exit: (*Translator).exitInline}
	admonition  = handler{enter: (*Translator).enterAdmonition, exit: (*Translator).exitAdmonition}
)

// handlers is indexed by node kind. Missing entries skip the subtree.
var handlers = [doctree.KindCount]handler{
	doctree.KindUnknown: skipped,

	doctree.KindDocument:         {enter: (*Translator).enterDocument, exit: (*Translator).exitDocument},
	doctree.KindStartOfFile:      {enter: (*Translator).enterStartOfFile, exit: (*Translator).exitStartOfFile},
	doctree.KindSection:          {enter: (*Translator).enterSection, exit: (*Translator).exitSection},
	doctree.KindTitle:            {enter: (*Translator).enterTitle, exit: (*Translator).exitTitle},
	doctree.KindSubtitle:         passThrough,
	doctree.KindParagraph:        {enter: (*Translator).enterParagraph},
	doctree.KindText:             {enter: (*Translator).enterText},
	doctree.KindCompound:         passThrough,
	doctree.KindContainer:        passThrough,
	doctree.KindGlossary:         passThrough,
	doctree.KindCentered:         passThrough,
	doctree.KindHList:            passThrough,
	doctree.KindHListCol:         passThrough,
	doctree.KindCompactParagraph: passThrough,

	doctree.KindEmphasis:              inline,
	doctree.KindStrong:                inline,
	doctree.KindLiteral:               inline,
	doctree.KindLiteralEmphasis:       inline,
	doctree.KindLiteralStrong:         inline,
	doctree.KindSubscript:             inline,
	doctree.KindSuperscript:           inline,
	doctree.KindTitleReference:        inline,
	doctree.KindAbbreviation:          inline,
	doctree.KindProblematic:           inline,
	doctree.KindReference:             passThrough,
	doctree.KindPendingXref:           passThrough,
	doctree.KindDownloadReference:     passThrough,
	doctree.KindInline:                passThrough,
	doctree.KindGenerated:             passThrough,
	doctree.KindSubstitutionReference: passThrough,

	doctree.KindBulletList:         {enter: (*Translator).enterBulletList, exit: (*Translator).exitBulletList},
	doctree.KindEnumeratedList:     {enter: (*Translator).enterEnumeratedList, exit: (*Translator).exitEnumeratedList},
	doctree.KindListItem:           {enter: (*Translator).enterListItem, exit: (*Translator).exitListItem},
	doctree.KindDefinitionList:     {enter: (*Translator).enterFlushing},
	doctree.KindDefinitionListItem: {enter: (*Translator).enterFlushing, exit: (*Translator).exitFlushing},
	doctree.KindTerm:               {enter: descend, exit: (*Translator).exitTerm},
	doctree.KindClassifier:         skipped,
	doctree.KindDefinition:         {enter: (*Translator).enterDefinition, exit: (*Translator).exitDefinition},
	doctree.KindFieldList:          passThrough,
	doctree.KindField:              passThrough,
	doctree.KindFieldName:          skipped,
	doctree.KindFieldBody:          skipped,
	doctree.KindOptionList:         passThrough,
	doctree.KindOptionListItem:     skipped,
	doctree.KindOptionGroup:        skipped,
	doctree.KindOption:             skipped,
	doctree.KindOptionString:       passThrough,
	doctree.KindOptionArgument:     skipped,
	doctree.KindDescription:        passThrough,

	doctree.KindBlockQuote:   {enter: (*Translator).enterBlockQuote, exit: (*Translator).exitBlockQuote},
	doctree.KindLineBlock:    {enter: (*Translator).enterLineBlock, exit: (*Translator).exitLineBlock},
	doctree.KindLine:         {enter: (*Translator).enterLine, exit: (*Translator).exitLine},
	doctree.KindLiteralBlock: {enter: (*Translator).enterLiteralBlock, exit: (*Translator).exitLiteralBlock},
	doctree.KindDoctestBlock: skipped,
	doctree.KindFigure:       {enter: (*Translator).enterFigure, exit: (*Translator).exitFigure},
	doctree.KindCaption:      {enter: descend, exit: (*Translator).exitCaption},
	doctree.KindLegend:       passThrough,
	doctree.KindImage:        {enter: (*Translator).enterImage},

	doctree.KindTable:          {enter: (*Translator).enterTable, exit: (*Translator).exitTable},
	doctree.KindTGroup:         passThrough,
	doctree.KindColSpec:        {enter: (*Translator).enterColSpec},
	doctree.KindTHead:          passThrough,
	doctree.KindTBody:          {enter: (*Translator).enterTBody},
	doctree.KindRow:            {enter: (*Translator).enterRow},
	doctree.KindEntry:          {enter: (*Translator).enterEntry, exit: (*Translator).exitEntry},
	doctree.KindTabularColSpec: skipped,

	doctree.KindAdmonition: {enter: (*Translator).enterGenericAdmonition, exit: (*Translator).exitAdmonition},
	doctree.KindAttention:  admonition,
	doctree.KindCaution:    admonition,
	doctree.KindDanger:     admonition,
	doctree.KindError:      admonition,
	doctree.KindHint:       admonition,
	doctree.KindImportant:  admonition,
	doctree.KindNote:       admonition,
	doctree.KindTip:        admonition,
	doctree.KindWarning:    admonition,
	doctree.KindSeeAlso:    {enter: (*Translator).enterSeeAlso, exit: (*Translator).exitSeeAlso},

	doctree.KindDesc:              passThrough,
	doctree.KindDescSignature:     skipped,
	doctree.KindDescName:          passThrough,
	doctree.KindDescAddName:       passThrough,
	doctree.KindDescType:          passThrough,
	doctree.KindDescReturns:       skipped,
	doctree.KindDescParameterList: skipped,
	doctree.KindDescParameter:     skipped,
	doctree.KindDescOptional:      skipped,
	doctree.KindDescAnnotation:    passThrough,
	doctree.KindDescContent:       skipped,
	doctree.KindRefCount:          passThrough,
	doctree.KindVersionModified:   skipped,
	doctree.KindProductionList:    skipped,

	doctree.KindRaw:                    skipped,
	doctree.KindComment:                skipped,
	doctree.KindMeta:                   skipped,
	doctree.KindTarget:                 skipped,
	doctree.KindIndex:                  skipped,
	doctree.KindFootnote:               skipped,
	doctree.KindCitation:               skipped,
	doctree.KindLabel:                  skipped,
	doctree.KindFootnoteReference:      skipped,
	doctree.KindCitationReference:      skipped,
	doctree.KindHighlightLang:          skipped,
	doctree.KindRubric:                 skipped,
	doctree.KindTopic:                  skipped,
	doctree.KindSidebar:                skipped,
	doctree.KindAttribution:            skipped,
	doctree.KindTransition:             skipped,
	doctree.KindAcks:                   skipped,
	doctree.KindSubstitutionDefinition: skipped,
	doctree.KindSystemMessage:          skipped,
	doctree.KindTocTree:                skipped,
}

func (t *Translator) enterDocument(*doctree.Node) (Action, error) {
	t.push()
	return Descend, nil
}

func (t *Translator) exitDocument(*doctree.Node) error {
	t.pop(nil)
	t.flushAll("")
	return nil
}

func (t *Translator) enterStartOfFile(*doctree.Node) (Action, error) {
	t.flushAll("")
	if t.opts.PageBreaks {
		t.comp.PageBreak(model.BreakPage, t.opts.Orientation)
	}
	t.sectionLevel = 0
	t.push()
	return Descend, nil
}

func (t *Translator) exitStartOfFile(*doctree.Node) error {
	t.pop(nil)
	t.flushAll("")
	return nil
}

func (t *Translator) enterSection(*doctree.Node) (Action, error) {
	t.sectionLevel++
	return Descend, nil
}

func (t *Translator) exitSection(*doctree.Node) error {
	t.flush("")
	t.sectionLevel = max(t.sectionLevel-1, 0)
	return nil
}

func (t *Translator) enterTitle(*doctree.Node) (Action, error) {
	if p := t.parent(); p != nil {
		switch p.Kind {
		case doctree.KindAdmonition, doctree.KindTable, doctree.KindTopic, doctree.KindSidebar:
			// titles of these are labels or captions, not headings
			return SkipSubtree, nil
		}
	}
	t.push()
	return Descend, nil
}

func (t *Translator) exitTitle(*doctree.Node) error {
	t.comp.Heading(t.popTop(), t.sectionLevel)
	return nil
}

func (t *Translator) enterParagraph(*doctree.Node) (Action, error) {
	t.push()
	return Descend, nil
}

func (t *Translator) enterText(n *doctree.Node) (Action, error) {
	t.appendText(n.Text)
	return SkipSubtree, nil
}

func (t *Translator) enterFlushing(*doctree.Node) (Action, error) {
	t.flush("")
	return Descend, nil
}

func (t *Translator) exitFlushing(*doctree.Node) error {
	t.flush("")
	return nil
}

func (t *Translator) exitTerm(*doctree.Node) error {
	t.flush(StyleDefinitionTerm)
	return nil
}

func (t *Translator) enterDefinition(*doctree.Node) (Action, error) {
	t.blockLevel++
	return Descend, nil
}

func (t *Translator) exitDefinition(*doctree.Node) error {
	t.flush("")
	t.blockLevel = max(t.blockLevel-1, 0)
	return nil
}

func (t *Translator) enterBlockQuote(*doctree.Node) (Action, error) {
	t.flush("")
	t.lists.level++
	t.blockLevel++
	t.push()
	return Descend, nil
}

func (t *Translator) exitBlockQuote(*doctree.Node) error {
	t.lists.level = max(t.lists.level-1, 0)
	t.flush("")
	t.blockLevel = max(t.blockLevel-1, 0)
	t.pop(nil)
	return nil
}

func (t *Translator) enterLineBlock(*doctree.Node) (Action, error) {
	if t.lineBlockLevel == 0 {
		t.push()
	}
	t.lineBlockLevel++
	return Descend, nil
}

func (t *Translator) exitLineBlock(*doctree.Node) error {
	t.lineBlockLevel = max(t.lineBlockLevel-1, 0)
	if t.lineBlockLevel == 0 {
		t.flush(StyleLineBlock)
		t.pop(nil)
	}
	return nil
}

func (t *Translator) enterLine(*doctree.Node) (Action, error) {
	// first level is not indented
	if indent := t.lineBlockLevel - 1; indent > 0 {
		t.appendText(strings.Repeat(" ", indent*4))
	}
	return Descend, nil
}

func (t *Translator) exitLine(*doctree.Node) error {
	t.appendBreak()
	return nil
}

func (t *Translator) enterLiteralBlock(*doctree.Node) (Action, error) {
	t.flushPendingItem()
	t.push()
	return Descend, nil
}

func (t *Translator) exitLiteralBlock(*doctree.Node) error {
	t.flush(StyleLiteralBlock)
	t.pop(nil)
	return nil
}

func (t *Translator) enterFigure(*doctree.Node) (Action, error) {
	t.flushPendingItem()
	t.push()
	return Descend, nil
}

func (t *Translator) exitFigure(*doctree.Node) error {
	t.pop(nil)
	return nil
}

func (t *Translator) exitCaption(*doctree.Node) error {
	t.flush(StyleImageCaption)
	return nil
}

func (t *Translator) enterSeeAlso(*doctree.Node) (Action, error) {
	t.push()
	return Descend, nil
}

func (t *Translator) exitSeeAlso(*doctree.Node) error {
	prefix := t.labels.SeeAlso + ": "
	t.pop(&prefix)
	return nil
}
