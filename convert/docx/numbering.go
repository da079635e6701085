package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"dxw/convert/model"
)

const maxListLevel = 8

var numFormats = map[string]string{
	model.EnumArabic:     "decimal",
	model.EnumLowerAlpha: "lowerLetter",
	model.EnumUpperAlpha: "upperLetter",
	model.EnumLowerRoman: "lowerRoman",
	model.EnumUpperRoman: "upperRoman",
}

var bulletChars = [...]string{"•", "◦", "▪"}

// listInstance is single run of numbered items sharing a counter.
type listInstance struct {
	source int
	level  int
	enum   model.Enumeration
	refs   []*etree.Element
	numID  int
}

// numbering tracks numbering part. Final numbering ids are assigned when
// document is saved so restarted lists never collide with ids handed out to
// translator.
type numbering struct {
	doc      *etree.Document
	log      *zap.Logger
	base     int
	abstract int

	bulletRefs []*etree.Element
	instances  []*listInstance
	open       map[int]*listInstance
}

func parseNumbering(data []byte, log *zap.Logger) (*numbering, error) {
	doc, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse numbering: %w", err)
	}
	n := &numbering{doc: doc, log: log, open: make(map[int]*listInstance)}
	for _, num := range doc.Root().SelectElements("w:num") {
		if id, err := strconv.Atoi(num.SelectAttrValue("w:numId", "")); err == nil {
			n.base = max(n.base, id)
		}
	}
	n.abstract = -1
	for _, an := range doc.Root().SelectElements("w:abstractNum") {
		if id, err := strconv.Atoi(an.SelectAttrValue("w:abstractNumId", "")); err == nil {
			n.abstract = max(n.abstract, id)
		}
	}
	return n, nil
}

// bulletID is reserved right above template ids.
func (n *numbering) bulletID() int {
	return n.base + 1
}

func clampLevel(level int) int {
	return min(max(level-1, 0), maxListLevel)
}

// attach adds numPr to paragraph properties and records reference which gets
// final id on save.
func (n *numbering) attach(pPr *etree.Element, item model.ListItem) {
	ilvl := clampLevel(item.Level)
	if !item.Continuation {
		n.closeDeeper(ilvl)
	}

	numPr := pPr.CreateElement("w:numPr")
	numPr.CreateElement("w:ilvl").CreateAttr("w:val", strconv.Itoa(ilvl))
	ref := numPr.CreateElement("w:numId")

	switch {
	case item.Continuation:
		// keeps list indentation without label
		ref.CreateAttr("w:val", "0")
		ind := pPr.CreateElement("w:ind")
		ind.CreateAttr("w:left", strconv.Itoa(listIndent(ilvl)))
	case item.Numbered():
		inst := n.open[item.NumberingID]
		if inst == nil {
			inst = &listInstance{source: item.NumberingID, level: ilvl}
			if item.Enum != nil {
				inst.enum = *item.Enum
			}
			n.instances = append(n.instances, inst)
			n.open[item.NumberingID] = inst
		}
		inst.refs = append(inst.refs, ref)
	default:
		n.bulletRefs = append(n.bulletRefs, ref)
	}
}

// closeDeeper ends numbered runs nested deeper than ilvl, next item using the
// same id starts counting anew.
func (n *numbering) closeDeeper(ilvl int) {
	for id, inst := range n.open {
		if inst.level > ilvl {
			delete(n.open, id)
		}
	}
}

func listIndent(ilvl int) int {
	return 720 * (ilvl + 1)
}

// labelText converts "%1." style prefix into level template.
func labelText(prefix string, ilvl int) string {
	if prefix == "" {
		prefix = "%1."
	}
	if !strings.Contains(prefix, "%1") {
		prefix += "%1"
	}
	return strings.ReplaceAll(prefix, "%1", "%"+strconv.Itoa(ilvl+1))
}

func (n *numbering) nextAbstract() int {
	n.abstract++
	return n.abstract
}

func addLevel(an *etree.Element, ilvl int, format, text string, start int) {
	lvl := an.CreateElement("w:lvl")
	lvl.CreateAttr("w:ilvl", strconv.Itoa(ilvl))
	lvl.CreateElement("w:start").CreateAttr("w:val", strconv.Itoa(max(start, 0)))
	lvl.CreateElement("w:numFmt").CreateAttr("w:val", format)
	lvl.CreateElement("w:lvlText").CreateAttr("w:val", text)
	lvl.CreateElement("w:lvlJc").CreateAttr("w:val", "left")
	ind := lvl.CreateElement("w:pPr").CreateElement("w:ind")
	ind.CreateAttr("w:left", strconv.Itoa(listIndent(ilvl)))
	ind.CreateAttr("w:hanging", "360")
}

// newAbstract creates abstract definition, abstractNum elements must precede
// all num elements.
func (n *numbering) newAbstract(fill func(an *etree.Element)) int {
	id := n.nextAbstract()
	an := etree.NewElement("w:abstractNum")
	an.CreateAttr("w:abstractNumId", strconv.Itoa(id))
	an.CreateElement("w:multiLevelType").CreateAttr("w:val", "hybridMultilevel")
	fill(an)

	root := n.doc.Root()
	pos := len(root.Child)
	if first := root.SelectElement("w:num"); first != nil {
		pos = first.Index()
	}
	root.InsertChildAt(pos, an)
	return id
}

func (n *numbering) newNum(numID, abstractID int) {
	num := n.doc.Root().CreateElement("w:num")
	num.CreateAttr("w:numId", strconv.Itoa(numID))
	num.CreateElement("w:abstractNumId").CreateAttr("w:val", strconv.Itoa(abstractID))
}

// finalize writes definitions for all used lists and sets ids of references.
func (n *numbering) finalize() {
	if len(n.bulletRefs) > 0 {
		abs := n.newAbstract(func(an *etree.Element) {
			for ilvl := 0; ilvl <= maxListLevel; ilvl++ {
				addLevel(an, ilvl, "bullet", bulletChars[ilvl%len(bulletChars)], 1)
			}
		})
		n.newNum(n.bulletID(), abs)
		for _, ref := range n.bulletRefs {
			ref.CreateAttr("w:val", strconv.Itoa(n.bulletID()))
		}
	}

	next := n.bulletID()
	for _, inst := range n.instances {
		next = max(next, inst.source)
	}
	used := make(map[int]bool)
	for _, inst := range n.instances {
		inst.numID = inst.source
		if used[inst.source] {
			next++
			inst.numID = next
			n.log.Debug("Restarting numbered list", zap.Int("id", inst.source), zap.Int("instance", inst.numID))
		}
		used[inst.source] = true

		format, ok := numFormats[inst.enum.Type]
		if !ok {
			format = "decimal"
		}
		abs := n.newAbstract(func(an *etree.Element) {
			for ilvl := 0; ilvl <= maxListLevel; ilvl++ {
				if ilvl == inst.level {
					addLevel(an, ilvl, format, labelText(inst.enum.Prefix, ilvl), inst.enum.Start)
					continue
				}
				addLevel(an, ilvl, "decimal", "%"+strconv.Itoa(ilvl+1)+".", 1)
			}
		})
		n.newNum(inst.numID, abs)
		for _, ref := range inst.refs {
			ref.CreateAttr("w:val", strconv.Itoa(inst.numID))
		}
	}
}

func (n *numbering) used() bool {
	return len(n.bulletRefs) > 0 || len(n.instances) > 0
}
