package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Table adds grid table, rows may have different number of cells, missing
// cells are left empty.
func (d *Document) Table(rows [][]string) {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		d.log.Debug("Empty table skipped")
		return
	}

	tbl := d.body.CreateElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	tblPr.CreateElement("w:tblStyle").CreateAttr("w:val", styleTableGrid)
	d.useStyle(styleTableGrid, styleTable)
	tblW := tblPr.CreateElement("w:tblW")
	tblW.CreateAttr("w:w", "5000")
	tblW.CreateAttr("w:type", "pct")
	tblPr.CreateElement("w:tblLayout").CreateAttr("w:type", "fixed")

	colW := d.textWidth() * 20 / cols
	grid := tbl.CreateElement("w:tblGrid")
	for range cols {
		grid.CreateElement("w:gridCol").CreateAttr("w:w", strconv.Itoa(colW))
	}

	for _, row := range rows {
		tr := tbl.CreateElement("w:tr")
		for i := range cols {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			d.tableCell(tr, text, colW)
		}
	}
	d.stats.Tables++
}

// tableCell adds cell with one paragraph per line of text, cell must contain
// at least one paragraph.
func (d *Document) tableCell(tr *etree.Element, text string, width int) {
	tc := tr.CreateElement("w:tc")
	tcW := tc.CreateElement("w:tcPr").CreateElement("w:tcW")
	tcW.CreateAttr("w:w", strconv.Itoa(width))
	tcW.CreateAttr("w:type", "dxa")
	for _, line := range strings.Split(text, "\n") {
		p := tc.CreateElement("w:p")
		if line == "" {
			continue
		}
		appendText(p.CreateElement("w:r"), line, false)
	}
}
