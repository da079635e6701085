package translate

import (
	"dxw/common"
	"dxw/convert/model"
	"dxw/utils/images"
)

// Composer receives translated units in document order.
type Composer interface {
	Paragraph(frags []model.Fragment, style string, blockLevel int)
	Heading(frags []model.Fragment, level int)
	ListItem(item model.ListItem)
	Table(rows [][]string)
	Picture(path, caption string, width, height int) error
	PageBreak(kind model.BreakType, orient common.Orientation)
	// MaxNumberingID returns the highest numbering id already used by the
	// document, new numbered lists get ids above it.
	MaxNumberingID() int
}

// ImageProber returns pixel dimensions of image files.
type ImageProber interface {
	Probe(path string) (images.Info, error)
}
