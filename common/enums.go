// Package common holds enumerations shared by configuration and conversion
// packages.
package common

import (
	"path/filepath"
	"slices"
	"strings"
)

//go:generate go tool go-enum --marshal --names

// Specification of source content format.
// ENUM(auto, doctree, markdown)
type InputFmt int

// Exts returns file extensions recognized for format.
func (f InputFmt) Exts() []string {
	switch f {
	case InputFmtDoctree:
		return []string{".xml", ".doctree"}
	case InputFmtMarkdown:
		return []string{".md", ".markdown"}
	default:
		return nil
	}
}

// Page orientation of document section.
// ENUM(portrait, landscape)
type Orientation int

// Swap reports whether page dimensions of template section have to be swapped
// to get orientation o.
func (o Orientation) Swap(landscapeTemplate bool) bool {
	return (o == OrientationLandscape) != landscapeTemplate
}

// DetectInputFmt returns format recognized by file name extension or
// InputFmtAuto when extension is unknown.
func DetectInputFmt(name string) InputFmt {
	ext := strings.ToLower(filepath.Ext(name))
	for _, f := range []InputFmt{InputFmtDoctree, InputFmtMarkdown} {
		if slices.Contains(f.Exts(), ext) {
			return f
		}
	}
	return InputFmtAuto
}
