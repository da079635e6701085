package docx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"dxw/utils/images"
)

// imageExts lists media extensions which need Default content type.
var imageExts = []string{"png", "jpg", "jpeg", "gif"}

// finalize serializes composed state into package parts.
func (d *Document) finalize() error {
	if d.finalized {
		return errors.New("document already written")
	}
	d.finalized = true
	d.body.AddChild(d.sectionProperties(d.orientation))

	if d.opts.Language != "" {
		d.styles.setLanguage(d.opts.Language)
	}
	for _, id := range slices.Sorted(maps.Keys(d.usedStyles)) {
		if d.styles.ensure(id, d.usedStyles[id], d.fallback) {
			d.log.Debug("Added missing style", zap.String("id", id))
		}
	}

	d.numbering.finalize()

	d.rels.ensure(relStyles, "styles.xml")
	if _, ok := d.parts.get(partSettings); ok {
		d.rels.ensure(relSettings, "settings.xml")
	}
	if d.numbering.used() {
		d.rels.ensure(relNumbering, "numbering.xml")
	}

	for name, doc := range map[string]*etree.Document{
		partDocument:     d.doc,
		partStyles:       d.styles.doc,
		partDocumentRels: d.rels.doc,
	} {
		if err := d.setXML(name, doc); err != nil {
			return err
		}
	}
	if d.numbering.used() {
		if err := d.setXML(partNumbering, d.numbering.doc); err != nil {
			return err
		}
	}

	core, err := d.coreProperties()
	if err != nil {
		return fmt.Errorf("unable to prepare core properties: %w", err)
	}
	if err := d.setXML(partCore, core); err != nil {
		return err
	}
	if err := d.setXML(partApp, d.appProperties()); err != nil {
		return err
	}

	data, _ := d.parts.get(partRootRels)
	rootRels, err := parseRelationships(data)
	if err != nil {
		return err
	}
	rootRels.ensure(relOfficeDocument, partDocument)
	rootRels.ensure(relCoreProps, partCore)
	rootRels.ensure(relAppProps, partApp)
	if err := d.setXML(partRootRels, rootRels.doc); err != nil {
		return err
	}

	data, _ = d.parts.get(partContentTypes)
	ct, err := parseContentTypes(data)
	if err != nil {
		return err
	}
	ct.addDefault("rels", ctRels)
	ct.addDefault("xml", ctXML)
	for _, ext := range imageExts {
		ct.addDefault(ext, "image/"+strings.Replace(ext, "jpg", "jpeg", 1))
	}
	ct.addOverride(partDocument, ctDocument)
	ct.addOverride(partStyles, ctStyles)
	if _, ok := d.parts.get(partSettings); ok {
		ct.addOverride(partSettings, ctSettings)
	}
	if d.numbering.used() {
		ct.addOverride(partNumbering, ctNumbering)
	}
	ct.addOverride(partCore, ctCore)
	ct.addOverride(partApp, ctApp)
	return d.setXML(partContentTypes, ct.doc)
}

func (d *Document) setXML(name string, doc *etree.Document) error {
	data, err := xmlBytes(doc)
	if err != nil {
		return fmt.Errorf("unable to serialize %s: %w", name, err)
	}
	d.parts.set(name, data)
	return nil
}

// Write finalizes document and writes package to w.
func (d *Document) Write(w io.Writer) error {
	if err := d.finalize(); err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	// content types must be the first entry
	names := append([]string{partContentTypes}, slices.DeleteFunc(slices.Clone(d.parts.names), func(n string) bool {
		return n == partContentTypes
	})...)
	for _, name := range names {
		data, _ := d.parts.get(name)
		method := zip.Deflate
		if strings.HasPrefix(name, mediaDir+"/") && images.Detect(data) != "" {
			method = zip.Store
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			return fmt.Errorf("unable to add %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("unable to write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	d.log.Debug("Document written", zap.Int("parts", len(names)), zap.Any("stats", d.stats))
	return nil
}

// Save writes document into temporary file under workDir and then moves it to
// outputPath, with fixZip archive is rewritten without data descriptors.
func (d *Document) Save(outputPath, workDir string, fixZip bool) error {
	tmpName := filepath.Join(workDir, filepath.Base(outputPath))
	f, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer os.Remove(tmpName)
	defer f.Close()

	if err := d.Write(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if fixZip {
		return copyZipWithoutDataDescriptors(tmpName, outputPath)
	}
	return copyFile(tmpName, outputPath)
}

func copyZipWithoutDataDescriptors(from, to string) error {
	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to finalize target file (%s): %w", to, err)
	}
	return out.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return out.Close()
}
