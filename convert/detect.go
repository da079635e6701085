package convert

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"dxw/common"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

// enough to see xml declaration and root element of any sane source
const headerSize = 512

var doctreeType = filetype.NewType("dtx", "application/x-docutils+xml")

func init() {
	filetype.AddMatcher(doctreeType, matchDoctree)
}

func matchDoctree(buf []byte) bool {
	buf = bytes.TrimSpace(bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf")))
	if !bytes.HasPrefix(buf, []byte("<")) {
		return false
	}
	return bytes.Contains(buf, []byte("<document")) || bytes.Contains(buf, []byte("<!DOCTYPE document"))
}

func isUTF8BOM3(buf []byte) bool {
	return buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

func detectUTF(buf []byte) srcEncoding {
	// UTF-32 LE BOM starts with UTF-16 LE BOM, check longer marks first
	if len(buf) >= 4 {
		switch {
		case isUTF32BigEndianBOM4(buf):
			return encUTF32BigEndian
		case isUTF32LittleEndianBOM4(buf):
			return encUTF32LittleEndian
		}
	}
	if len(buf) >= 3 && isUTF8BOM3(buf) {
		return encUTF8
	}
	if len(buf) >= 2 {
		switch {
		case isUTF16BigEndianBOM2(buf):
			return encUTF16BigEndian
		case isUTF16LittleEndianBOM2(buf):
			return encUTF16LittleEndian
		}
	}
	return encUnknown
}

// selectReader returns reader producing UTF-8 without BOM.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder())
	}
	panic(fmt.Sprintf("unknown source encoding %d", enc))
}

func readHeader(r io.Reader) ([]byte, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

// isArchiveFile checks if file has zip extension and zip content.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	header, err := readHeader(f)
	if err != nil {
		return false, err
	}
	return filetype.Is(header, "zip"), nil
}

// detectSource checks if header looks like supported source and detects its
// encoding. Format comes from the name, content only confirms it.
func detectSource(name string, header []byte) (bool, srcEncoding, error) {
	enc := detectUTF(header)
	format := common.DetectInputFmt(name)
	if format == common.InputFmtAuto {
		return false, enc, nil
	}

	// header may be cut in the middle of a code unit, partial result is enough
	decoded, err := io.ReadAll(selectReader(bytes.NewReader(header), enc))
	if err != nil && len(decoded) == 0 {
		return false, encUnknown, fmt.Errorf("unable to decode source header: %w", err)
	}

	switch format {
	case common.InputFmtDoctree:
		if !filetype.Is(decoded, doctreeType.Extension) {
			return false, enc, nil
		}
	case common.InputFmtMarkdown:
		if !looksLikeText(decoded) {
			return false, enc, nil
		}
	}
	return true, enc, nil
}

func looksLikeText(buf []byte) bool {
	if bytes.IndexByte(buf, 0) >= 0 {
		return false
	}
	// last rune may be cut by header boundary
	for range utf8.UTFMax {
		if utf8.Valid(buf) {
			return true
		}
		buf = buf[:len(buf)-1]
	}
	return false
}

// isSourceFile checks if file is a supported source document.
func isSourceFile(path string) (bool, srcEncoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	header, err := readHeader(f)
	if err != nil {
		return false, encUnknown, err
	}
	return detectSource(path, header)
}

// isSourceInArchive checks if archive entry is a supported source document.
func isSourceInArchive(f *zip.File) (bool, srcEncoding, error) {
	if f.FileInfo().IsDir() {
		return false, encUnknown, nil
	}
	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	header, err := readHeader(r)
	if err != nil {
		return false, encUnknown, err
	}
	return detectSource(f.Name, header)
}
