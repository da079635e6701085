// Package images inspects and normalizes pictures embedded into documents.
package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes native picture properties.
type Info struct {
	Width  int
	Height int
	// DpiX and DpiY are zero when picture does not carry density.
	DpiX, DpiY float64
	// Format is normalized short name: png, jpeg, gif, bmp, tiff, webp or svg.
	Format string
}

// ErrUnknownFormat is returned for data which is not recognized as picture.
var ErrUnknownFormat = errors.New("unknown image format")

// Prober reads native picture size from files.
type Prober struct {
	log *zap.Logger
}

func NewProber(log *zap.Logger) *Prober {
	return &Prober{log: log.Named("images")}
}

// Probe reads file at path and returns its properties.
func (p *Prober) Probe(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("unable to read image: %w", err)
	}
	info, err := Inspect(data)
	if err != nil {
		return Info{}, fmt.Errorf("unable to inspect image %s: %w", path, err)
	}
	p.log.Debug("Probed image", zap.String("path", path), zap.String("format", info.Format),
		zap.Int("width", info.Width), zap.Int("height", info.Height))
	return info, nil
}

// Detect returns normalized format name of data or empty string.
func Detect(data []byte) string {
	kind, err := filetype.Match(data)
	if err == nil && kind != filetype.Unknown {
		switch kind.Extension {
		case "jpg":
			return "jpeg"
		case "tif":
			return "tiff"
		case "png", "gif", "bmp", "webp":
			return kind.Extension
		}
	}
	if looksLikeSVG(data) {
		return "svg"
	}
	return ""
}

func looksLikeSVG(data []byte) bool {
	head := data[:min(len(data), 1024)]
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// Inspect returns properties of picture held in data.
func Inspect(data []byte) (Info, error) {
	format := Detect(data)
	switch format {
	case "":
		return Info{}, ErrUnknownFormat
	case "svg":
		w, h, err := SVGSize(data)
		if err != nil {
			return Info{}, err
		}
		return Info{Width: w, Height: h, Format: format}, nil
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, err
	}
	info := Info{Width: cfg.Width, Height: cfg.Height, Format: strings.ToLower(name)}
	switch info.Format {
	case "jpeg":
		if units, x, y, ok := ReadJFIFDensity(data); ok {
			info.DpiX, info.DpiY = densityToDPI(units, float64(x)), densityToDPI(units, float64(y))
		}
	case "png":
		if x, y, ok := readPNGDensity(data); ok {
			info.DpiX, info.DpiY = x, y
		}
	}
	return info, nil
}

func densityToDPI(units DpiType, v float64) float64 {
	switch units {
	case DpiPxPerInch:
		return v
	case DpiPxPerSm:
		return v * 2.54
	}
	return 0
}

// readPNGDensity looks for pHYs chunk, pixels per meter are converted to dpi.
func readPNGDensity(data []byte) (float64, float64, bool) {
	const sigLen = 8
	pos := sigLen
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		body := pos + 8
		if length < 0 || body+length > len(data) {
			return 0, 0, false
		}
		switch typ {
		case "pHYs":
			if length < 9 || data[body+8] != 1 {
				return 0, 0, false
			}
			x := float64(binary.BigEndian.Uint32(data[body:])) * 0.0254
			y := float64(binary.BigEndian.Uint32(data[body+4:])) * 0.0254
			return x, y, true
		case "IDAT", "IEND":
			return 0, 0, false
		}
		pos = body + length + 4 // crc
	}
	return 0, 0, false
}
