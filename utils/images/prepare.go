package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Options control picture normalization.
type Options struct {
	// Optimize re-encodes JPEG and PNG pictures, smaller result wins.
	Optimize    bool
	JPEGQuality int
	// Grayscale desaturates color pictures.
	Grayscale bool
	// MaxWidth limits picture width in pixels, 0 means no limit.
	MaxWidth int
}

// Picture is ready to embed image data.
type Picture struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Ext returns file extension for picture data.
func (p Picture) Ext() string {
	if p.Format == "jpeg" {
		return "jpg"
	}
	return p.Format
}

// ContentType returns MIME type of picture data.
func (p Picture) ContentType() string {
	return "image/" + p.Format
}

// native formats are embedded without conversion.
var native = map[string]bool{"png": true, "jpeg": true, "gif": true}

// Prepare converts data into format word processors embed natively. SVG is
// rasterized into box of targetW x targetH pixels keeping aspect ratio.
func Prepare(data []byte, targetW, targetH int, opts Options, log *zap.Logger) (Picture, error) {
	format := Detect(data)
	if format == "" {
		return Picture{}, ErrUnknownFormat
	}

	var img image.Image
	if format == "svg" {
		var err error
		if img, err = RasterizeSVGToImage(data, targetW, targetH); err != nil {
			return Picture{}, fmt.Errorf("unable to rasterize svg: %w", err)
		}
		log.Debug("Rasterized svg", zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
		return transform(img, "png", opts, log)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Picture{}, fmt.Errorf("unable to decode %s: %w", format, err)
	}
	orig := Picture{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}

	resize := opts.MaxWidth > 0 && cfg.Width > opts.MaxWidth
	optimize := opts.Optimize && (format == "jpeg" || format == "png")
	if native[format] && !resize && !opts.Grayscale && !optimize {
		return orig, nil
	}

	if img, _, err = image.Decode(bytes.NewReader(data)); err != nil {
		return Picture{}, fmt.Errorf("unable to decode %s: %w", format, err)
	}
	target := format
	if !native[target] || target == "gif" {
		target = "png"
	}
	out, err := transform(img, target, opts, log)
	if err != nil {
		return Picture{}, err
	}
	if native[format] && !resize && !opts.Grayscale && len(out.Data) >= len(data) {
		log.Debug("Optimized picture is not smaller, keeping original", zap.String("format", format),
			zap.Int("original", len(data)), zap.Int("optimized", len(out.Data)))
		return orig, nil
	}
	if target != format {
		log.Debug("Converted picture", zap.String("from", format), zap.String("to", target))
	}
	return out, nil
}

func transform(img image.Image, format string, opts Options, log *zap.Logger) (Picture, error) {
	if opts.MaxWidth > 0 && img.Bounds().Dx() > opts.MaxWidth {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
		log.Debug("Resized picture", zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	}
	if opts.Grayscale {
		var changed bool
		if img, changed = Desaturate(img); changed {
			log.Debug("Desaturated picture")
		}
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case "jpeg":
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = 85
		}
		data, err = EncodeJPEGWithDPI(img, quality, DpiPxPerInch, 300, 300)
	default:
		buf := new(bytes.Buffer)
		err = imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
		data, format = buf.Bytes(), "png"
	}
	if err != nil {
		return Picture{}, fmt.Errorf("unable to encode %s: %w", format, err)
	}
	return Picture{Data: data, Format: format, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil
}
