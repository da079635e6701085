package convert

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dxw/config"
	"dxw/content"
	"dxw/convert/docx"
	"dxw/convert/translate"
	"dxw/misc"
	"dxw/state"
	"dxw/utils/images"
)

// generate translates content tree into docx document and writes it to the
// outputPath.
func generate(ctx context.Context, c *content.Content, outputPath string, env *state.LocalEnv, log *zap.Logger) error {
	cfg := &env.Cfg.Document

	doc, err := docx.New(env.Template, docx.Options{
		Images: images.Options{
			Optimize:    cfg.Images.Optimize,
			JPEGQuality: cfg.Images.JPEGQuality,
			Grayscale:   cfg.Images.Grayscale,
			MaxWidth:    cfg.Images.MaxWidth,
		},
		RasterDPI: cfg.Images.RasterDPI,
		Language:  cfg.Language,
	}, log)
	if err != nil {
		return fmt.Errorf("unable to prepare document: %w", err)
	}
	doc.SetProperties(documentProperties(c, cfg))

	opts := translate.Options{
		BaseDir:     c.BaseDir,
		Language:    cfg.Language,
		PageBreaks:  cfg.PageBreak.Enable,
		Orientation: cfg.PageBreak.Orientation,
	}
	// interface must stay nil when probing is off
	if cfg.Images.Probe {
		opts.Prober = images.NewProber(log)
	}
	if log.Core().Enabled(zap.DebugLevel) {
		opts.Observer = translate.NewTraceObserver(log)
	}

	if err := translate.New(doc, opts, log).Translate(ctx, c.Tree); err != nil {
		return fmt.Errorf("unable to translate %s: %w", c.SrcName, err)
	}

	st := doc.Stats()
	log.Debug("Document composed",
		zap.Int("paragraphs", st.Paragraphs),
		zap.Int("headings", st.Headings),
		zap.Int("list_items", st.ListItems),
		zap.Int("tables", st.Tables),
		zap.Int("pictures", st.Pictures),
		zap.Int("sections", st.Sections))

	return doc.Save(outputPath, c.WorkDir, cfg.FixZip)
}

func documentProperties(c *content.Content, cfg *config.DocumentConfig) docx.Properties {
	p := docx.Properties{
		Title:       cfg.Properties.Title,
		Subject:     cfg.Properties.Subject,
		Creator:     cfg.Properties.Creator,
		Description: cfg.Properties.Description,
		Keywords:    cfg.Properties.Keywords,
		Language:    cfg.Language,
		Identifier:  "urn:uuid:" + c.ID.String(),
		Created:     time.Now().UTC(),
		Application: misc.GetAppName() + " " + misc.GetVersion(),
	}
	if p.Title == "" {
		p.Title = c.Title
	}
	return p
}
