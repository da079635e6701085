package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"dxw/common"
	"dxw/config"
	"dxw/doctree"
	"dxw/state"
)

const sampleXML = `<?xml version="1.0" encoding="utf-8"?>
<document source="index.rst" title="Fallback">
  <section ids="intro" names="intro">
    <title>Introduction</title>
    <paragraph>Hello <emphasis>world</emphasis>.</paragraph>
  </section>
</document>
`

func setupTestEnv(t *testing.T, withReport bool) (context.Context, *zap.Logger) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg

	if withReport {
		rc := &config.ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
		rpt, err := rc.Prepare()
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		env.Rpt = rpt
		t.Cleanup(func() { rpt.Close() })
	}
	return ctx, logger
}

func prepare(t *testing.T, ctx context.Context, log *zap.Logger, src, name string, format common.InputFmt) *Content {
	t.Helper()
	c, err := Prepare(ctx, strings.NewReader(src), name, "/base", format, log)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(c.WorkDir) })
	return c
}

func TestPrepare_Doctree(t *testing.T) {
	ctx, log := setupTestEnv(t, false)
	c := prepare(t, ctx, log, sampleXML, "index.xml", common.InputFmtAuto)

	if c.Format != common.InputFmtDoctree {
		t.Errorf("Format = %s", c.Format)
	}
	if c.Doc == nil {
		t.Error("XML document is not kept")
	}
	if c.Tree == nil || c.Tree.Kind != doctree.KindDocument {
		t.Fatal("tree root is not document")
	}
	if c.Title != "Introduction" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.ID == uuid.Nil {
		t.Error("ID is not generated")
	}
	if c.BaseDir != "/base" || c.SrcName != "index.xml" {
		t.Errorf("names = %q %q", c.BaseDir, c.SrcName)
	}
	if fi, err := os.Stat(c.WorkDir); err != nil || !fi.IsDir() {
		t.Errorf("work directory is not created: %v", err)
	}
}

func TestPrepare_Markdown(t *testing.T) {
	ctx, log := setupTestEnv(t, false)
	c := prepare(t, ctx, log, "# Guide\n\nSome *text*.\n", "guide.md", common.InputFmtAuto)

	if c.Format != common.InputFmtMarkdown {
		t.Errorf("Format = %s", c.Format)
	}
	if c.Doc != nil {
		t.Error("markdown must not have XML document")
	}
	if c.Title != "Guide" {
		t.Errorf("Title = %q", c.Title)
	}
}

func TestPrepare_Sniffing(t *testing.T) {
	ctx, log := setupTestEnv(t, false)

	c := prepare(t, ctx, log, "\xef\xbb\xbf  "+sampleXML, "stdin", common.InputFmtAuto)
	if c.Format != common.InputFmtDoctree {
		t.Errorf("xml sniffed as %s", c.Format)
	}
	c = prepare(t, ctx, log, "plain words\n", "stdin", common.InputFmtAuto)
	if c.Format != common.InputFmtMarkdown {
		t.Errorf("text sniffed as %s", c.Format)
	}
	if c.Title != "stdin" {
		t.Errorf("Title = %q, want file name", c.Title)
	}
}

func TestPrepare_ExplicitFormat(t *testing.T) {
	ctx, log := setupTestEnv(t, false)

	// explicit format wins over extension
	c := prepare(t, ctx, log, "<p>not a doctree</p>\n", "page.xml", common.InputFmtMarkdown)
	if c.Format != common.InputFmtMarkdown {
		t.Errorf("Format = %s", c.Format)
	}
}

func TestPrepare_TitleFallback(t *testing.T) {
	ctx, log := setupTestEnv(t, false)

	c := prepare(t, ctx, log, `<document title="Attribute title"><paragraph>x</paragraph></document>`, "a.xml", common.InputFmtAuto)
	if c.Title != "Attribute title" {
		t.Errorf("Title = %q", c.Title)
	}
	c = prepare(t, ctx, log, `<document><paragraph>x</paragraph></document>`, "dir/name.xml", common.InputFmtAuto)
	if c.Title != "name" {
		t.Errorf("Title = %q", c.Title)
	}
}

func TestPrepare_Errors(t *testing.T) {
	ctx, log := setupTestEnv(t, false)

	if _, err := Prepare(ctx, strings.NewReader("  \n"), "a.md", "", common.InputFmtAuto, log); err == nil {
		t.Error("expected error for empty source")
	}
	if _, err := Prepare(ctx, strings.NewReader(`<?xml version="1.0"?>`), "a.xml", "", common.InputFmtAuto, log); err == nil {
		t.Error("expected error for XML without root")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := Prepare(cancelled, strings.NewReader(sampleXML), "a.xml", "", common.InputFmtAuto, log); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestPrepare_DebugDumps(t *testing.T) {
	ctx, log := setupTestEnv(t, true)
	c := prepare(t, ctx, log, sampleXML, "sub/index.xml", common.InputFmtAuto)

	if _, err := os.Stat(filepath.Join(c.WorkDir, "index.xml")); err != nil {
		t.Errorf("source copy is missing: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(c.WorkDir, "index.xml_tree"))
	if err != nil {
		t.Fatalf("tree dump is missing: %v", err)
	}
	for _, want := range []string{`Title: "Introduction"`, "Kind[paragraph] count[1]", "emphasis"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("dump has no %q:\n%s", want, data)
		}
	}
}

func TestContentCleanup(t *testing.T) {
	ctx, log := setupTestEnv(t, false)
	c := prepare(t, ctx, log, sampleXML, "a.xml", common.InputFmtAuto)

	if err := c.Cleanup(true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(c.WorkDir); err != nil {
		t.Error("kept work directory removed")
	}
	if err := c.Cleanup(false); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(c.WorkDir); !os.IsNotExist(err) {
		t.Error("work directory is not removed")
	}

	var nilContent *Content
	if err := nilContent.Cleanup(false); err != nil {
		t.Error(err)
	}
}

func TestContentString(t *testing.T) {
	var c *Content
	if c.String() != "<nil Content>" {
		t.Error("nil content dump")
	}
}

func TestDropWideEncoding(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`<?xml version="1.0" encoding="UTF-16"?><document/>`, `<?xml version="1.0"?><document/>`},
		{`<?xml version='1.0' encoding='utf-32le' standalone='yes'?>`, `<?xml version='1.0' standalone='yes'?>`},
		{`<?xml version="1.0" encoding="windows-1251"?>`, `<?xml version="1.0" encoding="windows-1251"?>`},
		{`<document encoding="utf-16"/>`, `<document encoding="utf-16"/>`},
	}
	for _, tt := range tests {
		if got := string(dropWideEncoding([]byte(tt.in))); got != tt.want {
			t.Errorf("dropWideEncoding(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
