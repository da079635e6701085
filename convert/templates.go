package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"dxw/config"
	"dxw/content"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Subject    string
	Creator    string
	Keywords   []string
	Language   string
	Format     string
	SourceFile string
	SourceDir  string
	DocumentID string
}

func buildValues(c *content.Content, name config.TemplateFieldName, doc *config.DocumentConfig) Values {
	v := Values{
		Context:    string(name),
		Title:      c.Title,
		Format:     c.Format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(c.SrcName), filepath.Ext(c.SrcName)),
		SourceDir:  filepath.ToSlash(filepath.Dir(c.SrcName)),
		DocumentID: c.ID.String(),
	}
	if doc != nil {
		v.Language = doc.Language
		v.Subject = doc.Properties.Subject
		v.Creator = doc.Properties.Creator
		v.Keywords = doc.Properties.Keywords
		if doc.Properties.Title != "" {
			v.Title = doc.Properties.Title
		}
	}
	return v
}

func templateFuncs() template.FuncMap {
	funcMap := sprig.FuncMap()
	funcMap["slug"] = slug.Make
	return funcMap
}

func expandTemplate(c *content.Content, name config.TemplateFieldName, field string, doc *config.DocumentConfig) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(templateFuncs()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, buildValues(c, name, doc)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
