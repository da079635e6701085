package convert

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"dxw/config"
	"dxw/content"
	"dxw/state"
)

const outputExt = ".docx"

// buildOutputPath returns full name of the docx file for source src. Name is
// either derived from the source name or expanded from the output name
// template, which may produce subdirectories. Source directory structure is
// kept unless "nodirs" is requested.
func buildOutputPath(c *content.Content, src, dst string, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)

	if tmpl := env.Cfg.Document.OutputNameTemplate; tmpl != "" {
		name, err := expandTemplate(c, config.OutputNameTemplateFieldName, tmpl, &env.Cfg.Document)
		if err != nil {
			env.Log.Warn("Unable to prepare output filename, using default", zap.Error(err))
		} else if name = strings.TrimSpace(name); name != "" {
			return assemblePathWithSubdirs(outDir, filepath.FromSlash(name), env)
		}
	}
	return filepath.Join(outDir, buildDefaultFileName(src, env))
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func buildDefaultFileName(src string, env *state.LocalEnv) string {
	base := filepath.Base(src)
	return cleanPathSegment(strings.TrimSuffix(base, filepath.Ext(base)), env) + outputExt
}

// assemblePathWithSubdirs places expanded name under outDir, every segment is
// cleaned and the last one becomes the file name.
func assemblePathWithSubdirs(outDir, expandedName string, env *state.LocalEnv) string {
	segments := splitAndCleanPath(expandedName)
	if len(segments) == 0 {
		return outDir
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for i, s := range segments {
		s = cleanPathSegment(s, env)
		if i == len(segments)-1 {
			s += outputExt
		}
		parts = append(parts, s)
	}
	return filepath.Join(parts...)
}

// splitAndCleanPath returns path segments, empty, "." and ".." segments are
// dropped so result always stays under output directory.
func splitAndCleanPath(path string) []string {
	segments := []string{}
	for _, s := range strings.Split(path, string(filepath.Separator)) {
		switch s {
		case "", ".", "..":
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
