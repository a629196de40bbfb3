package compose

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"pdfdesigner/common"
	"pdfdesigner/config"
	"pdfdesigner/render"
	"pdfdesigner/state"
)

// buildOutputPath returns page map file path under dst. Name comes from
// user-defined template, which may contain subdirectories, or is derived
// from the document name when template is empty or fails.
func buildOutputPath(p *render.Plan, src, dst string, format common.OutputFmt, env *state.LocalEnv) string {
	tmpl := env.Cfg.Document.Output.NameTemplate
	if tmpl == "" {
		return filepath.Join(dst, defaultFileName(p, src, format, env))
	}

	expanded, err := expandTemplate(p, config.OutputNameTemplateFieldName, tmpl, src, format)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(dst, defaultFileName(p, src, format, env))
	}
	segments := splitAndCleanPath(filepath.FromSlash(expanded))
	if len(segments) == 0 {
		return filepath.Join(dst, defaultFileName(p, src, format, env))
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, dst)
	for _, s := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(s, env))
	}
	last := segments[len(segments)-1]
	ext := filepath.Ext(last)
	parts = append(parts, cleanPathSegment(strings.TrimSuffix(last, ext), env)+ext)
	return filepath.Join(parts...)
}

func defaultFileName(p *render.Plan, src string, format common.OutputFmt, env *state.LocalEnv) string {
	name := p.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}
	return cleanPathSegment(name, env) + format.Ext()
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.Output.Transliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
