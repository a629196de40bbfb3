package compose

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"pdfdesigner/common"
	"pdfdesigner/config"
	"pdfdesigner/render"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Name       string
	Ext        string
	Format     string
	SourceFile string
	Axis       string
	Pages      int
	Stories    []string
}

func expandTemplate(p *render.Plan, name config.TemplateFieldName, field, src string, format common.OutputFmt) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Name:       p.Name,
		Ext:        format.Ext(),
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Axis:       p.Axis,
		Pages:      len(p.Pages),
	}
	for _, s := range p.Stories {
		values.Stories = append(values.Stories, s.Name)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
