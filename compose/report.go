package compose

import (
	"bytes"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"pdfdesigner/content"
	"pdfdesigner/docfile"
	"pdfdesigner/layout"
	"pdfdesigner/render"
	"pdfdesigner/state"
)

const previewSize = 256

// report puts everything needed to reproduce the run into debug report:
// input files, page map, layout dump and image previews.
func report(res *docfile.Result, plan *render.Plan, out string, env *state.LocalEnv) {
	log := env.Log.Named("report")

	for i, src := range res.Sources {
		name := fmt.Sprintf("input/%02d-%s", i, filepath.Base(src))
		if err := env.Rpt.StoreCopy(name, src); err != nil {
			log.Warn("Unable to store input file", zap.String("file", src), zap.Error(err))
		}
	}
	env.Rpt.Store("output/"+filepath.Base(out), out)

	var buf bytes.Buffer
	if err := render.EncodeYAML(&buf, plan); err == nil {
		env.Rpt.StoreData("pagemap.yaml", buf.Bytes())
	} else {
		log.Warn("Unable to encode page map", zap.Error(err))
	}

	dump := res.Document.String()
	for _, s := range res.Stories {
		dump += "\n" + s.String()
	}
	env.Rpt.StoreData("layout.txt", []byte(dump))

	seen := make(map[string]bool)
	for _, pg := range res.Document.Pages() {
		for _, c := range pg.Containers() {
			for _, e := range c.Elements() {
				img, ok := layout.Unwrap(e).(*content.Image)
				if !ok || seen[img.ID().String()] {
					continue
				}
				seen[img.ID().String()] = true
				data, err := img.Preview(previewSize)
				if err != nil {
					log.Warn("Unable to prepare image preview", zap.String("image", img.Name()), zap.Error(err))
					continue
				}
				env.Rpt.StoreData(fmt.Sprintf("previews/%s-%s.jpeg", img.Name(), img.ID()), data)
			}
		}
	}
}
