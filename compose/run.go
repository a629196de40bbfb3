// Package compose implements program commands: building page maps out of
// document descriptions and exporting stylesheets.
package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"pdfdesigner/common"
	"pdfdesigner/docfile"
	"pdfdesigner/render"
	"pdfdesigner/state"
)

// Run is the layout command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("layout")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no document description has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format := env.Cfg.Document.Output.Format
	if cmd.IsSet("format") {
		if format, err = common.ParseOutputFmt(cmd.String("format")); err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Error(err), zap.Stringer("format", env.Cfg.Document.Output.Format))
			format = env.Cfg.Document.Output.Format
		}
	}
	store := env.Cfg.Document.Output.StorePath
	if cmd.IsSet("store") {
		store = cmd.String("store")
	}
	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	_, err = process(ctx, src, dst, format, store, env)
	return err
}

// process builds document and writes its page map, returning the output
// file name.
func process(ctx context.Context, src, dst string, format common.OutputFmt, store string, env *state.LocalEnv) (string, error) {
	log := env.Log.Named("layout")

	res, err := docfile.Load(src, &env.Cfg.Document, env.Log)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	plan, err := render.Build(res.Name, res.Document, res.Stories...)
	if err != nil {
		return "", fmt.Errorf("unable to build page map: %w", err)
	}
	plan.Settings = env.Cfg.Document.Renderer.Properties()

	var buf bytes.Buffer
	if err := render.Encode(&buf, plan, format); err != nil {
		return "", fmt.Errorf("unable to encode page map: %w", err)
	}

	out := buildOutputPath(plan, src, dst, format, env)
	if _, err := os.Stat(out); err == nil && !env.Overwrite {
		return "", fmt.Errorf("output file already exists: %s", out)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("unable to write page map: %w", err)
	}
	log.Info("Page map written", zap.String("file", out), zap.Int("pages", len(plan.Pages)), zap.Int("stories", len(plan.Stories)))

	if len(store) > 0 {
		if err := save(plan, store, env); err != nil {
			return out, err
		}
	}
	if env.Rpt != nil {
		report(res, plan, out, env)
	}
	return out, nil
}

func save(plan *render.Plan, path string, env *state.LocalEnv) (err error) {
	s, err := render.OpenStore(path, env.Log)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	if err := s.Save(plan); err != nil {
		return err
	}
	env.Log.Debug("Page map stored", zap.String("store", path), zap.String("id", plan.ID))
	return nil
}
