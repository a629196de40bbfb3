package compose

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"pdfdesigner/config"
	"pdfdesigner/docfile"
	"pdfdesigner/state"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// destination opens single optional DESTINATION argument, STDOUT when
// absent.
func destination(cmd *cli.Command, log *zap.Logger) (io.WriteCloser, string, error) {
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		return nopCloser{os.Stdout}, "STDOUT", nil
	}
	f, err := os.Create(fname)
	if err != nil {
		return nil, "", fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return f, fname, nil
}

// Styles is the styles command: it writes effective stylesheet as CSS.
func Styles(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	var paths []string
	if p := env.Cfg.Document.StylesheetPath; p != "" {
		paths = append(paths, p)
	}
	if p := cmd.String("css"); p != "" {
		paths = append(paths, p)
	}

	out, fname, err := destination(cmd, env.Log)
	if err != nil {
		return err
	}
	defer func() {
		if er := out.Close(); er != nil && err == nil {
			err = er
		}
	}()

	env.Log.Info("Writing stylesheet", zap.Strings("sources", paths), zap.String("file", fname))
	return writeStyles(out, env.Log, paths...)
}

func writeStyles(w io.Writer, log *zap.Logger, paths ...string) error {
	ss, err := docfile.LoadStylesheets(log, paths...)
	if err != nil {
		return fmt.Errorf("unable to load stylesheet: %w", err)
	}
	if _, err := ss.CSS().WriteTo(w); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return nil
}

// DumpConfig is the dumpconfig command: it writes either default or actual
// configuration.
func DumpConfig(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	var data []byte
	kind := "actual"
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	out, fname, err := destination(cmd, env.Log)
	if err != nil {
		return err
	}
	defer func() {
		if er := out.Close(); er != nil && err == nil {
			err = er
		}
	}()

	env.Log.Info("Writing configuration", zap.String("state", kind), zap.String("file", fname))
	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
