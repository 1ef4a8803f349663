// Package main provides the npy command line tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	Version   = "development"
	BuildTime = "unknown"
)

// runner carries the resolved configuration into the command actions.
type runner struct {
	out    io.Writer
	logger *logrus.Logger
	cfg    config
}

func newApp(out io.Writer, logger *logrus.Logger) *cli.App {
	r := &runner{out: out, logger: logger, cfg: defaultConfig()}

	return &cli.App{
		Name:    "npy",
		Usage:   "Inspect, dump, create and verify NumPy .npy array files",
		Version: Version + "." + BuildTime,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", TakesFile: true, Usage: "Load settings from a TOML file", EnvVars: []string{"NPY_CONFIG"}},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Set log level (panic, fatal, error, warn, info, debug, trace)", EnvVars: []string{"NPY_LOG_LEVEL"}},
			&cli.IntFlag{Name: "concurrency", Usage: "Maximum number of files processed at once", EnvVars: []string{"NPY_CONCURRENCY"}},
			&cli.StringFlag{Name: "validation", Usage: "Header validation level (strict, normal, none)", EnvVars: []string{"NPY_VALIDATION"}},
		},
		Before: r.before,
		Commands: []*cli.Command{
			r.inspectCommand(),
			r.dumpCommand(),
			r.createCommand(),
			r.verifyCommand(),
			r.versionCommand(),
		},
		// Errors are returned from Run instead of exiting inside it.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// before resolves configuration: defaults, then the config file, then flags.
func (r *runner) before(c *cli.Context) error {
	if path := c.String("config"); path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}
		r.cfg = cfg
	}
	if c.IsSet("log-level") {
		if err := r.cfg.setLogLevel(c.String("log-level")); err != nil {
			return err
		}
	}
	if c.IsSet("concurrency") {
		if err := r.cfg.setConcurrency(c.Int("concurrency")); err != nil {
			return err
		}
	}
	if c.IsSet("validation") {
		if err := r.cfg.setValidation(c.String("validation")); err != nil {
			return err
		}
	}

	r.logger.SetLevel(r.cfg.LogLevel)
	r.logger.WithFields(logrus.Fields{
		"concurrency": r.cfg.Concurrency,
		"validation":  r.cfg.Validation.String(),
		"digest":      string(r.cfg.Digest),
	}).Debug("Resolved configuration")
	return nil
}

func (r *runner) versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version",
		Action: func(*cli.Context) error {
			fmt.Fprintf(r.out, "npy %s (built %s)\n", Version, BuildTime)
			return nil
		},
	}
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	app := newApp(os.Stdout, logrus.StandardLogger())
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
