// fluentgen generates fluent builders for the structs of a schema file.
//
//	fluentgen generate --schema dashboard.cue --out generated
//	fluentgen plan --schema dashboard.cue
//	fluentgen targets
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/syssam/fluentgen/compiler/gen"
	"github.com/syssam/fluentgen/compiler/load"
	"github.com/syssam/fluentgen/compiler/targets"
	"github.com/syssam/fluentgen/schema"
)

// errDiagnostics is returned when some builders could not be generated.
var errDiagnostics = errors.New("some builders could not be generated")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "fluentgen:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	app := &cli.App{
		Name:      "fluentgen",
		Usage:     "generate fluent builders from a schema",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug events",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "generate builders and write them to the output directory",
				Flags:  generateFlags(),
				Action: runGenerate,
			},
			{
				Name:   "plan",
				Usage:  "print the compiled builder plan of every struct",
				Flags:  []cli.Flag{schemaFlag(), configFlag()},
				Action: runPlan,
			},
			{
				Name:   "targets",
				Usage:  "list the built-in targets",
				Action: runTargets,
			},
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app.RunContext(ctx, args)
}

func schemaFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "schema",
		Aliases:  []string{"s"},
		Usage:    "schema file (.yaml, .cue, .graphql)",
		Required: true,
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML configuration file",
	}
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		schemaFlag(),
		configFlag(),
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output directory",
		},
		&cli.StringSliceFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   "target to generate, repeatable (default: all)",
		},
		&cli.StringFlag{
			Name:  "package",
			Usage: "package of the generated builders (default: the schema package)",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of parallel workers",
		},
		&cli.StringFlag{
			Name:  "build",
			Usage: "what build methods return: copy or shared",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "regenerate when the schema or configuration changes",
		},
	}
}

func logger(cctx *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if cctx.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cctx.App.ErrWriter, &slog.HandlerOptions{Level: level}))
}

// config assembles the configuration: the configuration file first, then
// the command-line flags, then the schema package when none was set.
func config(cctx *cli.Context, s *schema.Schema, log *slog.Logger) (*gen.Config, error) {
	opts := []gen.Option{gen.WithLogger(log)}
	if path := cctx.String("config"); path != "" {
		fileOpts, err := gen.LoadOptions(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOpts...)
	}
	if cctx.IsSet("out") {
		opts = append(opts, gen.WithOutput(cctx.String("out")))
	}
	if cctx.IsSet("target") {
		opts = append(opts, gen.WithTargets(cctx.StringSlice("target")...))
	}
	if cctx.IsSet("package") {
		opts = append(opts, gen.WithPackage(cctx.String("package")))
	}
	if cctx.IsSet("workers") {
		opts = append(opts, gen.WithWorkers(cctx.Int("workers")))
	}
	if cctx.IsSet("build") {
		mode, err := gen.ParseBuildMode(cctx.String("build"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithBuildMode(mode))
	}
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Package == "" && s.Package != "" {
		if err := cfg.Apply(gen.WithPackage(s.Package)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runGenerate(cctx *cli.Context) error {
	log := logger(cctx)
	if !cctx.Bool("watch") {
		return generate(cctx, log)
	}
	if err := generate(cctx, log); err != nil {
		log.Error("generation failed", "error", err)
	}
	files := []string{cctx.String("schema")}
	if path := cctx.String("config"); path != "" {
		files = append(files, path)
	}
	log.Info("watching for changes", "files", files)
	return watch(cctx.Context, log, files, defaultDebounce, func() {
		if err := generate(cctx, log); err != nil {
			log.Error("generation failed", "error", err)
		}
	})
}

func generate(cctx *cli.Context, log *slog.Logger) error {
	s, err := load.File(cctx.String("schema"))
	if err != nil {
		return err
	}
	cfg, err := config(cctx, s, log)
	if err != nil {
		return err
	}
	reg, err := targets.Builtin(cfg)
	if err != nil {
		return err
	}
	p, err := gen.NewPipeline(cfg, reg)
	if err != nil {
		return err
	}
	res, err := p.Run(cctx.Context, s)
	if err != nil {
		return err
	}
	w := gen.NewWriter(cfg.Output).WithWorkers(cfg.Workers).WithLogger(log)
	if err := w.Write(cctx.Context, res); err != nil {
		return err
	}
	m := w.Metrics()
	fmt.Fprintf(cctx.App.Writer, "%d builders generated in %s: %d written, %d unchanged, %d removed\n",
		len(res.Artifacts), cfg.Output, m.FilesWritten, m.FilesUnchanged, m.FilesRemoved)
	if errs := res.Errors(); len(errs) > 0 {
		for _, d := range errs {
			fmt.Fprintln(cctx.App.ErrWriter, d)
		}
		return fmt.Errorf("%w: %d errors", errDiagnostics, len(errs))
	}
	return nil
}

func runPlan(cctx *cli.Context) error {
	log := logger(cctx)
	s, err := load.File(cctx.String("schema"))
	if err != nil {
		return err
	}
	cfg, err := config(cctx, s, log)
	if err != nil {
		return err
	}
	reg, err := targets.Builtin(cfg)
	if err != nil {
		return err
	}
	p, err := gen.NewPipeline(cfg, reg)
	if err != nil {
		return err
	}
	plans, diags, err := p.Plans(cctx.Context, s)
	if err != nil {
		return err
	}
	for _, pl := range plans {
		fmt.Fprint(cctx.App.Writer, pl)
	}
	for _, d := range diags {
		fmt.Fprintln(cctx.App.ErrWriter, d)
	}
	if len(diags) > 0 {
		return fmt.Errorf("%w: %d errors", errDiagnostics, len(diags))
	}
	return nil
}

func runTargets(cctx *cli.Context) error {
	for _, name := range targets.Names() {
		fmt.Fprintln(cctx.App.Writer, name)
	}
	return nil
}
