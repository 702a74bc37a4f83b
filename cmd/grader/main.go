package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/gradelab/grader/internal/csvgath"
	"github.com/gradelab/grader/internal/environment"
	"github.com/gradelab/grader/internal/review"
	"github.com/gradelab/grader/internal/session"
	"github.com/gradelab/grader/internal/termgath"
	"github.com/gradelab/grader/internal/testspec"
	"github.com/gradelab/grader/internal/transcript"
	"github.com/gradelab/grader/natsgath"
	"github.com/gradelab/grader/sqsgath"
)

func main() {
	cmd := &cli.Command{
		Name:  "grader",
		Usage: "grade student submissions against an assignment spec",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "TOML config file"},
			&cli.StringFlag{Name: "spec", Aliases: []string{"s"}, Usage: "assignment spec file"},
			&cli.StringFlag{Name: "submissions", Aliases: []string{"d"}, Usage: "directory of submissions, one per student"},
			&cli.StringFlag{Name: "start-at", Usage: "resume the batch from this student"},
			&cli.BoolFlag{Name: "ignore-spacing", Usage: "ignore whitespace in output comparisons"},
			&cli.BoolFlag{Name: "partners", Usage: "detect partner names in submission headers"},
			&cli.StringFlag{Name: "csv", Usage: "gradebook CSV path", Value: "gradebook.csv"},
			&cli.StringFlag{Name: "transcript", Usage: "zstd session transcript path"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *cli.Command) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	cfg, err := environment.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(cfg, c)

	if cfg.SpecPath == "" {
		return fmt.Errorf("no spec file given (use --spec or the config file)")
	}
	if cfg.SubmissionsDir == "" {
		return fmt.Errorf("no submissions directory given (use --submissions or the config file)")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Dir(cfg.SpecPath)
	}

	spec, err := testspec.ParseFile(cfg.SpecPath)
	if err != nil {
		return err
	}
	logger.Info("parsed assignment spec",
		"assignment", spec.Name, "target", spec.TargetFile, "runs", len(spec.Runs))

	reader, err := review.NewReadlineReader(os.TempDir())
	if err != nil {
		return fmt.Errorf("failed to initialize input: %w", err)
	}
	defer reader.Close()
	reviewer := review.New(reader, os.Stdout)

	sessionUuid := uuid.NewString()
	gatherers, cleanup, err := buildGatherers(cfg, sessionUuid, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var tw *transcript.Writer
	if cfg.TranscriptPath != "" {
		tw, err = transcript.New(cfg.TranscriptPath)
		if err != nil {
			return err
		}
		defer tw.Close()
	}

	sess := session.New(session.Config{
		Uuid:           sessionUuid,
		SubmissionsDir: cfg.SubmissionsDir,
		DataDir:        cfg.DataDir,
		StartAt:        cfg.StartAt,
		IgnoreSpacing:  cfg.IgnoreSpacing,
		Partners:       cfg.Partners,
		RunCommand:     cfg.RunCommand,
		Timeout:        cfg.Timeout(),
	}, spec, reviewer, gatherers, tw, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			sess.Interrupt()
		}
	}()

	return sess.Run(ctx)
}

func applyFlags(cfg *environment.Config, c *cli.Command) {
	if v := c.String("spec"); v != "" {
		cfg.SpecPath = v
	}
	if v := c.String("submissions"); v != "" {
		cfg.SubmissionsDir = v
	}
	if v := c.String("start-at"); v != "" {
		cfg.StartAt = v
	}
	if c.Bool("ignore-spacing") {
		cfg.IgnoreSpacing = true
	}
	if c.Bool("partners") {
		cfg.Partners = true
	}
	if c.IsSet("csv") || cfg.CsvPath == "" {
		cfg.CsvPath = c.String("csv")
	}
	if v := c.String("transcript"); v != "" {
		cfg.TranscriptPath = v
	}
}

// buildGatherers wires every configured grade sink: the terminal always,
// the gradebook CSV, and the SQS/NATS publishers when endpoints are set.
func buildGatherers(cfg *environment.Config, sessionUuid string, logger *slog.Logger) (session.MultiGatherer, func(), error) {
	gatherers := session.MultiGatherer{termgath.New()}
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.CsvPath != "" {
		cg, err := csvgath.New(cfg.CsvPath)
		if err != nil {
			return nil, cleanup, err
		}
		gatherers = append(gatherers, cg)
		closers = append(closers, func() {
			if err := cg.Close(); err != nil {
				logger.Error("failed to close gradebook", "err", err)
			}
		})
	}

	if cfg.SqsQueueUrl != "" {
		sg, err := sqsgath.NewSqsGradeGatherer(sessionUuid, cfg.SqsQueueUrl)
		if err != nil {
			return nil, cleanup, err
		}
		gatherers = append(gatherers, sg)
	}

	if cfg.NatsUrl != "" {
		nc, err := nats.Connect(cfg.NatsUrl)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		gatherers = append(gatherers, natsgath.New(nc, sessionUuid, cfg.NatsSubject))
		closers = append(closers, nc.Close)
	}

	return gatherers, cleanup, nil
}
