package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wdm0006/classimpute/internal/config"
	"github.com/wdm0006/classimpute/internal/logging"
	"github.com/wdm0006/classimpute/internal/server"
	"github.com/wdm0006/classimpute/pkg/impute"
	"github.com/wdm0006/classimpute/pkg/io/csvio"
	iox "github.com/wdm0006/classimpute/pkg/io/ioutils"
	"github.com/wdm0006/classimpute/pkg/io/tableio"
	"github.com/wdm0006/classimpute/pkg/profile"
	"github.com/wdm0006/classimpute/pkg/report"
)

var version = "0.1.0-dev"

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// run is main without the process exit so it can be driven from tests.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("classimpute", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		showVersion = fs.Bool("version", false, "Print version and exit")
		configPath  = fs.String("config", "", "Path to config file (.json, .yaml, .toml)")
		input       = fs.String("input", "", "Input table path (- for stdin)")
		target      = fs.String("target", "", "Target (class) column")
		output      = fs.String("output", "", "Output path (default <input>_imputed.csv next to the input)")
		inputType   = fs.String("type", "", "Input type: csv|tsv|jsonl|parquet|xlsx (default from extension)")
		outputType  = fs.String("output-type", "", "Output type (default from output extension)")
		reportFmt   = fs.String("report", "", "Report format: text|json|none")
		policy      = fs.String("policy", "", "Degenerate class policy: leave_null|error")
		strategy    = fs.String("strategy", "", "Numeric statistic: median|mean")
		placeholder = fs.String("placeholder", "", "Fallback value for categorical classes without observations")
		showProfile = fs.Bool("profile", false, "Print column profiles before and after imputation")
		serve       = fs.String("serve", "", "Serve the HTTP API on this address instead of running once")
		logLevel    = fs.String("log-level", "", "Log level: debug|info|warn|error")
		logFormat   = fs.String("log-format", "", "Log format: console|json")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, "classimpute", version)
		return exitOK
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFail
	}
	// explicitly set flags win over file and environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = *input
		case "target":
			cfg.Target = *target
		case "output":
			cfg.Output.Path = *output
		case "type":
			cfg.Input.Type = *inputType
		case "output-type":
			cfg.Output.Type = *outputType
		case "report":
			cfg.Report = *reportFmt
		case "policy":
			cfg.Impute.Policy = *policy
		case "strategy":
			cfg.Impute.Strategy = *strategy
		case "placeholder":
			cfg.Impute.Placeholder = *placeholder
		case "serve":
			cfg.Server.Addr = *serve
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-format":
			cfg.Logging.Format = *logFormat
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	if *serve != "" {
		err = serveHTTP(ctx, cfg, logger)
	} else {
		err = runOnce(ctx, cfg, logger, *showProfile, stdout, stderr)
	}
	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue):
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return exitUsage
	default:
		fmt.Fprintln(stderr, "error:", err)
		return exitFail
	}
}

func engineOptions(cfg *config.Config, logger *zap.Logger) ([]impute.Option, error) {
	policy, err := impute.ParseDegeneratePolicy(cfg.Impute.Policy)
	if err != nil {
		return nil, usageError{err.Error()}
	}
	strategy, err := impute.ParseNumericStrategy(cfg.Impute.Strategy)
	if err != nil {
		return nil, usageError{err.Error()}
	}
	return []impute.Option{
		impute.WithLogger(logger),
		impute.WithPlaceholder(cfg.Impute.Placeholder),
		impute.WithDegeneratePolicy(policy),
		impute.WithNumericStrategy(strategy),
	}, nil
}

func runOnce(ctx context.Context, cfg *config.Config, logger *zap.Logger, showProfile bool, stdout, stderr io.Writer) error {
	if cfg.Input.Path == "" {
		return usageError{"no input given; use -input <file> or a config file"}
	}
	if cfg.Target == "" {
		return usageError{"no target column given; use -target <column>"}
	}
	opts, err := engineOptions(cfg, logger)
	if err != nil {
		return err
	}
	ropt, err := readOptions(cfg)
	if err != nil {
		return err
	}

	f, err := tableio.ReadFile(cfg.Input.Path, ropt)
	if err != nil {
		return impute.ParseFailure(err)
	}
	logger.Info("table loaded", zap.String("input", cfg.Input.Path), zap.Int("rows", f.Rows()), zap.Int("columns", f.Cols()))

	outPath := cfg.Output.Path
	if outPath == "" {
		outPath = defaultOutput(cfg.Input.Path)
	}
	// keep stdout clean for the table when it is written there
	reportOut := stdout
	if outPath == "-" {
		reportOut = stderr
	}

	if showProfile {
		fmt.Fprintln(reportOut, "Before:")
		if err := profile.Of(f, 5).WriteText(reportOut); err != nil {
			return err
		}
	}

	pipe, err := cfg.Pipeline()
	if err != nil {
		return err
	}
	if pipe.Len() > 0 {
		// steps rewrite in place; work on a copy so f stays as read
		if f, err = pipe.Run(ctx, f.Clone()); err != nil {
			return err
		}
	}

	res, err := impute.New(opts...).Run(ctx, f, cfg.Target)
	if err != nil {
		return err
	}

	var outFormat tableio.Format
	if cfg.Output.Type != "" {
		if outFormat, err = tableio.ParseFormat(cfg.Output.Type); err != nil {
			return usageError{err.Error()}
		}
	} else if outPath == "-" {
		outFormat = tableio.CSV
	}
	if err := tableio.WriteFile(outPath, res.Frame, outFormat); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	logger.Info("table written", zap.String("output", outPath))

	switch cfg.Report {
	case "json":
		err = report.WriteJSON(reportOut, res)
	case "none":
	default:
		err = report.WriteText(reportOut, res)
	}
	if err != nil {
		return err
	}
	if showProfile {
		fmt.Fprintln(reportOut, "After:")
		return profile.Of(res.Frame, 5).WriteText(reportOut)
	}
	return nil
}

func readOptions(cfg *config.Config) (tableio.Options, error) {
	opt := tableio.Options{
		Sheet: cfg.Input.Sheet,
		CSV: csvio.ReaderOptions{
			HasHeader:  !cfg.Input.NoHeader,
			NullValues: cfg.Input.NullValues,
			ParseTimes: cfg.Input.ParseTimes,
		},
	}
	if cfg.Input.Delimiter != "" {
		opt.CSV.Delimiter = []rune(cfg.Input.Delimiter)[0]
	}
	if cfg.Input.Type != "" {
		ft, err := tableio.ParseFormat(cfg.Input.Type)
		if err != nil {
			return opt, usageError{err.Error()}
		}
		opt.Format = ft
	} else if cfg.Input.Path == "-" {
		opt.Format = tableio.CSV
	}
	return opt, nil
}

// defaultOutput places "<name>_imputed.csv" next to the input; stdin input
// goes to stdout.
func defaultOutput(input string) string {
	if input == "-" {
		return "-"
	}
	base := filepath.Base(iox.TrimGzipExt(input))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(input), name+"_imputed.csv")
}

func serveHTTP(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	strategy, err := impute.ParseNumericStrategy(cfg.Impute.Strategy)
	if err != nil {
		return usageError{err.Error()}
	}
	srv := server.New(server.Options{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Placeholder:  cfg.Impute.Placeholder,
		Strategy:     strategy,
		Logger:       logger,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
