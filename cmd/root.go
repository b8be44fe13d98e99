package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/darcslog/config"
	"github.com/masmgr/darcslog/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "darcslog",
		Usage:   "Parse, fingerprint and compare darcs XML change logs",
		Version: "0.1.0",
		Commands: []*cli.Command{
			ParseCmd(),
			DigestCmd(),
			CompareCmd(),
			ExportCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (.json, .yaml or .yml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (trace, debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
			},
		},
		// Errors are reported once, by Run.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// filterFlags are shared by commands that select paths.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
	}
}

// parserFlags are shared by commands that read change logs.
func parserFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "encoding",
			Aliases: []string{"e"},
			Usage:   "Candidate encoding for patch names and comments, tried in order (can be specified multiple times)",
		},
		&cli.BoolFlag{
			Name:  "strict-inverted",
			Usage: "Reject inverted attributes other than True or False",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of change logs parsed concurrently (0 = GOMAXPROCS)",
		},
	}
}

// parseDateFlag parses a date string flag.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return &t, nil
}

// loadConfig loads configuration from file or defaults and applies CLI
// overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if encodings := c.StringSlice("encoding"); len(encodings) > 0 {
		cfg.Decoder.Encodings = encodings
	}
	if c.IsSet("strict-inverted") {
		cfg.Parser.StrictInverted = c.Bool("strict-inverted")
	}
	if c.IsSet("workers") {
		cfg.Parser.Workers = c.Int("workers")
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if format := c.String("log-format"); format != "" {
		cfg.Log.Format = format
	}
	if format := c.String("format"); format != "" {
		cfg.Output.Format = format
	}
	if c.IsSet("top") {
		cfg.Output.Top = c.Int("top")
	}

	if _, err := output.ParseFormat(cfg.Output.Format); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		code := 1
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
}
