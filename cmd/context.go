package cmd

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/darcslog/config"
	"github.com/masmgr/darcslog/internal/changelog"
	"github.com/masmgr/darcslog/internal/logger"
	"github.com/masmgr/darcslog/internal/output"
	"github.com/masmgr/darcslog/internal/pathfilter"
)

// CommandContext holds common state for command execution.
type CommandContext struct {
	Config    *config.Config
	Log       *logrus.Entry
	Filter    *pathfilter.Filter
	Encodings []*changelog.Encoding
}

// NewCommandContext loads configuration, sets up logging and resolves the
// encodings and path filter shared by every command.
func NewCommandContext(c *cli.Context, component string) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	var logOut io.Writer = os.Stderr
	if c.App != nil && c.App.ErrWriter != nil {
		logOut = c.App.ErrWriter
	}
	entry, err := logger.Init(logOut, logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	encodings, err := changelog.LookupEncodings(cfg.Decoder.Encodings)
	if err != nil {
		return nil, fmt.Errorf("invalid encoding: %w", err)
	}

	filter, err := pathfilter.New(cfg.Filters.Include, cfg.Filters.Exclude)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Config:    cfg,
		Log:       logger.WithComponent(entry, component),
		Filter:    filter,
		Encodings: encodings,
	}, nil
}

// Parser builds a parser for one document, logging its warnings under the
// document path.
func (cc *CommandContext) Parser(source, build string, diag changelog.Diagnostics) *changelog.Parser {
	if diag == nil {
		diag = changelog.NewLogDiagnostics(cc.Log, source)
	}
	return changelog.NewParser(
		changelog.WithEncodings(cc.Encodings...),
		changelog.WithDiagnostics(diag),
		changelog.WithBuild(build),
		changelog.WithStrictInverted(cc.Config.Parser.StrictInverted),
	)
}

// OutputOptions creates OutputOptions from the merged configuration.
func (cc *CommandContext) OutputOptions(c *cli.Context) output.OutputOptions {
	format, _ := output.ParseFormat(cc.Config.Output.Format)
	return output.OutputOptions{
		Format:     format,
		Top:        cc.Config.Output.Top,
		OutputPath: c.String("output"),
		Writer:     c.App.Writer,
	}
}

// countingDiagnostics forwards warnings and counts them.
type countingDiagnostics struct {
	next  changelog.Diagnostics
	count atomic.Int64
}

func (d *countingDiagnostics) Warn(warning error) {
	d.count.Add(1)
	d.next.Warn(warning)
}

func (d *countingDiagnostics) Count() int {
	return int(d.count.Load())
}
