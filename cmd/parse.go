package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/darcslog/internal/changelog"
	"github.com/masmgr/darcslog/internal/output"
)

const stdinPath = "-"

// ParseCmd returns the parse command.
func ParseCmd() *cli.Command {
	flags := append(filterFlags(), parserFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci, xml)",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of patches to show (0 = all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:  "build",
			Usage: "Build identity attached to the parsed change log",
		},
	)

	return &cli.Command{
		Name:      "parse",
		Aliases:   []string{"p"},
		Usage:     "Parse darcs XML change logs and print a report",
		ArgsUsage: "[file ...] (default: stdin)",
		Flags:     flags,
		Action:    parseAction,
	}
}

func parseAction(c *cli.Context) error {
	cc, err := NewCommandContext(c, "parse")
	if err != nil {
		return err
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{stdinPath}
	}
	if len(paths) > 1 && c.String("output") != "" {
		return fmt.Errorf("--output accepts a single input, got %d", len(paths))
	}

	results := parseAll(c, cc, paths, c.String("build"))

	var failed int
	for _, res := range results {
		log := cc.Log.WithField("source", res.Path)
		if res.Err != nil {
			failed++
			log.WithError(res.Err).Error("failed to parse change log")
			continue
		}

		records, err := cc.Filter.Records(res.List.Records())
		if err != nil {
			return err
		}
		list := changelog.NewChangeSetList(res.List.Build(), records)

		log.WithFields(logrus.Fields{
			"patches":  list.Len(),
			"warnings": res.Warnings,
		}).Debug("parsed change log")

		opts := cc.OutputOptions(c)
		writer := output.NewChangeLogReportWriter(opts.Format)
		if err := writer.Write(output.NewChangeLogReport(res.Path, list, res.Warnings), opts); err != nil {
			return fmt.Errorf("write report for %s: %w", res.Path, err)
		}
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d change logs failed to parse", failed, len(results)), 1)
	}
	return nil
}

// parsedFile is a parse result together with its warning count.
type parsedFile struct {
	changelog.FileResult
	Warnings int
}

// parseAll parses every path concurrently. "-" reads standard input. A path
// named more than once is parsed once and reported once per occurrence.
func parseAll(c *cli.Context, cc *CommandContext, paths []string, build string) []parsedFile {
	counters := make(map[string]*countingDiagnostics, len(paths))
	var files []string
	readStdin := false
	for _, p := range paths {
		if _, ok := counters[p]; ok {
			continue
		}
		counters[p] = &countingDiagnostics{next: changelog.NewLogDiagnostics(cc.Log, p)}
		if p == stdinPath {
			readStdin = true
		} else {
			files = append(files, p)
		}
	}

	fileResults := changelog.ParseFiles(c.Context, files, cc.Config.Parser.Workers, func(path string) *changelog.Parser {
		return cc.Parser(path, build, counters[path])
	})

	byPath := make(map[string]changelog.FileResult, len(fileResults)+1)
	for _, r := range fileResults {
		byPath[r.Path] = r
	}
	if readStdin {
		res := changelog.FileResult{Path: stdinPath}
		res.List, res.Err = cc.Parser(stdinPath, build, counters[stdinPath]).Parse(c.App.Reader)
		byPath[stdinPath] = res
	}

	results := make([]parsedFile, len(paths))
	for i, p := range paths {
		results[i] = parsedFile{FileResult: byPath[p], Warnings: counters[p].Count()}
	}
	return results
}

// parseOne parses a single path and fails on error.
func parseOne(c *cli.Context, cc *CommandContext, path string) (*changelog.ChangeSetList, error) {
	res := parseAll(c, cc, []string{path}, "")[0]
	if res.Err != nil {
		return nil, fmt.Errorf("%s: %w", path, res.Err)
	}
	return res.List, nil
}
