package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/darcslog/internal/changelog"
)

// DigestCmd returns the digest command.
func DigestCmd() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Aliases:   []string{"d"},
		Usage:     "Print the order-independent digest of each change log",
		ArgsUsage: "[file ...] (default: stdin)",
		Flags:     append(filterFlags(), parserFlags()...),
		Action:    digestAction,
	}
}

func digestAction(c *cli.Context) error {
	cc, err := NewCommandContext(c, "digest")
	if err != nil {
		return err
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{stdinPath}
	}

	var failed int
	for _, res := range parseAll(c, cc, paths, "") {
		if res.Err != nil {
			failed++
			cc.Log.WithField("source", res.Path).WithError(res.Err).Error("failed to parse change log")
			continue
		}
		records, err := cc.Filter.Records(res.List.Records())
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s  %s\n", changelog.Digest(records), res.Path)
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d change logs failed to parse", failed, len(paths)), 1)
	}
	return nil
}
