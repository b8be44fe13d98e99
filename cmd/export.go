package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/darcslog/internal/changelog"
	"github.com/masmgr/darcslog/internal/git"
)

// newRepositoryReader is swapped out in tests.
var newRepositoryReader = func(opts git.ReadOptions) (git.RepositoryReader, error) {
	return git.NewHistoryReader(opts)
}

// ExportCmd returns the export command.
func ExportCmd() *cli.Command {
	flags := append(filterFlags(),
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Branch to export (default: HEAD)",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Export commits since this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Export commits until this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	)

	return &cli.Command{
		Name:   "export",
		Usage:  "Write a darcs XML change log built from Git history",
		Flags:  flags,
		Action: exportAction,
	}
}

func exportAction(c *cli.Context) error {
	cc, err := NewCommandContext(c, "export")
	if err != nil {
		return err
	}

	since, err := parseDateFlag(c.String("since"))
	if err != nil {
		return err
	}
	until, err := parseDateFlag(c.String("until"))
	if err != nil {
		return err
	}

	repoPath := c.String("repo")
	reader, err := newRepositoryReader(git.ReadOptions{
		RepoPath: repoPath,
		Branch:   c.String("branch"),
		Since:    since,
		Until:    until,
		Include:  cc.Config.Filters.Include,
		Exclude:  cc.Config.Filters.Exclude,
	})
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	records, err := reader.ReadRecords(c.Context)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	var out io.Writer = c.App.Writer
	if path := c.String("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	if err := changelog.WriteXML(out, records); err != nil {
		return fmt.Errorf("failed to write change log: %w", err)
	}

	cc.Log.WithFields(logrus.Fields{
		"repo":    repoPath,
		"patches": len(records),
		"digest":  changelog.Digest(records),
	}).Info("exported change log")
	return nil
}
