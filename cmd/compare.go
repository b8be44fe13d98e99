package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/darcslog/internal/changelog"
)

// CompareCmd returns the compare command.
func CompareCmd() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Aliases:   []string{"c"},
		Usage:     "Compare the patch sets of two change logs (exit 1 when they differ)",
		ArgsUsage: "<a> <b>",
		Flags:     append(filterFlags(), parserFlags()...),
		Action:    compareAction,
	}
}

func compareAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("compare needs exactly two change logs, got %d", c.NArg())
	}

	cc, err := NewCommandContext(c, "compare")
	if err != nil {
		return err
	}

	a, err := filteredList(c, cc, c.Args().Get(0))
	if err != nil {
		return err
	}
	b, err := filteredList(c, cc, c.Args().Get(1))
	if err != nil {
		return err
	}

	if a.Equal(b) {
		fmt.Fprintf(c.App.Writer, "equal %s (%d patches)\n", a.Digest(), a.Len())
		return nil
	}

	fmt.Fprintf(c.App.Writer, "differ %s %s\n", a.Digest(), b.Digest())
	writeHashDiff(c.App.Writer, a, b)
	return cli.Exit("", 1)
}

func filteredList(c *cli.Context, cc *CommandContext, path string) (*changelog.ChangeSetList, error) {
	list, err := parseOne(c, cc, path)
	if err != nil {
		return nil, err
	}
	records, err := cc.Filter.Records(list.Records())
	if err != nil {
		return nil, err
	}
	return changelog.NewChangeSetList(list.Build(), records), nil
}

// writeHashDiff lists patches present on only one side, in log order.
func writeHashDiff(w io.Writer, a, b *changelog.ChangeSetList) {
	onlyIn := func(list, other *changelog.ChangeSetList) []changelog.Record {
		seen := make(map[string]struct{}, other.Len())
		for _, r := range other.All() {
			seen[r.Hash()] = struct{}{}
		}
		var out []changelog.Record
		for _, r := range list.All() {
			if _, ok := seen[r.Hash()]; !ok {
				out = append(out, r)
			}
		}
		return out
	}

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	for _, r := range onlyIn(a, b) {
		red.Fprintf(w, "- %s %s\n", r.Hash(), r.Name())
	}
	for _, r := range onlyIn(b, a) {
		green.Fprintf(w, "+ %s %s\n", r.Hash(), r.Name())
	}
}
