package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/masmgr/darcslog/internal/changelog"
	"github.com/masmgr/darcslog/internal/pathfilter"
)

// HistoryReader reads commit history from a Git repository.
type HistoryReader struct {
	repo   *git.Repository
	opts   ReadOptions
	filter *pathfilter.Filter
}

// NewHistoryReader creates a new history reader for the given repository.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	filter, err := pathfilter.New(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", opts.RepoPath, err)
	}
	return &HistoryReader{repo: repo, opts: opts, filter: filter}, nil
}

// ReadRecords walks history from the selected branch, newest first, and
// returns one record per commit that touches a path passing the filter.
func (r *HistoryReader) ReadRecords(ctx context.Context) ([]changelog.Record, error) {
	from, err := r.resolveStart()
	if err != nil {
		return nil, err
	}

	logOpts := &git.LogOptions{From: from}
	if r.opts.Since != nil {
		logOpts.Since = r.opts.Since
	}
	if r.opts.Until != nil {
		logOpts.Until = r.opts.Until
	}

	cIter, err := r.repo.Log(logOpts)
	if err != nil {
		return nil, err
	}

	var results []changelog.Record

	err = cIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, ok, err := r.commitRecord(ctx, c)
		if err != nil {
			return fmt.Errorf("commit %s: %w", c.Hash, err)
		}
		if ok {
			results = append(results, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *HistoryReader) resolveStart() (plumbing.Hash, error) {
	rev := strings.TrimSpace(r.opts.Branch)
	if rev == "" {
		ref, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return ref.Hash(), nil
	}

	if ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(rev), true); err == nil {
		return ref.Hash(), nil
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve %q: %w", rev, err)
	}
	return *hash, nil
}

// commitRecord diffs a commit against its first parent. Root commits are
// diffed against the empty tree so every file shows up as added.
func (r *HistoryReader) commitRecord(ctx context.Context, c *object.Commit) (changelog.Record, bool, error) {
	tree, err := c.Tree()
	if err != nil {
		return changelog.Record{}, false, err
	}

	parentTree := &object.Tree{}
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return changelog.Record{}, false, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return changelog.Record{}, false, err
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return changelog.Record{}, false, err
	}

	author := AuthorInfo{Name: c.Author.Name, Email: c.Author.Email}
	date, localDate := FormatDate(c.Author.When)
	name, comment := SplitMessage(c.Message)

	b := changelog.NewRecordBuilder(author.String(), date, localDate, c.Hash.String()).
		Name(name).
		Comment(comment)

	var filterErr error
	touched := 0
	apply := func(path string, record func(string) *changelog.RecordBuilder) {
		if filterErr != nil {
			return
		}
		ok, err := r.filter.Match(path)
		if err != nil {
			filterErr = err
			return
		}
		if ok {
			touched++
			record(path)
		}
	}

	for _, ch := range changes {
		fromPath, toPath := ch.From.Name, ch.To.Name

		switch {
		case fromPath == "":
			apply(toPath, b.Add)
		case toPath == "":
			apply(fromPath, b.Delete)
		case fromPath != toPath:
			// Renames become a delete of the old path and an add of the new one.
			apply(fromPath, b.Delete)
			apply(toPath, b.Add)
		default:
			apply(toPath, b.Modify)
		}
	}
	if filterErr != nil {
		return changelog.Record{}, false, filterErr
	}

	if touched == 0 && !r.filter.Empty() {
		return changelog.Record{}, false, nil
	}
	return b.Build(), true, nil
}
