package pathfilter

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/darcslog/internal/changelog"
)

// Filter selects paths by doublestar include and exclude globs.
type Filter struct {
	Include []string
	Exclude []string

	cache map[string]bool
}

// New validates the patterns and returns a filter.
func New(include, exclude []string) (*Filter, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return &Filter{Include: include, Exclude: exclude, cache: make(map[string]bool)}, nil
}

// Empty reports whether the filter accepts every path.
func (f *Filter) Empty() bool {
	return f == nil || (len(f.Include) == 0 && len(f.Exclude) == 0)
}

// Match reports whether path passes the filter. Exclusions win over
// inclusions; with no include patterns every non-excluded path matches.
func (f *Filter) Match(path string) (bool, error) {
	if f.Empty() {
		return true, nil
	}
	if f.cache == nil {
		f.cache = make(map[string]bool)
	}
	if v, ok := f.cache[path]; ok {
		return v, nil
	}

	normalized := strings.ReplaceAll(path, "\\", "/")
	result, err := f.match(normalized)
	if err != nil {
		return false, err
	}
	f.cache[path] = result
	return result, nil
}

func (f *Filter) match(path string) (bool, error) {
	for _, pattern := range f.Exclude {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}

	if len(f.Include) == 0 {
		return true, nil
	}

	for _, pattern := range f.Include {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("include pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}

	return false, nil
}

// Records keeps the records that touch at least one matching path.
// Records without any path are kept only when the filter is empty.
func (f *Filter) Records(records []changelog.Record) ([]changelog.Record, error) {
	if f.Empty() {
		return records, nil
	}

	kept := make([]changelog.Record, 0, len(records))
	for _, r := range records {
		for _, p := range r.AffectedPaths() {
			ok, err := f.Match(p)
			if err != nil {
				return nil, err
			}
			if ok {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept, nil
}
