package changelog

import (
	"context"
	"runtime"
	"sync"
)

// FileResult is the outcome of parsing one changelog file.
type FileResult struct {
	Path string
	List *ChangeSetList
	Err  error
}

// ParseFiles parses several changelogs concurrently. newParser is called
// once per path so each document can carry its own diagnostics and build
// identity. Results keep the order of paths; a failure in one document does
// not affect the others.
func ParseFiles(ctx context.Context, paths []string, workers int, newParser func(path string) *Parser) []FileResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if newParser == nil {
		newParser = func(string) *Parser { return NewParser() }
	}

	results := make([]FileResult, len(paths))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		results[i].Path = path

		select {
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i].List, results[i].Err = newParser(path).ParseFile(path)
		}(i, path)
	}

	wg.Wait()
	return results
}
