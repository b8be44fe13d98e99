package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/masmgr/darcslog/internal/changelog"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func (r *testRepo) write(rel, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

func (r *testRepo) remove(rel string) {
	r.t.Helper()
	if _, err := r.wt.Remove(rel); err != nil {
		r.t.Fatalf("Remove: %v", err)
	}
}

func (r *testRepo) move(from, to string) {
	r.t.Helper()
	if _, err := r.wt.Move(from, to); err != nil {
		r.t.Fatalf("Move: %v", err)
	}
}

func (r *testRepo) commit(msg string, when time.Time) string {
	r.t.Helper()
	sig := &object.Signature{Name: "Test Author", Email: "test@example.com", When: when}
	hash, err := r.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func (r *testRepo) read(opts ReadOptions) []changelog.Record {
	r.t.Helper()
	opts.RepoPath = r.dir
	reader, err := NewHistoryReader(opts)
	if err != nil {
		r.t.Fatalf("NewHistoryReader: %v", err)
	}
	records, err := reader.ReadRecords(context.Background())
	if err != nil {
		r.t.Fatalf("ReadRecords: %v", err)
	}
	return records
}

func TestHistoryReader_ReadRecords(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

	rootHash := repo.commitFiles(t, base, "Initial import", map[string]string{
		"src/main.go":  "package main\n",
		"docs/old.md":  "# old docs that are long enough to be detected as a rename\n",
		"obsolete.txt": "bye\n",
	})

	repo.write("src/main.go", "package main\n\nfunc main() {}\n")
	repo.remove("obsolete.txt")
	repo.move("docs/old.md", "docs/new.md")
	headHash := repo.commit("Restructure\n\nMove docs and drop obsolete file.\n", base.Add(time.Hour))

	records := repo.read(ReadOptions{})
	if len(records) != 2 {
		t.Fatalf("records = %d, expected 2", len(records))
	}

	head, root := records[0], records[1]

	if head.Hash() != headHash || root.Hash() != rootHash {
		t.Fatalf("hashes = [%s %s], expected [%s %s]", head.Hash(), root.Hash(), headHash, rootHash)
	}
	if head.Author() != "Test Author <test@example.com>" {
		t.Errorf("Author() = %q", head.Author())
	}
	if head.Date() != "20240110130000" {
		t.Errorf("Date() = %q, expected 20240110130000", head.Date())
	}
	if head.Name() != "Restructure" {
		t.Errorf("Name() = %q, expected Restructure", head.Name())
	}
	if head.Comment() != "Move docs and drop obsolete file." {
		t.Errorf("Comment() = %q", head.Comment())
	}
	if head.Inverted() {
		t.Error("Inverted() = true, expected false")
	}

	assertSorted(t, "head added", head.Added(), []string{"docs/new.md"})
	assertSorted(t, "head deleted", head.Deleted(), []string{"docs/old.md", "obsolete.txt"})
	assertSorted(t, "head modified", head.Modified(), []string{"src/main.go"})

	assertSorted(t, "root added", root.Added(), []string{"docs/old.md", "obsolete.txt", "src/main.go"})
	if len(root.Deleted()) != 0 || len(root.Modified()) != 0 {
		t.Errorf("root deleted/modified = %q/%q, expected none", root.Deleted(), root.Modified())
	}
}

func TestHistoryReader_ReadRecords_Filters(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC)

	repo.commitFiles(t, base, "Add sources", map[string]string{
		"src/a.go":      "package a\n",
		"src/a_test.go": "package a\n",
	})
	repo.commitFiles(t, base.Add(time.Hour), "Docs only", map[string]string{
		"README.md": "hello\n",
	})

	records := repo.read(ReadOptions{Include: []string{"src/**"}, Exclude: []string{"**/*_test.go"}})
	if len(records) != 1 {
		t.Fatalf("records = %d, expected 1", len(records))
	}
	if records[0].Name() != "Add sources" {
		t.Errorf("Name() = %q, expected %q", records[0].Name(), "Add sources")
	}
	assertSorted(t, "added", records[0].Added(), []string{"src/a.go"})
}

func TestHistoryReader_ReadRecords_DateRange(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"one", "two", "three"} {
		repo.commitFiles(t, base.Add(time.Duration(i)*24*time.Hour), name, map[string]string{
			name + ".txt": name,
		})
	}

	since := base.Add(12 * time.Hour)
	until := base.Add(36 * time.Hour)
	records := repo.read(ReadOptions{Since: &since, Until: &until})

	if len(records) != 1 || records[0].Name() != "two" {
		var names []string
		for _, r := range records {
			names = append(names, r.Name())
		}
		t.Fatalf("names = %q, expected [two]", names)
	}
}

func TestHistoryReader_ReadRecords_Canceled(t *testing.T) {
	repo := newTestRepo(t)
	repo.commitFiles(t, time.Now(), "only", map[string]string{"a.txt": "a"})

	reader, err := NewHistoryReader(ReadOptions{RepoPath: repo.dir})
	if err != nil {
		t.Fatalf("NewHistoryReader: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := reader.ReadRecords(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, expected context.Canceled", err)
	}
}

func TestNewHistoryReader_Errors(t *testing.T) {
	if _, err := NewHistoryReader(ReadOptions{RepoPath: t.TempDir()}); err == nil {
		t.Error("expected error for a directory without a repository")
	}
	if _, err := NewHistoryReader(ReadOptions{RepoPath: t.TempDir(), Include: []string{"["}}); err == nil {
		t.Error("expected error for an invalid include glob")
	}
}

func TestHistoryReader_ExportRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2023, time.December, 24, 20, 30, 0, 0, time.FixedZone("CET", 3600))

	repo.commitFiles(t, base, "Ajouter le café", map[string]string{"menu/café.txt": "noir"})
	repo.commitFiles(t, base.Add(time.Minute), "Tweak <menu> & prices\n\nSee \"notes\".", map[string]string{"menu/café.txt": "crème"})

	records := repo.read(ReadOptions{})

	var buf bytes.Buffer
	if err := changelog.WriteXML(&buf, records); err != nil {
		t.Fatalf("WriteXML: %v", err)
	}

	parsed, err := changelog.ParseBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseBytes: %v\n%s", err, buf.String())
	}

	want := changelog.NewChangeSetList("", records)
	if !parsed.Equal(want) {
		t.Fatalf("digest = %s, expected %s", parsed.Digest(), want.Digest())
	}
	if got := parsed.At(0).Name(); got != "Tweak <menu> & prices" {
		t.Errorf("Name() = %q", got)
	}
	if got := parsed.At(0).Comment(); got != `See "notes".` {
		t.Errorf("Comment() = %q", got)
	}
	if got := parsed.At(1).LocalDate(); !strings.HasPrefix(got, "Sun Dec 24 20:30:00 ") || got != records[1].LocalDate() {
		t.Errorf("LocalDate() = %q", got)
	}
}

func (r *testRepo) commitFiles(t *testing.T, when time.Time, msg string, files map[string]string) string {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		r.write(name, files[name])
	}
	return r.commit(msg, when)
}

func assertSorted(t *testing.T, label string, got, expected []string) {
	t.Helper()
	got = slices.Clone(got)
	slices.Sort(got)
	if !slices.Equal(got, expected) {
		t.Errorf("%s = %q, expected %q", label, got, expected)
	}
}
