package changelog

import (
	"crypto/md5"
	"encoding/hex"
	"iter"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ChangeSetList is the ordered history read from one changelog. It is never
// mutated after construction, so it may be shared between goroutines.
type ChangeSetList struct {
	records []Record
	build   string

	digestOnce sync.Once
	digest     string
}

// NewChangeSetList wraps a copy of records. build is an opaque identity of
// the build or poll the history belongs to and may be empty.
func NewChangeSetList(build string, records []Record) *ChangeSetList {
	owned := make([]Record, len(records))
	copy(owned, records)
	return &ChangeSetList{records: owned, build: build}
}

// Build returns the opaque build identity passed at construction.
func (l *ChangeSetList) Build() string { return l.build }

// Len returns the number of records.
func (l *ChangeSetList) Len() int { return len(l.records) }

// IsEmpty reports whether the list has no records.
func (l *ChangeSetList) IsEmpty() bool { return len(l.records) == 0 }

// At returns the i-th record in log order.
func (l *ChangeSetList) At(i int) Record { return l.records[i] }

// Records returns a copy of the records in log order.
func (l *ChangeSetList) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// All iterates the records in log order.
func (l *ChangeSetList) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range l.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Digest returns the memoized content digest of the list.
func (l *ChangeSetList) Digest() string {
	l.digestOnce.Do(func() {
		l.digest = Digest(l.records)
	})
	return l.digest
}

// Equal reports whether both lists carry the same set of patch hashes.
func (l *ChangeSetList) Equal(other *ChangeSetList) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.Digest() == other.Digest()
}

// HashCode returns a hash consistent with Equal.
func (l *ChangeSetList) HashCode() uint64 {
	return xxhash.Sum64String(l.Digest())
}

// Digest returns the lower-hex MD5 of the concatenated record hashes.
// Hashes are sorted first, so the result does not depend on record order.
func Digest(records []Record) string {
	hashes := make([]string, len(records))
	for i, r := range records {
		hashes[i] = r.hash
	}
	sort.Strings(hashes)

	h := md5.New()
	for _, s := range hashes {
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}
