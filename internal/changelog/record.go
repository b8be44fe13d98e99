package changelog

// Record is one darcs patch. It is immutable: slice accessors return copies.
type Record struct {
	author    string
	date      string
	localDate string
	hash      string
	inverted  bool
	name      string
	comment   string
	added     []string
	deleted   []string
	modified  []string
}

// Author returns the patch author as recorded, usually "Name <email>".
func (r Record) Author() string { return r.author }

// Date returns the UTC timestamp in darcs' YYYYMMDDhhmmss form.
func (r Record) Date() string { return r.date }

// LocalDate returns the human-readable local timestamp.
func (r Record) LocalDate() string { return r.localDate }

// Hash returns the patch hash, the patch's identity within a log.
func (r Record) Hash() string { return r.hash }

// Inverted reports whether the patch undoes another patch.
func (r Record) Inverted() bool { return r.inverted }

// Name returns the one-line patch name.
func (r Record) Name() string { return r.name }

// Comment returns the long description without the Ignore-this marker.
func (r Record) Comment() string { return r.comment }

// Added returns the paths added by the patch, in log order.
func (r Record) Added() []string { return clonePaths(r.added) }

// Deleted returns the paths removed by the patch, in log order.
func (r Record) Deleted() []string { return clonePaths(r.deleted) }

// Modified returns the paths modified by the patch, in log order.
func (r Record) Modified() []string { return clonePaths(r.modified) }

// AffectedPaths returns added, deleted and modified paths in that order.
func (r Record) AffectedPaths() []string {
	paths := make([]string, 0, len(r.added)+len(r.deleted)+len(r.modified))
	paths = append(paths, r.added...)
	paths = append(paths, r.deleted...)
	paths = append(paths, r.modified...)
	return paths
}

func clonePaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}

// RecordBuilder accumulates one patch. Build freezes the current state into
// a Record; the builder may keep being used afterwards without affecting it.
type RecordBuilder struct {
	rec Record
}

// NewRecordBuilder starts a record with the identity fields every patch
// carries.
func NewRecordBuilder(author, date, localDate, hash string) *RecordBuilder {
	return &RecordBuilder{rec: Record{
		author:    author,
		date:      date,
		localDate: localDate,
		hash:      hash,
	}}
}

// Inverted sets whether the patch undoes another patch.
func (b *RecordBuilder) Inverted(v bool) *RecordBuilder {
	b.rec.inverted = v
	return b
}

// Name sets the patch name.
func (b *RecordBuilder) Name(name string) *RecordBuilder {
	b.rec.name = name
	return b
}

// Comment sets the long description.
func (b *RecordBuilder) Comment(comment string) *RecordBuilder {
	b.rec.comment = comment
	return b
}

// Add appends an added path.
func (b *RecordBuilder) Add(path string) *RecordBuilder {
	b.rec.added = append(b.rec.added, path)
	return b
}

// Delete appends a removed path.
func (b *RecordBuilder) Delete(path string) *RecordBuilder {
	b.rec.deleted = append(b.rec.deleted, path)
	return b
}

// Modify appends a modified path.
func (b *RecordBuilder) Modify(path string) *RecordBuilder {
	b.rec.modified = append(b.rec.modified, path)
	return b
}

// Move records a rename as a deletion of from followed by an addition of to.
func (b *RecordBuilder) Move(from, to string) *RecordBuilder {
	return b.Delete(from).Add(to)
}

// Build returns an independent snapshot of the accumulated record.
func (b *RecordBuilder) Build() Record {
	r := b.rec
	r.added = clonePaths(b.rec.added)
	r.deleted = clonePaths(b.rec.deleted)
	r.modified = clonePaths(b.rec.modified)
	return r
}
