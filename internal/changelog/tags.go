package changelog

// Tag is an element of the darcs XML changelog.
type Tag int

const (
	TagUnknown Tag = iota
	TagChangelog
	TagPatch
	TagName
	TagComment
	TagSummary
	TagModifyFile
	TagAddFile
	TagRemoveFile
	TagMove
	TagAddedLines
	TagRemovedLines
	TagAddDirectory
	TagRemoveDirectory
)

var tagNames = map[string]Tag{
	"changelog":        TagChangelog,
	"patch":            TagPatch,
	"name":             TagName,
	"comment":          TagComment,
	"summary":          TagSummary,
	"modify_file":      TagModifyFile,
	"add_file":         TagAddFile,
	"remove_file":      TagRemoveFile,
	"move":             TagMove,
	"added_lines":      TagAddedLines,
	"removed_lines":    TagRemovedLines,
	"add_directory":    TagAddDirectory,
	"remove_directory": TagRemoveDirectory,
}

// ParseTag maps an element name to its Tag, or TagUnknown.
func ParseTag(name string) Tag {
	return tagNames[name]
}

// String returns the element name.
func (t Tag) String() string {
	switch t {
	case TagChangelog:
		return "changelog"
	case TagPatch:
		return "patch"
	case TagName:
		return "name"
	case TagComment:
		return "comment"
	case TagSummary:
		return "summary"
	case TagModifyFile:
		return "modify_file"
	case TagAddFile:
		return "add_file"
	case TagRemoveFile:
		return "remove_file"
	case TagMove:
		return "move"
	case TagAddedLines:
		return "added_lines"
	case TagRemovedLines:
		return "removed_lines"
	case TagAddDirectory:
		return "add_directory"
	case TagRemoveDirectory:
		return "remove_directory"
	default:
		return "unknown"
	}
}

// state is the parser position, keyed on the innermost open element.
type state int

const (
	stateIdle state = iota
	stateInPatch
	stateInName
	stateInComment
	stateInSummary
	stateInModifyFile
	stateInAddFile
	stateInRemoveFile
	stateInMoveFile
	stateInAddedLines
	stateInRemovedLines
	stateInAddDirectory
	stateInRemoveDirectory
)

// stateFor returns the state entered when t opens. ok is false for tags
// that do not change state (the root element and unknown elements).
func stateFor(t Tag) (s state, ok bool) {
	switch t {
	case TagPatch:
		return stateInPatch, true
	case TagName:
		return stateInName, true
	case TagComment:
		return stateInComment, true
	case TagSummary:
		return stateInSummary, true
	case TagModifyFile:
		return stateInModifyFile, true
	case TagAddFile:
		return stateInAddFile, true
	case TagRemoveFile:
		return stateInRemoveFile, true
	case TagMove:
		return stateInMoveFile, true
	case TagAddedLines:
		return stateInAddedLines, true
	case TagRemovedLines:
		return stateInRemovedLines, true
	case TagAddDirectory:
		return stateInAddDirectory, true
	case TagRemoveDirectory:
		return stateInRemoveDirectory, true
	case TagChangelog, TagUnknown:
		return 0, false
	}
	return 0, false
}

// accumulates reports whether character data is collected in s.
func (s state) accumulates() bool {
	switch s {
	case stateInName, stateInComment, stateInModifyFile, stateInAddFile,
		stateInRemoveFile, stateInAddDirectory, stateInRemoveDirectory,
		stateInAddedLines, stateInRemovedLines:
		return true
	}
	return false
}

// verbatim reports whether whitespace is kept in s.
func (s state) verbatim() bool {
	return s == stateInName || s == stateInComment
}
