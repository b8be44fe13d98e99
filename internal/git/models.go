package git

import (
	"strings"
	"time"
)

const (
	// DateLayout is the darcs patch date, always rendered in UTC.
	DateLayout = "20060102150405"
	// LocalDateLayout is the human-readable date in the committer's zone.
	LocalDateLayout = "Mon Jan _2 15:04:05 MST 2006"
)

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// String renders the author the way darcs stores it.
func (a AuthorInfo) String() string {
	switch {
	case a.Email == "":
		return a.Name
	case a.Name == "":
		return a.Email
	default:
		return a.Name + " <" + a.Email + ">"
	}
}

// FormatDate returns the darcs date and local date for a commit time.
func FormatDate(when time.Time) (date, localDate string) {
	return when.UTC().Format(DateLayout), when.Format(LocalDateLayout)
}

// SplitMessage splits a commit message into its subject line and body.
// Blank lines between the two and trailing whitespace are dropped.
func SplitMessage(message string) (name, comment string) {
	subject, body, _ := strings.Cut(message, "\n")
	name = strings.TrimRight(subject, " \t\r")
	comment = strings.TrimRight(strings.TrimLeft(body, "\r\n"), " \t\r\n")
	return name, comment
}

// ReadOptions configures the history reader.
type ReadOptions struct {
	RepoPath string
	Branch   string // Empty means HEAD
	Since    *time.Time
	Until    *time.Time
	Include  []string // Glob patterns to include
	Exclude  []string // Glob patterns to exclude
}
