package changelog

import "strings"

// trackingMarker prefixes the bookkeeping line darcs injects into comments.
const trackingMarker = "Ignore-this:"

// StripTrackingMarker removes the darcs "Ignore-this:" block from a comment.
// The marker block ends at the first blank line; a comment holding only the
// marker becomes empty.
func StripTrackingMarker(comment string) string {
	if !strings.HasPrefix(comment, trackingMarker) {
		return comment
	}
	_, rest, found := strings.Cut(comment[len(trackingMarker):], "\n\n")
	if !found {
		return ""
	}
	return rest
}
