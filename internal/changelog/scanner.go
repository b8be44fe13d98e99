package changelog

// Pattern is a precompiled Knuth-Morris-Pratt matcher for one needle.
// It is immutable after construction and safe for concurrent use.
type Pattern struct {
	needle  []byte
	failure []int
}

// NewPattern builds the failure function for needle.
func NewPattern(needle string) *Pattern {
	p := &Pattern{
		needle:  []byte(needle),
		failure: make([]int, len(needle)),
	}

	k := 0
	for i := 1; i < len(p.needle); i++ {
		for k > 0 && p.needle[i] != p.needle[k] {
			k = p.failure[k-1]
		}
		if p.needle[i] == p.needle[k] {
			k++
		}
		p.failure[i] = k
	}

	return p
}

// Len returns the needle length in bytes.
func (p *Pattern) Len() int {
	return len(p.needle)
}

// String returns the needle.
func (p *Pattern) String() string {
	return string(p.needle)
}

// FindNext returns the offset of the first occurrence of the needle at or
// after start.
func (p *Pattern) FindNext(haystack []byte, start int) (int, bool) {
	if start < 0 {
		start = 0
	}
	if len(p.needle) == 0 {
		if start <= len(haystack) {
			return start, true
		}
		return 0, false
	}

	k := 0
	for i := start; i < len(haystack); i++ {
		for k > 0 && haystack[i] != p.needle[k] {
			k = p.failure[k-1]
		}
		if haystack[i] == p.needle[k] {
			k++
		}
		if k == len(p.needle) {
			return i - k + 1, true
		}
	}

	return 0, false
}

// Before returns the offset where the next occurrence starts, or
// len(haystack) when there is none.
func (p *Pattern) Before(haystack []byte, start int) int {
	if i, ok := p.FindNext(haystack, start); ok {
		return i
	}
	return len(haystack)
}

// After returns the offset just past the next occurrence, or len(haystack)
// when there is none.
func (p *Pattern) After(haystack []byte, start int) int {
	if i, ok := p.FindNext(haystack, start); ok {
		return i + len(p.needle)
	}
	return len(haystack)
}
