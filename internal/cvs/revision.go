package cvs

import (
	"strconv"
	"strings"

	cvsgiterrors "cvsgit.dev/cvsgit/internal/errors"
)

// Revision is a CVS dotted revision number such as 1.4, 1.4.2.3 or the magic
// branch number 1.4.0.2. The zero value is Empty.
type Revision string

// Empty denotes a file that does not yet exist.
const Empty Revision = ""

// ParseRevision validates a revision string and returns it in canonical form.
// An empty string parses as Empty.
func ParseRevision(text string) (Revision, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Empty, nil
	}

	parts := strings.Split(text, ".")
	if len(parts) < 2 || len(parts)%2 != 0 {
		return Empty, cvsgiterrors.NewRevisionError(text, "expected an even number of components")
	}

	parsed := make([]int, len(parts))
	for i, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return Empty, cvsgiterrors.NewRevisionError(text, "components must be non-negative integers")
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Empty, cvsgiterrors.NewRevisionError(text, "component out of range")
		}
		parsed[i] = n
	}

	// canonical form, so 1.02 and 1.2 are the same map key
	return fromParts(parsed), nil
}

// MustParseRevision is like ParseRevision but panics on malformed input.
func MustParseRevision(text string) Revision {
	r, err := ParseRevision(text)
	if err != nil {
		panic(err)
	}
	return r
}

// Parts returns the numeric components of the revision.
func (r Revision) Parts() []int {
	if r == Empty {
		return nil
	}

	fields := strings.Split(string(r), ".")
	parts := make([]int, len(fields))
	for i, field := range fields {
		parts[i], _ = strconv.Atoi(field)
	}
	return parts
}

// IsEmpty returns true for the Empty revision
func (r Revision) IsEmpty() bool {
	return r == Empty
}

// IsBranch returns true if the revision is a magic branch number (e.g. 1.4.0.2)
func (r Revision) IsBranch() bool {
	parts := r.Parts()
	return len(parts) > 2 && len(parts)%2 == 0 && parts[len(parts)-2] == 0
}

// BranchStem returns the revision a branch was cut from. Both the magic branch
// number 1.4.0.2 and the branch revision 1.4.2.3 have the stem 1.4. Revisions on
// MAIN have no stem.
func (r Revision) BranchStem() Revision {
	parts := r.Parts()
	if len(parts) <= 2 {
		return Empty
	}
	return fromParts(parts[:len(parts)-2])
}

// BranchNumber returns the number identifying the branch a revision lives on.
// The magic branch number 1.4.0.2 and the branch revision 1.4.2.3 both give 1.4.2.
// Revisions on MAIN have no branch number.
func (r Revision) BranchNumber() Revision {
	parts := r.Parts()
	if len(parts) <= 2 {
		return Empty
	}
	if r.IsBranch() {
		number := append(append([]int{}, parts[:len(parts)-2]...), parts[len(parts)-1])
		return fromParts(number)
	}
	return fromParts(parts[:len(parts)-1])
}

// DirectlyPrecedes returns true if other is the revision that immediately
// follows r in a file's history: the next revision on the same line, the first
// revision of a file when r is Empty, or the first revision of a branch cut
// from r.
func (r Revision) DirectlyPrecedes(other Revision) bool {
	mine := r.Parts()
	theirs := other.Parts()
	if len(theirs) == 0 {
		return false
	}

	if len(mine) == 0 {
		return theirs[len(theirs)-1] == 1
	}

	if len(mine) == len(theirs) {
		return samePrefix(mine, theirs, len(mine)-1) && mine[len(mine)-1]+1 == theirs[len(theirs)-1]
	}

	if len(theirs) == len(mine)+2 {
		return samePrefix(mine, theirs, len(mine)) && theirs[len(theirs)-1] == 1
	}

	return false
}

// Precedes returns true if r is at or before other in other's lineage, i.e. r is
// other itself, an earlier revision on the same line, or a revision on a line
// that other's branch descends from, at or before the branch stem.
func (r Revision) Precedes(other Revision) bool {
	mine := r.Parts()
	if len(mine) == 0 {
		return true
	}

	theirs := other.Parts()
	for len(theirs) >= len(mine) {
		if len(theirs) == len(mine) {
			return samePrefix(mine, theirs, len(mine)-1) && mine[len(mine)-1] <= theirs[len(theirs)-1]
		}
		theirs = theirs[:len(theirs)-2]
	}
	return false
}

// String returns the dotted form of the revision
func (r Revision) String() string {
	return string(r)
}

func fromParts(parts []int) Revision {
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strconv.Itoa(p)
	}
	return Revision(strings.Join(fields, "."))
}

func samePrefix(a, b []int, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
