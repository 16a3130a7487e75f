// Package schema implements versioned media plan schema handling: parsing
// and comparing schema versions, resolving bundled schema definitions,
// classifying document versions against the supported range, structural and
// business-rule validation, and forward migration between versions.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a normalized two-component schema version. The zero value is
// not a valid version; construct through ParseVersion or MustParseVersion.
type Version struct {
	Major int
	Minor int
}

// String returns the canonical "major.minor" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0, or 1 ordering versions numerically by
// (major, minor). "10.0" sorts after "9.9".
func (v Version) Compare(o Version) int {
	if v.Major != o.Major {
		if v.Major < o.Major {
			return -1
		}
		return 1
	}
	if v.Minor != o.Minor {
		if v.Minor < o.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// SameMajor reports whether both versions share a major component.
func (v Version) SameMajor(o Version) bool { return v.Major == o.Major }

// ParseVersion normalizes a version string to its two-component form. It
// accepts a bare major ("2"), major.minor ("2.0"), an optional leading
// version marker ("v2.0"), and a trailing zero patch component ("2.0.0",
// kept for compatibility with the legacy three-part format). Anything else
// is an *InvalidVersionError.
func ParseVersion(text string) (Version, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Version{}, &InvalidVersionError{Input: text, Reason: "empty version string"}
	}

	cleaned := strings.TrimPrefix(strings.TrimPrefix(trimmed, "v"), "V")
	parts := strings.Split(cleaned, ".")
	if len(parts) > 3 {
		return Version{}, &InvalidVersionError{Input: text, Reason: "too many version components"}
	}

	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, &InvalidVersionError{Input: text, Reason: "version components must be non-negative integers"}
		}
		nums[i] = n
	}

	// A legacy patch component is tolerated only when it carries no
	// information; "2.0.1" has no two-component equivalent.
	if len(nums) == 3 && nums[2] != 0 {
		return Version{}, &InvalidVersionError{Input: text, Reason: "non-zero patch component cannot be normalized"}
	}

	v := Version{Major: nums[0]}
	if len(nums) > 1 {
		v.Minor = nums[1]
	}
	return v, nil
}

// MustParseVersion is ParseVersion for statically known inputs; it panics
// on malformed text.
func MustParseVersion(text string) Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}
