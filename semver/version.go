// Package semver contains the version model used to branch mock behavior on the version of the
// hosted UI framework.
//
// It deliberately implements only the subset of https://semver.org/ that the framework's
// published versions use: a numeric major.minor.bugfix triple with an optional prerelease
// suffix. Build metadata is not part of the model.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	modsemver "golang.org/x/mod/semver"
)

// ErrMalformedVersion is returned when a version string or prerelease does not have the
// expected form.
var ErrMalformedVersion = errors.New("malformed version")

var versionRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(-(.+))?$`)

// Version is an immutable semantic version. An empty Prerelease means the version is a release.
type Version struct {
	Major      uint
	Minor      uint
	Bugfix     uint
	Prerelease string
}

// New creates a Version, validating the prerelease part.
func New(major, minor, bugfix uint, prerelease string) (Version, error) {
	if prerelease != "" {
		if strings.TrimSpace(prerelease) == "" {
			return Version{}, fmt.Errorf("%w: prerelease %q is blank", ErrMalformedVersion, prerelease)
		}
		if strings.HasPrefix(prerelease, "-") {
			return Version{}, fmt.Errorf("%w: prerelease %q starts with a dash", ErrMalformedVersion, prerelease)
		}
	}
	return Version{Major: major, Minor: minor, Bugfix: bugfix, Prerelease: prerelease}, nil
}

// Parse parses a string of the form "major.minor.bugfix[-prerelease]".
func Parse(text string) (Version, error) {
	m := versionRegex.FindStringSubmatch(text)
	if m == nil {
		return Version{}, fmt.Errorf("%w: the version must be in the form of major.minor.bugfix but is %q",
			ErrMalformedVersion, text)
	}
	var parts [3]uint
	for i := range parts {
		n, err := strconv.ParseUint(m[i+1], 10, 0)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %s", ErrMalformedVersion, text, err)
		}
		parts[i] = uint(n)
	}
	return New(parts[0], parts[1], parts[2], m[5])
}

// MustParse is like Parse but panics on error. It is intended for constants.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// FromModuleVersion converts a Go module version such as "v14.3.0" or
// "v2.1.0-beta.1+incompatible" into a Version. Build metadata is dropped.
func FromModuleVersion(v string) (Version, error) {
	if !modsemver.IsValid(v) {
		return Version{}, fmt.Errorf("%w: %q is not a valid module version", ErrMalformedVersion, v)
	}
	canonical := strings.TrimPrefix(modsemver.Canonical(v), "v")
	return Parse(canonical)
}

// IsRelease returns true if the version has no prerelease part.
func (v Version) IsRelease() bool {
	return v.Prerelease == ""
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to or after other.
// A release sorts after any prerelease with the same numeric triple.
func (v Version) Compare(other Version) int {
	if c := compareUint(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareUint(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareUint(v.Bugfix, other.Bugfix); c != 0 {
		return c
	}
	switch {
	case v.Prerelease == other.Prerelease:
		return 0
	case v.Prerelease == "":
		return 1
	case other.Prerelease == "":
		return -1
	case v.Prerelease < other.Prerelease:
		return -1
	default:
		return 1
	}
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// AtLeast reports whether v is equal to or newer than min.
func (v Version) AtLeast(min Version) bool {
	return v.Compare(min) >= 0
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Bugfix)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare is the function form of Version.Compare, convenient for sort.Slice and slices.SortFunc.
func Compare(a, b Version) int {
	return a.Compare(b)
}

func compareUint(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
