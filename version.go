package natsproto

import (
	"strconv"
	"strings"
)

// Version is a parsed INFO "version" string: "M[.m[.p]][-dev]".
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
	Dev   string
}

// String renders the canonical "M.m.p" or "M.m.p-dev" form.
func (v Version) String() string {
	s := strconv.FormatUint(uint64(v.Major), 10) + "." +
		strconv.FormatUint(uint64(v.Minor), 10) + "." +
		strconv.FormatUint(uint64(v.Patch), 10)
	if v.Dev != "" {
		s += "-" + v.Dev
	}
	return s
}

// Compare orders two versions by (Major, Minor, Patch, Dev), Dev
// compared as a plain string. It returns -1, 0 or 1.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return cmpUint32(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return cmpUint32(v.Minor, other.Minor)
	}
	if v.Patch != other.Patch {
		return cmpUint32(v.Patch, other.Patch)
	}
	return strings.Compare(v.Dev, other.Dev)
}

// Less reports whether v orders strictly before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

func cmpUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseVersion decodes "M[.m[.p]][-dev]". An empty string decodes to
// {0,0,0,"unknown"}. 1 to 3 dotted numeric components are accepted;
// 4 or more, or any non-numeric component, return a *VersionError.
func ParseVersion(version string) (Version, error) {
	if version == "" {
		return Version{Dev: "unknown"}, nil
	}

	var dev string
	parts := strings.Split(version, "-")
	if len(parts) > 1 {
		dev = parts[1]
	}

	tokens := strings.Split(parts[0], ".")
	if len(tokens) > 3 {
		return Version{}, &VersionError{Input: version}
	}

	var v Version
	v.Dev = dev
	major, err := strconv.ParseUint(tokens[0], 10, 32)
	if err != nil {
		return Version{}, &VersionError{Input: version}
	}
	v.Major = uint32(major)
	if len(tokens) > 1 {
		minor, err := strconv.ParseUint(tokens[1], 10, 32)
		if err != nil {
			return Version{}, &VersionError{Input: version}
		}
		v.Minor = uint32(minor)
	}
	if len(tokens) > 2 {
		patch, err := strconv.ParseUint(tokens[2], 10, 32)
		if err != nil {
			return Version{}, &VersionError{Input: version}
		}
		v.Patch = uint32(patch)
	}
	return v, nil
}
