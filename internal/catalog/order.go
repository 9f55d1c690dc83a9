package catalog

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// SortedMinors returns r's point releases newest first. Names that are not
// valid versions sort after the versioned ones, by name.
func SortedMinors(r Release) []MinorRelease {
	out := make([]MinorRelease, len(r.Releases))
	copy(out, r.Releases)
	sort.SliceStable(out, func(i, j int) bool {
		return versionGreater(out[i].Name, out[j].Name)
	})
	return out
}

// SortedMajors returns the catalog's majors newest first.
func SortedMajors(c *Catalog) []Release {
	out := c.Majors()
	sort.SliceStable(out, func(i, j int) bool {
		return versionGreater(out[i].Name, out[j].Name)
	})
	return out
}

func versionGreater(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.GreaterThan(vb)
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a > b
	}
}
