// Package catalog models the PHP release catalog scraped from the documentation
// source and persists it to the local cache file.
package catalog

import "time"

// DateLayout is the date format used by the documentation source and the cache.
const DateLayout = "2006-01-02"

// MinorRelease is a concrete point release within a major line.
type MinorRelease struct {
	Name string
	Date *time.Time
}

// Release describes a major release line.
type Release struct {
	Name   string
	Date   *time.Time
	Status *Status
	// Latest is the most recent point release; empty when unknown.
	Latest   string
	Releases []MinorRelease
}

// AddMinor appends m, replacing an existing release with the same name in place.
func (r *Release) AddMinor(m MinorRelease) {
	for i := range r.Releases {
		if r.Releases[i].Name == m.Name {
			r.Releases[i] = m
			return
		}
	}
	r.Releases = append(r.Releases, m)
}

// Minor returns the point release called name.
func (r Release) Minor(name string) (MinorRelease, bool) {
	for _, m := range r.Releases {
		if m.Name == name {
			return m, true
		}
	}
	return MinorRelease{}, false
}

// Catalog maps major names to releases, keeping discovery order.
type Catalog struct {
	order  []string
	majors map[string]Release
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{majors: map[string]Release{}}
}

// Add stores r under its name. Re-adding a name replaces the release but keeps
// its original position.
func (c *Catalog) Add(r Release) {
	if c.majors == nil {
		c.majors = map[string]Release{}
	}
	if _, exists := c.majors[r.Name]; !exists {
		c.order = append(c.order, r.Name)
	}
	c.majors[r.Name] = r
}

// Len returns the number of majors.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Names returns major names in discovery order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Majors returns the releases in discovery order.
func (c *Catalog) Majors() []Release {
	if c == nil {
		return nil
	}
	out := make([]Release, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.majors[name])
	}
	return out
}

// Major returns the release line called name.
func (c *Catalog) Major(name string) (Release, bool) {
	if c == nil {
		return Release{}, false
	}
	r, ok := c.majors[name]
	return r, ok
}

// HasMajor reports whether name is a known major.
func (c *Catalog) HasMajor(name string) bool {
	_, ok := c.Major(name)
	return ok
}

// HasMinor reports whether any major lists a point release called name.
func (c *Catalog) HasMinor(name string) bool {
	_, _, ok := c.FindMinor(name)
	return ok
}

// FindMinor locates a point release and the major that owns it.
func (c *Catalog) FindMinor(name string) (Release, MinorRelease, bool) {
	if c == nil {
		return Release{}, MinorRelease{}, false
	}
	for _, major := range c.order {
		r := c.majors[major]
		if m, ok := r.Minor(name); ok {
			return r, m, true
		}
	}
	return Release{}, MinorRelease{}, false
}
