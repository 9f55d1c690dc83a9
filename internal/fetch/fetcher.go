// Package fetch scrapes the PHP release catalog from the documentation source.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pvm/internal/catalog"
	"pvm/internal/progress"
)

// RootTaskName names the task tracking major-by-major progress.
const RootTaskName = "Fetching PHP versions"

var releaseHref = regexp.MustCompile(`/versions/.*/releases/(.*)`)

// ChildTaskName names the task tracking the release timeline of major.
func ChildTaskName(major string) string {
	return fmt.Sprintf("PHP %s releases", major)
}

// Fetch scrapes the index page and every release timeline, reporting progress
// through tr. Any failure aborts the whole fetch.
func (f *Fetcher) Fetch(ctx context.Context, tr *progress.Tracker) (*catalog.Catalog, error) {
	if tr == nil {
		tr = progress.Discard()
	}

	indexURL := f.indexURL()
	doc, err := f.document(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	items := doc.Find("div.version-item")
	root := tr.NewRoot(RootTaskName, items.Length())
	f.logger.Info("scraping index", "url", indexURL, "majors", items.Length())

	cat := catalog.New()
	for i := range items.Nodes {
		release, hasReleases, err := f.parseMajor(items.Eq(i))
		if err != nil {
			return nil, &Error{URL: indexURL, Err: fmt.Errorf("version item %d: %w", i+1, err)}
		}

		tr.Advance(root, 1)
		tr.Log(root, "Found PHP %s", release.Name)
		if details := f.describe(release); details != "" {
			tr.Log(root, "  %s", details)
		}

		if hasReleases {
			minors, err := f.fetchReleases(ctx, tr, release.Name)
			if err != nil {
				return nil, err
			}
			for _, m := range minors {
				release.AddMinor(m)
			}
		}
		cat.Add(release)
	}

	f.logger.Info("catalog scraped", "majors", cat.Len())
	return cat, nil
}

func (f *Fetcher) parseMajor(item *goquery.Selection) (catalog.Release, bool, error) {
	var r catalog.Release

	title := item.Find("h3.title").First()
	if title.Length() == 0 {
		return r, false, errors.New("missing version title")
	}
	r.Name = strings.TrimSpace(title.Text())
	if r.Name == "" {
		return r, false, errors.New("empty version title")
	}

	date, _, err := tagValue(item, "div.tag--release-date")
	if err != nil {
		return r, false, err
	}
	if r.Date, err = parseDate(date); err != nil {
		return r, false, fmt.Errorf("PHP %s: %w", r.Name, err)
	}

	label, _, err := tagValue(item, "div.tag--release-status")
	if err != nil {
		return r, false, err
	}
	if label != "" {
		status, ok := f.table.Lookup(label)
		if !ok {
			return r, false, fmt.Errorf("PHP %s: unknown status label %q", r.Name, label)
		}
		r.Status = &status
	}

	latest, hasReleases, err := tagValue(item, "div.tag--releases-list")
	if err != nil {
		return r, false, err
	}
	r.Latest = latest

	return r, hasReleases, nil
}

// tagValue returns the text of the second span inside the first element
// matching selector. A missing element is not an error; an element without a
// value span is.
func tagValue(item *goquery.Selection, selector string) (string, bool, error) {
	tag := item.Find(selector).First()
	if tag.Length() == 0 {
		return "", false, nil
	}
	spans := tag.Find("span")
	if spans.Length() < 2 {
		return "", true, fmt.Errorf("%s: expected a value span", selector)
	}
	return strings.TrimSpace(spans.Eq(1).Text()), true, nil
}

func (f *Fetcher) fetchReleases(ctx context.Context, tr *progress.Tracker, major string) ([]catalog.MinorRelease, error) {
	url := f.releasesURL(major)
	doc, err := f.document(ctx, url)
	if err != nil {
		return nil, err
	}

	// Future releases have no timeline; every anchor counts toward the target.
	anchors := doc.Find("div.timeline").First().Find("a")
	child := tr.NewChild(ChildTaskName(major), anchors.Length())

	var minors []catalog.MinorRelease
	for i := range anchors.Nodes {
		anchor := anchors.Eq(i)
		tr.Advance(child, 1)

		href, ok := anchor.Attr("href")
		if !ok {
			continue
		}
		match := releaseHref.FindStringSubmatch(href)
		if match == nil || match[1] == "" {
			continue
		}
		name := match[1]

		var dateText string
		if t := anchor.Parent().Parent().Find("time").First(); t.Length() > 0 {
			dateText = strings.TrimSpace(t.Text())
		}
		date, err := parseDate(dateText)
		if err != nil {
			return nil, &Error{URL: url, Err: fmt.Errorf("release %s: %w", name, err)}
		}

		minors = append(minors, catalog.MinorRelease{Name: name, Date: date})
		if date != nil {
			tr.Log(child, "  %s released %s", name, date.Format(catalog.DateLayout))
		} else {
			tr.Log(child, "  %s", name)
		}
	}
	f.logger.Debug("scraped releases", "major", major, "anchors", anchors.Length(), "releases", len(minors))
	return minors, nil
}

func (f *Fetcher) describe(r catalog.Release) string {
	var parts []string
	if r.Status != nil {
		parts = append(parts, f.table.Label(*r.Status))
	}
	if r.Date != nil {
		parts = append(parts, "released "+r.Date.Format(catalog.DateLayout))
	}
	if r.Latest != "" {
		parts = append(parts, "latest "+r.Latest)
	}
	return strings.Join(parts, ", ")
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(catalog.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", value)
	}
	return &t, nil
}
