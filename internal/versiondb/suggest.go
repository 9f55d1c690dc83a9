package versiondb

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"pvm/internal/catalog"
)

const maxSuggestions = 3

// suggest returns known versions that look like requested: names containing
// it as a subsequence, and names within a small edit distance.
func suggest(requested string, cat *catalog.Catalog) []string {
	var names []string
	for _, r := range cat.Majors() {
		names = append(names, r.Name)
		for _, m := range r.Releases {
			names = append(names, m.Name)
		}
	}
	if requested == "" || len(names) == 0 {
		return nil
	}

	limit := len(requested) / 3
	if limit < 1 {
		limit = 1
	}

	type candidate struct {
		name     string
		distance int
	}
	seen := make(map[string]bool)
	var candidates []candidate
	add := func(name string, distance int) {
		if seen[name] {
			return
		}
		seen[name] = true
		candidates = append(candidates, candidate{name: name, distance: distance})
	}

	for _, rank := range fuzzy.RankFindFold(requested, names) {
		add(rank.Target, rank.Distance)
	}
	for _, name := range names {
		if d := fuzzy.LevenshteinDistance(requested, name); d <= limit {
			add(name, d)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	var out []string
	for _, c := range candidates {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.name)
	}
	return out
}
