// Package search provides approximate string matching over campground
// listings. It operates on the full collection in memory, which is a known
// scaling limit acceptable only at small data volumes.
package search

import (
	"sort"

	"trailhaven/internal/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MinQueryLength is the minimum number of characters a query must have to
// produce matches.
const MinQueryLength = 2

// Campgrounds ranks the given campgrounds against the query, matching
// approximately on name and location. Results are ordered best match first;
// campgrounds that do not match at all are excluded.
func Campgrounds(query string, items []models.Campground) []models.Campground {
	if len(query) < MinQueryLength {
		return nil
	}

	type scored struct {
		idx      int
		distance int
	}
	var matches []scored

	for i, cg := range items {
		best := -1
		for _, field := range []string{cg.Name, cg.Location} {
			d := fuzzy.RankMatchNormalizedFold(query, field)
			if d < 0 {
				continue
			}
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 {
			matches = append(matches, scored{idx: i, distance: best})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].distance < matches[b].distance
	})

	results := make([]models.Campground, 0, len(matches))
	for _, m := range matches {
		results = append(results, items[m.idx])
	}
	return results
}
