package core

import (
	"time"

	"github.com/unascribed/FlexVer/go/flexver"
	"golang.org/x/exp/slices"
)

// Candidate is one file offered by a catalog, before a single file is selected
type Candidate struct {
	ID           string
	FileName     string
	URL          string
	GameVersions []string
	// Loaders is nil for catalogs that list loaders among the game versions
	Loaders   []string
	Published time.Time
	Hashes    map[string]string
}

// Eligibility decides whether a candidate can be installed in a pack with the given constraints.
// Each catalog has its own implementation, as they declare loaders differently.
type Eligibility interface {
	Accepts(c Candidate, cons Constraints) bool
}

// SelectLatest returns the eligible candidate with the latest publish date.
// When several share the latest date, the one declared last wins.
func SelectLatest(candidates []Candidate, eligibility Eligibility, cons Constraints) (Candidate, bool) {
	var best Candidate
	found := false
	for _, c := range candidates {
		if !eligibility.Accepts(c, cons) {
			continue
		}
		if !found || !c.Published.Before(best.Published) {
			best = c
			found = true
		}
	}
	return best, found
}

// SortVersions sorts game versions in place, oldest first
func SortVersions(versions []string) {
	flexver.VersionSlice(versions).Sort()
}

// DedupeVersions returns versions sorted oldest first, without duplicates
func DedupeVersions(versions []string) []string {
	out := slices.Clone(versions)
	SortVersions(out)
	return slices.Compact(out)
}
