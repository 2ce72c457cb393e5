package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type versionsOnly struct{}

func (versionsOnly) Accepts(c Candidate, cons Constraints) bool {
	return cons.SatisfiesVersions(c.GameVersions)
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

var fabric1201 = Constraints{Loader: "fabric", AcceptedVersions: []string{"1.20.1"}}

func TestSelectLatest(t *testing.T) {
	candidates := []Candidate{
		{ID: "A", GameVersions: []string{"1.20.1"}, Published: date("2023-01-01")},
		{ID: "B", GameVersions: []string{"1.20.1"}, Published: date("2023-06-01")},
	}

	best, ok := SelectLatest(candidates, versionsOnly{}, fabric1201)
	assert.True(t, ok)
	assert.Equal(t, "B", best.ID)
}

func TestSelectLatestSkipsIneligible(t *testing.T) {
	candidates := []Candidate{
		{ID: "old", GameVersions: []string{"1.20.1"}, Published: date("2023-01-01")},
		{ID: "newest", GameVersions: []string{"1.19.4"}, Published: date("2024-01-01")},
	}

	best, ok := SelectLatest(candidates, versionsOnly{}, fabric1201)
	assert.True(t, ok)
	assert.Equal(t, "old", best.ID)
}

func TestSelectLatestTieGoesToLastDeclared(t *testing.T) {
	candidates := []Candidate{
		{ID: "first", GameVersions: []string{"1.20.1"}, Published: date("2023-06-01")},
		{ID: "second", GameVersions: []string{"1.20.1"}, Published: date("2023-06-01")},
	}

	best, ok := SelectLatest(candidates, versionsOnly{}, fabric1201)
	assert.True(t, ok)
	assert.Equal(t, "second", best.ID)
}

func TestSelectLatestNoneEligible(t *testing.T) {
	_, ok := SelectLatest([]Candidate{{ID: "A", GameVersions: []string{"1.18.2"}}}, versionsOnly{}, fabric1201)
	assert.False(t, ok)

	_, ok = SelectLatest(nil, versionsOnly{}, fabric1201)
	assert.False(t, ok)
}

func TestSortVersions(t *testing.T) {
	versions := []string{"1.20.1", "1.9", "1.16.5", "1.20"}
	SortVersions(versions)
	assert.Equal(t, []string{"1.9", "1.16.5", "1.20", "1.20.1"}, versions)
}

func TestDedupeVersions(t *testing.T) {
	in := []string{"1.20.1", "1.19.4", "1.20.1"}
	assert.Equal(t, []string{"1.19.4", "1.20.1"}, DedupeVersions(in))
	assert.Equal(t, []string{"1.20.1", "1.19.4", "1.20.1"}, in, "input is not modified")
}

func TestConstraints(t *testing.T) {
	assert.True(t, fabric1201.SatisfiesLoader([]string{"Forge", "Fabric"}))
	assert.False(t, fabric1201.SatisfiesLoader([]string{"forge"}))
	assert.False(t, Constraints{}.SatisfiesLoader([]string{""}))

	assert.True(t, fabric1201.SatisfiesVersions([]string{"1.19.4", "1.20.1"}))
	assert.False(t, fabric1201.SatisfiesVersions([]string{"1.20"}))
	assert.False(t, fabric1201.SatisfiesVersions(nil))
}
