package cmd

import (
	"testing"

	"github.com/packit/packit/core"
	"github.com/stretchr/testify/assert"
)

func testPack() core.Pack {
	pack := core.NewPack("Test", "", []string{"1.20.1"}, "fabric")
	for _, name := range []string{"jei", "sodium", "lithium"} {
		pack.Add(core.PackageEntry{Name: name, OutputPath: "mods/" + name + ".jar"})
	}
	return pack
}

func TestRemoveEntries(t *testing.T) {
	pack := testPack()
	removed := removeEntries(&pack, []string{"jei", "sodum", "lithium"})
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"sodium"}, pack.Names())
}

func TestClosestName(t *testing.T) {
	names := testPack().Names()

	match, ok := closestName("sodum", names)
	assert.True(t, ok)
	assert.Equal(t, "sodium", match)

	_, ok = closestName("xyz", names)
	assert.False(t, ok)
}
