package github

import (
	"errors"

	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
)

// ghUpdater never proposes updates: a GitHub entry is pinned to its release tag.
// Re-add the mod with a newer tag to move it forward.
type ghUpdater struct{}

func (u ghUpdater) CheckUpdate(entry core.PackageEntry, _ core.Constraints) (*core.Selection, error) {
	ref, ok := entry.Update.(core.GitHubRef)
	if !ok {
		return nil, errors.New("entry " + entry.Name + " was not added from github")
	}
	log.Debug().Str("tag", ref.Tag).Msgf("%s is pinned to a release tag", entry.Name)
	return nil, nil
}
