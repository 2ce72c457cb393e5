package cmdshared

import (
	"fmt"
	"path/filepath"

	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
)

// DownloadEntries makes sure every entry is present under baseDir with the right hash, one at a time.
// It stops at the first failure; entries that are already up to date are not downloaded again.
func DownloadEntries(entries []core.PackageEntry, baseDir string, dl *core.Downloader) (downloaded int, err error) {
	for _, entry := range entries {
		log.Info().Msgf("Processing %s...", entry.Name)
		if !core.ValidOutputPath(entry.OutputPath) {
			return downloaded, fmt.Errorf("refusing to write %s: output path %q is outside the mods folder", entry.Name, entry.OutputPath)
		}
		target := filepath.Join(baseDir, filepath.FromSlash(entry.OutputPath))
		fetched, err := dl.Ensure(target, entry.DownloadURL, entry.DownloadHash)
		if err != nil {
			return downloaded, err
		}
		if fetched {
			downloaded++
		} else {
			log.Info().Msgf("%s is already up to date", entry.OutputPath)
		}
	}
	return downloaded, nil
}
