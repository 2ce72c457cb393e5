package curseforge

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/packit/packit/curseforge/murmur2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Add untracked .jar files in the mods folder by matching their CurseForge fingerprints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}
		flags := core.FlagsFromConfig()
		modsDir := filepath.Join(filepath.Dir(flags.PackFile), filepath.FromSlash(core.CleanModsFolder(flags.ModsFolder)))

		paths, err := untrackedJars(modsDir, pack)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			log.Info().Msg("No untracked files found")
			return nil
		}
		log.Info().Msgf("Found %d untracked files, submitting...", len(paths))

		client := newClientFromConfig()
		found, unmatched, err := client.Detect(paths)
		if err != nil {
			return err
		}
		for _, p := range unmatched {
			log.Warn().Str("path", p).Msg("No CurseForge file matches")
		}
		dl := core.NewDownloader()
		for _, sel := range found {
			if err := cmdshared.AddSelection(&pack, sel, dl); err != nil {
				return err
			}
		}
		log.Info().Msgf("Matched %d of %d files", len(found), len(paths))
		return nil
	},
}

// untrackedJars lists the .jar files under dir that no pack entry writes to
func untrackedJars(dir string, pack core.Pack) ([]string, error) {
	tracked := make(map[string]bool)
	for _, e := range pack.Entries() {
		tracked[filepath.Base(e.OutputPath)] = true
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".jar") || tracked[d.Name()] {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return paths, err
}

// Fingerprint returns the CurseForge fingerprint of the file at path
func Fingerprint(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	h := murmur2.New()
	_, _ = h.Write(data)
	return h.Sum32(), nil
}

// Detect matches local files against CurseForge by fingerprint, returning a Selection for each exact match
// and the paths that had no match. The official API is required, so an API key must be configured.
func (c *Client) Detect(paths []string) ([]*core.Selection, []string, error) {
	if c.api.apiKey == "" {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("detecting files needs a CurseForge API key, set curseforge.api-key")
	}

	byFingerprint := make(map[uint32]string, len(paths))
	fingerprints := make([]uint32, 0, len(paths))
	for _, p := range paths {
		fp, err := Fingerprint(p)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("path", p).Uint32("fingerprint", fp).Msg("Hashed")
		if _, ok := byFingerprint[fp]; !ok {
			fingerprints = append(fingerprints, fp)
		}
		byFingerprint[fp] = p
	}

	res, err := c.api.getFingerprintInfo(fingerprints)
	if err != nil {
		return nil, nil, err
	}

	var found []*core.Selection
	matched := make(map[uint32]bool)
	for _, m := range res.ExactMatches {
		path, ok := byFingerprint[m.File.Fingerprint]
		if !ok || matched[m.File.Fingerprint] {
			continue
		}
		if len(m.File.DownloadURL) == 0 {
			log.Warn().Str("path", path).Msgf("%s can't be downloaded from CurseForge by third-party tools", m.File.FileName)
			continue
		}
		info, err := c.api.getModInfo(m.ID)
		if err != nil {
			return nil, nil, err
		}
		hash, ok := m.File.sha1()
		if !ok {
			// The local bytes are the matched file
			if hash, err = core.HashFile(path); err != nil {
				return nil, nil, err
			}
		}
		url, err := core.ReencodeURL(m.File.DownloadURL)
		if err != nil {
			return nil, nil, err
		}
		matched[m.File.Fingerprint] = true
		found = append(found, &core.Selection{
			Name:     info.Slug,
			Title:    info.Name,
			FileName: m.File.FileName,
			URL:      url,
			Hash:     hash,
			Update:   core.CurseforgeRef{AddonID: m.ID, FileID: m.File.ID},
		})
	}

	var unmatched []string
	for _, fp := range fingerprints {
		if !matched[fp] {
			unmatched = append(unmatched, byFingerprint[fp])
		}
	}
	return found, unmatched, nil
}

func init() {
	curseforgeCmd.AddCommand(detectCmd)
}
