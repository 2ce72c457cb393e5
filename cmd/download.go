package cmd

import (
	"os"
	"path/filepath"

	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v4"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:     "download",
	Short:   "Download all mods in the pack, verifying their hashes",
	Aliases: []string{"download-mods"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		progress := mpb.New(mpb.WithOutput(os.Stderr))
		dl := core.NewDownloader(core.WithProgress(progress))
		baseDir := filepath.Dir(core.FlagsFromConfig().PackFile)

		downloaded, err := cmdshared.DownloadEntries(pack.Entries(), baseDir, dl)
		progress.Wait()
		if err != nil {
			return err
		}
		log.Info().Msgf("Downloaded %d of %d files", downloaded, pack.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
