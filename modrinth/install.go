package modrinth

import (
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:     "add [slug|slug:versionID]...",
	Short:   "Add projects from Modrinth by slug or project ID, optionally pinned to a version ID",
	Aliases: []string{"install", "get"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		client := newClientFromConfig(viper.GetBool("modrinth.staging"))
		dl := core.NewDownloader()
		res, err := cmdshared.RunBatch(args, func(identifier string) error {
			log.Info().Msgf("Resolving %s...", identifier)
			sel, err := client.Resolve(identifier, pack.Constraints())
			if err != nil {
				return err
			}
			return cmdshared.AddSelection(&pack, sel, dl)
		})
		if err != nil {
			return err
		}
		if len(res.Skipped) > 0 {
			log.Warn().Strs("skipped", res.Skipped).Msg("Some projects were not added")
		}
		return nil
	},
}

func init() {
	modrinthCmd.AddCommand(installCmd)
}
