package curseforge

import (
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:     "add [slug|project ID]...",
	Short:   "Add mods from CurseForge by slug or project ID",
	Aliases: []string{"install", "get"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		client := newClientFromConfig()
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
			log.Warn().Strs("skipped", res.Skipped).Msg("Some mods were not added")
		}
		return nil
	},
}

func init() {
	curseforgeCmd.AddCommand(installCmd)
}
