package migrate

import (
	"net/http"
	"strings"

	"github.com/packit/packit/cmd"
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var minecraftCommand = &cobra.Command{
	Use:     "minecraft [version]...",
	Short:   "Replace the Minecraft versions your pack accepts",
	Aliases: []string{"mc"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		wanted := core.DedupeVersions(args)
		if strings.Join(wanted, ",") == strings.Join(pack.AcceptedVersions, ",") {
			log.Info().Msgf("Minecraft versions are already %s!", strings.Join(wanted, ", "))
			return nil
		}

		manifest, err := cmdshared.GetValidMCVersions(&http.Client{})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to get Minecraft versions, not checking they exist")
		} else {
			for _, v := range wanted {
				if !manifest.IsValid(v) {
					log.Warn().Msgf("%s is not a known Minecraft version", v)
				}
			}
		}

		pack.AcceptedVersions = wanted
		if err := pack.Save(core.FlagsFromConfig().PackFile); err != nil {
			return err
		}
		log.Info().Msgf("Minecraft versions changed to %s", strings.Join(wanted, ", "))

		if cmdshared.PromptYesNo("Would you like to update your mods to the latest versions for these Minecraft versions? [Y/n] ") {
			viper.Set("update.all", true)
			return cmd.UpdateCmd.RunE(cmd.UpdateCmd, nil)
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(minecraftCommand)
}
