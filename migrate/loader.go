package migrate

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var loaderCommand = &cobra.Command{
	Use:   "loader [loader]",
	Short: "Change the mod loader your pack targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		loader := strings.ToLower(strings.TrimSpace(args[0]))
		if len(loader) == 0 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("loader must not be empty")
		}
		if loader == pack.Loader {
			log.Info().Msgf("Loader is already %s!", loader)
			return nil
		}

		pack.Loader = loader
		if err := pack.Save(core.FlagsFromConfig().PackFile); err != nil {
			return err
		}
		log.Info().Msgf("Loader changed to %s, run packit update --all to find compatible mod files", loader)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(loaderCommand)
}
