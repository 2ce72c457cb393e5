package migrate

import (
	"github.com/packit/packit/cmd"
	"github.com/spf13/cobra"
)

// migrateCmd represents the base command when called without any subcommands
var migrateCmd = &cobra.Command{
	Use:   "migrate [minecraft|loader]",
	Short: "Migrate your pack to a different Minecraft version or mod loader",
}

func init() {
	cmd.Add(migrateCmd)
}
