package cmd

import (
	"fmt"

	"github.com/packit/packit/cmdshared"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all the mods in the modpack",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		source := viper.GetString("list.source")
		for _, entry := range pack.Entries() {
			if source != "" && (entry.Update == nil || entry.Update.Type() != source) {
				continue
			}
			if viper.GetBool("list.version") {
				fmt.Printf("%s (%s)\n", entry.Name, entry.OutputPath)
			} else {
				fmt.Println(entry.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("version", "v", false, "Print name and output path")
	_ = viper.BindPFlag("list.version", listCmd.Flags().Lookup("version"))
	listCmd.Flags().StringP("source", "s", "", "Only list mods added from a source (cf, mr or gh)")
	_ = viper.BindPFlag("list.source", listCmd.Flags().Lookup("source"))
}
