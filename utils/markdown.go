package utils

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/viper"
)

// markdownCmd represents the markdown command
var markdownCmd = &cobra.Command{
	Use:     "markdown",
	Short:   "Generate markdown documentation for every command",
	Aliases: []string{"md"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir := viper.GetString("utils.markdown.dir")
		if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
			return err
		}
		cmd.Root().DisableAutoGenTag = true
		if err := doc.GenMarkdownTree(cmd.Root(), outDir); err != nil {
			return err
		}
		log.Info().Msgf("Generated markdown in %s", outDir)
		return nil
	},
}

func init() {
	utilsCmd.AddCommand(markdownCmd)

	markdownCmd.Flags().String("dir", ".", "The destination directory to save docs in")
	_ = viper.BindPFlag("utils.markdown.dir", markdownCmd.Flags().Lookup("dir"))
}
