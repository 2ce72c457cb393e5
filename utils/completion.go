package utils

import (
	"io"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:       "completion [bash|fish|powershell|zsh]",
	Short:     "Generate shell completion scripts",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"bash", "fish", "powershell", "zsh"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var out io.Writer = os.Stdout
		if file := viper.GetString("utils.completion.file"); file != "" {
			f, err := os.Create(file)
			if err != nil {
				return errbuilder.New().
					WithCode(errbuilder.CodePermissionDenied).
					WithMsg("failed to create " + file).
					WithCause(err)
			}
			defer f.Close()
			out = f
		}
		if err := writeCompletion(cmd.Root(), args[0], out); err != nil {
			return err
		}
		if file := viper.GetString("utils.completion.file"); file != "" {
			log.Info().Msgf("Completions saved to %s", file)
		}
		return nil
	},
}

func writeCompletion(root *cobra.Command, shell string, out io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	case "zsh":
		return root.GenZshCompletion(out)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("unsupported shell " + shell)
}

func init() {
	utilsCmd.AddCommand(completionCmd)

	completionCmd.Flags().StringP("file", "f", "", "Write the script to a file instead of standard output")
	_ = viper.BindPFlag("utils.completion.file", completionCmd.Flags().Lookup("file"))
}
