package cmd

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/cmdshared"
	"github.com/rs/zerolog/log"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:     "open [mod]",
	Short:   "Open the project page for a mod in your browser",
	Aliases: []string{"doc"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		entry, ok := pack.Entry(args[0])
		if !ok {
			msg := "You don't have " + args[0] + " installed."
			if suggestion, ok := closestName(args[0], pack.Names()); ok {
				msg += " Did you mean " + suggestion + "?"
			}
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(msg)
		}
		if entry.Update == nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(entry.Name + " was added from a URL and has no project page")
		}

		url := entry.Update.ProjectURL()
		log.Info().Msg("Opening browser...")
		if err := open.Start(url); err != nil {
			fmt.Println("Opening page failed, direct link:")
			fmt.Println(url)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
