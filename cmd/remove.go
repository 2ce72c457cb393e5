package cmd

import (
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove [mod]...",
	Short:   "Remove mods from the modpack",
	Aliases: []string{"delete", "uninstall", "rm"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		removed := removeEntries(&pack, args)
		if removed > 0 {
			if err := pack.Save(core.FlagsFromConfig().PackFile); err != nil {
				return err
			}
		}
		log.Info().Msgf("Removed %d mods from the pack!", removed)
		if removed < len(args) {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("some mods were not in the pack")
		}
		return nil
	},
}

// removeEntries removes each named entry, suggesting close matches for names that aren't in the pack
func removeEntries(pack *core.Pack, names []string) int {
	removed := 0
	for _, name := range names {
		if pack.Remove(name) {
			log.Info().Msgf("Removed %s from the pack!", name)
			removed++
			continue
		}
		if suggestion, ok := closestName(name, pack.Names()); ok {
			log.Error().Msgf("No mod in pack called %s! Did you mean %s?", name, suggestion)
		} else {
			log.Error().Msgf("No mod in pack called %s!", name)
		}
	}
	return removed
}

// closestName returns the best fuzzy match for name among names
func closestName(name string, names []string) (string, bool) {
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
