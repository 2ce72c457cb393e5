package cmd

import (
	"path"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// UpdateCmd represents the update command
var UpdateCmd = &cobra.Command{
	Use:     "update [mod]...",
	Short:   "Update mods (or all mods with --all) in the modpack",
	Aliases: []string{"upgrade"},
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		names := args
		if viper.GetBool("update.all") {
			names = pack.Names()
		} else if len(names) == 0 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("must specify mods to update, or use the --all flag")
		}

		updates, err := checkUpdates(&pack, names)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			log.Info().Msg("All mods are up to date!")
			return nil
		}
		for _, u := range updates {
			log.Info().Msgf("%s: %s -> %s", u.name, u.from, u.sel.FileName)
		}
		if !cmdshared.PromptYesNo("Do you want to update? [Y/n]: ") {
			log.Info().Msg("Cancelled!")
			return nil
		}

		dl := core.NewDownloader()
		modsFolder := core.FlagsFromConfig().ModsFolder
		for _, u := range updates {
			if err := applyUpdate(&pack, u, dl, modsFolder); err != nil {
				return err
			}
		}
		if err := pack.Save(core.FlagsFromConfig().PackFile); err != nil {
			return err
		}
		log.Info().Msgf("Updated %d mods!", len(updates))
		return nil
	},
}

type pendingUpdate struct {
	name string
	from string
	sel  *core.Selection
}

// checkUpdates asks each entry's updater for a newer file, skipping entries that can't be updated
func checkUpdates(pack *core.Pack, names []string) ([]pendingUpdate, error) {
	cons := pack.Constraints()
	var updates []pendingUpdate
	_, err := cmdshared.RunBatch(names, func(name string) error {
		entry, ok := pack.Entry(name)
		if !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("no mod in pack called " + name)
		}
		if entry.Update == nil {
			log.Debug().Str("mod", name).Msg("No update source, skipping")
			return nil
		}
		updater, ok := core.Updaters[entry.Update.Type()]
		if !ok {
			log.Warn().Str("mod", name).Msgf("No updater for source %s", entry.Update.Type())
			return nil
		}
		sel, err := updater.CheckUpdate(entry, cons)
		if err != nil {
			return err
		}
		if sel != nil {
			updates = append(updates, pendingUpdate{name: name, from: path.Base(entry.OutputPath), sel: sel})
		}
		return nil
	})
	return updates, err
}

// applyUpdate replaces the named entry with the selected file, keeping its name
func applyUpdate(pack *core.Pack, u pendingUpdate, dl *core.Downloader, modsFolder string) error {
	hash := u.sel.Hash
	if len(hash) == 0 {
		var err error
		hash, err = dl.HashURL(u.sel.URL)
		if err != nil {
			return err
		}
	}
	entry, err := core.NewEntry(u.name, u.sel.URL, hash, u.sel.FileName, modsFolder, u.sel.Update)
	if err != nil {
		return err
	}
	pack.Add(entry)
	return nil
}

func init() {
	rootCmd.AddCommand(UpdateCmd)

	UpdateCmd.Flags().BoolP("all", "a", false, "Update all mods")
	_ = viper.BindPFlag("update.all", UpdateCmd.Flags().Lookup("all"))
}
