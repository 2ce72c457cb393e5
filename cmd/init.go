package cmd

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fatih/camelcase"
	"github.com/igorsobreira/titlecase"
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/dixonwille/wmenu.v4"
)

// Loaders offered when initialising a pack; any other loader can be given with --loader
var knownLoaders = []string{"Fabric", "Forge", "Quilt", "NeoForge"}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise a packit modpack",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		packFile := core.FlagsFromConfig().PackFile
		_, err := os.Stat(packFile)
		if err == nil && !viper.GetBool("init.reinit") {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(packFile + " already exists, use -r to override!")
		} else if err != nil && !os.IsNotExist(err) {
			return err
		}

		name := viper.GetString("init.name")
		if len(name) == 0 {
			def := defaultPackName()
			if len(def) > 0 {
				name = cmdshared.PromptValue("Pack name ["+def+"]: ", def)
			} else {
				name = cmdshared.PromptValue("Pack name: ", "")
			}
		}

		author := viper.GetString("init.author")
		if len(author) == 0 {
			author = cmdshared.PromptValue("Pack author: ", "")
		}

		manifest, haveManifest := fetchVersionManifest()
		versions := viper.GetStringSlice("init.game-versions")
		if len(versions) == 0 {
			latest := manifest.Latest.Release
			prompt := "Game versions (separated with space or comma): "
			if len(latest) > 0 {
				prompt = "Game versions (separated with space or comma) [" + latest + "]: "
			}
			versions = splitVersions(cmdshared.PromptValue(prompt, latest))
		}
		if len(versions) == 0 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("at least one game version must be accepted")
		}
		if haveManifest {
			for _, v := range versions {
				if !manifest.IsValid(v) {
					log.Warn().Msgf("%s is not a known Minecraft version", v)
				}
			}
		}

		loader := viper.GetString("init.loader")
		if len(loader) == 0 {
			loader, err = chooseLoader()
			if err != nil {
				return err
			}
		}

		pack := core.NewPack(name, author, core.DedupeVersions(versions), loader)
		if err := pack.Save(packFile); err != nil {
			return err
		}
		log.Info().Msgf("Generated %s!", packFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("name", "", "The name of the modpack (omit to define interactively)")
	_ = viper.BindPFlag("init.name", initCmd.Flags().Lookup("name"))
	initCmd.Flags().String("author", "", "The author of the modpack (omit to define interactively)")
	_ = viper.BindPFlag("init.author", initCmd.Flags().Lookup("author"))
	initCmd.Flags().StringSlice("game-versions", nil, "The accepted game versions (omit to define interactively)")
	_ = viper.BindPFlag("init.game-versions", initCmd.Flags().Lookup("game-versions"))
	initCmd.Flags().String("loader", "", "The mod loader to use (omit to define interactively)")
	_ = viper.BindPFlag("init.loader", initCmd.Flags().Lookup("loader"))
	initCmd.Flags().BoolP("reinit", "r", false, "Recreate the pack file if it already exists, rather than exiting")
	_ = viper.BindPFlag("init.reinit", initCmd.Flags().Lookup("reinit"))
}

// defaultPackName turns the current directory name into a space-separated proper name
func defaultPackName() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return packNameFromDir(filepath.Base(wd))
}

func packNameFromDir(directoryName string) string {
	if directoryName == "." || directoryName == string(filepath.Separator) || len(directoryName) == 0 {
		return ""
	}
	name := strings.Join(camelcase.Split(directoryName), " ")
	name = strings.NewReplacer(" - ", " ", " _ ", " ", "-", " ", "_", " ").Replace(name)
	return titlecase.Title(strings.Join(strings.Fields(name), " "))
}

func splitVersions(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})
}

// fetchVersionManifest gets the list of Minecraft versions; packs can still be created offline without it
func fetchVersionManifest() (cmdshared.McVersionManifest, bool) {
	manifest, err := cmdshared.GetValidMCVersions(&http.Client{})
	if err != nil {
		log.Debug().Err(err).Msg("Failed to get latest minecraft versions")
		return cmdshared.McVersionManifest{}, false
	}
	return manifest, true
}

func chooseLoader() (string, error) {
	if viper.GetBool("non-interactive") {
		return strings.ToLower(knownLoaders[0]), nil
	}

	var chosen string
	menu := wmenu.NewMenu("Target mod loader:")
	for i, v := range knownLoaders {
		menu.Option(v, v, i == 0, nil)
	}
	menu.Action(func(menuRes []wmenu.Opt) error {
		if len(menuRes) != 1 || menuRes[0].Value == nil {
			return errors.New("loader selection cancelled")
		}
		loader, ok := menuRes[0].Value.(string)
		if !ok {
			return errors.New("error converting interface from wmenu")
		}
		chosen = strings.ToLower(loader)
		return nil
	})
	if err := menu.Run(); err != nil {
		return "", err
	}
	return chosen, nil
}
