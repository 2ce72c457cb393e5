package settings

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/unascribed/FlexVer/go/flexver"
	"golang.org/x/exp/slices"
)

var acceptableVersionsCommand = &cobra.Command{
	Use:     "acceptable-versions [versions]",
	Short:   "Manage your pack's accepted Minecraft versions. This must be a comma separated list of Minecraft versions, e.g. 1.16.3,1.16.4,1.16.5",
	Aliases: []string{"av"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		var versions []string
		switch {
		case flagAdd:
			versions, err = addVersion(pack.AcceptedVersions, args[0])
		case flagRemove:
			versions, err = removeVersion(pack.AcceptedVersions, args[0])
		default:
			versions = setVersions(args[0])
		}
		if err != nil {
			return err
		}

		pack.AcceptedVersions = versions
		if err := pack.Save(core.FlagsFromConfig().PackFile); err != nil {
			return err
		}
		log.Info().Msgf("Accepted versions are now %s", strings.Join(versions, ", "))
		return nil
	},
}

func addVersion(current []string, version string) ([]string, error) {
	if slices.Contains(current, version) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg("version " + version + " is already in your accepted versions list")
	}
	versions := append(slices.Clone(current), version)
	core.SortVersions(versions)
	return versions, nil
}

func removeVersion(current []string, version string) ([]string, error) {
	i := slices.Index(current, version)
	if i < 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("version " + version + " is not in your accepted versions list")
	}
	versions := slices.Delete(slices.Clone(current), i, i+1)
	core.SortVersions(versions)
	return versions, nil
}

// setVersions parses a comma separated list, offering to sort it if it is out of order
func setVersions(list string) []string {
	var parsed []string
	for _, v := range strings.Split(list, ",") {
		v = strings.TrimSpace(v)
		if len(v) > 0 && !slices.Contains(parsed, v) {
			parsed = append(parsed, v)
		}
	}

	if isSorted(parsed) {
		return parsed
	}
	sorted := slices.Clone(parsed)
	core.SortVersions(sorted)
	log.Warn().Msgf("Your accepted versions list is out of order. Did you mean %s?", strings.Join(sorted, ", "))
	if cmdshared.PromptYesNo("Would you like to fix this automatically? [Y/n] ") {
		return sorted
	}
	return parsed
}

// isSorted reports whether versions are in ascending order
func isSorted(versions []string) bool {
	for i := 1; i < len(versions); i++ {
		if flexver.Less(versions[i], versions[i-1]) {
			return false
		}
	}
	return true
}

var flagAdd bool
var flagRemove bool

func init() {
	settingsCmd.AddCommand(acceptableVersionsCommand)

	acceptableVersionsCommand.Flags().BoolVarP(&flagAdd, "add", "a", false, "Add a version to the list")
	acceptableVersionsCommand.Flags().BoolVarP(&flagRemove, "remove", "r", false, "Remove a version from the list")
	acceptableVersionsCommand.MarkFlagsMutuallyExclusive("add", "remove")
}
