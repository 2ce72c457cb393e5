package github

import (
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:     "add [owner repo tag | owner/repo@tag]",
	Short:   "Add a mod from the assets of a tagged GitHub release",
	Aliases: []string{"install", "get"},
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("expected owner, repo and tag, or owner/repo@tag")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var ref core.GitHubRef
		if len(args) == 3 {
			ref = core.GitHubRef{Owner: args[0], Repo: args[1], Tag: args[2]}
		} else {
			var err error
			ref, err = ParseIdentifier(args[0])
			if err != nil {
				return err
			}
		}

		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}

		client, err := newClientFromConfig()
		if err != nil {
			return err
		}

		log.Info().Msgf("Resolving %s/%s:%s...", ref.Owner, ref.Repo, ref.Tag)
		sel, err := client.ResolveRelease(ref)
		if err != nil {
			if core.IsSoft(err) {
				log.Warn().Msg(err.Error())
				return nil
			}
			return err
		}
		if err := cmdshared.AddSelection(&pack, sel, core.NewDownloader()); err != nil {
			return err
		}
		log.Info().Msg(sel.URL)
		return nil
	},
}

func init() {
	githubCmd.AddCommand(installCmd)
}

func newClientFromConfig() (*Client, error) {
	token := viper.GetString("github.token")
	if token == "" {
		log.Warn().Msg("It is recommended to set the GITHUB_TOKEN environment variable to a GitHub personal access token, to allow higher rate limits")
	}
	client, err := NewClient(token, WithAssetPattern(viper.GetString("github.asset-pattern")))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(err.Error()).
			WithCause(err)
	}
	return client, nil
}
