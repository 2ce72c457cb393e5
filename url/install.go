package url

import (
	"fmt"
	"net/url"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/cmdshared"
	"github.com/packit/packit/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var installCmd = &cobra.Command{
	Use:     "add [name] [url]",
	Short:   "Add an external file from a direct download link, for sites that are not directly supported by packit",
	Aliases: []string{"install", "get"},
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := manualSelection(args[0], args[1], viper.GetBool("url.force"))
		if err != nil {
			return err
		}

		pack, err := cmdshared.LoadPack()
		if err != nil {
			return err
		}
		return cmdshared.AddSelection(&pack, sel, core.NewDownloader())
	},
}

// manualSelection builds a Selection with no update source for a direct download link
func manualSelection(name string, rawURL string, force bool) (*core.Selection, error) {
	dl, err := url.Parse(rawURL)
	if err != nil {
		return nil, invalidArgument("failed parsing URL: " + err.Error())
	}
	if dl.Scheme != "https" && dl.Scheme != "http" {
		return nil, invalidArgument("unsupported url scheme " + dl.Scheme)
	}

	if !force {
		var msg string
		switch dl.Host {
		case "github.com":
			msg = "github add"
		case "modrinth.com":
			msg = "modrinth add"
		case "www.curseforge.com", "curseforge.com":
			msg = "curseforge add"
		}
		if msg != "" {
			return nil, invalidArgument(fmt.Sprintf("consider using packit %s instead; if you know what you are doing use --force to add this file anyway", msg))
		}
	}

	fileName, err := core.FileNameFromURL(rawURL)
	if err != nil {
		return nil, invalidArgument(err.Error())
	}

	return &core.Selection{
		Name:     name,
		Title:    name,
		FileName: fileName,
		URL:      rawURL,
	}, nil
}

func invalidArgument(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}

func init() {
	urlCmd.AddCommand(installCmd)

	installCmd.Flags().Bool("force", false, "Force adding a file even if the supplied url is supported by packit")
	_ = viper.BindPFlag("url.force", installCmd.Flags().Lookup("force"))
}
