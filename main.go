package main

import (
	"github.com/packit/packit/cmd"

	// Modules of packit
	_ "github.com/packit/packit/curseforge"
	_ "github.com/packit/packit/github"
	_ "github.com/packit/packit/migrate"
	_ "github.com/packit/packit/modrinth"
	_ "github.com/packit/packit/settings"
	_ "github.com/packit/packit/url"
	_ "github.com/packit/packit/utils"
)

func main() {
	cmd.Execute()
}
