package core

import (
	"github.com/spf13/viper"
)

// Flags stores common information passed as flags to the program.
type Flags struct {
	PackFile   string
	ModsFolder string
}

// FlagsFromConfig reads the global options (bound to flags, environment and config file) into a Flags struct
func FlagsFromConfig() Flags {
	flags := Flags{
		PackFile:   viper.GetString("pack-file"),
		ModsFolder: viper.GetString("mods-folder"),
	}
	if len(flags.PackFile) == 0 {
		flags.PackFile = "pack.toml"
	}
	if len(flags.ModsFolder) == 0 {
		flags.ModsFolder = DefaultModsFolder
	}
	return flags
}
