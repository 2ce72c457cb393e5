package cmdshared

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
)

// LoadPack loads the pack file named by the pack-file option
func LoadPack() (core.Pack, error) {
	flags := core.FlagsFromConfig()
	pack, err := core.LoadPack(flags.PackFile)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Pack{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(flags.PackFile + " not found, run packit init first").
			WithCause(err)
	}
	return pack, err
}

// AddSelection adds a resolved file to the pack and saves it, hashing the file first if the catalog gave no hash
func AddSelection(pack *core.Pack, sel *core.Selection, dl *core.Downloader) error {
	hash := sel.Hash
	if len(hash) == 0 {
		log.Info().Msgf("Hashing %s...", sel.FileName)
		var err error
		hash, err = dl.HashURL(sel.URL)
		if err != nil {
			return err
		}
	}

	flags := core.FlagsFromConfig()
	entry, err := core.NewEntry(sel.Name, sel.URL, hash, sel.FileName, flags.ModsFolder, sel.Update)
	if err != nil {
		return err
	}
	pack.Add(entry)
	if err := pack.Save(flags.PackFile); err != nil {
		return err
	}

	title := sel.Title
	if len(title) == 0 {
		title = sel.Name
	}
	if len(sel.Authors) > 0 {
		log.Info().Msgf("Added %s by %s to the pack!", title, strings.Join(sel.Authors, ", "))
	} else {
		log.Info().Msgf("Added %s to the pack!", title)
	}
	return nil
}
