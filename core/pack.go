package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/exp/slices"
)

// Pack stores the modpack metadata, usually in pack.toml
type Pack struct {
	Name             string
	Author           string
	AcceptedVersions []string
	// Loader is always stored lowercase
	Loader  string
	entries map[string]PackageEntry
}

// Constraints are the pack-wide requirements a candidate file must meet to be selected
type Constraints struct {
	Loader           string
	AcceptedVersions []string
}

type packFile struct {
	Name             string               `toml:"pack_name,omitempty"`
	Author           string               `toml:"author,omitempty"`
	AcceptedVersions []string             `toml:"accepted_game_versions"`
	Loader           string               `toml:"mod_loader"`
	InstalledMods    map[string]entryFile `toml:"installed_mods"`
}

type entryFile struct {
	Name         string                 `toml:"name"`
	DownloadURL  string                 `toml:"download_url"`
	DownloadHash string                 `toml:"download_hash"`
	OutputPath   string                 `toml:"output_path"`
	UpdateInfo   map[string]interface{} `toml:"update_info,omitempty"`
}

// NewPack creates an empty pack
func NewPack(name string, author string, acceptedVersions []string, loader string) Pack {
	return Pack{
		Name:             name,
		Author:           author,
		AcceptedVersions: slices.Clone(acceptedVersions),
		Loader:           strings.ToLower(loader),
		entries:          make(map[string]PackageEntry),
	}
}

// Load decodes a pack from r
func Load(r io.Reader) (Pack, error) {
	var raw packFile
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return Pack{}, &ParseError{Err: err}
	}

	pack := NewPack(raw.Name, raw.Author, raw.AcceptedVersions, raw.Loader)
	for key, e := range raw.InstalledMods {
		entry := PackageEntry{
			Name:         e.Name,
			DownloadURL:  e.DownloadURL,
			DownloadHash: e.DownloadHash,
			OutputPath:   e.OutputPath,
		}
		if len(entry.Name) == 0 {
			entry.Name = key
		}
		if entry.Name != key {
			return Pack{}, &ParseError{Err: fmt.Errorf("entry %q is stored under key %q", entry.Name, key)}
		}
		if !ValidHash(entry.DownloadHash) {
			return Pack{}, &ParseError{Err: fmt.Errorf("entry %s: invalid sha1 hash %q", key, entry.DownloadHash)}
		}
		if !ValidOutputPath(entry.OutputPath) {
			return Pack{}, &ParseError{Err: fmt.Errorf("entry %s: output path %q must be a file directly inside the mods folder", key, entry.OutputPath)}
		}
		if e.UpdateInfo != nil {
			ref, err := updateRefFromMap(e.UpdateInfo)
			if err != nil {
				return Pack{}, &ParseError{Err: fmt.Errorf("entry %s: %w", key, err)}
			}
			entry.Update = ref
		}
		pack.entries[key] = entry
	}
	return pack, nil
}

// LoadPack loads the modpack metadata from a file
func LoadPack(packFile string) (Pack, error) {
	f, err := os.Open(packFile)
	if err != nil {
		return Pack{}, err
	}
	defer f.Close()

	pack, err := Load(f)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = packFile
		}
		return Pack{}, err
	}
	return pack, nil
}

// Encode writes the pack as TOML to w
func (pack Pack) Encode(w io.Writer) error {
	raw := packFile{
		Name:             pack.Name,
		Author:           pack.Author,
		AcceptedVersions: pack.AcceptedVersions,
		Loader:           pack.Loader,
		InstalledMods:    make(map[string]entryFile, len(pack.entries)),
	}
	if raw.AcceptedVersions == nil {
		raw.AcceptedVersions = []string{}
	}
	for name, e := range pack.entries {
		ef := entryFile{
			Name:         e.Name,
			DownloadURL:  e.DownloadURL,
			DownloadHash: e.DownloadHash,
			OutputPath:   e.OutputPath,
		}
		if e.Update != nil {
			m, err := updateRefToMap(e.Update)
			if err != nil {
				return fmt.Errorf("failed to encode update_info for %s: %w", name, err)
			}
			ef.UpdateInfo = m
		}
		raw.InstalledMods[name] = ef
	}

	enc := toml.NewEncoder(w)
	// Disable indentation
	enc.Indent = ""
	return enc.Encode(raw)
}

// Save writes the pack file, replacing it in one step so a failed write leaves the old file intact
func (pack Pack) Save(packFile string) error {
	dir := filepath.Dir(packFile)
	tmp, err := os.CreateTemp(dir, ".pack-*.toml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := pack.Encode(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, packFile)
}

// Add inserts an entry, replacing any existing entry with the same name
func (pack *Pack) Add(entry PackageEntry) {
	if pack.entries == nil {
		pack.entries = make(map[string]PackageEntry)
	}
	pack.entries[entry.Name] = entry
}

// Remove deletes the named entry, returning false if there was no such entry
func (pack *Pack) Remove(name string) bool {
	if _, ok := pack.entries[name]; !ok {
		return false
	}
	delete(pack.entries, name)
	return true
}

// Entry looks up an entry by name
func (pack Pack) Entry(name string) (PackageEntry, bool) {
	e, ok := pack.entries[name]
	return e, ok
}

// Entries returns a copy of all entries, sorted by name
func (pack Pack) Entries() []PackageEntry {
	entries := make([]PackageEntry, 0, len(pack.entries))
	for _, e := range pack.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Names returns the names of all entries, sorted
func (pack Pack) Names() []string {
	names := make([]string, 0, len(pack.entries))
	for name := range pack.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries in the pack
func (pack Pack) Len() int {
	return len(pack.entries)
}

// SatisfiesLoader reports whether the pack's loader is one of tags (case-insensitive)
func (pack Pack) SatisfiesLoader(tags []string) bool {
	return pack.Constraints().SatisfiesLoader(tags)
}

// SatisfiesVersions reports whether any of versions is accepted by the pack
func (pack Pack) SatisfiesVersions(versions []string) bool {
	return pack.Constraints().SatisfiesVersions(versions)
}

// Constraints returns the pack's loader and accepted versions
func (pack Pack) Constraints() Constraints {
	return Constraints{
		Loader:           pack.Loader,
		AcceptedVersions: slices.Clone(pack.AcceptedVersions),
	}
}

// SatisfiesLoader reports whether the loader is one of tags (case-insensitive)
func (c Constraints) SatisfiesLoader(tags []string) bool {
	if len(c.Loader) == 0 {
		return false
	}
	for _, t := range tags {
		if strings.EqualFold(t, c.Loader) {
			return true
		}
	}
	return false
}

// SatisfiesVersions reports whether versions intersects the accepted versions
func (c Constraints) SatisfiesVersions(versions []string) bool {
	for _, v := range versions {
		if slices.Contains(c.AcceptedVersions, v) {
			return true
		}
	}
	return false
}
