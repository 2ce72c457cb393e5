package core

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// PackageEntry stores metadata about an installed mod. This is written to pack.toml, keyed by Name.
type PackageEntry struct {
	Name         string
	DownloadURL  string
	DownloadHash string
	OutputPath   string
	// Update records which catalog produced the entry; nil for manually added files
	Update UpdateRef
}

// UpdateRef records enough identifiers to re-resolve an entry from the catalog it came from.
// The only implementations are CurseforgeRef, ModrinthRef and GitHubRef.
type UpdateRef interface {
	// Type is the tag written as update_info.type
	Type() string
	// ProjectURL is the human-facing page for the project
	ProjectURL() string
	isUpdateRef()
}

// The tags used for each UpdateRef variant in pack.toml
const (
	CurseforgeType = "cf"
	ModrinthType   = "mr"
	GitHubType     = "gh"
)

// CurseforgeRef points at a CurseForge addon file.
type CurseforgeRef struct {
	AddonID uint32 `mapstructure:"addon_id"`
	FileID  uint32 `mapstructure:"file_id"`
}

// ModrinthRef points at a Modrinth version.
type ModrinthRef struct {
	ProjectID string `mapstructure:"project_id"`
	VersionID string `mapstructure:"version_id"`
	Staging   bool   `mapstructure:"staging,omitempty"`
}

// GitHubRef points at a GitHub release tag.
type GitHubRef struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
	Tag   string `mapstructure:"tag"`
}

func (CurseforgeRef) Type() string { return CurseforgeType }
func (ModrinthRef) Type() string   { return ModrinthType }
func (GitHubRef) Type() string     { return GitHubType }

func (CurseforgeRef) isUpdateRef() {}
func (ModrinthRef) isUpdateRef()   {}
func (GitHubRef) isUpdateRef()     {}

func (r CurseforgeRef) ProjectURL() string {
	return "https://www.curseforge.com/projects/" + strconv.FormatUint(uint64(r.AddonID), 10)
}

func (r ModrinthRef) ProjectURL() string {
	if r.Staging {
		return "https://staging.modrinth.com/project/" + r.ProjectID
	}
	return "https://modrinth.com/project/" + r.ProjectID
}

func (r GitHubRef) ProjectURL() string {
	return "https://github.com/" + r.Owner + "/" + r.Repo + "/releases/tag/" + r.Tag
}

func (r CurseforgeRef) String() string {
	return fmt.Sprintf("curseforge addon %d file %d", r.AddonID, r.FileID)
}

func (r ModrinthRef) String() string {
	return fmt.Sprintf("modrinth project %s version %s", r.ProjectID, r.VersionID)
}

func (r GitHubRef) String() string {
	return fmt.Sprintf("github %s/%s@%s", r.Owner, r.Repo, r.Tag)
}

// updateRefToMap converts an UpdateRef to the tagged map stored as update_info
func updateRefToMap(ref UpdateRef) (map[string]interface{}, error) {
	newMap := make(map[string]interface{})
	if err := mapstructure.Decode(ref, &newMap); err != nil {
		return nil, err
	}
	newMap["type"] = ref.Type()
	return newMap, nil
}

// updateRefFromMap parses a tagged update_info map back into its UpdateRef variant
func updateRefFromMap(m map[string]interface{}) (UpdateRef, error) {
	tag, ok := m["type"].(string)
	if !ok {
		return nil, errors.New("update_info is missing its type")
	}
	fields := make(map[string]interface{}, len(m)-1)
	for k, v := range m {
		if k != "type" {
			fields[k] = v
		}
	}

	var ref UpdateRef
	var err error
	switch tag {
	case CurseforgeType:
		var r CurseforgeRef
		err = decodeStrict(fields, &r)
		ref = r
	case ModrinthType:
		var r ModrinthRef
		err = decodeStrict(fields, &r)
		ref = r
	case GitHubType:
		var r GitHubRef
		err = decodeStrict(fields, &r)
		ref = r
	default:
		return nil, fmt.Errorf("unknown update_info type %q", tag)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s update_info: %w", tag, err)
	}
	return ref, nil
}

func decodeStrict(input map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var sha1HexRegex = regexp.MustCompile("^[0-9a-f]{40}$")

// ValidHash reports whether hash is a lowercase hex SHA-1 digest
func ValidHash(hash string) bool {
	return sha1HexRegex.MatchString(hash)
}

// NewEntry builds a PackageEntry, deriving the output path from the mods folder and file name
func NewEntry(name string, url string, hash string, fileName string, modsFolder string, ref UpdateRef) (PackageEntry, error) {
	if len(name) == 0 {
		return PackageEntry{}, errors.New("entry name must not be empty")
	}
	if len(url) == 0 {
		return PackageEntry{}, fmt.Errorf("no download url for %s", name)
	}
	if !ValidHash(hash) {
		return PackageEntry{}, fmt.Errorf("invalid sha1 hash %q for %s", hash, name)
	}
	if len(fileName) == 0 || fileName != path.Base(fileName) {
		return PackageEntry{}, fmt.Errorf("invalid file name %q for %s", fileName, name)
	}
	return PackageEntry{
		Name:         name,
		DownloadURL:  url,
		DownloadHash: hash,
		OutputPath:   ResolveOutputPath(fileName, modsFolder),
		Update:       ref,
	}, nil
}
