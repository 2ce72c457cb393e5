package cmdshared

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/packit/packit/core"
)

// VersionManifestURL lists every released Minecraft version
const VersionManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"

type McVersionManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []struct {
		ID          string    `json:"id"`
		Type        string    `json:"type"`
		URL         string    `json:"url"`
		Time        time.Time `json:"time"`
		ReleaseTime time.Time `json:"releaseTime"`
	} `json:"versions"`
}

// IsValid reports whether version is a known Minecraft version
func (m McVersionManifest) IsValid(version string) bool {
	for _, v := range m.Versions {
		if v.ID == version {
			return true
		}
	}
	return false
}

func GetValidMCVersions(client *http.Client) (McVersionManifest, error) {
	res, err := core.GetWithUA(client, VersionManifestURL, "application/json")
	if err != nil {
		return McVersionManifest{}, err
	}
	defer res.Body.Close()
	dec := json.NewDecoder(res.Body)
	out := McVersionManifest{}
	err = dec.Decode(&out)
	if err != nil {
		return McVersionManifest{}, err
	}
	// Sort by oldest to newest
	sort.Slice(out.Versions, func(i, j int) bool {
		return out.Versions[i].ReleaseTime.Before(out.Versions[j].ReleaseTime)
	})
	return out, nil
}
