package curseforge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/packit/packit/core"
)

const (
	// DefaultGraphQLURL is the CurseProxy GraphQL endpoint used for slug lookups
	DefaultGraphQLURL = "https://curse.nikky.moe/graphql"
	// DefaultAPIURL is the official CurseForge API, used to recover a slug from a numeric project ID
	DefaultAPIURL = "https://api.curseforge.com"
)

type cfApiClient struct {
	httpClient *http.Client
	graphqlURL string
	apiURL     string
	apiKey     string
}

func (c *cfApiClient) makeGet(endpoint string) (*http.Response, error) {
	req, err := http.NewRequest("GET", c.apiURL+endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", core.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != 200 {
		_ = resp.Body.Close()
		return nil, &core.HTTPError{StatusCode: resp.StatusCode, URL: req.URL.String()}
	}
	return resp, nil
}

func (c *cfApiClient) makePost(url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest("POST", url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", core.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" && strings.HasPrefix(url, c.apiURL) {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != 200 {
		_ = resp.Body.Close()
		return nil, &core.HTTPError{StatusCode: resp.StatusCode, URL: url}
	}
	return resp, nil
}

const slugQuery = `query get_by_slug($slug: String) {
  addons(slug: $slug) {
    authors {
      name
    }
    name
    summary
    slug
    id
    files {
      downloadUrl
      fileName
      gameVersion
      id
      displayName
      fileDate
    }
  }
}`

type gqlRequest struct {
	Query         string            `json:"query"`
	Variables     map[string]string `json:"variables"`
	OperationName string            `json:"operationName"`
}

type gqlError struct {
	Message string `json:"message"`
}

// addonInfo is the subset of the CurseProxy addon record returned by the slug query
type addonInfo struct {
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Name    string      `json:"name"`
	Summary string      `json:"summary"`
	Slug    string      `json:"slug"`
	ID      uint32      `json:"id"`
	Files   []addonFile `json:"files"`
}

func (a addonInfo) authorNames() []string {
	names := make([]string, len(a.Authors))
	for i, v := range a.Authors {
		names[i] = v.Name
	}
	return names
}

type addonFile struct {
	// According to the CurseForge API T&Cs, this must not be saved or cached
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
	// GameVersions lists both game versions and mod loaders (e.g. "1.20.1", "Fabric")
	GameVersions []string `json:"gameVersion"`
	ID           uint32   `json:"id"`
	DisplayName  string   `json:"displayName"`
	Date         fileDate `json:"fileDate"`
}

// fileDate accepts the proxy's zone-less timestamps (interpreted as UTC) as well as RFC 3339
type fileDate struct {
	time.Time
}

const fileDateLayout = "2006-01-02T15:04:05.999999999"

func (d *fileDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if len(s) == 0 {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.ParseInLocation(fileDateLayout, s, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid file date %q: %w", s, err)
		}
	}
	d.Time = t
	return nil
}

func (c *cfApiClient) getAddonsBySlug(slug string) ([]addonInfo, error) {
	var res struct {
		Data struct {
			Addons []addonInfo `json:"addons"`
		} `json:"data"`
		Errors []gqlError `json:"errors"`
	}

	reqData, err := json.Marshal(gqlRequest{
		Query:         slugQuery,
		Variables:     map[string]string{"slug": slug},
		OperationName: "get_by_slug",
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.makePost(c.graphqlURL, bytes.NewReader(reqData))
	if err != nil {
		return nil, fmt.Errorf("failed to look up slug %s: %w", slug, err)
	}
	defer resp.Body.Close()

	err = json.NewDecoder(resp.Body).Decode(&res)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to look up slug %s: %w", slug, err)
	}
	if len(res.Errors) > 0 {
		msgs := make([]string, len(res.Errors))
		for i, v := range res.Errors {
			msgs[i] = v.Message
		}
		return nil, errors.New("curseforge query failed: " + strings.Join(msgs, "; "))
	}

	return res.Data.Addons, nil
}

// modInfo is a subset of the deserialised JSON response from the Curse API for mods (addons)
type modInfo struct {
	Name                   string `json:"name"`
	Slug                   string `json:"slug"`
	ID                     uint32 `json:"id"`
	GameVersionLatestFiles []struct {
		GameVersion string `json:"gameVersion"`
		ID          uint32 `json:"fileId"`
		Name        string `json:"filename"`
		Modloader   uint8  `json:"modLoader"`
	} `json:"latestFilesIndexes"`
}

func (c *cfApiClient) getModInfo(modID uint32) (modInfo, error) {
	var infoRes struct {
		Data modInfo `json:"data"`
	}

	idStr := strconv.FormatUint(uint64(modID), 10)
	resp, err := c.makeGet("/v1/mods/" + idStr)
	if err != nil {
		var httpErr *core.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return modInfo{}, fmt.Errorf("%w: curseforge project ID %d", core.ErrUnknownIdentifier, modID)
		}
		return modInfo{}, fmt.Errorf("failed to request project data for ID %d: %w", modID, err)
	}
	defer resp.Body.Close()

	err = json.NewDecoder(resp.Body).Decode(&infoRes)
	if err != nil && err != io.EOF {
		return modInfo{}, fmt.Errorf("failed to request project data for ID %d: %w", modID, err)
	}

	if infoRes.Data.ID != modID {
		return modInfo{}, fmt.Errorf("unexpected project ID in CurseForge response: %d (expected %d)", infoRes.Data.ID, modID)
	}

	return infoRes.Data, nil
}

type hashAlgo uint8

const hashAlgoSHA1 hashAlgo = 1

// fingerprintFile is the subset of the official API's file record returned for a fingerprint match
type fingerprintFile struct {
	ID          uint32 `json:"id"`
	ModID       uint32 `json:"modId"`
	FileName    string `json:"fileName"`
	DownloadURL string `json:"downloadUrl"`
	Fingerprint uint32 `json:"fileFingerprint"`
	Hashes      []struct {
		Value     string   `json:"value"`
		Algorithm hashAlgo `json:"algo"`
	} `json:"hashes"`
}

// sha1 returns the file's SHA-1 hash, if the API provided one
func (f fingerprintFile) sha1() (string, bool) {
	for _, v := range f.Hashes {
		if v.Algorithm == hashAlgoSHA1 && core.ValidHash(strings.ToLower(v.Value)) {
			return strings.ToLower(v.Value), true
		}
	}
	return "", false
}

type fingerprintResponse struct {
	ExactMatches []struct {
		ID   uint32          `json:"id"`
		File fingerprintFile `json:"file"`
	} `json:"exactMatches"`
	UnmatchedFingerprints []uint32 `json:"unmatchedFingerprints"`
}

func (c *cfApiClient) getFingerprintInfo(fingerprints []uint32) (fingerprintResponse, error) {
	var infoRes struct {
		Data fingerprintResponse `json:"data"`
	}

	reqData, err := json.Marshal(struct {
		Fingerprints []uint32 `json:"fingerprints"`
	}{fingerprints})
	if err != nil {
		return fingerprintResponse{}, err
	}

	resp, err := c.makePost(c.apiURL+"/v1/fingerprints", bytes.NewReader(reqData))
	if err != nil {
		return fingerprintResponse{}, fmt.Errorf("failed to match fingerprints: %w", err)
	}
	defer resp.Body.Close()

	err = json.NewDecoder(resp.Body).Decode(&infoRes)
	if err != nil && err != io.EOF {
		return fingerprintResponse{}, fmt.Errorf("failed to match fingerprints: %w", err)
	}
	return infoRes.Data, nil
}
