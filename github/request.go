package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/packit/packit/core"
)

// DefaultAPIURL is the base URL of the GitHub REST API
const DefaultAPIURL = "https://api.github.com"

type ghApiClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func (c *ghApiClient) makeGet(url string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", core.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
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

// Release is the subset of a GitHub release used to pick an asset
type Release struct {
	TagName string  `json:"tag_name"`
	Name    string  `json:"name"`
	Assets  []Asset `json:"assets"`
}

type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

func (c *ghApiClient) getReleaseByTag(owner string, repo string, tag string) (Release, error) {
	var release Release
	endpoint := c.baseURL + "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/releases/tags/" + url.PathEscape(tag)

	resp, err := c.makeGet(endpoint)
	if err != nil {
		var httpErr *core.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return release, fmt.Errorf("%w: github release %s/%s@%s", core.ErrUnknownIdentifier, owner, repo, tag)
		}
		return release, fmt.Errorf("failed to fetch release %s/%s@%s: %w", owner, repo, tag, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return release, fmt.Errorf("failed to fetch release %s/%s@%s: %w", owner, repo, tag, err)
	}
	return release, nil
}
