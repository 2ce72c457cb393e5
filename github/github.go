package github

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/packit/packit/cmd"
	"github.com/packit/packit/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var githubCmd = &cobra.Command{
	Use:     "github",
	Aliases: []string{"gh"},
	Short:   "Manage github-based mods",
}

// DefaultAssetPattern matches .jar assets that are neither development builds nor source bundles
const DefaultAssetPattern = `^(?!.*-dev)(?!.*-sources).*\.jar$`

func init() {
	cmd.Add(githubCmd)
	core.Updaters[core.GitHubType] = ghUpdater{}

	_ = viper.BindEnv("github.token", "GITHUB_TOKEN")
	viper.SetDefault("github.asset-pattern", DefaultAssetPattern)
	githubCmd.PersistentFlags().String("asset-pattern", DefaultAssetPattern, "Regular expression a release asset's file name must match")
	_ = viper.BindPFlag("github.asset-pattern", githubCmd.PersistentFlags().Lookup("asset-pattern"))
}

// Client picks a file from the assets of a GitHub release
type Client struct {
	api          ghApiClient
	assetPattern *regexp2.Regexp
}

type clientConfig struct {
	httpClient   *http.Client
	baseURL      string
	assetPattern string
}

// Option configures a Client
type Option func(*clientConfig)

// WithHTTPClient sets the HTTP client used for API requests
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = c
	}
}

// WithAPIURL sets the base URL of the API
func WithAPIURL(url string) Option {
	return func(cfg *clientConfig) {
		cfg.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithAssetPattern sets the pattern (regexp2 syntax, so lookarounds are allowed) asset names must match
func WithAssetPattern(pattern string) Option {
	return func(cfg *clientConfig) {
		cfg.assetPattern = pattern
	}
}

// NewClient creates a Client. The token is optional; without one, requests are subject to lower rate limits.
func NewClient(token string, opts ...Option) (*Client, error) {
	cfg := clientConfig{
		httpClient:   &http.Client{},
		baseURL:      DefaultAPIURL,
		assetPattern: DefaultAssetPattern,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	expr, err := regexp2.Compile(cfg.assetPattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("invalid asset pattern %q: %w", cfg.assetPattern, err)
	}

	return &Client{
		api: ghApiClient{
			httpClient: cfg.httpClient,
			baseURL:    cfg.baseURL,
			token:      token,
		},
		assetPattern: expr,
	}, nil
}

// ParseIdentifier splits "owner/repo@tag"
func ParseIdentifier(identifier string) (core.GitHubRef, error) {
	slug, tag, ok := strings.Cut(identifier, "@")
	owner, repo, ok2 := strings.Cut(slug, "/")
	if !ok || !ok2 || len(owner) == 0 || len(repo) == 0 || len(tag) == 0 || strings.Contains(repo, "/") {
		return core.GitHubRef{}, fmt.Errorf("%w: %s (expected owner/repo@tag)", core.ErrInvalidVersionSpecifier, identifier)
	}
	return core.GitHubRef{Owner: owner, Repo: repo, Tag: tag}, nil
}

// Resolve picks the asset of the release identified by "owner/repo@tag".
// Releases are pinned by their tag, so the pack constraints are not consulted.
func (c *Client) Resolve(identifier string, _ core.Constraints) (*core.Selection, error) {
	ref, err := ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	return c.ResolveRelease(ref)
}

// ResolveRelease picks the first asset of the tagged release whose name matches the asset pattern
func (c *Client) ResolveRelease(ref core.GitHubRef) (*core.Selection, error) {
	release, err := c.api.getReleaseByTag(ref.Owner, ref.Repo, ref.Tag)
	if err != nil {
		return nil, err
	}

	asset, ok, err := c.selectAsset(release.Assets)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w for %s", core.ErrNoFile, ref)
	}

	return &core.Selection{
		Name:     ref.Repo,
		Title:    ref.Repo,
		Authors:  []string{ref.Owner},
		FileName: asset.Name,
		URL:      asset.BrowserDownloadURL,
		Update:   ref,
	}, nil
}

func (c *Client) selectAsset(assets []Asset) (Asset, bool, error) {
	for _, v := range assets {
		matched, err := c.assetPattern.MatchString(v.Name)
		if err != nil {
			return Asset{}, false, err
		}
		if matched {
			return v, true, nil
		}
	}
	return Asset{}, false, nil
}
