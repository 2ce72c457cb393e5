package modrinth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"
	"github.com/packit/packit/cmd"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unascribed/FlexVer/go/flexver"
	"golang.org/x/exp/slices"
)

var modrinthCmd = &cobra.Command{
	Use:     "modrinth",
	Aliases: []string{"mr"},
	Short:   "Manage modrinth-based mods",
}

func init() {
	cmd.Add(modrinthCmd)
	core.Updaters[core.ModrinthType] = mrUpdater{}

	modrinthCmd.PersistentFlags().BoolP("staging", "s", false, "Use the staging instance of the Modrinth API")
	_ = viper.BindPFlag("modrinth.staging", modrinthCmd.PersistentFlags().Lookup("staging"))
}

const (
	productionHost = "api.modrinth.com"
	stagingHost    = "staging-api.modrinth.com"
)

// stagingTransport redirects requests for the production API to the staging instance
type stagingTransport struct {
	base http.RoundTripper
}

func (t stagingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Host == productionHost {
		req = req.Clone(req.Context())
		req.URL.Host = stagingHost
		req.Host = stagingHost
	}
	return t.base.RoundTrip(req)
}

// Client resolves Modrinth projects (optionally pinned to a version) to a single file
type Client struct {
	api     *modrinthApi.Client
	staging bool
}

type clientConfig struct {
	httpClient *http.Client
	staging    bool
}

// Option configures a Client
type Option func(*clientConfig)

// WithHTTPClient sets the HTTP client used for API requests
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = c
	}
}

// WithStaging switches the client to the staging instance of the API
func WithStaging(staging bool) Option {
	return func(cfg *clientConfig) {
		cfg.staging = staging
	}
}

// NewClient creates a Client for the production API unless WithStaging is given
func NewClient(opts ...Option) *Client {
	cfg := clientConfig{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := cfg.httpClient
	if cfg.staging {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		stagingClient := *httpClient
		stagingClient.Transport = stagingTransport{base: base}
		httpClient = &stagingClient
	}

	api := modrinthApi.NewClient(httpClient)
	api.UserAgent = core.UserAgent
	return &Client{api: api, staging: cfg.staging}
}

func newClientFromConfig(staging bool) *Client {
	return NewClient(WithStaging(staging))
}

// parseIdentifier splits "slug" or "slug:versionID"
func parseIdentifier(identifier string) (slug string, versionID string, pinned bool, err error) {
	parts := strings.Split(identifier, ":")
	switch {
	case len(parts) == 1:
		return parts[0], "", false, nil
	case len(parts) == 2 && len(parts[0]) > 0 && len(parts[1]) > 0:
		return parts[0], parts[1], true, nil
	default:
		return "", "", false, fmt.Errorf("%w: %s", core.ErrInvalidVersionSpecifier, identifier)
	}
}

// Resolve finds the file to install for "slug" (the newest compatible version) or "slug:versionID" (that version)
func (c *Client) Resolve(identifier string, cons core.Constraints) (*core.Selection, error) {
	slug, versionID, pinned, err := parseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	// Modrinth transparently handles slugs/project IDs in their API; we don't have to detect which one it is.
	project, err := c.api.Projects.Get(slug)
	if isNotFound(err) {
		return nil, fmt.Errorf("%w: modrinth project %s", core.ErrUnknownIdentifier, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project %s: %w", slug, err)
	}
	if project == nil || project.ID == nil || project.Slug == nil || project.Title == nil {
		return nil, fmt.Errorf("%w: modrinth project %s", core.ErrUnknownIdentifier, slug)
	}

	var version *modrinthApi.Version
	if pinned {
		if !slices.Contains(project.Versions, versionID) {
			return nil, fmt.Errorf("%w: %s has no version %s", core.ErrVersionNotFound, *project.Title, versionID)
		}
		version, err = c.api.Versions.Get(versionID)
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s has no version %s", core.ErrVersionNotFound, *project.Title, versionID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch version %s: %w", versionID, err)
		}
		if version == nil || version.ID == nil {
			return nil, fmt.Errorf("%w: %s has no version %s", core.ErrVersionNotFound, *project.Title, versionID)
		}
	} else {
		version, err = c.getLatestVersion(*project.ID, *project.Title, cons)
		if err != nil {
			return nil, err
		}
	}

	return c.selectFile(project, version)
}

func isNotFound(err error) bool {
	var notFound *modrinthApi.NotFoundErrorResponse
	return errors.As(err, &notFound)
}

type mrEligibility struct{}

// Accepts requires the pack loader among the version's loaders and an accepted game version
func (mrEligibility) Accepts(c core.Candidate, cons core.Constraints) bool {
	return cons.SatisfiesLoader(c.Loaders) && cons.SatisfiesVersions(c.GameVersions)
}

func (c *Client) getLatestVersion(projectID string, name string, cons core.Constraints) (*modrinthApi.Version, error) {
	versions, err := c.api.Versions.ListVersions(projectID, modrinthApi.ListVersionsOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch version list for %s: %w", projectID, err)
	}

	candidates := make([]core.Candidate, 0, len(versions))
	byID := make(map[string]*modrinthApi.Version, len(versions))
	for _, v := range versions {
		if v == nil || v.ID == nil {
			continue
		}
		cand := core.Candidate{
			ID:           *v.ID,
			GameVersions: v.GameVersions,
			Loaders:      v.Loaders,
		}
		if v.DatePublished != nil {
			cand.Published = *v.DatePublished
		}
		candidates = append(candidates, cand)
		byID[*v.ID] = v
	}

	best, ok := core.SelectLatest(candidates, mrEligibility{}, cons)
	if !ok {
		return nil, fmt.Errorf("%w for %s (loader %s, game versions %s)", core.ErrNoCompatibleVersion,
			name, cons.Loader, strings.Join(cons.AcceptedVersions, ", "))
	}
	latest := byID[best.ID]

	if highest := highestVersionNumber(versions, cons); highest != nil && highest != latest &&
		highest.VersionNumber != nil && latest.VersionNumber != nil {
		log.Warn().Msgf("Modrinth versions for %s inconsistent between latest version number and newest release date (%s vs %s)",
			name, *highest.VersionNumber, *latest.VersionNumber)
	}
	return latest, nil
}

// highestVersionNumber returns the compatible version with the highest version number, compared with FlexVer
func highestVersionNumber(versions []*modrinthApi.Version, cons core.Constraints) *modrinthApi.Version {
	var highest *modrinthApi.Version
	for _, v := range versions {
		if v == nil || v.VersionNumber == nil {
			continue
		}
		if !cons.SatisfiesLoader(v.Loaders) || !cons.SatisfiesVersions(v.GameVersions) {
			continue
		}
		if highest == nil || flexver.Compare(*v.VersionNumber, *highest.VersionNumber) > 0 {
			highest = v
		}
	}
	return highest
}

// primaryFile returns the file flagged as primary, or else the first file
func primaryFile(version *modrinthApi.Version) *modrinthApi.File {
	for _, f := range version.Files {
		if f.Primary != nil && *f.Primary {
			return f
		}
	}
	if len(version.Files) > 0 {
		return version.Files[0]
	}
	return nil
}

func (c *Client) selectFile(project *modrinthApi.Project, version *modrinthApi.Version) (*core.Selection, error) {
	file := primaryFile(version)
	if file == nil || file.URL == nil || file.Filename == nil {
		return nil, fmt.Errorf("%w in version %s of %s", core.ErrNoFile, *version.ID, *project.Title)
	}

	hash, ok := file.Hashes["sha1"]
	if !ok || len(hash) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrMissingHash, *file.Filename)
	}

	projectID := *project.ID
	if version.ProjectID != nil {
		projectID = *version.ProjectID
	}

	return &core.Selection{
		Name:     *project.Slug,
		Title:    *project.Title,
		FileName: *file.Filename,
		URL:      *file.URL,
		Hash:     strings.ToLower(hash),
		Update: core.ModrinthRef{
			ProjectID: projectID,
			VersionID: *version.ID,
			Staging:   c.staging,
		},
	}, nil
}
