package curseforge

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/cmd"
	"github.com/packit/packit/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var curseforgeCmd = &cobra.Command{
	Use:     "curseforge",
	Aliases: []string{"cf", "curse"},
	Short:   "Manage curseforge-based mods",
}

func init() {
	cmd.Add(curseforgeCmd)
	core.Updaters[core.CurseforgeType] = cfUpdater{}

	viper.SetDefault("curseforge.graphql-url", DefaultGraphQLURL)
	viper.SetDefault("curseforge.api-url", DefaultAPIURL)
	curseforgeCmd.PersistentFlags().String("api-key", "", "API key for the official CurseForge API, used to look up numeric project IDs")
	_ = viper.BindPFlag("curseforge.api-key", curseforgeCmd.PersistentFlags().Lookup("api-key"))
}

// Client resolves CurseForge slugs (or numeric project IDs) to a single file
type Client struct {
	api cfApiClient
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for all requests
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.api.httpClient = c
	}
}

// WithGraphQLURL sets the GraphQL endpoint used for slug lookups
func WithGraphQLURL(url string) Option {
	return func(client *Client) {
		client.api.graphqlURL = url
	}
}

// WithAPIURL sets the base URL of the official API, used for numeric ID lookups
func WithAPIURL(url string) Option {
	return func(client *Client) {
		client.api.apiURL = url
	}
}

// WithAPIKey sets the key sent to the official API
func WithAPIKey(key string) Option {
	return func(client *Client) {
		client.api.apiKey = key
	}
}

// NewClient creates a Client using the public endpoints unless overridden
func NewClient(opts ...Option) *Client {
	c := &Client{api: cfApiClient{
		httpClient: &http.Client{},
		graphqlURL: DefaultGraphQLURL,
		apiURL:     DefaultAPIURL,
	}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newClientFromConfig() *Client {
	return NewClient(
		WithGraphQLURL(viper.GetString("curseforge.graphql-url")),
		WithAPIURL(viper.GetString("curseforge.api-url")),
		WithAPIKey(viper.GetString("curseforge.api-key")),
	)
}

// findAddon looks up an addon by slug, taking the first match.
// When there is no match and tryID is set, a numeric identifier is looked up in the official API
// to find its slug, which is then queried once more without any further fallback.
func (c *Client) findAddon(identifier string, tryID bool) (addonInfo, error) {
	slug := identifier
	for attempt := 0; attempt < 2; attempt++ {
		addons, err := c.api.getAddonsBySlug(slug)
		if err != nil {
			return addonInfo{}, err
		}
		if len(addons) > 0 {
			return addons[0], nil
		}

		if !tryID || attempt > 0 {
			break
		}
		id, err := strconv.ParseUint(identifier, 10, 32)
		if err != nil {
			break
		}
		log.Debug().Uint64("id", id).Msg("No addon with this slug, looking up as a project ID")
		info, err := c.api.getModInfo(uint32(id))
		if err != nil {
			return addonInfo{}, err
		}
		slug = info.Slug
	}
	return addonInfo{}, fmt.Errorf("%w: curseforge slug %s", core.ErrUnknownIdentifier, identifier)
}

// Resolve finds the newest file of the addon identified by a slug or numeric project ID that matches cons
func (c *Client) Resolve(identifier string, cons core.Constraints) (*core.Selection, error) {
	addon, err := c.findAddon(identifier, true)
	if err != nil {
		return nil, err
	}
	return selectFile(addon, cons)
}

// ResolveByID finds the newest matching file of the project with the given ID.
// The official API is asked for the project's current slug when an API key is configured;
// without one, slug (the name the project was installed under) is searched instead.
// Only an addon with exactly this ID is accepted.
func (c *Client) ResolveByID(addonID uint32, slug string, cons core.Constraints) (*core.Selection, error) {
	if c.api.apiKey != "" {
		info, err := c.api.getModInfo(addonID)
		if err != nil {
			return nil, err
		}
		slug = info.Slug
	} else if len(slug) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("looking up curseforge project " + strconv.FormatUint(uint64(addonID), 10) + " needs a CurseForge API key, set curseforge.api-key")
	}

	addons, err := c.api.getAddonsBySlug(slug)
	if err != nil {
		return nil, err
	}
	for _, addon := range addons {
		if addon.ID == addonID {
			return selectFile(addon, cons)
		}
	}
	return nil, fmt.Errorf("%w: curseforge project ID %d (slug %s)", core.ErrUnknownIdentifier, addonID, slug)
}

type cfEligibility struct{}

// Accepts checks the file's game version list, which also carries the loader names
func (cfEligibility) Accepts(c core.Candidate, cons core.Constraints) bool {
	return cons.SatisfiesLoader(c.GameVersions) && cons.SatisfiesVersions(c.GameVersions)
}

func selectFile(addon addonInfo, cons core.Constraints) (*core.Selection, error) {
	candidates := make([]core.Candidate, len(addon.Files))
	for i, f := range addon.Files {
		candidates[i] = core.Candidate{
			ID:           strconv.FormatUint(uint64(f.ID), 10),
			FileName:     f.FileName,
			URL:          f.DownloadURL,
			GameVersions: f.GameVersions,
			Published:    f.Date.Time,
		}
	}

	best, ok := core.SelectLatest(candidates, cfEligibility{}, cons)
	if !ok {
		return nil, fmt.Errorf("%w for %s", core.ErrNoCompatibleVersion, addon.Slug)
	}

	fileID, err := strconv.ParseUint(best.ID, 10, 32)
	if err != nil {
		return nil, err
	}
	url, err := core.ReencodeURL(best.URL)
	if err != nil {
		return nil, err
	}

	return &core.Selection{
		Name:     addon.Slug,
		Title:    addon.Name,
		Authors:  addon.authorNames(),
		FileName: best.FileName,
		URL:      url,
		Update: core.CurseforgeRef{
			AddonID: addon.ID,
			FileID:  uint32(fileID),
		},
	}, nil
}
