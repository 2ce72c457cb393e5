package curseforge

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/jarcoal/httpmock"
	"github.com/packit/packit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGraphQLURL = "https://cf.test/graphql"
	testAPIURL     = "https://api.cf.test"
)

var fabric1201 = core.Constraints{Loader: "fabric", AcceptedVersions: []string{"1.20.1"}}

func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	c := NewClient(
		WithHTTPClient(&http.Client{Transport: mt}),
		WithGraphQLURL(testGraphQLURL),
		WithAPIURL(testAPIURL),
	)
	return c, mt
}

// registerAddons answers slug queries from addons, keyed by slug; unknown slugs get no addons
func registerAddons(t *testing.T, mt *httpmock.MockTransport, addons map[string]string) {
	t.Helper()
	mt.RegisterResponder("POST", testGraphQLURL, func(req *http.Request) (*http.Response, error) {
		var body gqlRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return nil, err
		}
		assert.Equal(t, "get_by_slug", body.OperationName)
		assert.Contains(t, body.Query, "addons(slug: $slug)")

		addon, ok := addons[body.Variables["slug"]]
		if !ok {
			return httpmock.NewStringResponse(200, `{"data":{"addons":[]}}`), nil
		}
		return httpmock.NewStringResponse(200, `{"data":{"addons":[`+addon+`]}}`), nil
	})
}

const jeiAddon = `{
  "authors": [{"name": "mezz"}],
  "name": "Just Enough Items",
  "summary": "View items and recipes",
  "slug": "jei",
  "id": 238222,
  "files": [
    {"downloadUrl": "https://edge.forgecdn.net/files/1/1/jei-a.jar", "fileName": "jei-a.jar",
     "gameVersion": ["Fabric", "1.20.1"], "id": 11, "displayName": "A", "fileDate": "2023-01-01T00:00:00"},
    {"downloadUrl": "https://edge.forgecdn.net/files/1/2/jei[fabric]-b.jar", "fileName": "jei[fabric]-b.jar",
     "gameVersion": ["Fabric", "1.20.1"], "id": 12, "displayName": "B", "fileDate": "2023-06-01T00:00:00.123"},
    {"downloadUrl": "https://edge.forgecdn.net/files/1/3/jei-forge.jar", "fileName": "jei-forge.jar",
     "gameVersion": ["Forge", "1.20.1"], "id": 13, "displayName": "C", "fileDate": "2023-09-01T00:00:00"},
    {"downloadUrl": "https://edge.forgecdn.net/files/1/4/jei-old.jar", "fileName": "jei-old.jar",
     "gameVersion": ["Fabric", "1.19.4"], "id": 14, "displayName": "D", "fileDate": "2023-10-01T00:00:00Z"}
  ]
}`

func TestResolveBySlug(t *testing.T) {
	c, mt := newTestClient(t)
	registerAddons(t, mt, map[string]string{"jei": jeiAddon})

	sel, err := c.Resolve("jei", fabric1201)
	require.NoError(t, err)

	assert.Equal(t, "jei", sel.Name)
	assert.Equal(t, "Just Enough Items", sel.Title)
	assert.Equal(t, []string{"mezz"}, sel.Authors)
	assert.Equal(t, "jei[fabric]-b.jar", sel.FileName)
	assert.Equal(t, "https://edge.forgecdn.net/files/1/2/jei%5Bfabric%5D-b.jar", sel.URL)
	assert.Empty(t, sel.Hash, "curseforge does not supply hashes")
	assert.Equal(t, core.CurseforgeRef{AddonID: 238222, FileID: 12}, sel.Update)

	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestResolveNumericFallback(t *testing.T) {
	c, mt := newTestClient(t)
	registerAddons(t, mt, map[string]string{"jei": jeiAddon})
	mt.RegisterResponder("GET", testAPIURL+"/v1/mods/238222",
		httpmock.NewStringResponder(200, `{"data":{"id":238222,"name":"Just Enough Items","slug":"jei","latestFilesIndexes":[]}}`))

	sel, err := c.Resolve("238222", fabric1201)
	require.NoError(t, err)
	assert.Equal(t, "jei", sel.Name)

	calls := mt.GetCallCountInfo()
	assert.Equal(t, 1, calls["GET "+testAPIURL+"/v1/mods/238222"])
	assert.Equal(t, 2, calls["POST "+testGraphQLURL])
}

func TestResolveNumericFallbackIsBounded(t *testing.T) {
	c, mt := newTestClient(t)
	registerAddons(t, mt, map[string]string{})
	mt.RegisterResponder("GET", testAPIURL+"/v1/mods/1234",
		httpmock.NewStringResponder(200, `{"data":{"id":1234,"name":"Renamed","slug":"1234","latestFilesIndexes":[]}}`))

	_, err := c.Resolve("1234", fabric1201)
	require.ErrorIs(t, err, core.ErrUnknownIdentifier)

	calls := mt.GetCallCountInfo()
	assert.Equal(t, 1, calls["GET "+testAPIURL+"/v1/mods/1234"])
	assert.Equal(t, 2, calls["POST "+testGraphQLURL])
}

func TestResolveUnknownSlug(t *testing.T) {
	c, mt := newTestClient(t)
	registerAddons(t, mt, map[string]string{})

	sel, err := c.Resolve("not-a-mod", fabric1201)
	require.ErrorIs(t, err, core.ErrUnknownIdentifier)
	assert.False(t, core.IsSoft(err))
	assert.Nil(t, sel)
	assert.Equal(t, 1, mt.GetTotalCallCount(), "non-numeric identifiers never use the ID lookup")
}

func TestResolveNoCompatibleFile(t *testing.T) {
	c, mt := newTestClient(t)
	registerAddons(t, mt, map[string]string{"jei": jeiAddon})

	sel, err := c.Resolve("jei", core.Constraints{Loader: "quilt", AcceptedVersions: []string{"1.20.1"}})
	require.ErrorIs(t, err, core.ErrNoCompatibleVersion)
	assert.True(t, core.IsSoft(err))
	assert.Nil(t, sel)
}

func TestResolveGraphQLErrors(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder("POST", testGraphQLURL,
		httpmock.NewStringResponder(200, `{"data":null,"errors":[{"message":"rate limited"}]}`))

	_, err := c.Resolve("jei", fabric1201)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestResolveHTTPError(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder("POST", testGraphQLURL, httpmock.NewStringResponder(502, "bad gateway"))

	_, err := c.Resolve("jei", fabric1201)
	var httpErr *core.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 502, httpErr.StatusCode)
}

func TestUpdaterUpToDate(t *testing.T) {
	mt := httpmock.NewMockTransport()
	c := NewClient(
		WithHTTPClient(&http.Client{Transport: mt}),
		WithGraphQLURL(testGraphQLURL),
		WithAPIURL(testAPIURL),
		WithAPIKey("secret"),
	)
	registerAddons(t, mt, map[string]string{"jei": jeiAddon})
	mt.RegisterResponder("GET", testAPIURL+"/v1/mods/238222",
		httpmock.NewStringResponder(200, `{"data":{"id":238222,"name":"Just Enough Items","slug":"jei"}}`))

	u := cfUpdater{client: c}
	current := core.PackageEntry{Name: "jei", Update: core.CurseforgeRef{AddonID: 238222, FileID: 12}}
	sel, err := u.CheckUpdate(current, fabric1201)
	require.NoError(t, err)
	assert.Nil(t, sel)

	outdated := core.PackageEntry{Name: "jei", Update: core.CurseforgeRef{AddonID: 238222, FileID: 11}}
	sel, err = u.CheckUpdate(outdated, fabric1201)
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, core.CurseforgeRef{AddonID: 238222, FileID: 12}, sel.Update)
}

const jeiAddonLookalike = `{
  "authors": [{"name": "someone"}],
  "name": "JEI Addon",
  "slug": "jei-addon",
  "id": 999,
  "files": [
    {"downloadUrl": "https://edge.forgecdn.net/files/9/9/jei-addon.jar", "fileName": "jei-addon.jar",
     "gameVersion": ["Fabric", "1.20.1"], "id": 77, "displayName": "X", "fileDate": "2024-01-01T00:00:00"}
  ]
}`

func TestUpdaterOnlyAcceptsSameProject(t *testing.T) {
	mt := httpmock.NewMockTransport()
	c := NewClient(
		WithHTTPClient(&http.Client{Transport: mt}),
		WithGraphQLURL(testGraphQLURL),
		WithAPIURL(testAPIURL),
		WithAPIKey("secret"),
	)
	mt.RegisterResponder("POST", testGraphQLURL,
		httpmock.NewStringResponder(200, `{"data":{"addons":[`+jeiAddonLookalike+`,`+jeiAddon+`]}}`))
	mt.RegisterResponder("GET", testAPIURL+"/v1/mods/238222",
		httpmock.NewStringResponder(200, `{"data":{"id":238222,"name":"Just Enough Items","slug":"jei"}}`))

	u := cfUpdater{client: c}
	sel, err := u.CheckUpdate(core.PackageEntry{Name: "jei", Update: core.CurseforgeRef{AddonID: 238222, FileID: 11}}, fabric1201)
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, "jei", sel.Name)
	assert.Equal(t, core.CurseforgeRef{AddonID: 238222, FileID: 12}, sel.Update)
}

func TestUpdaterNoMatchingProject(t *testing.T) {
	c, mt := newTestClient(t)
	registerAddons(t, mt, map[string]string{"jei": jeiAddonLookalike})

	u := cfUpdater{client: c}
	_, err := u.CheckUpdate(core.PackageEntry{Name: "jei", Update: core.CurseforgeRef{AddonID: 238222, FileID: 11}}, fabric1201)
	require.ErrorIs(t, err, core.ErrUnknownIdentifier)
}

func TestUpdaterWithoutAPIKeySearchesEntryName(t *testing.T) {
	c, mt := newTestClient(t)
	registerAddons(t, mt, map[string]string{"jei": jeiAddon})

	u := cfUpdater{client: c}
	sel, err := u.CheckUpdate(core.PackageEntry{Name: "jei", Update: core.CurseforgeRef{AddonID: 238222, FileID: 11}}, fabric1201)
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, core.CurseforgeRef{AddonID: 238222, FileID: 12}, sel.Update)

	calls := mt.GetCallCountInfo()
	assert.Equal(t, 0, calls["GET "+testAPIURL+"/v1/mods/238222"], "the official API is not used without a key")
	assert.Equal(t, 1, calls["POST "+testGraphQLURL])
}

func TestResolveByIDWithoutAPIKeyOrSlug(t *testing.T) {
	c, mt := newTestClient(t)

	_, err := c.ResolveByID(238222, "", fabric1201)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Equal(t, 0, mt.GetTotalCallCount())
}

func TestFileDateFormats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2023-06-01T10:20:30"`, time.Date(2023, 6, 1, 10, 20, 30, 0, time.UTC)},
		{`"2023-06-01T10:20:30.5"`, time.Date(2023, 6, 1, 10, 20, 30, 500000000, time.UTC)},
		{`"2023-06-01T10:20:30Z"`, time.Date(2023, 6, 1, 10, 20, 30, 0, time.UTC)},
	}
	for _, tt := range tests {
		var d fileDate
		require.NoError(t, json.Unmarshal([]byte(tt.in), &d), tt.in)
		assert.True(t, tt.want.Equal(d.Time), "%s parsed as %s", tt.in, d.Time)
	}

	var d fileDate
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}
