package core

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "0123456789abcdef0123456789abcdef01234567"

const samplePack = `pack_name = "Test Pack"
author = "someone"
accepted_game_versions = ["1.20.1"]
mod_loader = "Fabric"

[installed_mods.jei]
name = "jei"
download_url = "https://edge.forgecdn.net/files/1/2/jei.jar"
download_hash = "0123456789abcdef0123456789abcdef01234567"
output_path = "mods/jei.jar"
[installed_mods.jei.update_info]
type = "cf"
addon_id = 238222
file_id = 12

[installed_mods.sodium]
name = "sodium"
download_url = "https://cdn.modrinth.com/data/AANobbMI/versions/v1/sodium.jar"
download_hash = "0123456789abcdef0123456789abcdef01234567"
output_path = "mods/sodium.jar"
[installed_mods.sodium.update_info]
type = "mr"
project_id = "AANobbMI"
version_id = "v1"
staging = true

[installed_mods.manual]
name = "manual"
download_url = "https://example.com/manual.jar"
download_hash = "0123456789abcdef0123456789abcdef01234567"
output_path = "mods/manual.jar"
`

func TestLoad(t *testing.T) {
	pack, err := Load(strings.NewReader(samplePack))
	require.NoError(t, err)

	assert.Equal(t, "Test Pack", pack.Name)
	assert.Equal(t, "fabric", pack.Loader, "loader is stored lowercase")
	assert.Equal(t, []string{"jei", "manual", "sodium"}, pack.Names())

	jei, ok := pack.Entry("jei")
	require.True(t, ok)
	assert.Equal(t, CurseforgeRef{AddonID: 238222, FileID: 12}, jei.Update)

	sodium, _ := pack.Entry("sodium")
	assert.Equal(t, ModrinthRef{ProjectID: "AANobbMI", VersionID: "v1", Staging: true}, sodium.Update)

	manual, _ := pack.Entry("manual")
	assert.Nil(t, manual.Update)
}

func TestEncodeRoundTrip(t *testing.T) {
	pack := NewPack("Test Pack", "someone", []string{"1.20.1", "1.20"}, "fabric")
	pack.Add(PackageEntry{Name: "jei", DownloadURL: "https://a/jei.jar", DownloadHash: testHash, OutputPath: "mods/jei.jar",
		Update: CurseforgeRef{AddonID: 1, FileID: 2}})
	pack.Add(PackageEntry{Name: "sodium", DownloadURL: "https://a/sodium.jar", DownloadHash: testHash, OutputPath: "mods/sodium.jar",
		Update: ModrinthRef{ProjectID: "p", VersionID: "v"}})
	pack.Add(PackageEntry{Name: "lib", DownloadURL: "https://a/lib.jar", DownloadHash: testHash, OutputPath: "mods/lib.jar",
		Update: GitHubRef{Owner: "o", Repo: "lib", Tag: "v1"}})
	pack.Add(PackageEntry{Name: "manual", DownloadURL: "https://a/manual.jar", DownloadHash: testHash, OutputPath: "mods/manual.jar"})

	var buf bytes.Buffer
	require.NoError(t, pack.Encode(&buf))

	out := buf.String()
	assert.Contains(t, out, "[installed_mods.jei.update_info]")
	assert.NotContains(t, out, "[installed_mods.manual.update_info]")
	assert.NotContains(t, out, "staging", "staging is only written when set")

	decoded, err := Load(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(pack, decoded, cmp.AllowUnexported(Pack{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeOmitsEmptyMetadata(t *testing.T) {
	pack := NewPack("", "", nil, "forge")

	var buf bytes.Buffer
	require.NoError(t, pack.Encode(&buf))
	assert.NotContains(t, buf.String(), "pack_name")
	assert.NotContains(t, buf.String(), "author")
	assert.Contains(t, buf.String(), "accepted_game_versions = []")
}

func TestLoadErrors(t *testing.T) {
	const entry = "[installed_mods.a]\nname = \"a\"\ndownload_url = \"https://example.com/a.jar\"\n"
	const valid = "download_hash = \"" + testHash + "\"\noutput_path = \"mods/a.jar\"\n"
	cases := map[string]string{
		"invalid toml":          "pack_name = ",
		"unknown type":          entry + valid + "[installed_mods.a.update_info]\ntype = \"zz\"\n",
		"missing type":          entry + valid + "[installed_mods.a.update_info]\naddon_id = 1\n",
		"unknown field":         entry + valid + "[installed_mods.a.update_info]\ntype = \"gh\"\nowner = \"o\"\nbranch = \"main\"\n",
		"name/key mismatch":     "[installed_mods.a]\nname = \"b\"\n" + valid,
		"uppercase hash":        entry + "download_hash = \"" + strings.ToUpper(testHash) + "\"\noutput_path = \"mods/a.jar\"\n",
		"short hash":            entry + "download_hash = \"abc\"\noutput_path = \"mods/a.jar\"\n",
		"escaping output path":  entry + "download_hash = \"" + testHash + "\"\noutput_path = \"../escaped.jar\"\n",
		"nested escape":         entry + "download_hash = \"" + testHash + "\"\noutput_path = \"mods/../../escaped.jar\"\n",
		"absolute output path":  entry + "download_hash = \"" + testHash + "\"\noutput_path = \"/tmp/a.jar\"\n",
		"bare file name":        entry + "download_hash = \"" + testHash + "\"\noutput_path = \"a.jar\"\n",
		"backslash output path": entry + "download_hash = \"" + testHash + "\"\noutput_path = \"mods\\\\..\\\\a.jar\"\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(input))
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}

	_, err := Load(strings.NewReader(entry + valid))
	assert.NoError(t, err, "the shared entry fields are valid on their own")
}

func TestValidOutputPath(t *testing.T) {
	assert.True(t, ValidOutputPath("mods/a.jar"))
	assert.True(t, ValidOutputPath("client/mods/a.jar"))
	assert.False(t, ValidOutputPath("./mods/a.jar"))
	assert.False(t, ValidOutputPath("mods/"))
	assert.False(t, ValidOutputPath("mods/.."))
	assert.False(t, ValidOutputPath(""))
}

func TestLoadPackSetsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.toml")
	require.NoError(t, os.WriteFile(path, []byte("pack_name = "), 0644))

	_, err := LoadPack(path)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, path, perr.Path)

	_, err = LoadPack(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveUnknownLeavesPackUnchanged(t *testing.T) {
	pack, err := Load(strings.NewReader(samplePack))
	require.NoError(t, err)
	before, err := Load(strings.NewReader(samplePack))
	require.NoError(t, err)

	assert.False(t, pack.Remove("not-installed"))
	if diff := cmp.Diff(before, pack, cmp.AllowUnexported(Pack{})); diff != "" {
		t.Errorf("pack changed after removing an unknown name (-want +got):\n%s", diff)
	}
}

func TestSaveReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.toml")
	require.NoError(t, os.WriteFile(path, []byte(samplePack), 0644))

	pack, err := LoadPack(path)
	require.NoError(t, err)
	assert.True(t, pack.Remove("jei"))
	assert.False(t, pack.Remove("jei"))
	require.NoError(t, pack.Save(path))

	reloaded, err := LoadPack(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"manual", "sodium"}, reloaded.Names())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestNewEntry(t *testing.T) {
	entry, err := NewEntry("jei", "https://a/jei.jar", testHash, "jei.jar", "mods", CurseforgeRef{AddonID: 1, FileID: 2})
	require.NoError(t, err)
	assert.Equal(t, "mods/jei.jar", entry.OutputPath)

	_, err = NewEntry("jei", "", testHash, "jei.jar", "mods", nil)
	assert.Error(t, err, "an entry must have a download url")
	_, err = NewEntry("", "https://a/jei.jar", testHash, "jei.jar", "mods", nil)
	assert.Error(t, err)
	_, err = NewEntry("jei", "https://a/jei.jar", "ABC", "jei.jar", "mods", nil)
	assert.Error(t, err)
	_, err = NewEntry("jei", "https://a/jei.jar", testHash, "../jei.jar", "mods", nil)
	assert.Error(t, err)
}

func TestResolveOutputPath(t *testing.T) {
	assert.Equal(t, "mods/a.jar", ResolveOutputPath("a.jar", "mods"))
	assert.Equal(t, "mods/a.jar", ResolveOutputPath("a.jar", "./mods/"))
	assert.Equal(t, "mods/a.jar", ResolveOutputPath("a.jar", ""))
	assert.Equal(t, "client/mods/a.jar", ResolveOutputPath("a.jar", "client\\mods"))
	assert.Equal(t, "mods/a.jar", ResolveOutputPath("a.jar", "../mods"))
}

func TestUpdateRefProjectURL(t *testing.T) {
	assert.Equal(t, "https://www.curseforge.com/projects/238222", CurseforgeRef{AddonID: 238222}.ProjectURL())
	assert.Equal(t, "https://modrinth.com/project/p", ModrinthRef{ProjectID: "p"}.ProjectURL())
	assert.Equal(t, "https://staging.modrinth.com/project/p", ModrinthRef{ProjectID: "p", Staging: true}.ProjectURL())
	assert.Equal(t, "https://github.com/o/r/releases/tag/v1", GitHubRef{Owner: "o", Repo: "r", Tag: "v1"}.ProjectURL())
}

func TestReencodeURL(t *testing.T) {
	u, err := ReencodeURL("https://edge.forgecdn.net/files/1/2/jei[fabric].jar")
	require.NoError(t, err)
	assert.Equal(t, "https://edge.forgecdn.net/files/1/2/jei%5Bfabric%5D.jar", u)

	name, err := FileNameFromURL("https://example.com/files/my%20mod.jar?x=1")
	require.NoError(t, err)
	assert.Equal(t, "my mod.jar", name)

	_, err = FileNameFromURL("https://example.com/")
	assert.Error(t, err)
}
