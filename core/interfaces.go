package core

// Selection is the artifact a Resolver picked for an identifier, with enough data to build a PackageEntry
type Selection struct {
	// Name is the key the entry is stored under (the project slug, or repository name)
	Name string
	// Title is the display name of the project
	Title    string
	Authors  []string
	FileName string
	URL      string
	// Hash is empty when the catalog doesn't supply a SHA-1 and the bytes must be hashed by the caller
	Hash   string
	Update UpdateRef
}

// Resolver resolves an identifier in one catalog to a single downloadable file.
// Finding no acceptable file is reported with a soft error (see IsSoft), not a nil Selection.
type Resolver interface {
	Resolve(identifier string, cons Constraints) (*Selection, error)
}

// Updaters stores the update systems for each UpdateRef type. Source packages add themselves to this map.
var Updaters = make(map[string]Updater)

// Updater re-resolves an installed entry from its UpdateRef
type Updater interface {
	// CheckUpdate returns the newest acceptable Selection for the entry, or nil if it is already up to date
	CheckUpdate(entry PackageEntry, cons Constraints) (*Selection, error)
}
