package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownIdentifier is returned when a catalog has no project for a slug or ID.
	ErrUnknownIdentifier = errors.New("unknown identifier")
	// ErrInvalidVersionSpecifier is returned for a malformed "slug:version" identifier.
	ErrInvalidVersionSpecifier = errors.New("invalid version specifier")
	// ErrMissingHash is returned when a catalog selects a file but omits its SHA-1 hash.
	ErrMissingHash = errors.New("catalog did not supply a sha1 hash")

	// ErrVersionNotFound is returned when a pinned version is not one of the project's versions.
	ErrVersionNotFound = errors.New("version not found for project")
	// ErrNoCompatibleVersion is returned when no version satisfies the pack's constraints.
	ErrNoCompatibleVersion = errors.New("no compatible version found")
	// ErrNoFile is returned when the chosen version or release has no usable file.
	ErrNoFile = errors.New("no valid file found")
)

// IsSoft reports whether err is a per-item outcome that should be reported and skipped
// rather than aborting the rest of a batch.
func IsSoft(err error) bool {
	return errors.Is(err, ErrVersionNotFound) ||
		errors.Is(err, ErrNoCompatibleVersion) ||
		errors.Is(err, ErrNoFile)
}

// IntegrityError is returned when downloaded bytes don't hash to the expected value.
type IntegrityError struct {
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("expected file hash %s but downloaded file with hash %s", e.Expected, e.Actual)
}

// ParseError wraps a failure to decode the pack manifest.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to parse pack: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HTTPError represents an unexpected HTTP response status.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("invalid response status %d for URL %s", e.StatusCode, e.URL)
}
