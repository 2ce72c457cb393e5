package core

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
)

// UserAgent is sent with every request made to catalogs and download hosts
const UserAgent = "packit/0.1 (+https://github.com/packit/packit)"

// GetWithUA performs a GET request with the packit user agent, failing on any non-200 status.
// The caller must close the response body.
func GetWithUA(client *http.Client, url string, contentType string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", UserAgent)
	if contentType != "" {
		req.Header.Set("Accept", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}
	return resp, nil
}

// Downloader materialises pack entries as files on disk, verified against their SHA-1 hash
type Downloader struct {
	client   *http.Client
	progress *mpb.Progress
}

// DownloaderOption configures a Downloader
type DownloaderOption func(*Downloader)

// WithHTTPClient sets the HTTP client used for downloads
func WithHTTPClient(c *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.client = c
	}
}

// WithProgress renders a progress bar for each download into p
func WithProgress(p *mpb.Progress) DownloaderOption {
	return func(d *Downloader) {
		d.progress = p
	}
}

// NewDownloader creates a Downloader
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{client: &http.Client{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Ensure makes sure targetPath holds the file at url with the given SHA-1 hash.
// If targetPath already has the expected hash no request is made, and false is returned.
// A download whose hash doesn't match fails with *IntegrityError and leaves targetPath untouched.
func (d *Downloader) Ensure(targetPath string, url string, expectedHash string) (bool, error) {
	expectedHash = strings.ToLower(expectedHash)

	existingHash, err := HashFile(targetPath)
	if err == nil {
		if existingHash == expectedHash {
			log.Debug().Str("path", targetPath).Msg("Already OK")
			return false, nil
		}
		log.Debug().Str("path", targetPath).Str("hash", existingHash).Msg("Existing file has the wrong hash")
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to hash existing file %s: %w", targetPath, err)
	}

	data, err := d.fetch(url, filepath.Base(targetPath))
	if err != nil {
		return false, err
	}

	downloadHash := HashBytes(data)
	if downloadHash != expectedHash {
		return false, &IntegrityError{Expected: expectedHash, Actual: downloadHash}
	}

	if err := writeFileReplacing(targetPath, data); err != nil {
		return false, err
	}
	return true, nil
}

// HashURL downloads url and returns the SHA-1 of its contents, for catalogs that don't provide one
func (d *Downloader) HashURL(url string) (string, error) {
	data, err := d.fetch(url, url)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

func (d *Downloader) fetch(url string, label string) ([]byte, error) {
	log.Info().Str("url", url).Msg("Downloading")
	resp, err := GetWithUA(d.client, url, "")
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	var bar *mpb.Bar
	if d.progress != nil && resp.ContentLength > 0 {
		bar = d.progress.AddBar(resp.ContentLength,
			mpb.PrependDecorators(decor.Name(label, decor.WCSyncSpaceR)),
			mpb.AppendDecorators(decor.CountersKibiByte("% .1f / % .1f")),
		)
		body = bar.ProxyReader(resp.Body)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, body)
	if bar != nil {
		// Mark the bar complete even on a short read, so the progress container can finish
		bar.SetTotal(n, true)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	return buf.Bytes(), nil
}

// writeFileReplacing writes data to a temporary file next to path, then renames it over path
func writeFileReplacing(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for download: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file for download: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move download to %s: %w", path, err)
	}
	return nil
}
