// Package fetch downloads the JMdict distribution over HTTP.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultURL is the upstream location of the English JMdict distribution.
const DefaultURL = "https://ftp.monash.edu/pub/nihongo/JMdict_e.gz"

// ProgressFunc receives download progress. total is -1 when the server
// does not report a content length.
type ProgressFunc func(downloaded, total int64)

// Options adjusts a single download.
type Options struct {
	// SHA256 is the expected hex digest of the downloaded file. Empty
	// skips verification.
	SHA256 string

	// Progress is called as data arrives, throttled to one call per
	// 100ms.
	Progress ProgressFunc
}

// Fetcher downloads dictionary files.
type Fetcher struct {
	client *http.Client
}

// New creates a fetcher. The client carries no timeout; the dictionary is
// large and cancellation is the caller's context.
func New() *Fetcher {
	return &Fetcher{client: &http.Client{}}
}

// WithClient sets a custom HTTP client.
func (f *Fetcher) WithClient(client *http.Client) *Fetcher {
	f.client = client
	return f
}

// Fetch downloads url to destPath. The body streams into a temporary file
// in the destination directory and is renamed into place, so an
// interrupted download never leaves a partial file at destPath.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	var reader io.Reader = io.TeeReader(resp.Body, hasher)
	if opts.Progress != nil {
		reader = &progressReader{
			reader:   reader,
			total:    resp.ContentLength,
			progress: opts.Progress,
		}
	}

	if _, err = io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("save download: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if opts.SHA256 != "" {
		digest := hex.EncodeToString(hasher.Sum(nil))
		if digest != opts.SHA256 {
			err = fmt.Errorf("sha256 mismatch: expected %s, got %s", opts.SHA256, digest)
			return err
		}
	}

	if err = os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err = os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("move download into place: %w", err)
	}

	return nil
}

// progressReader reports bytes read, at most once per 100ms.
type progressReader struct {
	reader     io.Reader
	downloaded int64
	total      int64
	progress   ProgressFunc
	lastUpdate time.Time
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
	}
	now := time.Now()
	if err != nil || now.Sub(r.lastUpdate) >= 100*time.Millisecond {
		r.progress(r.downloaded, r.total)
		r.lastUpdate = now
	}
	return n, err
}
