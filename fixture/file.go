package fixture

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
)

// TruncateFile reads the gzip-compressed dictionary at srcPath and writes
// the truncated fixture to dstPath, also gzip-compressed. Output goes to a
// temporary file in the destination directory first and is renamed into
// place, so a failed run never leaves a partial fixture behind.
func (t *Truncator) TruncateFile(srcPath, dstPath string) (Stats, error) {
	var stats Stats

	in, err := os.Open(srcPath)
	if err != nil {
		return stats, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	gzIn, err := gzip.NewReader(in)
	if err != nil {
		return stats, fmt.Errorf("read gzip header: %w", err)
	}
	defer gzIn.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dstPath), ".fixture-*")
	if err != nil {
		return stats, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	gzOut, err := gzip.NewWriterLevel(tmp, t.level)
	if err != nil {
		tmp.Close()
		return stats, fmt.Errorf("invalid compression level: %w", err)
	}

	stats, err = t.Truncate(gzOut, gzIn)
	if err != nil {
		gzOut.Close()
		tmp.Close()
		return stats, err
	}

	if err = gzOut.Close(); err != nil {
		tmp.Close()
		return stats, fmt.Errorf("flush gzip: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return stats, fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, 0644); err != nil {
		return stats, fmt.Errorf("set permissions: %w", err)
	}
	if err = os.Rename(tmpPath, dstPath); err != nil {
		return stats, fmt.Errorf("move fixture into place: %w", err)
	}

	return stats, nil
}
