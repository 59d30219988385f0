package fixture

import (
	"compress/gzip"
	"fmt"
	"io"

	"jmfixture/jmdict"
)

// DefaultEntryLimit is the number of entries copied when no limit is set.
const DefaultEntryLimit = 100

// Stats describes one completed truncation.
type Stats struct {
	// Entries is the number of entry-close lines copied from the source.
	Entries int

	// Lines is the total number of source lines copied.
	Lines int

	// BytesRead and BytesWritten count uncompressed bytes.
	BytesRead    int64
	BytesWritten int64

	// Truncated reports whether the entry limit was reached. False means
	// the source ran out of entries first.
	Truncated bool

	// KnownEntry reports whether the hand-crafted entry was appended.
	KnownEntry bool
}

// Truncator copies a bounded prefix of a JMdict stream.
type Truncator struct {
	limit      int
	knownEntry bool
	level      int
}

// New creates a truncator with the default entry limit and the known entry
// enabled.
func New() *Truncator {
	return &Truncator{
		limit:      DefaultEntryLimit,
		knownEntry: true,
		level:      gzip.DefaultCompression,
	}
}

// WithLimit sets the number of entries to copy from the source.
// A limit of zero or less copies every entry.
func (t *Truncator) WithLimit(n int) *Truncator {
	t.limit = n
	return t
}

// WithKnownEntry controls whether the hand-crafted known entry is appended
// after the copied entries.
func (t *Truncator) WithKnownEntry(include bool) *Truncator {
	t.knownEntry = include
	return t
}

// WithCompressionLevel sets the gzip level used by TruncateFile.
func (t *Truncator) WithCompressionLevel(level int) *Truncator {
	t.level = level
	return t
}

// Limit returns the configured entry limit.
func (t *Truncator) Limit() int {
	return t.limit
}

// KnownEntry reports whether the known entry will be appended.
func (t *Truncator) KnownEntry() bool {
	return t.knownEntry
}

// Truncate copies lines from src to dst until the entry limit is reached,
// then appends the known entry (when enabled) and exactly one root-close
// line. Both streams are uncompressed; see TruncateFile for the gzip form.
//
// The source's own root-close line is never copied. A source shorter than
// the limit therefore still yields output ending in a single root-close
// line rather than two.
func (t *Truncator) Truncate(dst io.Writer, src io.Reader) (Stats, error) {
	var stats Stats
	w := &countingWriter{w: dst}

	err := jmdict.ForEachLine(src, func(line []byte) error {
		stats.BytesRead += int64(len(line))
		if jmdict.IsRootClose(line) {
			// Closing the document is our job.
			return nil
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("copy line: %w", err)
		}
		stats.Lines++
		if jmdict.IsEntryClose(line) {
			stats.Entries++
			if t.limit > 0 && stats.Entries == t.limit {
				stats.Truncated = true
				return jmdict.ErrStop
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	if t.knownEntry {
		if _, err := w.Write([]byte(jmdict.KnownEntry)); err != nil {
			return stats, fmt.Errorf("append known entry: %w", err)
		}
		stats.KnownEntry = true
	}
	if _, err := w.Write([]byte(jmdict.RootClose)); err != nil {
		return stats, fmt.Errorf("close document: %w", err)
	}

	stats.BytesWritten = w.written
	return stats, nil
}

// countingWriter tracks bytes written to the underlying writer.
type countingWriter struct {
	w       io.Writer
	written int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.written += int64(n)
	return n, err
}
