package fixture

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"jmfixture/jmdict"
)

// Verification failures. Verify returns these wrapped with positional
// detail; callers branch with errors.Is.
var (
	ErrNoRootClose       = errors.New("fixture is not closed by a root-close line")
	ErrMultipleRootClose = errors.New("fixture contains more than one root-close line")
	ErrTrailingData      = errors.New("fixture has content after the root-close line")
)

// Report describes a verified fixture.
type Report struct {
	// Entries is the number of entry-close lines, the known entry included.
	Entries int

	// Lines is the total line count.
	Lines int

	// KnownEntry reports whether the hand-crafted entry is present,
	// detected by its reserved sequence line.
	KnownEntry bool
}

// Verify checks the structural properties of an uncompressed fixture
// stream: entries are counted, the known entry is detected, and the stream
// must end with exactly one root-close line. It never parses XML.
func Verify(r io.Reader) (Report, error) {
	var report Report
	knownSeqLine := fmt.Sprintf("<ent_seq>%d</ent_seq>\n", jmdict.KnownEntrySeq)
	rootClosed := false

	err := jmdict.ForEachLine(r, func(line []byte) error {
		if rootClosed {
			if jmdict.IsRootClose(line) {
				return ErrMultipleRootClose
			}
			return ErrTrailingData
		}
		report.Lines++
		switch {
		case jmdict.IsEntryClose(line):
			report.Entries++
		case jmdict.IsRootClose(line):
			rootClosed = true
		case string(line) == knownSeqLine:
			report.KnownEntry = true
		}
		return nil
	})
	if err != nil {
		return report, err
	}
	if !rootClosed {
		return report, ErrNoRootClose
	}
	return report, nil
}

// VerifyFile verifies the gzip-compressed fixture at path. Reading the
// stream to its end also validates the gzip checksum, so a corrupt file
// fails here even when its structure would pass.
func VerifyFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return Report{}, fmt.Errorf("read gzip header: %w", err)
	}
	defer gz.Close()

	report, err := Verify(gz)
	if err != nil {
		return report, fmt.Errorf("verify %s: %w", path, err)
	}
	return report, nil
}

// VerifyString verifies an uncompressed fixture held in memory.
// Convenience for tests.
func VerifyString(s string) (Report, error) {
	return Verify(strings.NewReader(s))
}
