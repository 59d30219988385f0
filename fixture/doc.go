// Package fixture produces truncated JMdict fixtures for tests.
//
// The full JMdict distribution is tens of megabytes compressed; test suites
// only need a handful of entries. A Truncator streams the source line by
// line, copies everything up to a fixed number of entries, optionally
// appends one hand-crafted known entry, and closes the document with a
// single root-close line.
//
// # Basic Usage
//
// Truncate a gzip-compressed dictionary into a fixture file:
//
//	tr := fixture.New()
//	stats, err := tr.TruncateFile("JMdict_e.gz", "JMdict_e_test.gz")
//
// Or configure the truncation:
//
//	tr := fixture.New().WithLimit(50).WithKnownEntry(false)
//
// # Streams
//
// Truncate operates on uncompressed streams, which keeps it testable without
// touching the filesystem:
//
//	stats, err := tr.Truncate(&buf, strings.NewReader(doc))
//
// # Determinism
//
// The gzip header written by TruncateFile carries no file name or
// modification time, so running the same truncation twice over unchanged
// input produces byte-identical output.
//
// # Verification
//
// Verify checks an existing fixture without parsing XML: entry count, the
// known entry's presence, and that exactly one root-close line ends the
// document.
package fixture
