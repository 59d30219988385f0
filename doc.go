// Package jmfixture provides utilities for producing truncated JMdict test
// fixtures.
//
// The full JMdict distribution (a gzip-compressed Japanese-English
// dictionary in XML form) is far too large to check into a test suite.
// jmfixture copies a bounded prefix of it into a small fixture file,
// optionally appending one hand-crafted known entry for deterministic
// assertions. Each subpackage can be used independently:
//
//   - jmdict: byte-level primitives for the line-oriented JMdict format
//   - fixture: streaming truncation and fixture verification
//   - config: TOML/YAML configuration
//   - fetch: downloading the JMdict distribution
//   - watch: re-running work when a file changes
//
// # Quick Start
//
// Produce a fixture with the default 100 entries:
//
//	import "jmfixture/fixture"
//	stats, err := fixture.New().TruncateFile("JMdict_e.gz", "JMdict_e_test.gz")
//
// Or use the CLI:
//
//	jmfixture make --in JMdict_e.gz --out JMdict_e_test.gz --entries 100
//
// # Design Philosophy
//
//   - Single pass, line oriented: the dictionary is never parsed as XML
//   - Deterministic output: unchanged input yields byte-identical fixtures
//   - Each package usable independently
//   - Sensible defaults with full configurability
package jmfixture
