package fixture

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"jmfixture/jmdict"
)

// sampleDoc builds a line-oriented document with n minimal entries and a
// closing root line, mirroring the layout of the real distribution.
func sampleDoc(n int) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<JMdict>\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "<entry>\n<ent_seq>%d</ent_seq>\n</entry>\n", 1000000+i)
	}
	b.WriteString("</JMdict>\n")
	return b.String()
}

func TestNew(t *testing.T) {
	tr := New()
	if tr.Limit() != DefaultEntryLimit {
		t.Errorf("Limit() = %d, expected %d", tr.Limit(), DefaultEntryLimit)
	}
	if !tr.KnownEntry() {
		t.Error("expected known entry enabled by default")
	}
}

func TestTruncator_WithLimit(t *testing.T) {
	tr := New().WithLimit(5)
	if tr.Limit() != 5 {
		t.Errorf("Limit() = %d, expected 5", tr.Limit())
	}
}

func TestTruncator_WithKnownEntry(t *testing.T) {
	tr := New().WithKnownEntry(false)
	if tr.KnownEntry() {
		t.Error("expected known entry disabled")
	}
}

func TestTruncator_Truncate(t *testing.T) {
	tests := []struct {
		name            string
		sourceEntries   int
		limit           int
		knownEntry      bool
		expectedEntries int
		expectTruncated bool
	}{
		{
			name:            "source larger than limit",
			sourceEntries:   10,
			limit:           3,
			knownEntry:      false,
			expectedEntries: 3,
			expectTruncated: true,
		},
		{
			name:            "source equal to limit",
			sourceEntries:   3,
			limit:           3,
			knownEntry:      false,
			expectedEntries: 3,
			expectTruncated: true,
		},
		{
			name:            "source smaller than limit",
			sourceEntries:   2,
			limit:           5,
			knownEntry:      false,
			expectedEntries: 2,
			expectTruncated: false,
		},
		{
			name:            "known entry adds one",
			sourceEntries:   10,
			limit:           3,
			knownEntry:      true,
			expectedEntries: 4,
			expectTruncated: true,
		},
		{
			name:            "empty source with known entry",
			sourceEntries:   0,
			limit:           3,
			knownEntry:      true,
			expectedEntries: 1,
			expectTruncated: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			tr := New().WithLimit(tt.limit).WithKnownEntry(tt.knownEntry)

			stats, err := tr.Truncate(&out, strings.NewReader(sampleDoc(tt.sourceEntries)))
			if err != nil {
				t.Fatalf("Truncate() error = %v", err)
			}

			if stats.Truncated != tt.expectTruncated {
				t.Errorf("stats.Truncated = %v, expected %v", stats.Truncated, tt.expectTruncated)
			}

			count, err := jmdict.CountEntries(bytes.NewReader(out.Bytes()))
			if err != nil {
				t.Fatalf("CountEntries() error = %v", err)
			}
			if count != tt.expectedEntries {
				t.Errorf("output has %d entries, expected %d", count, tt.expectedEntries)
			}

			if got := strings.Count(out.String(), jmdict.RootClose); got != 1 {
				t.Errorf("output has %d root-close lines, expected exactly 1", got)
			}
			if !strings.HasSuffix(out.String(), jmdict.RootClose) {
				t.Error("output should end with the root-close line")
			}
		})
	}
}

func TestTruncator_Truncate_PreservesLineBoundaries(t *testing.T) {
	src := sampleDoc(10)
	var out bytes.Buffer

	_, err := New().WithLimit(2).WithKnownEntry(false).Truncate(&out, strings.NewReader(src))
	if err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}

	// Everything before the appended root-close line must be a prefix of
	// the source, byte for byte.
	body := strings.TrimSuffix(out.String(), jmdict.RootClose)
	if !strings.HasPrefix(src, body) {
		t.Error("copied portion should be a byte-exact prefix of the source")
	}
}

func TestTruncator_Truncate_ShortSourceSingleRootClose(t *testing.T) {
	// The source already ends in </JMdict>; a limit beyond its size must
	// not produce a second one.
	var out bytes.Buffer
	_, err := New().WithLimit(100).Truncate(&out, strings.NewReader(sampleDoc(2)))
	if err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}
	if got := strings.Count(out.String(), jmdict.RootClose); got != 1 {
		t.Errorf("output has %d root-close lines, expected exactly 1", got)
	}
}

func TestTruncator_Truncate_Stats(t *testing.T) {
	src := sampleDoc(5)
	var out bytes.Buffer

	stats, err := New().WithLimit(2).WithKnownEntry(true).Truncate(&out, strings.NewReader(src))
	if err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}

	if stats.Entries != 2 {
		t.Errorf("stats.Entries = %d, expected 2", stats.Entries)
	}
	if !stats.KnownEntry {
		t.Error("stats.KnownEntry should be true")
	}
	if stats.BytesWritten != int64(out.Len()) {
		t.Errorf("stats.BytesWritten = %d, expected %d", stats.BytesWritten, out.Len())
	}
	if stats.BytesRead == 0 {
		t.Error("stats.BytesRead should be non-zero")
	}
	if stats.BytesWritten >= int64(len(src))+int64(len(jmdict.KnownEntry)) {
		t.Error("truncated output should be smaller than source plus known entry")
	}
}

func TestTruncator_Truncate_ZeroLimitCopiesAll(t *testing.T) {
	// Limit zero means no limit; only the source's own end stops the copy.
	var out bytes.Buffer
	stats, err := New().WithLimit(0).WithKnownEntry(false).Truncate(&out, strings.NewReader(sampleDoc(4)))
	if err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}
	if stats.Entries != 4 {
		t.Errorf("stats.Entries = %d, expected 4", stats.Entries)
	}
	if stats.Truncated {
		t.Error("stats.Truncated should be false without a limit")
	}
}

func TestTruncator_Truncate_Determinism(t *testing.T) {
	src := sampleDoc(10)

	var a, b bytes.Buffer
	if _, err := New().WithLimit(3).Truncate(&a, strings.NewReader(src)); err != nil {
		t.Fatalf("first Truncate() error = %v", err)
	}
	if _, err := New().WithLimit(3).Truncate(&b, strings.NewReader(src)); err != nil {
		t.Fatalf("second Truncate() error = %v", err)
	}

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two runs over the same input should be byte-identical")
	}
}
