// Package jmdict provides byte-level primitives for the JMdict dictionary
// distribution.
//
// JMdict is shipped as gzip-compressed XML with a strictly line-oriented
// layout: every element sits on its own line with no indentation. That makes
// whole-line byte comparison sufficient for finding record boundaries, and
// this package deliberately stays at that level. Nothing here parses or
// validates XML.
package jmdict

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// EntryClose is the line that terminates one dictionary entry.
const EntryClose = "</entry>\n"

// RootClose is the line that terminates the document.
const RootClose = "</JMdict>\n"

// KnownEntrySeq is the sequence number used by KnownEntry. JMdict assigns
// sequence numbers starting at 1000000, well below this value, so the known
// entry can never collide with a real one.
const KnownEntrySeq = 9999999

// KnownEntry is a hand-crafted entry appended to fixtures so tests have
// stable content to assert against. It follows the flat line layout of the
// real file, including the undeclared &n; entity JMdict uses for
// part-of-speech values.
const KnownEntry = `<entry>
<ent_seq>9999999</ent_seq>
<k_ele>
<keb>日本</keb>
</k_ele>
<r_ele>
<reb>にほん</reb>
</r_ele>
<sense>
<pos>&n;</pos>
<gloss>Japan</gloss>
<gloss>Japanese</gloss>
</sense>
</entry>
`

// ErrStop terminates ForEachLine early without reporting an error to the
// caller, in the manner of fs.SkipDir.
var ErrStop = errors.New("stop iteration")

// IsEntryClose reports whether line is exactly an entry-close line.
func IsEntryClose(line []byte) bool {
	return bytes.Equal(line, []byte(EntryClose))
}

// IsRootClose reports whether line is exactly the document-close line.
func IsRootClose(line []byte) bool {
	return bytes.Equal(line, []byte(RootClose))
}

// ForEachLine streams r line by line and calls fn for each line, trailing
// newline included. A final line without a newline is still delivered. The
// line slice is only valid for the duration of the call.
func ForEachLine(r io.Reader, fn func(line []byte) error) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if cbErr := fn(line); cbErr != nil {
				if errors.Is(cbErr, ErrStop) {
					return nil
				}
				return cbErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}
	}
}

// CountEntries counts entry-close lines in an uncompressed dictionary stream.
func CountEntries(r io.Reader) (int, error) {
	count := 0
	err := ForEachLine(r, func(line []byte) error {
		if IsEntryClose(line) {
			count++
		}
		return nil
	})
	return count, err
}
