// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package body

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
)

const (
	// RecordStart is the container offset of the first record header. The
	// bytes before it are an opaque header region.
	RecordStart = 0x60

	// MaxRecordSize is the sanity ceiling for a header's declared internal
	// size. A header declaring zero or more than this ends the scan.
	MaxRecordSize = 500_000

	// DefaultTitlePrefixSize is how much record plaintext is inflated by
	// default while looking for the title attribute.
	DefaultTitlePrefixSize = 512
)

// titleMarker is the attribute carrying a record's headword title.
var titleMarker = []byte(`d:title="`)

// ScannerOptions are options for scanning a container.
type ScannerOptions struct {
	// Start is the byte offset of the first record header. The bytes before
	// it are the container's opaque header region.
	Start int64

	// MaxDeclaredSize is the sanity ceiling for a header's declared internal
	// size (sz1). A zero or larger value terminates the scan. This is a
	// heuristic guard against misparsing, not a documented format limit.
	// Defaults to [MaxRecordSize].
	MaxDeclaredSize uint32

	// TitlePrefixSize is how much record plaintext is inflated while looking
	// for the title attribute. Titles sit at the front of the record, so a
	// small prefix avoids inflating whole records during indexing.
	TitlePrefixSize int
}

// DefaultScannerOptions is the default options for a Scanner.
var DefaultScannerOptions = &ScannerOptions{
	Start:           RecordStart,
	MaxDeclaredSize: MaxRecordSize,
	TitlePrefixSize: DefaultTitlePrefixSize,
}

// Scanner walks a container's record area once from start to end, yielding
// the title and header offset of each readable record. Records whose payload
// fails to decompress, or whose prefix carries no non-empty title attribute,
// are skipped; the scan cursor always advances by the declared payload length so
// a corrupt record never stalls the scan.
type Scanner struct {
	r    *bufio.Reader
	opts *ScannerOptions

	// offset is the container offset of the next unread byte.
	offset int64

	title       string
	titleOffset int64

	prefix []byte
	err    error
	done   bool
}

// NewScanner returns a new Scanner reading from r. The reader is positioned
// at the start of the container. The caller retains ownership of r.
func NewScanner(r io.Reader, opts *ScannerOptions) (*Scanner, error) {
	if opts == nil {
		opts = DefaultScannerOptions
	}

	s := &Scanner{
		r:      bufio.NewReader(r),
		opts:   opts,
		offset: opts.Start,
		prefix: make([]byte, opts.TitlePrefixSize),
	}

	if _, err := io.CopyN(io.Discard, s.r, opts.Start); err != nil {
		if err == io.EOF {
			// The container is shorter than its header region and holds no
			// records.
			s.done = true
			return s, nil
		}
		return nil, fmt.Errorf("skipping container header: %w", err)
	}

	return s, nil
}

// Scan advances the scanner to the next record that carries a title. It
// returns false when the record area ends or an I/O error occurs.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	var header [HeaderSize]byte
	for {
		if _, err := io.ReadFull(s.r, header[:]); err != nil {
			// A truncated trailing header is treated as the end of the
			// record area.
			s.done = true
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				s.err = fmt.Errorf("reading record header at %d: %w", s.offset, err)
			}
			return false
		}

		sz1 := binary.LittleEndian.Uint32(header[0:4])
		sz2 := binary.LittleEndian.Uint32(header[4:8])
		if sz1 == 0 || sz1 > s.opts.MaxDeclaredSize || sz2 < 4 {
			// End of record area or corruption sentinel.
			s.done = true
			return false
		}

		headerOffset := s.offset
		compressed := make([]byte, sz2-4)
		if _, err := io.ReadFull(s.r, compressed); err != nil {
			s.done = true
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				s.err = fmt.Errorf("reading record payload at %d: %w", headerOffset, err)
			}
			return false
		}
		s.offset += HeaderSize + int64(len(compressed))

		title, ok := s.sniffTitle(compressed)
		if !ok {
			// Skip silently. The cursor has already advanced past the
			// record so a decompression failure cannot stall the scan.
			continue
		}

		s.title = title
		s.titleOffset = headerOffset
		return true
	}
}

// sniffTitle inflates up to TitlePrefixSize bytes of the record plaintext
// and extracts the title attribute value from it.
func (s *Scanner) sniffTitle(compressed []byte) (string, bool) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", false
	}
	defer zr.Close()

	// Records smaller than the prefix inflate completely; ReadFull's
	// unexpected EOF is not an error here.
	n, err := io.ReadFull(zr, s.prefix)
	if n == 0 && err != nil {
		return "", false
	}
	prefix := s.prefix[:n]

	i := bytes.Index(prefix, titleMarker)
	if i < 0 {
		return "", false
	}
	start := i + len(titleMarker)
	end := bytes.IndexByte(prefix[start:], '"')
	// An empty title value is as unusable as a missing one.
	if end <= 0 {
		return "", false
	}

	return strings.ToValidUTF8(string(prefix[start:start+end]), "�"), true
}

// Title returns the title of the current record.
func (s *Scanner) Title() string {
	return s.title
}

// Offset returns the container offset of the current record's header.
func (s *Scanner) Offset() int64 {
	return s.titleOffset
}

// Err returns the first I/O error encountered by the scanner. Reaching the
// end of the record area is not an error.
func (s *Scanner) Err() error {
	return s.err
}
