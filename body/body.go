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

// Package body implements reading the Body.data record container.
//
// The container is a single binary file. An opaque header region is followed
// by back-to-back records. Each record starts with a fixed 12-byte header
// holding two little-endian 32-bit fields: an internal declared size (sz1,
// used only as a termination and sanity signal) and the compressed payload
// length plus four (sz2). The payload is a raw zlib stream holding the
// record's markup; it begins immediately after the header.
package body

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// HeaderSize is the size of a record header in bytes.
const HeaderSize = 12

// ErrCorruptRecord indicates that a record could not be decompressed.
var ErrCorruptRecord = errors.New("corrupt record")

// Record is a single decompressed container record.
type Record struct {
	// Offset is the byte offset of the record's header in the container.
	Offset int64

	// CompressedLen is the length of the record's compressed payload.
	CompressedLen int

	// Text is the record's markup decoded as UTF-8. Invalid byte sequences
	// are replaced with the Unicode replacement character.
	Text string
}

// Body reads records from a container by offset.
type Body struct {
	r io.ReaderAt
}

// New returns a new Body reading from r. The caller retains ownership of r.
func New(r io.ReaderAt) *Body {
	return &Body{r: r}
}

// Record reads and fully decompresses the record whose header starts at the
// given offset. Offsets are normally obtained from a container index.
func (b *Body) Record(offset int64) (*Record, error) {
	var header [HeaderSize]byte
	if _, err := b.r.ReadAt(header[:], offset); err != nil {
		return nil, fmt.Errorf("reading record header at %d: %w", offset, err)
	}

	sz2 := binary.LittleEndian.Uint32(header[4:8])
	if sz2 < 4 {
		return nil, fmt.Errorf("%w: header at %d declares payload size %d", ErrCorruptRecord, offset, sz2)
	}

	compressed := make([]byte, sz2-4)
	if _, err := b.r.ReadAt(compressed, offset+HeaderSize); err != nil {
		return nil, fmt.Errorf("reading record payload at %d: %w", offset, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: record at %d: %v", ErrCorruptRecord, offset, err)
	}
	defer zr.Close()

	text, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: record at %d: %v", ErrCorruptRecord, offset, err)
	}

	return &Record{
		Offset:        offset,
		CompressedLen: len(compressed),
		Text:          strings.ToValidUTF8(string(text), "�"),
	}, nil
}
