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

// Package testutil provides synthetic container fixtures for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zlib"
)

// containerStart is the offset of the first record header in a synthetic
// container. It matches the real container layout.
const containerStart = 0x60

// Record describes one record in a synthetic container.
type Record struct {
	// Markup is the record's plaintext markup.
	Markup string

	// Corrupt mangles the record's compressed payload while keeping its
	// declared lengths intact.
	Corrupt bool

	// NoTitle omits the d:title attribute wrapper around Markup.
	NoTitle bool

	// Title is the record's title attribute value. Ignored when NoTitle is
	// set.
	Title string
}

// EntryMarkup wraps body in a d:entry element carrying the given title.
func EntryMarkup(title, body string) string {
	return fmt.Sprintf(`<d:entry xmlns:d="http://www.apple.com/DTDs/DictionaryService-1.0.rng" d:title=%q>%s</d:entry>`, title, body)
}

// MakeContainer builds a synthetic container holding the given records
// back-to-back after an opaque header region. The record area is terminated
// by an all-zero header.
func MakeContainer(records ...Record) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, containerStart))

	for _, r := range records {
		plain := r.Markup
		if !r.NoTitle {
			plain = EntryMarkup(r.Title, r.Markup)
		}

		var comp bytes.Buffer
		zw := zlib.NewWriter(&comp)
		if _, err := zw.Write([]byte(plain)); err != nil {
			panic(err)
		}
		if err := zw.Close(); err != nil {
			panic(err)
		}

		payload := comp.Bytes()
		if r.Corrupt {
			// Mangle the zlib header so decompression fails.
			payload[0] = 0xff
			payload[1] = 0xff
		}

		var header [12]byte
		//nolint:gosec // test fixtures are always small.
		binary.LittleEndian.PutUint32(header[0:4], uint32(len(plain)))
		//nolint:gosec // test fixtures are always small.
		binary.LittleEndian.PutUint32(header[4:8], uint32(len(payload)+4))
		buf.Write(header[:])
		buf.Write(payload)
	}

	// Zero sz1 terminates the record area.
	buf.Write(make([]byte, 12))
	return buf.Bytes()
}

// RecordOffsets returns the header offsets the records of a container built
// with [MakeContainer] will occupy, in order.
func RecordOffsets(records ...Record) []int64 {
	var offsets []int64
	pos := int64(containerStart)
	for _, r := range records {
		plain := r.Markup
		if !r.NoTitle {
			plain = EntryMarkup(r.Title, r.Markup)
		}

		var comp bytes.Buffer
		zw := zlib.NewWriter(&comp)
		if _, err := zw.Write([]byte(plain)); err != nil {
			panic(err)
		}
		if err := zw.Close(); err != nil {
			panic(err)
		}

		offsets = append(offsets, pos)
		pos += 12 + int64(comp.Len())
	}
	return offsets
}
