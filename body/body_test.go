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

package body_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ianlewis/go-appledict/body"
	"github.com/ianlewis/go-appledict/internal/testutil"
)

func TestBody_Record(t *testing.T) {
	t.Parallel()

	records := []testutil.Record{
		{Title: "alpha", Markup: "first record text"},
		{Title: "beta", Markup: "second record text"},
	}
	container := testutil.MakeContainer(records...)

	// Every offset produced by a scan must read back a record containing
	// the title that produced the index entry.
	s, err := body.NewScanner(bytes.NewReader(container), nil)
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}

	b := body.New(bytes.NewReader(container))
	n := 0
	for s.Scan() {
		rec, err := b.Record(s.Offset())
		if err != nil {
			t.Fatalf("Record(%d): %v", s.Offset(), err)
		}
		if !strings.Contains(rec.Text, `d:title="`+s.Title()+`"`) {
			t.Fatalf("Record(%d): text does not contain title %q: %q", s.Offset(), s.Title(), rec.Text)
		}
		if rec.Offset != s.Offset() {
			t.Fatalf("Record offset: got %d, expected %d", rec.Offset, s.Offset())
		}
		n++
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if n != len(records) {
		t.Fatalf("scanned %d records, expected %d", n, len(records))
	}
}

func TestBody_Record_corrupt(t *testing.T) {
	t.Parallel()

	records := []testutil.Record{
		{Title: "alpha", Markup: "mangled", Corrupt: true},
	}
	offsets := testutil.RecordOffsets(records...)
	container := testutil.MakeContainer(records...)

	b := body.New(bytes.NewReader(container))
	if _, err := b.Record(offsets[0]); !errors.Is(err, body.ErrCorruptRecord) {
		t.Fatalf("Record: expected ErrCorruptRecord, got %v", err)
	}
}

func TestBody_Record_badOffset(t *testing.T) {
	t.Parallel()

	container := testutil.MakeContainer(testutil.Record{Title: "alpha", Markup: "x"})

	b := body.New(bytes.NewReader(container))
	if _, err := b.Record(int64(len(container) + 100)); err == nil {
		t.Fatal("Record: expected error for out-of-bounds offset")
	}
}

func TestBody_Record_lossyDecode(t *testing.T) {
	t.Parallel()

	// The markup contains an invalid UTF-8 byte sequence. Decoding must not
	// fail; invalid bytes are replaced.
	records := []testutil.Record{
		{Title: "alpha", Markup: "bad \xff\xfe bytes"},
	}
	offsets := testutil.RecordOffsets(records...)
	container := testutil.MakeContainer(records...)

	b := body.New(bytes.NewReader(container))
	rec, err := b.Record(offsets[0])
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !strings.Contains(rec.Text, "bad � bytes") {
		t.Fatalf("Record: expected replacement characters, got %q", rec.Text)
	}
}
