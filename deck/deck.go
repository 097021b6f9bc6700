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

// Package deck exports dictionary entries as Anki flashcard packages.
//
// A package is a zip archive holding an SQLite collection database
// (collection.anki2), a JSON manifest mapping numbered archive entries to
// media file names, and the media files themselves. Word entries and idiom
// entries go into separate decks so they can be studied independently.
package deck

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	// SQLite driver used to write the collection database.
	_ "modernc.org/sqlite"

	"github.com/ianlewis/go-appledict/entry"
)

// Stable identifiers so that re-imports update notes in place instead of
// duplicating them.
const (
	modelID     = 1718200004
	wordDeckID  = 1718200002
	idiomDeckID = 1718200003
)

// ErrEmpty indicates that a package was written with no notes in it.
var ErrEmpty = errors.New("deck has no notes")

// Options configures a Builder.
type Options struct {
	// MediaDir is the directory holding the dictionary's audio clips.
	// Referenced clips that exist under MediaDir are bundled into the
	// package.
	MediaDir string

	// IncludeAllAudio bundles every example's audio clip. By default only
	// each entry's first example clip is kept to limit package size.
	IncludeAllAudio bool

	// WordDeckName and IdiomDeckName name the two decks. They default to
	// "Dictionary::Words" and "Dictionary::Idioms".
	WordDeckName  string
	IdiomDeckName string
}

type note struct {
	deckID int64
	fields []string
}

// Builder accumulates entries and writes them out as an Anki package.
type Builder struct {
	opts  Options
	notes []note
	media map[string]struct{}
}

// New returns a new Builder.
func New(opts Options) *Builder {
	if opts.WordDeckName == "" {
		opts.WordDeckName = "Dictionary::Words"
	}
	if opts.IdiomDeckName == "" {
		opts.IdiomDeckName = "Dictionary::Idioms"
	}
	return &Builder{
		opts:  opts,
		media: map[string]struct{}{},
	}
}

// Add adds one note per entry. Media files referenced by a note's fields are
// recorded for bundling.
func (b *Builder) Add(entries ...*entry.Entry) {
	for _, e := range entries {
		fields := noteFields(e, b.opts.IncludeAllAudio)

		deckID := int64(wordDeckID)
		if e.Kind == entry.KindIdiom {
			deckID = idiomDeckID
		}
		b.notes = append(b.notes, note{deckID: deckID, fields: fields})

		for name := range soundRefs(fields) {
			if _, ok := e.Media[name]; ok {
				b.media[name] = struct{}{}
			}
		}
	}
}

// Len returns the number of notes added so far.
func (b *Builder) Len() int {
	return len(b.notes)
}

// MediaLen returns the number of media files recorded so far.
func (b *Builder) MediaLen() int {
	return len(b.media)
}

// WriteFile writes the package to path.
func (b *Builder) WriteFile(path string) error {
	if len(b.notes) == 0 {
		return ErrEmpty
	}

	tmpDir, err := os.MkdirTemp("", "appledict-deck-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "collection.anki2")
	if err := b.writeCollection(dbPath); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating package: %w", err)
	}
	defer f.Close()

	if err := b.writeArchive(f, dbPath); err != nil {
		return fmt.Errorf("writing package: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing package: %w", err)
	}
	return nil
}

func (b *Builder) writeCollection(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening collection db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	if err := b.insertCol(db); err != nil {
		return err
	}
	if err := b.insertNotes(db); err != nil {
		return err
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("closing collection db: %w", err)
	}
	return nil
}

func (b *Builder) insertCol(db *sql.DB) error {
	models, err := json.Marshal(map[string]any{
		strconv.Itoa(modelID): noteModel(),
	})
	if err != nil {
		return fmt.Errorf("encoding models: %w", err)
	}

	decks, err := json.Marshal(map[string]any{
		strconv.Itoa(wordDeckID):  deckConfig(wordDeckID, b.opts.WordDeckName),
		strconv.Itoa(idiomDeckID): deckConfig(idiomDeckID, b.opts.IdiomDeckName),
	})
	if err != nil {
		return fmt.Errorf("encoding decks: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		collectionEpoch, collectionEpoch*1000, collectionEpoch*1000,
		collectionConf, string(models), string(decks), collectionDconf,
	)
	if err != nil {
		return fmt.Errorf("inserting collection row: %w", err)
	}
	return nil
}

func (b *Builder) insertNotes(db *sql.DB) error {
	noteStmt, err := db.Prepare(
		`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		 VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`,
	)
	if err != nil {
		return fmt.Errorf("preparing notes: %w", err)
	}
	defer noteStmt.Close()

	cardStmt, err := db.Prepare(
		`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl,
		                    factor, reps, lapses, left, odue, odid, flags, data)
		 VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
	)
	if err != nil {
		return fmt.Errorf("preparing cards: %w", err)
	}
	defer cardStmt.Close()

	for i, n := range b.notes {
		noteID := collectionEpoch*1000 + int64(i)
		flds := strings.Join(n.fields, "\x1f")
		sfld := n.fields[0]

		_, err := noteStmt.Exec(
			noteID, noteGUID(n), modelID, collectionEpoch,
			flds, sfld, fieldChecksum(sfld),
		)
		if err != nil {
			return fmt.Errorf("inserting note %q: %w", sfld, err)
		}

		_, err = cardStmt.Exec(noteID+1_000_000_000, noteID, n.deckID, collectionEpoch, i)
		if err != nil {
			return fmt.Errorf("inserting card %q: %w", sfld, err)
		}
	}
	return nil
}

func (b *Builder) writeArchive(w io.Writer, dbPath string) error {
	zw := zip.NewWriter(w)

	if err := addZipFile(zw, "collection.anki2", dbPath); err != nil {
		return err
	}

	names := make([]string, 0, len(b.media))
	for name := range b.media {
		names = append(names, name)
	}
	sort.Strings(names)

	manifest := map[string]string{}
	i := 0
	for _, name := range names {
		src := filepath.Join(b.opts.MediaDir, name)
		if _, err := os.Stat(src); err != nil {
			// Referenced but not shipped with the dictionary.
			continue
		}
		entryName := strconv.Itoa(i)
		if err := addZipFile(zw, entryName, src); err != nil {
			return err
		}
		manifest[entryName] = name
		i++
	}

	mw, err := zw.Create("media")
	if err != nil {
		return fmt.Errorf("creating media manifest: %w", err)
	}
	if err := json.NewEncoder(mw).Encode(manifest); err != nil {
		return fmt.Errorf("encoding media manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

func addZipFile(zw *zip.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return nil
}

// noteGUID derives a stable identifier from the note's headword and deck so
// re-imports update rather than duplicate.
func noteGUID(n note) string {
	h := sha1.Sum([]byte(strconv.FormatInt(n.deckID, 10) + "\x1f" + n.fields[0]))
	return hex.EncodeToString(h[:])[:10]
}

// fieldChecksum computes Anki's sort-field checksum: the first 8 hex digits
// of the SHA1 of the field.
func fieldChecksum(sfld string) int64 {
	h := sha1.Sum([]byte(sfld))
	v, err := strconv.ParseInt(hex.EncodeToString(h[:])[:8], 16, 64)
	if err != nil {
		return 0
	}
	return v
}

// soundRefs returns the file names referenced by [sound:...] tags in fields.
func soundRefs(fields []string) map[string]struct{} {
	refs := map[string]struct{}{}
	for _, field := range fields {
		s := field
		for {
			start := strings.Index(s, "[sound:")
			if start < 0 {
				break
			}
			s = s[start+len("[sound:"):]
			end := strings.IndexByte(s, ']')
			if end < 0 {
				break
			}
			refs[s[:end]] = struct{}{}
			s = s[end+1:]
		}
	}
	return refs
}
