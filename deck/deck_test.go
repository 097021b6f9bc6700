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

package deck_test

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/ianlewis/go-appledict/deck"
	"github.com/ianlewis/go-appledict/entry"
)

func wordEntry() *entry.Entry {
	return &entry.Entry{
		Kind:     entry.KindWord,
		Headword: "run",
		POS:      "verb",
		Groups: []entry.SenseGroup{
			{
				Senses: []entry.Sense{
					{
						Number: 1,
						Def:    "move fast on foot",
						Examples: []entry.Example{
							{Text: "I run daily.", Audio: "x_run_uss_1.mp3"},
							{Text: "She runs fast.", Audio: "x_runs_uss_2.mp3"},
						},
					},
				},
			},
			{
				TopicTrans: "运动",
				Senses: []entry.Sense{
					{Number: 2, Def: "a continuous period of something"},
				},
			},
		},
		Media: map[string]struct{}{
			"run__gb_1.mp3":    {},
			"x_run_uss_1.mp3":  {},
			"x_runs_uss_2.mp3": {},
		},
		Word: &entry.WordDetail{
			IPAGB:   "/rʌn/",
			AudioGB: "run__gb_1.mp3",
			VerbForms: []entry.VerbForm{
				{Text: "he / she / it runs", Audio: "runs__us_1.mp3"},
			},
		},
	}
}

func idiomEntry() *entry.Entry {
	return &entry.Entry{
		Kind:     entry.KindIdiom,
		Headword: "on the run",
		Groups: []entry.SenseGroup{
			{
				Senses: []entry.Sense{
					{Def: "trying to avoid being caught"},
				},
			},
		},
		Media: map[string]struct{}{},
	}
}

// readArchive extracts the collection database to dir and decodes the media
// manifest.
func readArchive(t *testing.T, path, dir string) (string, map[string]string) {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer zr.Close()

	var dbPath string
	manifest := map[string]string{}
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", zf.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading %s: %v", zf.Name, err)
		}

		switch zf.Name {
		case "collection.anki2":
			dbPath = filepath.Join(dir, "collection.anki2")
			if err := os.WriteFile(dbPath, data, 0o600); err != nil {
				t.Fatal(err)
			}
		case "media":
			if err := json.Unmarshal(data, &manifest); err != nil {
				t.Fatalf("decoding media manifest: %v", err)
			}
		}
	}

	if dbPath == "" {
		t.Fatal("archive has no collection.anki2")
	}
	return dbPath, manifest
}

func TestBuilder_WriteFile(t *testing.T) {
	t.Parallel()

	mediaDir := t.TempDir()
	for _, name := range []string{"run__gb_1.mp3", "x_run_uss_1.mp3"} {
		if err := os.WriteFile(filepath.Join(mediaDir, name), []byte("mp3"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	b := deck.New(deck.Options{MediaDir: mediaDir})
	b.Add(wordEntry(), idiomEntry())

	if b.Len() != 2 {
		t.Fatalf("Len: expected 2, got %d", b.Len())
	}

	out := filepath.Join(t.TempDir(), "out.apkg")
	if err := b.WriteFile(out); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	dbPath, manifest := readArchive(t, out, t.TempDir())

	// Only media that is referenced and exists gets bundled. The second
	// example's clip is not referenced since only the first example keeps
	// its audio, and the verb form clip is not in the entry's media set.
	bundled := map[string]bool{}
	for _, name := range manifest {
		bundled[name] = true
	}
	if !bundled["run__gb_1.mp3"] || !bundled["x_run_uss_1.mp3"] || len(bundled) != 2 {
		t.Errorf("unexpected bundled media: %v", manifest)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening collection: %v", err)
	}
	defer db.Close()

	var notes int
	if err := db.QueryRow("SELECT count(*) FROM notes").Scan(&notes); err != nil {
		t.Fatalf("counting notes: %v", err)
	}
	if notes != 2 {
		t.Errorf("expected 2 notes, got %d", notes)
	}

	var cards int
	if err := db.QueryRow("SELECT count(*) FROM cards WHERE did = 1718200003").Scan(&cards); err != nil {
		t.Fatalf("counting idiom cards: %v", err)
	}
	if cards != 1 {
		t.Errorf("expected 1 idiom card, got %d", cards)
	}

	var flds string
	err = db.QueryRow("SELECT flds FROM notes WHERE sfld = 'run'").Scan(&flds)
	if err != nil {
		t.Fatalf("reading note fields: %v", err)
	}
	if !strings.Contains(flds, "[sound:x_run_uss_1.mp3]") {
		t.Errorf("first example audio missing: %q", flds)
	}
	if strings.Contains(flds, "[sound:x_runs_uss_2.mp3]") {
		t.Errorf("second example audio should be dropped: %q", flds)
	}
	if !strings.Contains(flds, "move fast on foot") {
		t.Errorf("sense definition missing: %q", flds)
	}
	// A group labeled only in the secondary language still gets its header.
	if !strings.Contains(flds, `<div class="topic"><span class="trans">运动</span></div>`) {
		t.Errorf("translation-only topic header missing: %q", flds)
	}
}

func TestBuilder_WriteFile_allAudio(t *testing.T) {
	t.Parallel()

	b := deck.New(deck.Options{
		MediaDir:        t.TempDir(),
		IncludeAllAudio: true,
	})
	b.Add(wordEntry())

	out := filepath.Join(t.TempDir(), "out.apkg")
	if err := b.WriteFile(out); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	dbPath, _ := readArchive(t, out, t.TempDir())

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening collection: %v", err)
	}
	defer db.Close()

	var flds string
	if err := db.QueryRow("SELECT flds FROM notes").Scan(&flds); err != nil {
		t.Fatalf("reading note fields: %v", err)
	}
	if !strings.Contains(flds, "[sound:x_runs_uss_2.mp3]") {
		t.Errorf("second example audio missing with IncludeAllAudio: %q", flds)
	}
}

func TestBuilder_WriteFile_empty(t *testing.T) {
	t.Parallel()

	b := deck.New(deck.Options{MediaDir: t.TempDir()})
	err := b.WriteFile(filepath.Join(t.TempDir(), "out.apkg"))
	if !errors.Is(err, deck.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
