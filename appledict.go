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

package appledict

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ianlewis/go-appledict/body"
	"github.com/ianlewis/go-appledict/entry"
	"github.com/ianlewis/go-appledict/index"
)

// bodyName is the container file name inside a dictionary's Contents
// directory.
const bodyName = "Body.data"

// DefaultIndexCache is the default name of the persisted index cache inside
// the dictionary directory.
const DefaultIndexCache = ".appledict_index.json"

// ErrNotFound indicates that a word is not in the dictionary.
var ErrNotFound = errors.New("not found")

// Options are options for opening a dictionary.
type Options struct {
	// IndexCache is the path of the persisted index cache. Relative paths
	// resolve against the dictionary directory. Defaults to
	// [DefaultIndexCache].
	IndexCache string

	// Scanner are the container scan options used when the index must be
	// rebuilt.
	Scanner *body.ScannerOptions
}

// Dict is an Apple Dictionary Services dictionary.
type Dict struct {
	dir string

	f    *os.File
	body *body.Body
	idx  *index.Index

	cachePath string
	scanOpts  *body.ScannerOptions
}

// Open opens the dictionary whose Contents directory is at dir. The
// container file is kept open for the life of the Dict and should be
// released with the Close method.
func Open(dir string, opts *Options) (*Dict, error) {
	if opts == nil {
		opts = &Options{}
	}

	cachePath := opts.IndexCache
	if cachePath == "" {
		cachePath = DefaultIndexCache
	}
	if !filepath.IsAbs(cachePath) {
		cachePath = filepath.Join(dir, cachePath)
	}

	path := filepath.Join(dir, bodyName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %q: %w", path, err)
	}

	return &Dict{
		dir:       dir,
		f:         f,
		body:      body.New(f),
		cachePath: cachePath,
		scanOpts:  opts.Scanner,
	}, nil
}

// Index returns the dictionary's title index, loading it from the persisted
// cache when present and otherwise building it with a full container scan
// and persisting the result. The index is built at most once per Dict.
func (d *Dict) Index() (*index.Index, error) {
	if d.idx != nil {
		return d.idx, nil
	}

	if _, err := os.Stat(d.cachePath); err == nil {
		idx, err := index.Load(d.cachePath)
		if err != nil {
			return nil, err
		}
		d.idx = idx
		return d.idx, nil
	}

	idx, err := d.buildIndex()
	if err != nil {
		return nil, err
	}
	if err := idx.Save(d.cachePath); err != nil {
		return nil, err
	}

	d.idx = idx
	return d.idx, nil
}

func (d *Dict) buildIndex() (*index.Index, error) {
	// The scanner reads the container from the start independently of
	// record reads going through the same file handle.
	size, err := d.f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("reading container size: %w", err)
	}

	s, err := body.NewScanner(io.NewSectionReader(d.f, 0, size), d.scanOpts)
	if err != nil {
		return nil, err
	}
	return index.Build(s)
}

// Lookup returns the full decompressed record for a word. The word is
// normalized the same way index keys are. It returns [ErrNotFound] when the
// word is not in the dictionary; callers may use [Dict.Suggest] to offer
// prefix-match candidates.
func (d *Dict) Lookup(word string) (*body.Record, error) {
	idx, err := d.Index()
	if err != nil {
		return nil, err
	}

	offset, ok := idx.Lookup(word)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, word)
	}
	return d.body.Record(offset)
}

// Entries looks up a word and extracts its typed entries. A word may yield
// several entries: one per part-of-speech block plus one per idiom.
func (d *Dict) Entries(word string) ([]*entry.Entry, error) {
	rec, err := d.Lookup(word)
	if err != nil {
		return nil, err
	}
	return entry.Parse(rec.Text), nil
}

// Suggest returns up to n indexed titles starting with the given prefix.
func (d *Dict) Suggest(prefix string, n int) ([]string, error) {
	idx, err := d.Index()
	if err != nil {
		return nil, err
	}
	return idx.Suggest(prefix, n), nil
}

// MediaPath returns the path of a media file referenced by an entry.
func (d *Dict) MediaPath(name string) string {
	return filepath.Join(d.dir, name)
}

// Dir returns the dictionary's Contents directory.
func (d *Dict) Dir() string {
	return d.dir
}

// IndexCachePath returns the resolved path of the persisted index cache.
func (d *Dict) IndexCachePath() string {
	return d.cachePath
}

// Close releases the container file.
func (d *Dict) Close() error {
	if err := d.f.Close(); err != nil {
		return fmt.Errorf("closing container: %w", err)
	}
	return nil
}
