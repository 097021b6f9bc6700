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

// Package index implements the in-memory container index mapping case-folded
// record titles to container byte offsets, and its persisted cache.
//
// The cache artifact is a single flat JSON object mapping folded titles to
// integer offsets. It carries no version field and is never invalidated
// automatically; deleting the file is the only way to force a rebuild.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ianlewis/go-appledict/body"
	"github.com/ianlewis/go-appledict/internal/folding"
)

// Index maps case-folded titles to record header offsets. It is built once
// by a full container scan (or loaded from its cache) and read-only
// thereafter.
type Index struct {
	offsets map[string]int64

	// keys is the sorted key slice backing prefix suggestions. It is built
	// lazily after the index stops changing.
	keys []string
}

// New returns a new empty Index.
func New() *Index {
	return &Index{
		offsets: map[string]int64{},
	}
}

// Build scans the container and returns its index. Duplicated titles keep
// the last-scanned offset.
func Build(s *body.Scanner) (*Index, error) {
	idx := New()
	for s.Scan() {
		idx.Add(s.Title(), s.Offset())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scanning container: %w", err)
	}
	return idx, nil
}

// Load reads an index from its cache file.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index cache: %w", err)
	}

	var offsets map[string]int64
	if err := json.Unmarshal(data, &offsets); err != nil {
		return nil, fmt.Errorf("parsing index cache %q: %w", path, err)
	}
	if offsets == nil {
		offsets = map[string]int64{}
	}

	return &Index{offsets: offsets}, nil
}

// Save writes the index to its cache file.
func (idx *Index) Save(path string) error {
	data, err := json.Marshal(idx.offsets)
	if err != nil {
		return fmt.Errorf("encoding index cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing index cache: %w", err)
	}
	return nil
}

// Add records a title's offset. The title is case folded. Adding a title
// twice keeps the later offset; see the package documentation on duplicate
// titles.
func (idx *Index) Add(title string, offset int64) {
	idx.offsets[folding.Key(title)] = offset
	idx.keys = nil
}

// Lookup returns the record offset for a title. The title is normalized the
// same way index keys are.
func (idx *Index) Lookup(title string) (int64, bool) {
	offset, ok := idx.offsets[folding.Key(title)]
	return offset, ok
}

// Len returns the number of indexed titles.
func (idx *Index) Len() int {
	return len(idx.offsets)
}

// Titles returns all indexed titles in sorted order.
func (idx *Index) Titles() []string {
	idx.sortKeys()
	out := make([]string, len(idx.keys))
	copy(out, idx.keys)
	return out
}

// Suggest returns up to n indexed titles starting with the given prefix, in
// sorted order. It is used to offer "did you mean" candidates after a failed
// lookup. Unlike lookups, a trailing space in the prefix is significant:
// "run " matches only multi-word titles.
func (idx *Index) Suggest(prefix string, n int) []string {
	idx.sortKeys()
	key := folding.Prefix(prefix)

	var matches []string
	i := sort.SearchStrings(idx.keys, key)
	for ; i < len(idx.keys) && len(matches) < n; i++ {
		if !strings.HasPrefix(idx.keys[i], key) {
			break
		}
		matches = append(matches, idx.keys[i])
	}
	return matches
}

func (idx *Index) sortKeys() {
	if idx.keys != nil || len(idx.offsets) == 0 {
		return
	}
	idx.keys = make([]string, 0, len(idx.offsets))
	for k := range idx.offsets {
		idx.keys = append(idx.keys, k)
	}
	sort.Strings(idx.keys)
}
