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

package wordlist_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-appledict/wordlist"
)

func TestRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		csv      string
		expected []string
		err      error
	}{
		{
			name:     "basic",
			csv:      "word,rank\nrun,1\nwalk,2\n",
			expected: []string{"run", "walk"},
		},
		{
			name:     "folded and deduplicated",
			csv:      "Word\nRun\nrun\nRUN\nwalk\n",
			expected: []string{"run", "walk"},
		},
		{
			name:     "word column not first",
			csv:      "rank,word\n1,run\n2,\n3,walk\n",
			expected: []string{"run", "walk"},
		},
		{
			name: "no word column",
			csv:  "headword\nrun\n",
			err:  wordlist.ErrNoWordColumn,
		},
		{
			name: "empty file",
			csv:  "",
			err:  wordlist.ErrNoWordColumn,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			words, err := wordlist.Read(strings.NewReader(test.csv))
			if test.err != nil {
				if !errors.Is(err, test.err) {
					t.Fatalf("Read: expected %v, got %v", test.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if diff := cmp.Diff(test.expected, words); diff != "" {
				t.Errorf("Read (-want, +got):\n%s", diff)
			}
		})
	}
}
