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

package markup_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-appledict/markup"
)

func TestSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		class    string
		expected string
		ok       bool
	}{
		{
			name:     "simple",
			input:    `<span class="def">to move fast</span>`,
			class:    "def",
			expected: "to move fast",
			ok:       true,
		},
		{
			name:     "nested same type",
			input:    `<span class="def">to <span class="ndv">move</span> fast</span><span class="x">tail</span>`,
			class:    "def",
			expected: `to <span class="ndv">move</span> fast`,
			ok:       true,
		},
		{
			name:     "preceding content",
			input:    `<span class="pos">verb</span><span class="def">run</span>`,
			class:    "def",
			expected: "run",
			ok:       true,
		},
		{
			name:  "marker absent",
			input: `<span class="pos">verb</span>`,
			class: "def",
			ok:    false,
		},
		{
			name:  "unbalanced",
			input: `<span class="def">to <span>move fast</span>`,
			class: "def",
			ok:    false,
		},
		{
			name:     "different element type does not nest",
			input:    `<div class="def">a <span>b</span> c</div>`,
			class:    "def",
			expected: "a <span>b</span> c",
			ok:       true,
		},
		{
			name:     "tag name prefix does not count as nesting",
			input:    `<span class="def">a <spanner>b</spanner> c</span>`,
			class:    "def",
			expected: "a <spanner>b</spanner> c",
			ok:       true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := markup.Span(tc.input, tc.class)
			if ok != tc.ok {
				t.Fatalf("Span ok: expected %v, got %v", tc.ok, ok)
			}
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Fatalf("Span (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestSpan_deepNesting checks that content spans to the matching outer
// closing tag for any nesting depth.
func TestSpan_deepNesting(t *testing.T) {
	t.Parallel()

	for n := range 8 {
		t.Run(fmt.Sprintf("depth %d", n), func(t *testing.T) {
			t.Parallel()

			inner := "x"
			for range n {
				inner = `<span class="g">` + inner + `</span>`
			}
			doc := `<span class="def">` + inner + `</span><span>after</span>`

			got, ok := markup.Span(doc, "def")
			if !ok {
				t.Fatal("Span: expected ok")
			}
			if got != inner {
				t.Fatalf("Span: expected %q, got %q", inner, got)
			}
		})
	}
}

func TestInner(t *testing.T) {
	t.Parallel()

	got, ok := markup.Inner(`<span class="grammar">[transitive]</span> rest`, "grammar")
	if !ok || got != "[transitive]" {
		t.Fatalf("Inner: got %q, %v", got, ok)
	}

	if _, ok := markup.Inner(`<span class="grammar">[transitive]`, "grammar"); ok {
		t.Fatal("Inner: expected not ok for missing closing tag")
	}
}

func TestInnerAll(t *testing.T) {
	t.Parallel()

	input := `<span class="labels">(informal)</span> x <span class="labels">[plural]</span>`
	expected := []string{"(informal)", "[plural]"}
	if diff := cmp.Diff(expected, markup.InnerAll(input, "labels")); diff != "" {
		t.Fatalf("InnerAll (-want, +got):\n%s", diff)
	}
}

func TestInnerTag(t *testing.T) {
	t.Parallel()

	got, ok := markup.InnerTag(`<deft>def <chn>译文</chn></deft>`, "chn")
	if !ok || got != "译文" {
		t.Fatalf("InnerTag: got %q, %v", got, ok)
	}
}

func TestRemoveTag(t *testing.T) {
	t.Parallel()

	got := markup.RemoveTag(`Working life<shcutt><chn>工作</chn></shcutt> end`, "shcutt")
	if got != "Working life end" {
		t.Fatalf("RemoveTag: got %q", got)
	}
}

func TestAttr(t *testing.T) {
	t.Parallel()

	got, ok := markup.Attr(`<li class="sense" sensenum="3">`, "sensenum")
	if !ok || got != "3" {
		t.Fatalf("Attr: got %q, %v", got, ok)
	}

	if _, ok := markup.Attr(`<li class="sense">`, "sensenum"); ok {
		t.Fatal("Attr: expected not ok")
	}
}

func TestStripTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tags removed",
			input:    `to <b>move</b> fast`,
			expected: "to move fast",
		},
		{
			name:     "whitespace folded",
			input:    "  to \n move   fast ",
			expected: "to move fast",
		},
		{
			name:     "entities decoded",
			input:    "fish &amp; chips",
			expected: "fish & chips",
		},
		{
			name:     "empty after stripping",
			input:    `<span class="x"></span>`,
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.expected, markup.StripTags(tc.input)); diff != "" {
				t.Fatalf("StripTags (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestAudioRefs(t *testing.T) {
	t.Parallel()

	input := `<a onclick='new Audio("run__gb_1.mp3").play()'>gb</a>` +
		`<a onclick='new Audio("run__us_1.mp3").play()'>us</a>`
	expected := []string{"run__gb_1.mp3", "run__us_1.mp3"}
	if diff := cmp.Diff(expected, markup.AudioRefs(input)); diff != "" {
		t.Fatalf("AudioRefs (-want, +got):\n%s", diff)
	}

	if refs := markup.AudioRefs("no audio here"); refs != nil {
		t.Fatalf("AudioRefs: expected nil, got %v", refs)
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	input := `head<div class="entry">one</div><div class="entry">two</div>`
	got := markup.Split(input, `<div class="entry"`)
	expected := []string{
		"head",
		`<div class="entry">one</div>`,
		`<div class="entry">two</div>`,
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("Split (-want, +got):\n%s", diff)
	}
}

func TestSplitTag(t *testing.T) {
	t.Parallel()

	input := `<ol><li class="sense" sensenum="1">one</li>` +
		`<li class="sensetop">not a cut</li>` +
		`<li class="sense" sensenum="2">two</li></ol>`
	got := markup.SplitTag(input, "li", "sense")

	if len(got) != 3 {
		t.Fatalf("SplitTag: expected 3 pieces, got %d: %q", len(got), got)
	}
	if !strings.Contains(got[1], "one") || strings.Contains(got[1], "two") {
		t.Fatalf("SplitTag: bad second piece: %q", got[1])
	}
	if !strings.Contains(got[2], "two") {
		t.Fatalf("SplitTag: bad third piece: %q", got[2])
	}
}

func TestSections(t *testing.T) {
	t.Parallel()

	input := `pre<span class="shcut-g">first</span x><span class="shcut-g">second` +
		`<span class="idm-g">idiom</span>`
	got := markup.Sections(input, `<span class="shcut-g"`, `<span class="idm-g"`)

	if len(got) != 2 {
		t.Fatalf("Sections: expected 2 sections, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got[0], `<span class="shcut-g">first`) {
		t.Fatalf("Sections: bad first section: %q", got[0])
	}
	if strings.Contains(got[1], "idiom") {
		t.Fatalf("Sections: second section not terminated on idiom marker: %q", got[1])
	}
}
