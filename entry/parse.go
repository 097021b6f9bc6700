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

package entry

import (
	"strings"

	"github.com/ianlewis/go-appledict/markup"
)

// Structural markers of the record markup dialect.
const (
	entryMarker = `<div class="entry"`
	topicMarker = `<span class="shcut-g"`
	idiomMarker = `<span class="idm-g"`
)

// phonSectionCap bounds the headword audio search when a block has no sense
// markers at all.
const phonSectionCap = 2000

// Parse extracts all entries from one decompressed record. It returns one
// word entry per part-of-speech block and one idiom entry per idiom section.
// Blocks and sections yielding no valid senses are dropped. Parse never
// fails; an unrecognized record yields no entries.
func Parse(text string) []*Entry {
	// The record's own title attribute is the headword fallback for blocks
	// without an explicit headword element.
	fallback, _ := markup.Attr(text, "d:title")

	var entries []*Entry
	for _, block := range markup.Split(text, entryMarker) {
		if !strings.Contains(block, `class="entry"`) {
			continue
		}
		if e := parseWordBlock(block, fallback); e != nil {
			entries = append(entries, e)
		}
		entries = append(entries, parseIdioms(block)...)
	}
	return entries
}

// parseWordBlock extracts the word entry from one part-of-speech block. It
// returns nil when the block yields no sense groups.
func parseWordBlock(block, fallback string) *Entry {
	headword := fallback
	if h, ok := markup.Inner(block, "headword"); ok {
		if s := markup.StripTags(h); s != "" {
			headword = s
		}
	}

	var pos string
	if p, ok := markup.Inner(block, "pos"); ok {
		pos = markup.StripTags(p)
	}

	media := map[string]struct{}{}

	groups := parseGroups(block, media)
	if len(groups) == 0 {
		return nil
	}

	detail := &WordDetail{
		IPAGB: phon(block, "phons_br"),
		IPAUS: phon(block, "phons_n_am"),
	}

	// Headword audio candidates are restricted to the markup preceding the
	// first sense marker so example clips are never mistaken for the
	// canonical pronunciation.
	refs := markup.AudioRefs(block[:senseStart(block)])
	detail.AudioGB = pickRegion(refs, "__gb_")
	detail.AudioUS = pickRegion(refs, "__us_")
	addMedia(media, detail.AudioGB)
	addMedia(media, detail.AudioUS)

	if pos == "verb" {
		detail.VerbForms = parseVerbForms(block, media)
	}

	return &Entry{
		Kind:     KindWord,
		Headword: headword,
		POS:      pos,
		Groups:   groups,
		Media:    media,
		Word:     detail,
	}
}

// parseIdioms extracts one idiom entry per idiom section in a block.
// Sections without a phrase or without valid senses are dropped.
func parseIdioms(block string) []*Entry {
	var entries []*Entry
	for _, section := range markup.Sections(block, idiomMarker) {
		var phrase string
		if p, ok := markup.Inner(section, "idm"); ok {
			phrase = markup.StripTags(p)
		}
		if phrase == "" {
			continue
		}

		media := map[string]struct{}{}
		senses := parseSenses(section, media)
		if len(senses) == 0 {
			continue
		}

		entries = append(entries, &Entry{
			Kind:     KindIdiom,
			Headword: phrase,
			Groups:   []SenseGroup{{Senses: senses}},
			Media:    media,
		})
	}
	return entries
}

// parseVerbForms extracts conjugation rows from a block's verb forms table.
// The row's form attribute only locates the row; rows without display text
// are dropped.
func parseVerbForms(block string, media map[string]struct{}) []VerbForm {
	var forms []VerbForm
	pos := 0
	for {
		i := strings.Index(block[pos:], "<tr")
		if i < 0 {
			return forms
		}
		i += pos

		tagEnd := strings.Index(block[i:], ">")
		if tagEnd < 0 {
			return forms
		}
		end := strings.Index(block[i:], "</tr>")
		if end < 0 {
			return forms
		}
		row := block[i+tagEnd+1 : i+end]
		pos = i + end + len("</tr>")

		if _, ok := markup.Attr(block[i:i+tagEnd], "form"); !ok {
			continue
		}

		var text string
		if td, ok := markup.Inner(row, "verb_form"); ok {
			text = markup.StripTags(td)
		}
		if text == "" {
			continue
		}

		var audio string
		if j := strings.Index(row, `class="phons_n_am"`); j >= 0 {
			if refs := markup.AudioRefs(row[j:]); len(refs) > 0 {
				audio = refs[0]
			}
		}
		addMedia(media, audio)

		forms = append(forms, VerbForm{Text: text, Audio: audio})
	}
}

// phon returns the phonetic transcription within the named regional
// phonetics element.
func phon(block, class string) string {
	i := strings.Index(block, `class="`+class+`"`)
	if i < 0 {
		return ""
	}
	p, ok := markup.Inner(block[i:], "phon")
	if !ok {
		return ""
	}
	return markup.StripTags(p)
}

// senseStart returns the position of the block's first sense marker, or a
// fixed cap when the block has none.
func senseStart(block string) int {
	start := -1
	for _, marker := range []string{`<ol class="sense`, `<li class="sense`} {
		if i := strings.Index(block, marker); i >= 0 && (start < 0 || i < start) {
			start = i
		}
	}
	if start < 0 {
		start = phonSectionCap
	}
	return min(start, len(block))
}

// pickRegion returns the first audio candidate for a region, discriminated
// by filename pattern: the name must not start with an underscore and must
// contain the region marker.
func pickRegion(refs []string, region string) string {
	for _, a := range refs {
		if !strings.HasPrefix(a, "_") && strings.Contains(a, region) {
			return a
		}
	}
	return ""
}

func addMedia(media map[string]struct{}, name string) {
	if name != "" {
		media[name] = struct{}{}
	}
}
