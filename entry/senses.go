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
	"strconv"
	"strings"

	"github.com/ianlewis/go-appledict/markup"
)

// parseGroups extracts a block's ordered sense groups. Senses preceding the
// first topic or idiom marker form the ungrouped bucket; each topic section
// then becomes one labeled group. Empty groups are dropped.
func parseGroups(block string, media map[string]struct{}) []SenseGroup {
	var groups []SenseGroup

	firstSection := len(block)
	for _, marker := range []string{topicMarker, idiomMarker} {
		if i := strings.Index(block, marker); i >= 0 && i < firstSection {
			firstSection = i
		}
	}

	if senses := parseSenses(block[:firstSection], media); len(senses) > 0 {
		groups = append(groups, SenseGroup{Senses: senses})
	}

	for _, section := range markup.Sections(block, topicMarker, idiomMarker) {
		topic, topicTrans := parseTopic(section)
		senses := parseSenses(section, media)
		if len(senses) == 0 {
			continue
		}
		groups = append(groups, SenseGroup{
			Topic:      topic,
			TopicTrans: topicTrans,
			Senses:     senses,
		})
	}

	return groups
}

// parseTopic extracts a section's bilingual topic label from its heading
// element.
func parseTopic(section string) (topic, topicTrans string) {
	raw, ok := markup.Inner(section, "shcut")
	if !ok {
		return "", ""
	}

	// The secondary-language label nests inside the heading; it is removed
	// from the primary label rather than stripped into it.
	topic = markup.StripTags(markup.RemoveTag(raw, "shcutt"))
	if chn, ok := markup.InnerTag(raw, "chn"); ok {
		topicTrans = strings.TrimSpace(chn)
	}
	return topic, topicTrans
}

// parseSenses extracts the flat list of senses from any markup fragment.
// Senses whose definition strips to empty text are dropped. Referenced
// example audio accumulates into media.
func parseSenses(fragment string, media map[string]struct{}) []Sense {
	var senses []Sense
	for _, item := range markup.SplitTag(fragment, "li", "sense") {
		if !strings.Contains(item, `class="sense"`) {
			continue
		}

		def, ok := markup.Span(item, "def")
		if !ok {
			continue
		}
		definition := markup.StripTags(def)
		if definition == "" {
			continue
		}

		sense := Sense{Def: definition}

		if num, ok := markup.Attr(item, "sensenum"); ok {
			if n, err := strconv.Atoi(num); err == nil {
				sense.Number = n
			}
		}

		if g, ok := markup.Inner(item, "grammar"); ok {
			sense.Grammar = markup.StripTags(g)
		}

		var labels []string
		for _, l := range markup.InnerAll(item, "labels") {
			if s := markup.StripTags(l); s != "" {
				labels = append(labels, s)
			}
		}
		sense.Labels = strings.Join(labels, " ")

		if v, ok := markup.Inner(item, "variants"); ok {
			sense.Variants = markup.StripTags(v)
		}

		if deft, ok := markup.InnerTag(item, "deft"); ok {
			if chn, ok := markup.InnerTag(deft, "chn"); ok {
				sense.DefTrans = markup.StripTags(chn)
			}
		}

		sense.Examples = parseExamples(item, media)

		senses = append(senses, sense)
	}
	return senses
}

// parseExamples extracts a sense item's examples. An example is an "x" span
// followed by a tail running to the end of its list item; the tail carries
// the secondary-language text and audio references. Examples whose text
// strips to empty are dropped. At most one audio reference is kept per
// example, restricted to the regional example-clip filename markers.
func parseExamples(item string, media map[string]struct{}) []Example {
	var examples []Example
	pos := 0
	for {
		i := strings.Index(item[pos:], `<span class="x">`)
		if i < 0 {
			return examples
		}
		start := pos + i + len(`<span class="x">`)

		end := strings.Index(item[start:], "</span>")
		if end < 0 {
			return examples
		}
		end += start

		closeEnd := end + len("</span>")
		tailEnd := strings.Index(item[closeEnd:], "</li>")
		if tailEnd < 0 {
			return examples
		}
		tail := item[closeEnd : closeEnd+tailEnd]
		pos = closeEnd + tailEnd + len("</li>")

		text := markup.StripTags(item[start:end])
		if text == "" {
			continue
		}

		example := Example{Text: text}
		if chn, ok := markup.InnerTag(tail, "chn"); ok {
			example.TextTrans = markup.StripTags(chn)
		}
		for _, a := range markup.AudioRefs(tail) {
			if strings.Contains(a, "_uss_") || strings.Contains(a, "_ams_") {
				example.Audio = a
				addMedia(media, a)
				break
			}
		}

		examples = append(examples, example)
	}
}
