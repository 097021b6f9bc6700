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

// Package entry implements extraction of typed dictionary entries from
// decompressed record markup.
//
// One record holds the markup for one headword and may yield several
// entries: one per part-of-speech block plus one per idiom section.
// Extraction is best effort; parts of a record that cannot be extracted are
// omitted rather than failing the record.
package entry

// Kind discriminates the entry variants.
type Kind string

const (
	// KindWord is a part-of-speech sense block of a headword.
	KindWord Kind = "word"

	// KindIdiom is an idiom phrase entry. Idioms carry no part-of-speech
	// tag, phonetics, audio, or verb forms.
	KindIdiom Kind = "idiom"
)

// Entry is one fully extracted dictionary entry.
type Entry struct {
	// Kind is the entry variant.
	Kind Kind

	// Headword is the word or idiom phrase.
	Headword string

	// POS is the part-of-speech tag. Empty for idioms.
	POS string

	// Groups are the entry's sense groups in document order. An entry
	// always has at least one group with at least one sense; blocks without
	// any are never emitted as entries.
	Groups []SenseGroup

	// Media is the set of every audio filename referenced anywhere in the
	// entry.
	Media map[string]struct{}

	// Word carries the word-only fields. It is nil for idiom entries.
	Word *WordDetail
}

// WordDetail holds the fields only word entries carry.
type WordDetail struct {
	// IPAGB and IPAUS are the regional phonetic transcriptions.
	IPAGB string
	IPAUS string

	// AudioGB and AudioUS are the canonical headword pronunciation clips,
	// at most one per region.
	AudioGB string
	AudioUS string

	// VerbForms are conjugation rows. Empty unless POS is "verb".
	VerbForms []VerbForm
}

// SenseGroup is an ordered run of senses sharing an optional topic label.
// The group holding senses that precede any topic heading has empty labels.
type SenseGroup struct {
	// Topic is the primary-language topic label.
	Topic string

	// TopicTrans is the secondary-language topic label.
	TopicTrans string

	// Senses is the group's senses in document order. Never empty; empty
	// groups are dropped.
	Senses []Sense
}

// Sense is a single numbered definition with its examples.
type Sense struct {
	// Number is the sense ordinal. Zero when the sense is unnumbered.
	Number int

	// Grammar is the grammar annotation, e.g. "[transitive]".
	Grammar string

	// Labels are the concatenated usage and register labels, e.g.
	// "(informal)".
	Labels string

	// Variants is the regional-variant note.
	Variants string

	// Def is the primary definition. Never empty; senses whose definition
	// strips to nothing are dropped.
	Def string

	// DefTrans is the secondary-language definition.
	DefTrans string

	// Examples are the sense's examples in document order.
	Examples []Example
}

// Example is a usage example within a sense.
type Example struct {
	// Text is the primary-language example text.
	Text string

	// TextTrans is the secondary-language example text.
	TextTrans string

	// Audio is the example's pronunciation clip, if any.
	Audio string
}

// VerbForm is one conjugation row of a verb entry.
type VerbForm struct {
	// Text is the row's display text.
	Text string

	// Audio is the row's pronunciation clip, if any.
	Audio string
}
