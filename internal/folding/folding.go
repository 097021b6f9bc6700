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

// Package folding implements text folding used to normalize index keys and
// extracted markup text.
package folding

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
)

// WhitespaceFolder is a [transform.Transformer] that removes leading and
// trailing whitespace and collapses each internal whitespace span into a
// single ASCII space.
type WhitespaceFolder struct {
	// started is true once the first non-whitespace rune has been emitted.
	started bool

	// pending is true when an internal whitespace span is waiting to be
	// emitted as a single space.
	pending bool
}

// Transform implements [transform.Transformer.Transform].
func (w *WhitespaceFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nDst, nSrc int
	for nSrc < len(src) {
		c, size := utf8.DecodeRune(src[nSrc:])
		if c == utf8.RuneError && !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}

		if unicode.IsSpace(c) {
			// Leading whitespace is dropped; internal whitespace is held
			// back until the next non-whitespace rune so that trailing
			// whitespace is never emitted.
			if w.started {
				w.pending = true
			}
			nSrc += size
			continue
		}

		if w.pending {
			if nDst+1 > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = ' '
			nDst++
			w.pending = false
		}

		// NOTE: c may be utf8.RuneError whose encoded length differs from
		// size, so the rune is re-encoded rather than copied.
		if nDst+utf8.RuneLen(c) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], c)
		w.started = true
		nSrc += size
	}
	return nDst, nSrc, nil
}

// Reset implements [transform.Transformer.Reset].
func (w *WhitespaceFolder) Reset() {
	*w = WhitespaceFolder{}
}

// Whitespace folds whitespace in s.
func Whitespace(s string) string {
	folded, _, err := transform.String(&WhitespaceFolder{}, s)
	if err != nil {
		// The transformer never returns an error for a complete string.
		return s
	}
	return folded
}

// Key normalizes s for use as an index key. Keys are case folded and
// whitespace folded so lookups are insensitive to case and spacing.
func Key(s string) string {
	return Whitespace(cases.Fold().String(s))
}

// Prefix normalizes s for matching against index keys by prefix. It folds
// like [Key] except that trailing whitespace is kept as a single space, so
// "run " matches only multi-word keys while "run" also matches "run" itself
// and "rung".
func Prefix(s string) string {
	folded := Key(s)
	if c, _ := utf8.DecodeLastRuneInString(s); unicode.IsSpace(c) {
		folded += " "
	}
	return folded
}
