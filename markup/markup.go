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

// Package markup implements best-effort extraction from the irregular markup
// dialect embedded in dictionary records.
//
// The dialect is HTML-like but not well-formed HTML: it mixes standard
// elements with private tags (d:entry, chn, deft, shcutt) and carries
// inline javascript audio references. Extraction is done with explicit
// position and depth tracking rather than a grammar so that behavior on
// unbalanced or truncated input stays auditable: every function degrades to
// "not found" instead of failing.
package markup

import (
	"strings"

	"github.com/k3a/html2text"

	"github.com/ianlewis/go-appledict/internal/folding"
)

const audioMarker = `new Audio("`

// locate finds the first element carrying class in s. It returns the index
// of the element's opening '<', the index of the first content byte, and the
// element's tag name.
func locate(s, class string) (tagStart, contentStart int, name string, ok bool) {
	marker := `class="` + class + `"`
	i := strings.Index(s, marker)
	if i < 0 {
		return 0, 0, "", false
	}

	// Backtrack to the nearest preceding opening tag delimiter. The class
	// attribute always sits inside its element's opening tag, so this is
	// the element start.
	tagStart = strings.LastIndex(s[:i], "<")
	if tagStart < 0 {
		return 0, 0, "", false
	}

	name = tagName(s[tagStart:])
	if name == "" {
		return 0, 0, "", false
	}

	end := strings.Index(s[tagStart:], ">")
	if end < 0 {
		return 0, 0, "", false
	}
	contentStart = tagStart + end + 1

	return tagStart, contentStart, name, true
}

// tagName returns the element name of the opening tag at the start of s.
func tagName(s string) string {
	if len(s) == 0 || s[0] != '<' {
		return ""
	}
	i := 1
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	return s[1:i]
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == ':'
}

// openTagAt reports whether an opening tag of the named element starts at
// position i in s.
func openTagAt(s string, i int, name string) bool {
	tok := "<" + name
	if !strings.HasPrefix(s[i:], tok) {
		return false
	}
	// The token must be followed by a tag delimiter, not more name bytes,
	// so that e.g. "<li" does not match "<link".
	if len(s) > i+len(tok) && isNameByte(s[i+len(tok)]) {
		return false
	}
	return true
}

// nextOpen returns the index of the next opening tag of the named element at
// or after position i, or -1.
func nextOpen(s string, i int, name string) int {
	for {
		j := strings.Index(s[i:], "<"+name)
		if j < 0 {
			return -1
		}
		i += j
		if openTagAt(s, i, name) {
			return i
		}
		i++
	}
}

// Span returns the exact inner content of the first element carrying the
// given class, correctly handling nested same-type elements that a first
// closing tag match would truncate. It returns false if no element carries
// the class or if the element's closing tag is missing.
func Span(s, class string) (string, bool) {
	_, contentStart, name, ok := locate(s, class)
	if !ok {
		return "", false
	}

	closeTok := "</" + name + ">"
	depth := 1
	pos := contentStart
	for depth > 0 {
		closeNext := strings.Index(s[pos:], closeTok)
		if closeNext < 0 {
			// Unbalanced markup.
			return "", false
		}
		closeNext += pos

		openNext := nextOpen(s, pos, name)
		if openNext >= 0 && openNext < closeNext {
			depth++
			pos = openNext + len(name) + 1
			continue
		}

		depth--
		if depth == 0 {
			return s[contentStart:closeNext], true
		}
		pos = closeNext + len(closeTok)
	}
	return "", false
}

// Inner returns the inner content of the first element carrying the given
// class, up to the element type's first closing tag. It is cheaper than
// [Span] and correct for elements whose content never nests the same
// element type.
func Inner(s, class string) (string, bool) {
	_, contentStart, name, ok := locate(s, class)
	if !ok {
		return "", false
	}
	end := strings.Index(s[contentStart:], "</"+name+">")
	if end < 0 {
		return "", false
	}
	return s[contentStart : contentStart+end], true
}

// InnerAll returns the inner content of every element carrying the given
// class, in document order.
func InnerAll(s, class string) []string {
	var all []string
	marker := `class="` + class + `"`
	off := 0
	for {
		i := strings.Index(s[off:], marker)
		if i < 0 {
			return all
		}
		abs := off + i
		if inner, ok := Inner(s[strippedStart(s, abs):], class); ok {
			all = append(all, inner)
		}
		off = abs + len(marker)
	}
}

// strippedStart returns the index of the opening '<' preceding the class
// marker at abs, or abs itself when there is none.
func strippedStart(s string, abs int) int {
	if i := strings.LastIndex(s[:abs], "<"); i >= 0 {
		return i
	}
	return abs
}

// InnerTag returns the inner content of the first <tag>...</tag> element.
func InnerTag(s, tag string) (string, bool) {
	i := nextOpen(s, 0, tag)
	if i < 0 {
		return "", false
	}
	start := strings.Index(s[i:], ">")
	if start < 0 {
		return "", false
	}
	start += i + 1
	end := strings.Index(s[start:], "</"+tag+">")
	if end < 0 {
		return "", false
	}
	return s[start : start+end], true
}

// RemoveTag removes every <tag>...</tag> element, including its content.
// Elements with a missing closing tag are removed to the end of s.
func RemoveTag(s, tag string) string {
	var b strings.Builder
	pos := 0
	for {
		i := nextOpen(s, pos, tag)
		if i < 0 {
			b.WriteString(s[pos:])
			return b.String()
		}
		b.WriteString(s[pos:i])
		closeTok := "</" + tag + ">"
		end := strings.Index(s[i:], closeTok)
		if end < 0 {
			return b.String()
		}
		pos = i + end + len(closeTok)
	}
}

// Attr returns the value of the first attribute with the given name.
func Attr(s, name string) (string, bool) {
	marker := name + `="`
	i := strings.Index(s, marker)
	if i < 0 {
		return "", false
	}
	start := i + len(marker)
	end := strings.IndexByte(s[start:], '"')
	if end < 0 {
		return "", false
	}
	return s[start : start+end], true
}

// StripTags removes all markup from s, decodes entities, and folds
// whitespace.
func StripTags(s string) string {
	return folding.Whitespace(html2text.HTML2Text(s))
}

// AudioRefs returns every audio filename referenced by an inline
// new Audio("...") call, in document order.
func AudioRefs(s string) []string {
	var refs []string
	pos := 0
	for {
		i := strings.Index(s[pos:], audioMarker)
		if i < 0 {
			return refs
		}
		start := pos + i + len(audioMarker)
		end := strings.IndexByte(s[start:], '"')
		if end < 0 {
			return refs
		}
		refs = append(refs, s[start:start+end])
		pos = start + end + 1
	}
}

// Split splits s at each occurrence of the literal marker, keeping the
// marker at the start of each piece. The text before the first marker is
// returned as the first piece.
func Split(s, marker string) []string {
	var pieces []string
	pos := 0
	for pos < len(s) {
		i := strings.Index(s[pos+1:], marker)
		if i < 0 {
			break
		}
		cut := pos + 1 + i
		pieces = append(pieces, s[pos:cut])
		pos = cut
	}
	pieces = append(pieces, s[pos:])
	return pieces
}

// SplitTag splits s at each opening tag of the named element that carries
// the given class, keeping the tag at the start of each piece.
func SplitTag(s, tag, class string) []string {
	marker := `class="` + class + `"`
	var cuts []int
	pos := 0
	for {
		i := nextOpen(s, pos, tag)
		if i < 0 {
			break
		}
		end := strings.Index(s[i:], ">")
		if end < 0 {
			break
		}
		if strings.Contains(s[i:i+end], marker) {
			cuts = append(cuts, i)
		}
		pos = i + 1
	}

	var pieces []string
	prev := 0
	for _, cut := range cuts {
		pieces = append(pieces, s[prev:cut])
		prev = cut
	}
	pieces = append(pieces, s[prev:])
	return pieces
}

// Sections returns the regions of s starting at each occurrence of marker
// and ending at the next occurrence of marker, any of the terminators, or
// the end of s.
func Sections(s, marker string, terminators ...string) []string {
	var sections []string
	pos := 0
	for {
		i := strings.Index(s[pos:], marker)
		if i < 0 {
			return sections
		}
		start := pos + i

		end := len(s)
		rest := s[start+len(marker):]
		if j := strings.Index(rest, marker); j >= 0 {
			end = start + len(marker) + j
		}
		for _, t := range terminators {
			if j := strings.Index(rest, t); j >= 0 && start+len(marker)+j < end {
				end = start + len(marker) + j
			}
		}

		sections = append(sections, s[start:end])
		pos = end
	}
}
