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

package deck

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/ianlewis/go-appledict/entry"
)

// noteFields builds the note's field values, in noteFieldNames order.
func noteFields(e *entry.Entry, includeAllAudio bool) []string {
	pos := e.POS
	if e.Kind == entry.KindIdiom && pos == "" {
		pos = "idiom"
	}

	var ipaGB, ipaUS, audioGB, audioUS, verbForms string
	if e.Word != nil {
		ipaGB = e.Word.IPAGB
		ipaUS = e.Word.IPAUS
		audioGB = soundTag(e.Word.AudioGB)
		audioUS = soundTag(e.Word.AudioUS)
		verbForms = verbFormsHTML(e.Word.VerbForms)
	}

	return []string{
		html.EscapeString(e.Headword),
		html.EscapeString(pos),
		html.EscapeString(ipaGB),
		html.EscapeString(ipaUS),
		audioGB,
		audioUS,
		verbForms,
		sensesHTML(e.Groups, includeAllAudio),
	}
}

func sensesHTML(groups []entry.SenseGroup, includeAllAudio bool) string {
	var b strings.Builder
	// With the default setting only the entry's first example clip sounds.
	audioUsed := false

	for _, g := range groups {
		if g.Topic != "" || g.TopicTrans != "" {
			b.WriteString(`<div class="topic">`)
			b.WriteString(html.EscapeString(g.Topic))
			writeTrans(&b, g.TopicTrans)
			b.WriteString("</div>")
		}
		for _, s := range g.Senses {
			writeSense(&b, s, includeAllAudio, &audioUsed)
		}
	}
	return b.String()
}

func writeSense(b *strings.Builder, s entry.Sense, includeAllAudio bool, audioUsed *bool) {
	b.WriteString(`<div class="sense">`)
	if s.Number > 0 {
		b.WriteString(`<span class="num">`)
		b.WriteString(strconv.Itoa(s.Number))
		b.WriteString(".</span>")
	}
	writeSpan(b, "gram", s.Grammar)
	writeSpan(b, "labels", s.Labels)
	writeSpan(b, "variants", s.Variants)
	b.WriteString(html.EscapeString(s.Def))
	writeTrans(b, s.DefTrans)

	if len(s.Examples) > 0 {
		b.WriteString(`<ul class="examples">`)
		for _, x := range s.Examples {
			b.WriteString("<li>")
			b.WriteString(html.EscapeString(x.Text))
			if x.Audio != "" && (includeAllAudio || !*audioUsed) {
				b.WriteString(" ")
				b.WriteString(soundTag(x.Audio))
				*audioUsed = true
			}
			writeTrans(b, x.TextTrans)
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</div>")
}

func verbFormsHTML(forms []entry.VerbForm) string {
	if len(forms) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<table class="verb-forms">`)
	for _, f := range forms {
		b.WriteString("<tr><td>")
		b.WriteString(html.EscapeString(f.Text))
		if f.Audio != "" {
			b.WriteString(" ")
			b.WriteString(soundTag(f.Audio))
		}
		b.WriteString("</td></tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

func writeSpan(b *strings.Builder, class, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, `<span class="%s">%s</span> `, class, html.EscapeString(text))
}

func writeTrans(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	b.WriteString(`<span class="trans">`)
	b.WriteString(html.EscapeString(text))
	b.WriteString("</span>")
}

func soundTag(name string) string {
	if name == "" {
		return ""
	}
	return "[sound:" + name + "]"
}
