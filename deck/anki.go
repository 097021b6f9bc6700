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

// Anki collection database fixtures. The schema and the conf/dconf blobs
// follow the version 11 collection format that desktop Anki imports.

// collectionEpoch is the collection creation time. It is fixed so that
// package output is reproducible.
const collectionEpoch int64 = 1718200000

const schemaSQL = `
CREATE TABLE col (
    id     integer PRIMARY KEY,
    crt    integer NOT NULL,
    mod    integer NOT NULL,
    scm    integer NOT NULL,
    ver    integer NOT NULL,
    dty    integer NOT NULL,
    usn    integer NOT NULL,
    ls     integer NOT NULL,
    conf   text    NOT NULL,
    models text    NOT NULL,
    decks  text    NOT NULL,
    dconf  text    NOT NULL,
    tags   text    NOT NULL
);
CREATE TABLE notes (
    id    integer PRIMARY KEY,
    guid  text    NOT NULL,
    mid   integer NOT NULL,
    mod   integer NOT NULL,
    usn   integer NOT NULL,
    tags  text    NOT NULL,
    flds  text    NOT NULL,
    sfld  integer NOT NULL,
    csum  integer NOT NULL,
    flags integer NOT NULL,
    data  text    NOT NULL
);
CREATE TABLE cards (
    id     integer PRIMARY KEY,
    nid    integer NOT NULL,
    did    integer NOT NULL,
    ord    integer NOT NULL,
    mod    integer NOT NULL,
    usn    integer NOT NULL,
    type   integer NOT NULL,
    queue  integer NOT NULL,
    due    integer NOT NULL,
    ivl    integer NOT NULL,
    factor integer NOT NULL,
    reps   integer NOT NULL,
    lapses integer NOT NULL,
    left   integer NOT NULL,
    odue   integer NOT NULL,
    odid   integer NOT NULL,
    flags  integer NOT NULL,
    data   text    NOT NULL
);
CREATE TABLE revlog (
    id      integer PRIMARY KEY,
    cid     integer NOT NULL,
    usn     integer NOT NULL,
    ease    integer NOT NULL,
    ivl     integer NOT NULL,
    lastIvl integer NOT NULL,
    factor  integer NOT NULL,
    time    integer NOT NULL,
    type    integer NOT NULL
);
CREATE TABLE graves (
    usn  integer NOT NULL,
    oid  integer NOT NULL,
    type integer NOT NULL
);
CREATE INDEX ix_notes_usn ON notes (usn);
CREATE INDEX ix_cards_usn ON cards (usn);
CREATE INDEX ix_revlog_usn ON revlog (usn);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_cid ON revlog (cid);
CREATE INDEX ix_notes_csum ON notes (csum);
`

const collectionConf = `{"activeDecks":[1],"curDeck":1,"newSpread":0,"collapseTime":1200,"timeLim":0,"estTimes":true,"dueCounts":true,"curModel":"1718200004","nextPos":1,"sortType":"noteFld","sortBackwards":false,"addToCur":true,"dayLearnFirst":false}`

const collectionDconf = `{"1":{"id":1,"name":"Default","replayq":true,"lapse":{"leechFails":8,"minInt":1,"delays":[10],"leechAction":0,"mult":0},"rev":{"perDay":200,"ivlFct":1,"maxIvl":36500,"ease4":1.3,"bury":true,"fuzz":0.05},"timer":0,"maxTaken":60,"usn":0,"new":{"separate":true,"delays":[1,10],"perDay":20,"ints":[1,4,7],"initialFactor":2500,"bury":true,"order":1},"mod":0,"autoplay":true}}`

// noteFieldNames lists the note type's fields in wire order.
var noteFieldNames = []string{
	"Word",
	"PoS",
	"IPA GB",
	"IPA US",
	"Audio GB",
	"Audio US",
	"Verb Forms",
	"Senses",
}

const cardCSS = `.card {
  font-family: georgia, serif;
  font-size: 18px;
  text-align: left;
  color: #222;
  background-color: white;
}
.word { font-size: 28px; font-weight: bold; }
.pos { color: #803333; font-style: italic; margin-left: 6px; }
.phon { color: #555; }
.topic { color: #1a5276; font-weight: bold; margin-top: 10px; }
.topic .trans { color: #777; font-weight: normal; margin-left: 6px; }
.sense { margin: 6px 0; }
.sense .num { font-weight: bold; margin-right: 4px; }
.sense .gram, .sense .labels { color: #803333; margin-right: 4px; }
.sense .variants { color: #555; margin-right: 4px; }
.sense .trans { color: #777; margin-left: 4px; }
.examples { margin: 2px 0 2px 18px; padding: 0; color: #444; }
.examples li { margin: 2px 0; }
.examples .trans { color: #999; margin-left: 4px; }
.verb-forms { border-collapse: collapse; margin-top: 8px; }
.verb-forms td { border: 1px solid #ccc; padding: 2px 8px; }
`

const questionTemplate = `<div class="word">{{Word}} <span class="pos">{{PoS}}</span></div>
<div class="phon">{{IPA GB}} {{Audio GB}} | {{IPA US}} {{Audio US}}</div>`

const answerTemplate = `{{FrontSide}}
<hr id="answer">
{{Senses}}
{{Verb Forms}}`

// noteModel builds the single note type shared by both decks.
func noteModel() map[string]any {
	fields := make([]map[string]any, 0, len(noteFieldNames))
	for i, name := range noteFieldNames {
		fields = append(fields, map[string]any{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		})
	}

	return map[string]any{
		"id":        modelID,
		"name":      "Dictionary Entry",
		"type":      0,
		"mod":       collectionEpoch,
		"usn":       -1,
		"sortf":     0,
		"did":       wordDeckID,
		"css":       cardCSS,
		"latexPre":  "",
		"latexPost": "",
		"flds":      fields,
		"tmpls": []map[string]any{
			{
				"name":  "Definition",
				"ord":   0,
				"qfmt":  questionTemplate,
				"afmt":  answerTemplate,
				"bqfmt": "",
				"bafmt": "",
				"did":   nil,
			},
		},
		"req":  []any{[]any{0, "all", []int{0}}},
		"tags": []string{},
		"vers": []string{},
	}
}

func deckConfig(id int64, name string) map[string]any {
	return map[string]any{
		"id":               id,
		"name":             name,
		"desc":             "",
		"mod":              collectionEpoch,
		"usn":              -1,
		"collapsed":        false,
		"browserCollapsed": false,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"dyn":              0,
		"extendNew":        10,
		"extendRev":        50,
		"conf":             1,
	}
}
