// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-appledict"
	"github.com/ianlewis/go-appledict/entry"
	"github.com/ianlewis/go-appledict/render"
)

var lookupCommand = &cli.Command{
	Name:      "lookup",
	Usage:     "Look up a word",
	ArgsUsage: "WORD...",
	Description: `Look up a word and print its entries. Multiple arguments
are joined with spaces so multi-word phrases need no quoting.`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "print the record's raw markup",
		},
		&cli.BoolFlag{
			Name:  "html",
			Usage: "print the record as a standalone HTML page",
		},
	},
	Action: func(c *cli.Context) error {
		word := strings.Join(c.Args().Slice(), " ")
		if word == "" {
			check(cli.ShowSubcommandHelp(c))
			return fmt.Errorf("%w: no word given", ErrFlagParse)
		}

		d, err := openDict(c)
		if err != nil {
			return err
		}
		defer d.Close()

		rec, err := d.Lookup(word)
		if err != nil {
			if errors.Is(err, appledict.ErrNotFound) {
				printSuggestions(c.App.ErrWriter, d, word)
			}
			return fmt.Errorf("%w: %w", ErrAdutil, err)
		}

		switch {
		case c.Bool("raw"):
			fmt.Fprintln(c.App.Writer, rec.Text)
		case c.Bool("html"):
			r := &render.Renderer{
				Dir:     d.Dir(),
				CSSFile: "oald10.css",
				JSFile:  "oald10.js",
			}
			page, err := r.Page(word, rec.Text)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrAdutil, err)
			}
			fmt.Fprintln(c.App.Writer, page)
		default:
			for _, e := range entry.Parse(rec.Text) {
				printEntry(c.App.Writer, e)
			}
		}
		return nil
	},
}

func printSuggestions(w io.Writer, d *appledict.Dict, word string) {
	suggestions, err := d.Suggest(word, 8)
	if err != nil || len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(w, "Did you mean:")
	for _, s := range suggestions {
		fmt.Fprintf(w, "  %s\n", s)
	}
}

func printEntry(w io.Writer, e *entry.Entry) {
	fmt.Fprintf(w, "%s", e.Headword)
	if e.POS != "" {
		fmt.Fprintf(w, " (%s)", e.POS)
	}
	if e.Word != nil {
		if e.Word.IPAGB != "" {
			fmt.Fprintf(w, " BrE %s", e.Word.IPAGB)
		}
		if e.Word.IPAUS != "" {
			fmt.Fprintf(w, " NAmE %s", e.Word.IPAUS)
		}
	}
	fmt.Fprintln(w)

	for _, g := range e.Groups {
		if g.Topic != "" {
			fmt.Fprintf(w, "  [%s]\n", g.Topic)
		}
		for _, s := range g.Senses {
			printSense(w, s)
		}
	}

	if e.Word != nil && len(e.Word.VerbForms) > 0 {
		fmt.Fprintln(w, "  Verb forms:")
		for _, f := range e.Word.VerbForms {
			fmt.Fprintf(w, "    %s\n", f.Text)
		}
	}
	fmt.Fprintln(w)
}

func printSense(w io.Writer, s entry.Sense) {
	fmt.Fprint(w, "  ")
	if s.Number > 0 {
		fmt.Fprintf(w, "%d. ", s.Number)
	}
	if s.Grammar != "" {
		fmt.Fprintf(w, "%s ", s.Grammar)
	}
	if s.Labels != "" {
		fmt.Fprintf(w, "(%s) ", s.Labels)
	}
	fmt.Fprintln(w, s.Def)
	for _, x := range s.Examples {
		fmt.Fprintf(w, "     • %s\n", x.Text)
	}
}
