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

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-appledict"
	"github.com/ianlewis/go-appledict/deck"
	"github.com/ianlewis/go-appledict/wordlist"
)

var deckCommand = &cli.Command{
	Name:      "deck",
	Usage:     "Export entries as an Anki package",
	ArgsUsage: "[WORD...]",
	Description: `Export dictionary entries as an Anki .apkg package. Words
are taken from the arguments, from a CSV word list given with --list, or,
with --all, from the whole index. Words missing from the dictionary are
skipped with a warning.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Usage:   "write the package to `FILE`",
			Aliases: []string{"o"},
			Value:   "deck.apkg",
		},
		&cli.StringFlag{
			Name:  "list",
			Usage: "read words from the \"word\" column of CSV `FILE`",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "export every indexed headword",
		},
		&cli.BoolFlag{
			Name:  "all-audio",
			Usage: "bundle every example clip instead of the first per entry",
		},
	},
	Action: func(c *cli.Context) error {
		d, err := openDict(c)
		if err != nil {
			return err
		}
		defer d.Close()

		words, err := deckWords(c, d)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			check(cli.ShowSubcommandHelp(c))
			return fmt.Errorf("%w: no words given", ErrFlagParse)
		}

		b := deck.New(deck.Options{
			MediaDir:        d.Dir(),
			IncludeAllAudio: c.Bool("all-audio"),
		})

		var missing int
		for _, word := range words {
			entries, err := d.Entries(word)
			if err != nil {
				if errors.Is(err, appledict.ErrNotFound) {
					log.Warn().Str("word", word).Msg("not in dictionary; skipped")
					missing++
					continue
				}
				return fmt.Errorf("%w: %w", ErrAdutil, err)
			}
			b.Add(entries...)
		}

		out := c.String("out")
		if err := b.WriteFile(out); err != nil {
			return fmt.Errorf("%w: %w", ErrAdutil, err)
		}

		log.Info().
			Int("notes", b.Len()).
			Int("media", b.MediaLen()).
			Int("missing", missing).
			Str("out", out).
			Msg("package written")
		return nil
	},
}

func deckWords(c *cli.Context, d *appledict.Dict) ([]string, error) {
	if c.Bool("all") {
		idx, err := d.Index()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAdutil, err)
		}
		return idx.Titles(), nil
	}

	if path := c.String("list"); path != "" {
		words, err := wordlist.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAdutil, err)
		}
		return words, nil
	}

	return c.Args().Slice(), nil
}
