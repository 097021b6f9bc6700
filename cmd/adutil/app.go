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
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-appledict"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrAdutil is a parent error for all command errors.
var ErrAdutil = errors.New("adutil")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrAdutil)

var copyrightNames = []string{
	"2025 Ian Lewis",
}

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// but we don't use commands.
	//
	// This is done because `adutil --help foo` will display a
	// "command foo not found" error instead of the help.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

// dictLocation returns the default dictionary Contents directory.
func dictLocation() string {
	if dir := os.Getenv("APPLEDICT_DIR"); dir != "" {
		return dir
	}
	return "."
}

// openDict opens the dictionary named by the root flags.
func openDict(c *cli.Context) (*appledict.Dict, error) {
	d, err := appledict.Open(c.String("dict"), &appledict.Options{
		IndexCache: c.String("index-cache"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdutil, err)
	}
	return d, nil
}

func newAppleDictApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Read Apple Dictionary Services dictionaries.",
		Description: strings.Join([]string{
			"Apple dictionary utility written in Go.",
			"http://github.com/ianlewis/go-appledict",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dict",
				Usage:   "dictionary Contents directory `DIR`",
				Aliases: []string{"d"},
				Value:   dictLocation(),
			},
			&cli.StringFlag{
				Name:  "index-cache",
				Usage: "index cache `FILE` relative to the dictionary directory",
				Value: appledict.DefaultIndexCache,
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}

			check(cli.ShowAppHelp(c))
			return nil
		},
		Commands: []*cli.Command{
			listCommand,
			lookupCommand,
			indexCommand,
			deckCommand,
		},
	}
}
