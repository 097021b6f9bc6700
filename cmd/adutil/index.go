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
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var indexCommand = &cli.Command{
	Name:  "index",
	Usage: "Build the index cache",
	Description: `Scan the dictionary body and write the index cache. The
cache is never invalidated automatically; use --rebuild after replacing the
dictionary.`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "rebuild",
			Usage: "discard an existing cache and rescan",
		},
	},
	Action: func(c *cli.Context) error {
		d, err := openDict(c)
		if err != nil {
			return err
		}
		defer d.Close()

		if c.Bool("rebuild") {
			if err := os.Remove(d.IndexCachePath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: removing cache: %w", ErrAdutil, err)
			}
		}

		start := time.Now()
		idx, err := d.Index()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAdutil, err)
		}

		log.Info().
			Int("headwords", idx.Len()).
			Dur("elapsed", time.Since(start)).
			Str("cache", d.IndexCachePath()).
			Msg("index ready")
		return nil
	},
}
