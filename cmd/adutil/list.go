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
	"fmt"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var listCommand = &cli.Command{
	Name:  "list",
	Usage: "List all headwords",
	Description: `List every headword in the dictionary's index in sorted
order. With --offsets each headword is printed with its record's offset in
the body file.`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "offsets",
			Usage: "print record offsets alongside headwords",
		},
	},
	Action: func(c *cli.Context) error {
		d, err := openDict(c)
		if err != nil {
			return err
		}
		defer d.Close()

		idx, err := d.Index()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAdutil, err)
		}

		if c.Bool("offsets") {
			tbl := table.New("Headword", "Offset")
			for _, title := range idx.Titles() {
				offset, _ := idx.Lookup(title)
				tbl.AddRow(title, offset)
			}
			tbl.Print()
			return nil
		}

		for _, title := range idx.Titles() {
			fmt.Fprintln(c.App.Writer, title)
		}
		return nil
	},
}
