/*
 * write.go, part of molprep.
 *
 * Copyright 2026 The molprep authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package top

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	chem "github.com/rmera/molprep"
)

var sections = []MolType{Protein, DNA, RNA, Other}

// Write writes the database in the format read by Read. Entries are grouped
// by molecule type, keeping their relative order.
func Write(w io.Writer, D *DB) error {
	out := bufio.NewWriter(w)
	for _, mol := range sections {
		first := true
		for _, e := range D.entries {
			if e.Mol != mol {
				continue
			}
			if first {
				fmt.Fprintf(out, "[%s]\n\n", mol.Section())
				first = false
			}
			writeEntry(out, e)
		}
	}
	return out.Flush()
}

func writeEntry(out *bufio.Writer, e *Entry) {
	names := make([]string, 0, 1+len(e.Aliases))
	for _, v := range e.Names() {
		names = append(names, chem.TrimName(v))
	}
	fmt.Fprintf(out, "RESIDUE %s\n", strings.Join(names, " "))
	fmt.Fprintf(out, "  RTYPE %c\n", byte(e.Rec))
	if e.FirstName != "" {
		fmt.Fprintf(out, "  FTERM %s\n", chem.TrimName(e.FirstName))
	}
	if e.LastName != "" {
		fmt.Fprintf(out, "  LTERM %s\n", chem.TrimName(e.LastName))
	}
	for _, r := range e.Rules {
		fmt.Fprintf(out, "  HYDRO %-4s %d %2d %s %-4s", textName(r.Hydrogen), r.Count, int(r.Type), strconv.FormatFloat(r.Dist, 'f', -1, 64), textName(r.Heavy))
		for _, c := range r.Controls {
			if c.Prev {
				fmt.Fprintf(out, " -%s", chem.TrimName(c.Name))
			} else {
				fmt.Fprintf(out, " %s", textName(c.Name))
			}
		}
		fmt.Fprintln(out)
	}
	heavy := make([]string, len(e.Heavy))
	for i, v := range e.Heavy {
		heavy[i] = textName(v)
	}
	fmt.Fprintf(out, "  HEAVY %s\n", strings.Join(heavy, " "))
	fmt.Fprint(out, "END\n\n")
}

// textName returns the shortest way to write the atom name in a topology
// file: trimmed if formatting it gives back the same name, literal otherwise.
func textName(name string) string {
	t := chem.TrimName(name)
	if !strings.Contains(t, " ") {
		if f, err := chem.FormatAtomName(t); err == nil && f == name {
			return t
		}
	}
	return "<" + strings.ReplaceAll(name, " ", "_")
}
