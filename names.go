/*
 * names.go, part of molprep.
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

package chem

import (
	"strings"
	"unicode"
)

// NameLen is the width of atom and residue names in PDB files. All names
// stored in a Model or a topology database are padded to this width.
const NameLen = 4

// FormatAtomName pads an atom name the way PDB files do: names of 1 to 3
// characters get a leading space (column 13 is reserved for the 2-letter
// element symbols) and are padded to 4 characters, 4-character names are
// kept as they are.
func FormatAtomName(s string) (string, error) {
	switch l := len(s); {
	case l == 0:
		return "", ErrEmptyName
	case l < NameLen:
		return pad(" " + s), nil
	case l == NameLen:
		return s, nil
	default:
		return "", newCError(ErrNameTooLong, true, "FormatAtomName", "atom name %q", s)
	}
}

// LiteralAtomName takes the first 4 characters of s verbatim, turning any
// non alphanumeric character into a space. It allows to write names such as
// "_HB1" which FormatAtomName would shift.
func LiteralAtomName(s string) string {
	if len(s) > NameLen {
		s = s[:NameLen]
	}
	b := []byte(pad(s))
	for i, c := range b {
		if c > unicode.MaxASCII || !(unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))) {
			b[i] = ' '
		}
	}
	return string(b)
}

// FormatResName pads a residue name: 1 character goes to the third column
// ("  X "), 2 characters to the second and third (" XY "), 3 characters are
// left-justified ("XYZ ") and 4 characters are kept.
func FormatResName(s string) (string, error) {
	switch len(s) {
	case 0:
		return "", ErrEmptyName
	case 1:
		return "  " + s + " ", nil
	case 2:
		return " " + s + " ", nil
	case 3:
		return s + " ", nil
	case 4:
		return s, nil
	default:
		return "", newCError(ErrNameTooLong, true, "FormatResName", "residue name %q", s)
	}
}

// NumberedName appends the digit to a formatted 4-character name. If the
// last column is occupied, the name is shifted one column to the left first.
// The digit then goes to the third column if it is blank, or to the fourth.
// NumberedName(" HB ", '2') is " HB2", NumberedName(" HD2", '1') is "HD21".
func NumberedName(name string, digit byte) string {
	b := []byte(pad(name))
	if b[3] != ' ' {
		b[0], b[1], b[2] = b[1], b[2], b[3]
		b[3] = ' '
	}
	if b[2] == ' ' {
		b[2] = digit
	} else {
		b[3] = digit
	}
	return string(b)
}

// TrimName returns the name without the padding spaces.
func TrimName(s string) string {
	return strings.TrimSpace(s)
}

// pad right-pads (or cuts) s to NameLen characters.
func pad(s string) string {
	if len(s) >= NameLen {
		return s[:NameLen]
	}
	return s + strings.Repeat(" ", NameLen-len(s))
}
