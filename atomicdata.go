/*
 * atomicdata.go, part of molprep.
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
	"fmt"
	"strings"
)

// HydrogenTag is the element column of every atom considered a hydrogen.
const HydrogenTag = " H"

// IsHydrogen tells whether an atom with the given PDB element column and
// atom name is a hydrogen. If the element column is filled, only the element
// is considered. Otherwise the name decides: it is a hydrogen if it starts
// with 'H' or with a digit followed by 'H' (old style "1HB ").
func IsHydrogen(element, name string) bool {
	el := strings.TrimSpace(element)
	if el != "" {
		return el == "H" || el == "D"
	}
	n := strings.TrimLeft(name, " ")
	if n == "" {
		return false
	}
	if n[0] == 'H' {
		return true
	}
	return len(n) > 1 && n[0] >= '0' && n[0] <= '9' && n[1] == 'H'
}

// FormatElement right-justifies an element symbol in the 2-column PDB
// element field.
func FormatElement(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	switch len(symbol) {
	case 0:
		return "  "
	case 1:
		return " " + strings.ToUpper(symbol)
	default:
		return strings.ToUpper(symbol[:2])
	}
}

// symbolFromName tries to guess a chemical element symbol from a PDB atom name.
// Mostly based on AMBER names. It only deals with some common bio-elements.
func symbolFromName(name string) (string, error) {
	raw := name
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("Couldn't guess symbol from empty PDB name")
	}
	//4-char names starting at column 13 are hydrogens in PDB convention
	if (len(raw) == 4 && raw[0] != ' ' && IsHydrogen("", raw)) || IsHydrogen("", name) {
		return "H", nil
	}
	if len(name) >= 2 {
		switch name[:2] {
		case "CU":
			return "Cu", nil
		case "CL":
			return "Cl", nil
		case "ZN":
			return "Zn", nil
		case "FE":
			return "Fe", nil
		case "MG":
			return "Mg", nil
		case "SE":
			return "Se", nil
		}
	}
	switch name[0] {
	case 'C':
		return "C", nil
	case 'N':
		return "N", nil
	case 'O':
		return "O", nil
	case 'P':
		return "P", nil
	case 'S':
		return "S", nil
	}
	return "", fmt.Errorf("Couldn't guess symbol from PDB name %q", name)
}
