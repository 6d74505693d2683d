/*
 * doc.go, part of molprep.
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

// Package hbuild adds missing hydrogens to a chem.Model following the rules
// of a top.DB. Each heavy atom with a rule gets its hydrogens only if it has
// none: atoms with all their hydrogens are left alone, and atoms with some,
// or too many, are reported. Hydrogen positions are computed from the
// positions of the heavy atom and of up to 3 "control" atoms, with one of
// seven geometries selected by the bonding type of the rule.
package hbuild
