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

/*
Package chem is the core of molprep. It holds the structural model of a
PDB file (chains of residues of atoms), the readers and writers for the
PDB format, the PDB naming rules and a few helpers shared by the rest of
the packages.

	**molprep**

	Reads PDB files, plain or compressed (gzip, bzip2, xz, zstd, lz4),
	selecting one model and, optionally, removing hydrogens.

	Detects disulfide bonds (package ssbond) and sets protonation states
	with PROPKA (package protonate), by renaming residues.

	Adds the missing hydrogens following the rules of a topology database
	(packages top and hbuild). Each rule gives the number of hydrogens of a
	heavy atom, the bond length and the geometry type, and up to 3 control
	atoms, possibly in the previous residue, that define their orientation.
	Terminal residues use their own topology entries.

	Writes standard (80 column) or minimal PDB files.

	The whole pipeline is in package prep, and the command molprep gives
	it a command-line interface.

A Model owns all its atoms, residues and chains, and they refer to each
other by index. Indexes never change: atoms inserted in a residue are
appended to the model and spliced into the residue's sequence only.
*/
package chem
