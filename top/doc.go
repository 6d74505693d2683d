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
Package top reads, writes and queries topology databases: the per-residue
rules that tell which heavy atoms a residue must have, and how to build
the hydrogens bound to each of them.

A topology file is organized in sections, [proteins], [DNA], [RNA] and
[other], each holding residue records:

	RESIDUE ALA
	  RTYPE A
	  FTERM NALA
	  LTERM CALA
	  HYDRO H    1  1 1.01 N    -C CA
	  HYDRO HA   1  5 1.09 CA   N C CB
	  HYDRO HB   3  4 1.09 CB   CA N
	  HEAVY N CA C O CB
	END

RTYPE (A for ATOM, H for HETATM, @ for both) stays in effect for the
following residues until changed. HYDRO gives the hydrogen name, the number
of hydrogens, the bonding type, the X-H distance, the heavy atom and the
control atoms. A '-' in a control atom name refers to the previous residue.
'#' starts a comment and '\' quotes the next character.
*/
package top
