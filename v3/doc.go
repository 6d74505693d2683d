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
Package v3 contains the small amount of 3D vector algebra needed to place
hydrogens: addition, subtraction, scaling, cross products, lengths and
squared distances of single points, on top of gonum's r3.Vec.

It also implements a Matrix type representing a row-major Nx3 matrix, i.e.
the cartesian coordinates of a set of atoms, based on gonum's Dense type.
*/
package v3
