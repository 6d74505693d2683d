/*
 * gocoords.go, part of molprep.
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

package v3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// appzero is used to correct floating point errors. Everything equal
// or less than this is considered zero.
const appzero float64 = 0.000000000001

// Vec is a point or a direction in 3D space.
type Vec = r3.Vec

// Add returns a+b.
func Add(a, b Vec) Vec { return r3.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vec) Vec { return r3.Sub(a, b) }

// Scale returns f*a.
func Scale(f float64, a Vec) Vec { return r3.Scale(f, a) }

// Dot returns the dot product of a and b.
func Dot(a, b Vec) float64 { return r3.Dot(a, b) }

// Cross returns the cross product a x b.
func Cross(a, b Vec) Vec { return r3.Cross(a, b) }

// Len returns the euclidean length of a.
func Len(a Vec) float64 { return r3.Norm(a) }

// Dist2 returns the squared distance between a and b.
func Dist2(a, b Vec) float64 { return r3.Norm2(r3.Sub(a, b)) }

// Dist returns the distance between a and b.
func Dist(a, b Vec) float64 { return r3.Norm(r3.Sub(a, b)) }

// Unit returns the unit vector colinear to a.
// Unlike r3.Unit, a zero (or almost zero) vector is returned unchanged
// instead of as NaNs.
func Unit(a Vec) Vec {
	l := r3.Norm(a)
	if l <= appzero {
		return a
	}
	return r3.Scale(1/l, a)
}

// Mean returns the centroid of the given points. The zero vector is
// returned for an empty list.
func Mean(vs ...Vec) Vec {
	var m Vec
	if len(vs) == 0 {
		return m
	}
	for _, v := range vs {
		m = r3.Add(m, v)
	}
	return r3.Scale(1/float64(len(vs)), m)
}

// Angle returns the angle in radians between a and b.
// NaN is returned if one of the vectors has zero length.
func Angle(a, b Vec) float64 {
	la, lb := r3.Norm(a), r3.Norm(b)
	if la <= appzero || lb <= appzero {
		return math.NaN()
	}
	c := r3.Dot(a, b) / (la * lb)
	//floating point errors can put us slightly out of [-1,1]
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c)
}

// IsNaN returns true if any component of a is NaN.
func IsNaN(a Vec) bool {
	return math.IsNaN(a.X) || math.IsNaN(a.Y) || math.IsNaN(a.Z)
}
