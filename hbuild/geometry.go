/*
 * geometry.go, part of molprep.
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

package hbuild

import (
	"math"

	v3 "github.com/rmera/molprep/v3"
	"github.com/rmera/molprep/top"
)

// Precalculated values for the hydrogen positions.
const (
	sinTetra   = 0.9428090415820634  //sin(109.47)
	cosTetra   = -0.3333333333333333 //cos(109.47)
	sinTetraH  = 0.8164965809277260  //sin(109.47/2)
	cosTetraH  = 0.5773502691896257  //cos(109.47/2)
	sinTetra05 = 0.4714045207910317  //sin(109.47)/2
	sin120     = 0.8660254037844387
	cos120     = -0.5
)

// Spherical coordinates of the water hydrogens, which are quite arbitrary:
// theta1 = 50, theta2 = 50+104.52, phi = 70 (degrees).
const (
	sinTheta1 = 0.76604444311897803520
	sinTheta2 = 0.43019600888661864331
	cosPhi    = 0.34202014332566873305
	sinPhi    = 0.93969262078590838405
	cosTheta1 = 0.64278760968653932632
	cosTheta2 = 0.90273550608028281612
)

// shortCentroid is the length under which the vector from the centroid of
// the control atoms to the heavy atom is not trusted as a direction.
const shortCentroid = 0.2

// geometry computes the positions of the hydrogens bound to the heavy atom at h,
// given the positions of the control atoms and the X-H distance d.
type geometry func(h v3.Vec, c []v3.Vec, d float64) []v3.Vec

var geometries = map[top.BondType]geometry{
	top.Planar1: planar1,
	top.OH2:     oh2,
	top.Planar2: planar2,
	top.Methyl4: methyl4,
	top.Tetra1:  tetra1,
	top.Tetra2:  tetra2,
	top.Water:   water,
}

// frame returns an orthonormal set of vectors: v1 along c0->h, v2 normal to
// the plane of h, c0 and c1, and v3 in that plane, perpendicular to v1.
func frame(h, c0, c1 v3.Vec) (v1, v2, v3p v3.Vec) {
	v1 = v3.Sub(h, c0)
	v2 = v3.Unit(v3.Cross(v1, v3.Sub(c0, c1)))
	v1 = v3.Unit(v1)
	v3p = v3.Cross(v2, v1)
	return v1, v2, v3p
}

// term is a coefficient times a unit vector.
type term struct {
	f float64
	v v3.Vec
}

// displace returns h + d*(f1*v1 + f2*v2 + ...).
func displace(h v3.Vec, d float64, terms ...term) v3.Vec {
	ret := h
	for _, t := range terms {
		ret = v3.Add(ret, v3.Scale(d*t.f, t.v))
	}
	return ret
}

func planar1(h v3.Vec, c []v3.Vec, d float64) []v3.Vec {
	dir := v3.Unit(v3.Add(v3.Sub(h, c[0]), v3.Sub(h, c[1])))
	return []v3.Vec{v3.Add(h, v3.Scale(d, dir))}
}

func oh2(h v3.Vec, c []v3.Vec, d float64) []v3.Vec {
	v1, _, v3p := frame(h, c[0], c[1])
	return []v3.Vec{displace(h, d, term{sinTetra, v3p}, term{-cosTetra, v1})}
}

func planar2(h v3.Vec, c []v3.Vec, d float64) []v3.Vec {
	v1, _, v3p := frame(h, c[0], c[1])
	return []v3.Vec{
		displace(h, d, term{-sin120, v3p}, term{-cos120, v1}),
		displace(h, d, term{sin120, v3p}, term{-cos120, v1}),
	}
}

func methyl4(h v3.Vec, c []v3.Vec, d float64) []v3.Vec {
	v1, v2, v3p := frame(h, c[0], c[1])
	return []v3.Vec{
		displace(h, d, term{sinTetra, v3p}, term{-cosTetra, v1}),
		displace(h, d, term{-sinTetra05, v3p}, term{sinTetraH, v2}, term{-cosTetra, v1}),
		displace(h, d, term{-sinTetra05, v3p}, term{-sinTetraH, v2}, term{-cosTetra, v1}),
	}
}

// tetra1 places the hydrogen opposite to the centroid of the 3 control atoms.
// If the heavy atom is too close to the centroid, the normal of the plane of
// the control atoms is used, pointing to the side of the heavy atom.
func tetra1(h v3.Vec, c []v3.Vec, d float64) []v3.Vec {
	rcent := v3.Sub(h, v3.Mean(c[0], c[1], c[2]))
	var dir v3.Vec
	if v3.Len(rcent) < shortCentroid {
		dir = v3.Unit(v3.Cross(v3.Sub(c[1], c[0]), v3.Sub(c[2], c[0])))
		if v3.Dot(dir, rcent) < 0 {
			dir = v3.Scale(-1, dir)
		}
	} else {
		dir = v3.Unit(rcent)
	}
	return []v3.Vec{v3.Add(h, v3.Scale(d, dir))}
}

func tetra2(h v3.Vec, c []v3.Vec, d float64) []v3.Vec {
	rcent := v3.Unit(v3.Sub(h, v3.Mean(c[0], c[1])))
	perp := v3.Unit(v3.Cross(v3.Sub(h, c[0]), v3.Sub(h, c[1])))
	return []v3.Vec{
		displace(h, d, term{cosTetraH, rcent}, term{sinTetraH, perp}),
		displace(h, d, term{cosTetraH, rcent}, term{-sinTetraH, perp}),
	}
}

// water places the hydrogens at fixed offsets from the oxygen, whatever
// surrounds it.
func water(h v3.Vec, _ []v3.Vec, d float64) []v3.Vec {
	return []v3.Vec{
		v3.Add(h, v3.Vec{X: d * sinTheta1 * cosPhi, Y: d * sinTheta1 * sinPhi, Z: d * cosTheta1}),
		v3.Add(h, v3.Vec{X: d * sinTheta2 * cosPhi, Y: d * sinTheta2 * sinPhi, Z: -d * cosTheta2}),
	}
}

// degenerate tells whether some of the positions is not at distance d from h,
// which happens when the control atoms are collinear or overlap.
func degenerate(h v3.Vec, pos []v3.Vec, d float64) bool {
	for _, p := range pos {
		if v3.IsNaN(p) || math.Abs(v3.Dist(h, p)-d) > 1e-6*math.Max(1, d) {
			return true
		}
	}
	return false
}
