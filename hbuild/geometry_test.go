/*
 * geometry_test.go, part of molprep.
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
	"testing"

	chem "github.com/rmera/molprep"
	v3 "github.com/rmera/molprep/v3"
	"github.com/rmera/molprep/top"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

var (
	heavyPos = v3.Vec{X: 0.3, Y: -0.2, Z: 0.1}
	ctrlPos  = []v3.Vec{{X: 1.5, Y: 0.1, Z: -0.2}, {X: 2.1, Y: 1.3, Z: 0.4}, {X: -0.4, Y: -1.2, Z: 0.9}}
)

// Every geometry puts its hydrogens at the requested distance.
func TestGeometryDistances(Te *testing.T) {
	for t, g := range geometries {
		for _, d := range []float64{0.96, 1.01, 1.09} {
			pos := g(heavyPos, ctrlPos[:t.NControls()], d)
			require.Len(Te, pos, t.NHydrogens(), "type %d", t)
			for _, p := range pos {
				assert.InDelta(Te, d, v3.Dist(heavyPos, p), tol, "type %d", t)
			}
			assert.False(Te, degenerate(heavyPos, pos, d), "type %d", t)
		}
	}
}

func TestPlanar1(Te *testing.T) {
	N := v3.Vec{}
	CA := v3.Vec{X: 1.46}
	C := v3.Vec{Y: 1.0, Z: 1.0}
	H := planar1(N, []v3.Vec{C, CA}, 1.0)[0]
	want := v3.Scale(1/2.0326337592, v3.Vec{X: -1.46, Y: -1, Z: -1})
	assert.InDelta(Te, want.X, H.X, 1e-4)
	assert.InDelta(Te, want.Y, H.Y, 1e-4)
	assert.InDelta(Te, want.Z, H.Z, 1e-4)
	assert.InDelta(Te, 1.0, v3.Dist(N, H), 1e-4)
}

// The two hydrogens of type 3 are mirror images through the heavy atom-first control axis.
func TestPlanar2Symmetry(Te *testing.T) {
	h, c := heavyPos, ctrlPos[:2]
	pos := planar2(h, c, 1.01)
	v1 := v3.Unit(v3.Sub(h, c[0]))
	a, b := v3.Sub(pos[0], h), v3.Sub(pos[1], h)
	assert.InDelta(Te, v3.Dot(a, v1), v3.Dot(b, v1), tol)
	assert.InDelta(Te, v3.Len(a), v3.Len(b), tol)
	assert.InDelta(Te, 0, v3.Len(v3.Cross(v3.Add(a, b), v1)), tol)
	//both in the plane of the heavy atom and the 2 controls
	n := v3.Cross(v3.Sub(h, c[0]), v3.Sub(c[0], c[1]))
	assert.InDelta(Te, 0, v3.Dot(a, n), tol)
	assert.InDelta(Te, 0, v3.Dot(b, n), tol)
	//at 120 degrees from the bond to the control atom
	assert.InDelta(Te, 0.5*1.01, v3.Dot(a, v1), tol)
}

func TestMethyl4(Te *testing.T) {
	pos := methyl4(heavyPos, ctrlPos[:2], 1.09)
	d01 := v3.Dist(pos[0], pos[1])
	assert.InDelta(Te, d01, v3.Dist(pos[0], pos[2]), 1e-6)
	assert.InDelta(Te, d01, v3.Dist(pos[1], pos[2]), 1e-6)
	//tetrahedral angles with the bond to the first control atom
	bond := v3.Sub(ctrlPos[0], heavyPos)
	for _, p := range pos {
		assert.InDelta(Te, 109.47, chem.Rad2Deg(v3.Angle(bond, v3.Sub(p, heavyPos))), 0.01)
	}
}

func TestTetra1(Te *testing.T) {
	c := []v3.Vec{{X: 1}, {X: -0.5, Y: 0.8660254}, {X: -0.5, Y: -0.8660254}}
	H := tetra1(v3.Vec{Z: 0.1}, c, 1.0)[0]
	assert.InDelta(Te, 1.1, H.Z, tol)
	assert.InDelta(Te, 0, H.X, tol)
	H = tetra1(v3.Vec{Z: -0.1}, c, 1.0)[0]
	assert.InDelta(Te, -1.1, H.Z, tol)
	//far from the centroid, away from it
	H = tetra1(v3.Vec{Z: 0.5}, c, 1.0)[0]
	assert.InDelta(Te, 1.5, H.Z, tol)
}

func TestTetra2(Te *testing.T) {
	h := v3.Vec{}
	c := []v3.Vec{{X: 1, Y: -1}, {X: -1, Y: -1}}
	pos := tetra2(h, c, 1.09)
	//symmetric about the plane of the heavy atom and the controls
	assert.InDelta(Te, pos[0].Y, pos[1].Y, tol)
	assert.InDelta(Te, -pos[0].Z, pos[1].Z, tol)
	assert.True(Te, pos[0].Y > 0)
}

func TestWaterGeometry(Te *testing.T) {
	d := 0.9572
	pos := water(v3.Vec{}, nil, d)
	assert.InDelta(Te, d*0.76604444311897803520*0.34202014332566873305, pos[0].X, 1e-6)
	assert.InDelta(Te, d*0.76604444311897803520*0.93969262078590838405, pos[0].Y, 1e-6)
	assert.InDelta(Te, d*0.64278760968653932632, pos[0].Z, 1e-6)
	assert.InDelta(Te, d*0.43019600888661864331*0.34202014332566873305, pos[1].X, 1e-6)
	assert.InDelta(Te, d*0.43019600888661864331*0.93969262078590838405, pos[1].Y, 1e-6)
	assert.InDelta(Te, -d*0.90273550608028281612, pos[1].Z, 1e-6)
	//H-O-H angle of 104.52 degrees
	assert.InDelta(Te, 104.52, chem.Rad2Deg(v3.Angle(pos[0], pos[1])), 1e-3)
}

func TestDegenerate(Te *testing.T) {
	h := v3.Vec{}
	pos := planar1(h, []v3.Vec{{X: 1}, {X: -1}}, 1.0)
	assert.True(Te, degenerate(h, pos, 1.0))
	pos = oh2(h, []v3.Vec{{X: 1}, {X: 2}}, 1.0)
	assert.True(Te, degenerate(h, pos, 1.0))
	_, ok := geometries[top.BondType(7)]
	assert.False(Te, ok)
}
