/*
 * ssbond_test.go, part of molprep.
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

package ssbond

import (
	"testing"

	chem "github.com/rmera/molprep"
	v3 "github.com/rmera/molprep/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cys(M *chem.Model, c, seq int, rec chem.RecordType, sg v3.Vec) int {
	r := M.AddResidue(c, "CYS ", seq, ' ', rec)
	M.AddAtom(r, chem.Atom{Name: " CB ", Element: " C", AltLoc: ' ', Pos: v3.Add(sg, v3.Vec{Z: 1.8})})
	M.AddAtom(r, chem.Atom{Name: " SG ", Element: " S", AltLoc: ' ', Pos: sg})
	return r
}

func TestDetect(Te *testing.T) {
	M := chem.NewModel()
	a := M.AddChain('A')
	b := M.AddChain('B')
	r1 := cys(M, a, 3, chem.Standard, v3.Vec{})
	r2 := cys(M, a, 40, chem.Standard, v3.Vec{X: 2.9})
	r3 := cys(M, b, 5, chem.Standard, v3.Vec{X: 2.5})
	r4 := cys(M, b, 6, chem.Hetero, v3.Vec{Y: 1})
	far := cys(M, b, 7, chem.Standard, v3.Vec{X: 20})
	bonds, err := Detect(M, Options{}, nil)
	require.NoError(Te, err)
	require.Len(Te, bonds, 1)
	assert.Equal(Te, 1, bonds[0].Serial)
	assert.Equal(Te, chem.SSPartner{Chain: 'A', Seq: 3, ICode: ' '}, bonds[0].A)
	assert.Equal(Te, chem.SSPartner{Chain: 'A', Seq: 40, ICode: ' '}, bonds[0].B)
	assert.InDelta(Te, 2.9, bonds[0].Length, 1e-9)
	assert.Equal(Te, bonds, M.SSBonds)
	assert.Equal(Te, "CYS2", M.Residue(r1).Name)
	assert.Equal(Te, "CYS2", M.Residue(r2).Name)
	//close to both, but they are taken
	assert.Equal(Te, "CYS ", M.Residue(r3).Name)
	assert.Equal(Te, "CYS ", M.Residue(r4).Name)
	assert.Equal(Te, "CYS ", M.Residue(far).Name)
	assert.Equal(Te, 4, Count(M, "CYS2"))

	//nothing left to pair
	bonds, err = Detect(M, Options{}, nil)
	require.NoError(Te, err)
	assert.Empty(Te, bonds)
}

func TestDetectOptions(Te *testing.T) {
	M := chem.NewModel()
	a := M.AddChain('A')
	r1 := M.AddResidue(a, "CYS ", 1, ' ', chem.Standard)
	M.AddAtom(r1, chem.Atom{Name: " SG ", Element: " S", AltLoc: 'A', Pos: v3.Vec{X: 10}})
	M.AddAtom(r1, chem.Atom{Name: " SG ", Element: " S", AltLoc: 'B', Pos: v3.Vec{}})
	r2 := cys(M, a, 2, chem.Standard, v3.Vec{Y: 2})
	bonds, err := Detect(M, Options{Name: "CYX"}, nil)
	require.NoError(Te, err)
	assert.Empty(Te, bonds)
	bonds, err = Detect(M, Options{Name: "CYX", AltLoc: 'B'}, nil)
	require.NoError(Te, err)
	require.Len(Te, bonds, 1)
	assert.InDelta(Te, 2.0, bonds[0].Length, 1e-9)
	assert.Equal(Te, "CYX ", M.Residue(r1).Name)
	assert.Equal(Te, "CYX ", M.Residue(r2).Name)
	_, err = Detect(M, Options{Name: "TOOLONG"}, nil)
	assert.Error(Te, err)
}

func TestFromRecords(Te *testing.T) {
	M := chem.NewModel()
	a := M.AddChain('A')
	r1 := cys(M, a, 3, chem.Standard, v3.Vec{})
	r2 := cys(M, a, 40, chem.Standard, v3.Vec{X: 30})
	r3 := cys(M, a, 41, chem.Standard, v3.Vec{X: 2})
	gly := M.AddResidue(a, "GLY ", 42, ' ', chem.Standard)
	M.SSBonds = []chem.SSBond{
		{Serial: 1, A: chem.SSPartner{Chain: 'A', Seq: 3, ICode: ' '}, B: chem.SSPartner{Chain: 'A', Seq: 40, ICode: ' '}},
		{Serial: 2, A: chem.SSPartner{Chain: 'A', Seq: 42, ICode: ' '}, B: chem.SSPartner{Chain: 'B', Seq: 1, ICode: ' '}},
	}
	n, err := FromRecords(M, "CYS2", nil)
	require.NoError(Te, err)
	assert.Equal(Te, 2, n)
	assert.Equal(Te, "CYS2", M.Residue(r1).Name)
	assert.Equal(Te, "CYS2", M.Residue(r2).Name)
	assert.Equal(Te, "CYS ", M.Residue(r3).Name)
	assert.Equal(Te, "GLY ", M.Residue(gly).Name)
}

// The cysteines of the fixture are not bonded to each other.
func TestDetectFile(Te *testing.T) {
	M, _, err := chem.ReadPDBFile("../test/crambin4.pdb", chem.DefaultReadOptions(), nil)
	require.NoError(Te, err)
	assert.Equal(Te, 2, Count(M, "CYS2"))
	bonds, err := Detect(M, Options{}, nil)
	require.NoError(Te, err)
	assert.Empty(Te, bonds)
}
