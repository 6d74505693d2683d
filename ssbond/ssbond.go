/*
 * ssbond.go, part of molprep.
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

// Package ssbond finds the disulfide bonds of a model and renames the
// cysteines involved, so the hydrogen builder uses the topology entry
// without the thiol hydrogen.
package ssbond

import (
	"math"

	chem "github.com/rmera/molprep"
	v3 "github.com/rmera/molprep/v3"
)

// MaxDist2 is the squared SG-SG distance under which 2 cysteines are
// considered bonded.
const MaxDist2 = 9.0

const cysName = "CYS "

// Options for Detect.
type Options struct {
	Name   string //name given to bonded cysteines. "CYS2" if empty.
	AltLoc byte   //'A' if 0
}

func (O Options) fill() (Options, error) {
	if O.Name == "" {
		O.Name = "CYS2"
	}
	name, err := chem.FormatResName(O.Name)
	if err != nil {
		return O, err
	}
	O.Name = name
	if O.AltLoc == 0 {
		O.AltLoc = 'A'
	}
	return O, nil
}

// sulfurs returns the residues that are standard, not yet renamed cysteines
// with an SG atom, and the positions of those atoms.
func sulfurs(M *chem.Model, altLoc byte) ([]int, *v3.Matrix) {
	var res []int
	var pos []v3.Vec
	for c := 0; c < M.NChains(); c++ {
		for _, r := range M.Chain(c).Residues() {
			R := M.Residue(r)
			if R.Rec != chem.Standard || R.Name != cysName {
				continue
			}
			i, ok := M.FindAtom(r, " SG ", altLoc)
			if !ok {
				continue
			}
			res = append(res, r)
			pos = append(pos, M.Atom(i).Pos)
		}
	}
	if len(res) == 0 {
		return nil, nil
	}
	return res, v3.FromVecs(pos)
}

// Detect renames to O.Name every pair of cysteines whose SG atoms are closer
// than sqrt(MaxDist2) and returns the corresponding SSBOND records, which
// replace those in M. Each cysteine is paired with the first unpaired
// cysteine after it that is close enough.
func Detect(M *chem.Model, O Options, log *chem.Logger) ([]chem.SSBond, error) {
	log = chem.OrNoop(log)
	O, err := O.fill()
	if err != nil {
		return nil, err
	}
	res, coords := sulfurs(M, O.AltLoc)
	var bonds []chem.SSBond
	paired := make([]bool, len(res))
	for i := range res {
		if paired[i] {
			continue
		}
		for j := i + 1; j < len(res); j++ {
			if paired[j] {
				continue
			}
			d2 := coords.Dist2(i, j)
			if d2 >= MaxDist2 {
				continue
			}
			paired[i], paired[j] = true, true
			b := chem.SSBond{
				Serial: len(bonds) + 1,
				A:      partner(M, res[i]),
				B:      partner(M, res[j]),
				Length: math.Sqrt(d2),
			}
			bonds = append(bonds, b)
			M.Residue(res[i]).Name = O.Name
			M.Residue(res[j]).Name = O.Name
			log.Debug("disulfide bond", "cys1", M.ResidueID(res[i]), "cys2", M.ResidueID(res[j]), "length", b.Length)
			break
		}
	}
	M.SSBonds = bonds
	log.Info("disulfide bonds detected", "count", len(bonds), "cysteines", len(res))
	return bonds, nil
}

func partner(M *chem.Model, r int) chem.SSPartner {
	R := M.Residue(r)
	return chem.SSPartner{Chain: M.ChainOf(r).ID, Seq: R.Seq, ICode: R.ICode}
}

// FromRecords renames to name the cysteines listed in the SSBOND records of
// M, as read from its file. It returns the number of residues renamed.
// Partners that are not standard cysteines are left alone.
func FromRecords(M *chem.Model, name string, log *chem.Logger) (int, error) {
	log = chem.OrNoop(log)
	O, err := Options{Name: name}.fill()
	if err != nil {
		return 0, err
	}
	want := make(map[chem.SSPartner]bool, 2*len(M.SSBonds))
	for _, b := range M.SSBonds {
		want[chem.SSPartner{Chain: b.A.Chain, Seq: b.A.Seq, ICode: b.A.ICode}] = true
		want[chem.SSPartner{Chain: b.B.Chain, Seq: b.B.Seq, ICode: b.B.ICode}] = true
	}
	n := 0
	for r := 0; r < M.NResidues(); r++ {
		R := M.Residue(r)
		if !want[partner(M, r)] {
			continue
		}
		if R.Rec != chem.Standard || R.Name != cysName {
			log.Warn("SSBOND record for a residue that is not a cysteine", "residue", M.ResidueID(r))
			continue
		}
		R.Name = O.Name
		n++
	}
	return n, nil
}

// Count returns the number of standard cysteines in M, renamed or not.
func Count(M *chem.Model, name string) int {
	name, err := chem.FormatResName(name)
	if err != nil {
		name = ""
	}
	n := 0
	for r := 0; r < M.NResidues(); r++ {
		R := M.Residue(r)
		if R.Rec == chem.Standard && (R.Name == cysName || R.Name == name) {
			n++
		}
	}
	return n
}
