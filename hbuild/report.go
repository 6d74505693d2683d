/*
 * report.go, part of molprep.
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
	"fmt"

	"github.com/rmera/molprep/top"
)

// Kind classifies the problems found while building hydrogens.
type Kind int

const (
	NotInTopology Kind = iota //residue not found in the database, or wrong record type
	MissingAtoms              //heavy atoms required by the topology are missing
	TooMany                   //more hydrogens than expected around a heavy atom
	Partial                   //some, but not all, of the expected hydrogens present
	NoControls                //control atoms not found
	Degenerate                //control atoms don't define the geometry
	LowOccupancy              //atoms with zero occupancy
)

var kindNames = [...]string{"not-in-topology", "missing-atoms", "too-many-hydrogens", "partial-hydrogens", "no-control-atoms", "degenerate-geometry", "low-occupancy"}

func (K Kind) String() string {
	if K < 0 || int(K) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(K))
	}
	return kindNames[K]
}

// Diagnostic is a recoverable problem. The work on the affected residue or
// atom is skipped and the run goes on.
type Diagnostic struct {
	Kind    Kind
	Chain   byte
	Residue string
	Seq     int
	ICode   byte
	Atom    string //empty for per-residue diagnostics
	Count   int    //hydrogens found, for TooMany and Partial
	Message string
}

func (D Diagnostic) String() string { return D.Message }

// Placement records one hydrogen added to the model.
type Placement struct {
	Atom  int //index of the new hydrogen in the model
	Heavy int //index of the atom it is bound to
	Dist  float64
}

// Report is the outcome of a build.
type Report struct {
	Added       int
	Diagnostics []Diagnostic
	NotFound    []string //names of the residues not found in the database, in order of appearance
	Placements  []Placement
}

// Count returns the number of diagnostics of the given kind.
func (R *Report) Count(k Kind) int {
	n := 0
	for _, d := range R.Diagnostics {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// Dists returns the distances of every placed hydrogen to its heavy atom.
func (R *Report) Dists() []float64 {
	ret := make([]float64, len(R.Placements))
	for i, p := range R.Placements {
		ret[i] = p.Dist
	}
	return ret
}

// FatalError is returned when a rule can't be used at all, which means the
// topology database is corrupted.
type FatalError struct {
	Residue string
	Atom    string
	Type    top.BondType
	Msg     string
}

func (E *FatalError) Error() string {
	return fmt.Sprintf("residue %s, atom %s: %s", E.Residue, E.Atom, E.Msg)
}
