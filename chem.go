/*
 * chem.go, part of molprep.
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

package chem

import (
	"fmt"

	v3 "github.com/rmera/molprep/v3"
)

/**Note: Many functions here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is most likely wrong and should
 * crash. The panics are related to using indexes out of range.**/

// RecordType is the kind of PDB record the atoms of a residue come from.
type RecordType byte

const (
	Standard RecordType = 'A' //ATOM records
	Hetero   RecordType = 'H' //HETATM records
)

// Record returns the 6-character PDB record name for R.
func (R RecordType) Record() string {
	if R == Hetero {
		return "HETATM"
	}
	return "ATOM  "
}

func (R RecordType) String() string {
	return string(R)
}

// Atom contains the information of one atom. Atoms are owned by a Model
// and know the index of the residue they belong to.
type Atom struct {
	Name       string //always 4 characters, PDB-style
	Element    string //2 characters, right-justified. " H" for every hydrogen.
	AltLoc     byte
	Pos        v3.Vec
	Occupancy  float64
	TempFactor float64
	Serial     string
	Charge     string
	Residue    int
}

// IsHydrogen tells whether the atom has been tagged as a hydrogen.
func (A *Atom) IsHydrogen() bool {
	return A.Element == HydrogenTag
}

// InAltLoc tells whether the atom belongs to the alternate location altLoc.
// Atoms without alternate location belong to all of them.
func (A *Atom) InAltLoc(altLoc byte) bool {
	return A.AltLoc == ' ' || A.AltLoc == 0 || A.AltLoc == altLoc
}

// Residue is an ordered sequence of atoms, part of a chain.
type Residue struct {
	Name  string //always 4 characters
	Seq   int
	ICode byte
	Rec   RecordType
	SegID string
	Chain int
	pos   int //position in the chain
	atoms []int
}

// Atoms returns the indexes of the atoms of the residue, in order.
// The slice must not be modified.
func (R *Residue) Atoms() []int { return R.atoms }

// Len returns the number of atoms in the residue.
func (R *Residue) Len() int { return len(R.atoms) }

// Chain is an ordered sequence of residues.
type Chain struct {
	ID       byte
	residues []int
}

// Residues returns the indexes of the residues of the chain, in order.
// The slice must not be modified.
func (C *Chain) Residues() []int { return C.residues }

// Len returns the number of residues in the chain.
func (C *Chain) Len() int { return len(C.residues) }

// SSPartner identifies one of the cysteines in a disulfide bond.
type SSPartner struct {
	Chain byte
	Seq   int
	ICode byte
	SymOp string
}

// SSBond is a disulfide bond record.
type SSBond struct {
	Serial int
	A, B   SSPartner
	Length float64 //0 if unknown
}

// Model is a chain->residue->atom structure. All the atoms, residues and chains
// are kept in flat slices and refer to their parents by index, so an index
// obtained from a Model stays valid for its whole life: the Model only grows.
type Model struct {
	ID      string //PDB ID code, if any
	ModelNo int    //0 if the structure didn't come from a MODEL section
	Cryst1  string //the CRYST1 record, verbatim
	SSBonds []SSBond

	atoms    []Atom
	residues []Residue
	chains   []Chain
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return new(Model)
}

// Len returns the number of atoms in the model.
func (M *Model) Len() int { return len(M.atoms) }

// NResidues returns the number of residues in the model.
func (M *Model) NResidues() int { return len(M.residues) }

// NChains returns the number of chains in the model.
func (M *Model) NChains() int { return len(M.chains) }

// Atom returns the atom with index i.
func (M *Model) Atom(i int) *Atom { return &M.atoms[i] }

// Residue returns the residue with index i.
func (M *Model) Residue(i int) *Residue { return &M.residues[i] }

// Chain returns the chain with index i. Chains are numbered in
// the order they were added.
func (M *Model) Chain(i int) *Chain { return &M.chains[i] }

// AddChain appends a new, empty chain to the model and returns its index.
func (M *Model) AddChain(id byte) int {
	M.chains = append(M.chains, Chain{ID: id})
	return len(M.chains) - 1
}

// AddResidue appends a new, empty residue to the chain with index chain and
// returns its index. The name is stored as given, it is expected to be
// already formatted (see FormatResName).
func (M *Model) AddResidue(chain int, name string, seq int, icode byte, rec RecordType) int {
	c := &M.chains[chain]
	M.residues = append(M.residues, Residue{
		Name:  name,
		Seq:   seq,
		ICode: icode,
		Rec:   rec,
		Chain: chain,
		pos:   len(c.residues),
	})
	r := len(M.residues) - 1
	c.residues = append(c.residues, r)
	return r
}

// AddAtom appends a copy of a at the end of the residue with index res and
// returns the index of the new atom.
func (M *Model) AddAtom(res int, a Atom) int {
	r := &M.residues[res]
	a.Residue = res
	M.atoms = append(M.atoms, a)
	i := len(M.atoms) - 1
	r.atoms = append(r.atoms, i)
	return i
}

// InsertAtomAfter creates a new atom in the residue of the atom with index
// at, placed right after it in the residue's atom sequence, and returns the
// index of the new atom. The new atom has only its residue set.
func (M *Model) InsertAtomAfter(at int) int {
	res := M.atoms[at].Residue
	M.atoms = append(M.atoms, Atom{Residue: res})
	i := len(M.atoms) - 1
	r := &M.residues[res]
	for k, v := range r.atoms {
		if v == at {
			r.atoms = append(r.atoms, 0)
			copy(r.atoms[k+2:], r.atoms[k+1:])
			r.atoms[k+1] = i
			return i
		}
	}
	//Can only happen if the model was corrupted.
	panic(fmt.Sprintf("atom %d not found in its residue %d", at, res))
}

// PrevResidue returns the index of the residue preceding res in its chain.
// ok is false if res is the first residue of the chain.
func (M *Model) PrevResidue(res int) (prev int, ok bool) {
	r := &M.residues[res]
	if r.pos == 0 {
		return -1, false
	}
	return M.chains[r.Chain].residues[r.pos-1], true
}

// IsFirst tells whether res is the first residue of its chain.
func (M *Model) IsFirst(res int) bool {
	return M.residues[res].pos == 0
}

// IsLast tells whether res is the last residue of its chain.
func (M *Model) IsLast(res int) bool {
	r := &M.residues[res]
	return r.pos == len(M.chains[r.Chain].residues)-1
}

// ChainOf returns the chain that contains the residue res.
func (M *Model) ChainOf(res int) *Chain {
	return &M.chains[M.residues[res].Chain]
}

// FindAtom returns the index of the first non-hydrogen atom of the residue res
// with the given (formatted) name that belongs to the alternate location altLoc.
// ok is false if no such atom exists.
func (M *Model) FindAtom(res int, name string, altLoc byte) (int, bool) {
	for _, i := range M.residues[res].atoms {
		a := &M.atoms[i]
		if a.IsHydrogen() || !a.InAltLoc(altLoc) {
			continue
		}
		if a.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Order returns the indexes of all atoms, in chain->residue->atom order.
func (M *Model) Order() []int {
	ret := make([]int, 0, len(M.atoms))
	for c := range M.chains {
		for _, r := range M.chains[c].residues {
			ret = append(ret, M.residues[r].atoms...)
		}
	}
	return ret
}

// Coords returns the positions of all the atoms in the model, in the
// order given by Order. It returns nil for an empty model.
func (M *Model) Coords() *v3.Matrix {
	order := M.Order()
	if len(order) == 0 {
		return nil
	}
	ret := v3.Zeros(len(order))
	for k, i := range order {
		ret.SetVec(k, M.atoms[i].Pos)
	}
	return ret
}

// ResidueID returns a short human-readable identification of a residue,
// as used in log messages: name, sequence number, insertion code and chain.
func (M *Model) ResidueID(res int) string {
	r := &M.residues[res]
	return fmt.Sprintf("%s %d%c %c", TrimName(r.Name), r.Seq, r.ICode, M.chains[r.Chain].ID)
}

var _ Atomer = (*Model)(nil)
