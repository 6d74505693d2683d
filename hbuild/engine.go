/*
 * engine.go, part of molprep.
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

	chem "github.com/rmera/molprep"
	v3 "github.com/rmera/molprep/v3"
	"github.com/rmera/molprep/top"
)

// maxXH2 is a generous squared X-H distance, used to count the hydrogens
// already bound to an atom.
const maxXH2 = 1.5

// zeroOccupancy is the occupancy under which an atom is reported when
// Options.WarnOcc is set.
const zeroOccupancy = 1.1920929e-07

// Options controls a build.
type Options struct {
	AltLoc   byte //alternate location to process. Atoms with a blank one are always processed.
	NTerm    bool //use the N-terminal variants of protein residues
	CTerm    bool //use the C-terminal variants of protein residues
	DNA5Term bool
	DNA3Term bool
	RNA5Term bool
	RNA3Term bool
	WarnOcc  bool //report atoms with zero occupancy
}

// DefaultOptions processes alternate location A and uses every terminal variant.
func DefaultOptions() Options {
	return Options{AltLoc: 'A', NTerm: true, CTerm: true, DNA5Term: true, DNA3Term: true, RNA5Term: true, RNA3Term: true}
}

// Engine adds hydrogens to models, following the rules of a topology database.
// An Engine has no state of its own, so it can build several models at
// the same time.
type Engine struct {
	db   *top.DB
	opts Options
	log  *chem.Logger
}

// New returns an Engine using the database db. A zero AltLoc in opts means 'A'.
func New(db *top.DB, opts Options, log *chem.Logger) *Engine {
	if opts.AltLoc == 0 {
		opts.AltLoc = 'A'
	}
	return &Engine{db: db, opts: opts, log: chem.OrNoop(log)}
}

// build holds the state of one Build call.
type build struct {
	*Engine
	M        *chem.Model
	R        *Report
	notFound chem.OrderedSet[string]
}

// Build adds the missing hydrogens to M, in place. Each new hydrogen is
// inserted right after the atom it is bound to. Residues and atoms that can't
// be dealt with are skipped and reported in the returned Report. An error is
// only returned for rules that can't be applied at all. In that case the
// Report holds what was done until then.
func (E *Engine) Build(M *chem.Model) (*Report, error) {
	B := &build{Engine: E, M: M, R: &Report{}}
	for c := 0; c < M.NChains(); c++ {
		for _, r := range M.Chain(c).Residues() {
			if err := B.residue(r); err != nil {
				return B.R, err
			}
		}
	}
	if B.notFound.Len() > 0 {
		B.R.NotFound = B.notFound.Items()
		msg := "residues not found in topology database: " + chem.JoinNames(B.R.NotFound)
		B.R.Diagnostics = append(B.R.Diagnostics, Diagnostic{Kind: NotInTopology, Message: msg})
		E.log.Warn(msg, "kind", NotInTopology.String())
	}
	E.log.Info("hydrogens added", "count", B.R.Added, "warnings", len(B.R.Diagnostics))
	return B.R, nil
}

// residueDiag returns a Diagnostic filled with the identification of residue r.
func (B *build) residueDiag(k Kind, r int) Diagnostic {
	res := B.M.Residue(r)
	return Diagnostic{Kind: k, Chain: B.M.ChainOf(r).ID, Residue: res.Name, Seq: res.Seq, ICode: res.ICode}
}

func (B *build) warn(d Diagnostic) {
	B.R.Diagnostics = append(B.R.Diagnostics, d)
	args := []any{"kind", d.Kind.String()}
	if d.Atom != "" {
		args = append(args, "atom", chem.TrimName(d.Atom))
	}
	B.log.WithResidue(d.Residue, d.Seq, d.ICode, d.Chain).Warn(d.Message, args...)
}

func (B *build) residue(r int) error {
	res := B.M.Residue(r)
	if B.opts.WarnOcc {
		B.checkOccupancy(r)
	}
	entry, ok := B.db.Lookup(res.Name)
	//the record type disambiguates names used both for polymer residues
	//and for ligands.
	if !ok || (entry.Rec != top.AnyRecord && entry.Rec != res.Rec) {
		B.notFound.Add(res.Name)
		return nil
	}
	entry = B.terminal(r, entry)
	B.checkHeavy(r, entry)
	for k := 0; k < res.Len(); k++ {
		i := res.Atoms()[k]
		a := B.M.Atom(i)
		if !a.InAltLoc(B.opts.AltLoc) || a.IsHydrogen() {
			continue
		}
		rule, ok := entry.Rule(a.Name)
		if !ok {
			continue
		}
		nH := B.countH(r, k)
		switch {
		case nH > rule.Count:
			d := B.residueDiag(TooMany, r)
			d.Atom, d.Count = a.Name, nH
			d.Message = fmt.Sprintf("atom %s-%s %d%c %c has too many hydrogens (%d) already", chem.TrimName(a.Name), chem.TrimName(res.Name), res.Seq, res.ICode, d.Chain, nH)
			B.warn(d)
		case nH == rule.Count:
		case nH > 0:
			d := B.residueDiag(Partial, r)
			d.Atom, d.Count = a.Name, nH
			d.Message = fmt.Sprintf("atom %s-%s %d%c %c: cannot handle partially (%d) populated hydrogens", chem.TrimName(a.Name), chem.TrimName(res.Name), res.Seq, res.ICode, d.Chain, nH)
			B.warn(d)
		default:
			if err := B.place(r, i, rule); err != nil {
				return err
			}
		}
	}
	return nil
}

// terminal returns the terminal variant of entry if r is the first or the last
// residue of its chain and the options allow it. Otherwise it returns entry.
func (B *build) terminal(r int, entry *top.Entry) *top.Entry {
	o := B.opts
	if B.M.IsFirst(r) && entry.First != nil {
		if (entry.Mol == top.Protein && o.NTerm) || (entry.Mol == top.DNA && o.DNA5Term) || (entry.Mol == top.RNA && o.RNA5Term) {
			return entry.First
		}
	}
	if B.M.IsLast(r) && entry.Last != nil {
		if (entry.Mol == top.Protein && o.CTerm) || (entry.Mol == top.DNA && o.DNA3Term) || (entry.Mol == top.RNA && o.RNA3Term) {
			return entry.Last
		}
	}
	return entry
}

// checkHeavy reports, in one diagnostic, the heavy atoms of entry missing in r.
func (B *build) checkHeavy(r int, entry *top.Entry) {
	var missing chem.OrderedSet[string]
	res := B.M.Residue(r)
	for _, name := range entry.Heavy {
		found := false
		for _, i := range res.Atoms() {
			a := B.M.Atom(i)
			if a.InAltLoc(B.opts.AltLoc) && a.Name == name {
				found = true
				break
			}
		}
		if !found {
			missing.Add(name)
		}
	}
	if missing.Len() == 0 {
		return
	}
	d := B.residueDiag(MissingAtoms, r)
	d.Message = fmt.Sprintf("atoms not found in residue %s: %s", B.M.ResidueID(r), chem.JoinNames(missing.Items()))
	B.warn(d)
}

func (B *build) checkOccupancy(r int) {
	var low chem.OrderedSet[string]
	for _, i := range B.M.Residue(r).Atoms() {
		a := B.M.Atom(i)
		if a.InAltLoc(B.opts.AltLoc) && a.Occupancy < zeroOccupancy {
			low.Add(a.Name)
		}
	}
	if low.Len() == 0 {
		return
	}
	d := B.residueDiag(LowOccupancy, r)
	d.Message = fmt.Sprintf("very low occupancy for atoms in residue %s: %s", B.M.ResidueID(r), chem.JoinNames(low.Items()))
	B.warn(d)
}

// countH counts the hydrogens close to the k-th atom of residue r. Only the
// atoms after it are considered, so a hydrogen is not counted for both
// of two nearby heavy atoms. Hydrogens listed before their heavy atom are
// missed.
func (B *build) countH(r, k int) int {
	atoms := B.M.Residue(r).Atoms()
	pos := B.M.Atom(atoms[k]).Pos
	n := 0
	for _, i := range atoms[k+1:] {
		a := B.M.Atom(i)
		if !a.InAltLoc(B.opts.AltLoc) {
			continue
		}
		if a.IsHydrogen() && v3.Dist2(pos, a.Pos) < maxXH2 {
			n++
		}
	}
	return n
}

// controls finds the positions of the control atoms of rule for residue r.
// ok is false if any of them is missing.
func (B *build) controls(r int, rule *top.Rule) (pos []v3.Vec, ok bool) {
	pos = make([]v3.Vec, len(rule.Controls))
	for j, ref := range rule.Controls {
		rr := r
		if ref.Prev {
			if rr, ok = B.M.PrevResidue(r); !ok {
				return nil, false
			}
		}
		i, found := B.M.FindAtom(rr, ref.Name, B.opts.AltLoc)
		if !found {
			return nil, false
		}
		pos[j] = B.M.Atom(i).Pos
	}
	return pos, true
}

// place computes the hydrogens of rule for the heavy atom with index heavy,
// in residue r, and inserts them in the model.
func (B *build) place(r, heavy int, rule *top.Rule) error {
	res := B.M.Residue(r)
	geom, ok := geometries[rule.Type]
	if !ok || len(rule.Controls) != rule.Type.NControls() || rule.Count != rule.Type.NHydrogens() {
		return &FatalError{
			Residue: B.M.ResidueID(r),
			Atom:    chem.TrimName(rule.Heavy),
			Type:    rule.Type,
			Msg:     fmt.Sprintf("hydrogen type %d with %d hydrogens and %d control atoms does not exist in database", int(rule.Type), rule.Count, len(rule.Controls)),
		}
	}
	h := B.M.Atom(heavy).Pos
	ctrl, ok := B.controls(r, rule)
	if !ok {
		d := B.residueDiag(NoControls, r)
		d.Atom = rule.Heavy
		d.Message = fmt.Sprintf("cannot find all control atoms for atom %s (%s %d%c %c) in PDB", chem.TrimName(rule.Heavy), chem.TrimName(res.Name), res.Seq, res.ICode, d.Chain)
		B.warn(d)
		return nil
	}
	pos := geom(h, ctrl, rule.Dist)
	if degenerate(h, pos, rule.Dist) {
		d := B.residueDiag(Degenerate, r)
		d.Atom = rule.Heavy
		d.Message = fmt.Sprintf("control atoms of atom %s (%s %d%c %c) give no geometry, hydrogens not added", chem.TrimName(rule.Heavy), chem.TrimName(res.Name), res.Seq, res.ICode, d.Chain)
		B.warn(d)
		return nil
	}
	for i := 0; i < rule.Count; i++ {
		name := rule.Hydrogen
		if rule.Count > 1 {
			name = chem.NumberedName(name, byte('0'+rule.Count-i))
		}
		idx := B.M.InsertAtomAfter(heavy)
		a := B.M.Atom(idx)
		a.Name = name
		a.Element = chem.HydrogenTag
		a.AltLoc = ' '
		a.Pos = pos[i]
		a.Occupancy = 1.0
		a.TempFactor = 0.0
		B.R.Added++
		B.R.Placements = append(B.R.Placements, Placement{Atom: idx, Heavy: heavy, Dist: v3.Dist(h, pos[i])})
	}
	return nil
}
