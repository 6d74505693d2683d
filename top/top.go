/*
 * top.go, part of molprep.
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

package top

import (
	"errors"
	"fmt"
	"math/bits"

	chem "github.com/rmera/molprep"
)

// MolType is the kind of molecule a topology entry belongs to.
// It selects which terminal flags apply to the entry.
type MolType byte

const (
	Protein MolType = 'P'
	DNA     MolType = 'D'
	RNA     MolType = 'R'
	Other   MolType = 'O'
)

// Section returns the name of the topology file section for the molecule type.
func (M MolType) Section() string {
	switch M {
	case Protein:
		return "proteins"
	case DNA:
		return "DNA"
	case RNA:
		return "RNA"
	}
	return "other"
}

func (M MolType) String() string { return M.Section() }

// AnyRecord, as the record type of an entry, means that the entry applies both
// to ATOM and HETATM residues.
const AnyRecord chem.RecordType = '@'

// BondType selects the geometry used to place the hydrogens of a rule.
type BondType int

const (
	Planar1 BondType = 1  //1 H on a planar atom, bisecting its 2 neighbours
	OH2     BondType = 2  //1 H on O or S
	Planar2 BondType = 3  //2 planar H (amides, guanidinium)
	Methyl4 BondType = 4  //3 tetrahedral H
	Tetra1  BondType = 5  //1 tetrahedral H on an atom with 3 heavy neighbours
	Tetra2  BondType = 6  //2 tetrahedral H
	Water   BondType = 10 //the 2 H of a water molecule, needs no control atoms
)

// Valid tells whether B is one of the known bonding types.
func (B BondType) Valid() bool {
	switch B {
	case Planar1, OH2, Planar2, Methyl4, Tetra1, Tetra2, Water:
		return true
	}
	return false
}

// NControls returns the number of control atoms the geometry needs,
// or -1 for an unknown type.
func (B BondType) NControls() int {
	switch B {
	case Water:
		return 0
	case Tetra1:
		return 3
	case Planar1, OH2, Planar2, Methyl4, Tetra2:
		return 2
	}
	return -1
}

// NHydrogens returns the number of hydrogens the geometry produces,
// or -1 for an unknown type.
func (B BondType) NHydrogens() int {
	switch B {
	case Planar1, OH2, Tetra1:
		return 1
	case Planar2, Tetra2, Water:
		return 2
	case Methyl4:
		return 3
	}
	return -1
}

func (B BondType) String() string {
	return fmt.Sprintf("%d", int(B))
}

// Ref names a control atom. If Prev is true, the atom is looked for in the
// residue preceding the current one in the chain.
type Ref struct {
	Name string
	Prev bool
}

// Rule tells how to build the hydrogens bound to one heavy atom.
type Rule struct {
	Hydrogen string //base name of the hydrogens, numbered when Count > 1
	Count    int
	Type     BondType
	Dist     float64 //heavy atom-hydrogen distance
	Heavy    string
	Controls []Ref
}

// Entry is the topology of one residue.
type Entry struct {
	Name    string
	Aliases []string //other names that share this entry
	Mol     MolType
	Rec     chem.RecordType //Standard, Hetero or AnyRecord
	Heavy   []string
	Rules   []Rule

	//Names of the variants to use when the residue is the first or the last
	//one in a chain, and the variants themselves, once linked by New.
	FirstName, LastName string
	First, Last         *Entry
}

// Rule returns the rule for the heavy atom with the given formatted name.
func (E *Entry) Rule(heavy string) (*Rule, bool) {
	for i := range E.Rules {
		if E.Rules[i].Heavy == heavy {
			return &E.Rules[i], true
		}
	}
	return nil, false
}

// Names returns the name of the entry followed by its aliases.
func (E *Entry) Names() []string {
	return append([]string{E.Name}, E.Aliases...)
}

// Errors that can be matched with errors.Is on the errors returned
// by this package.
var (
	ErrMalformed = errors.New("malformed topology record")
	ErrDuplicate = errors.New("duplicate residue name")
)

// DB is a topology database: residue entries indexed by name.
// It doesn't change after New, so it can be shared by goroutines.
type DB struct {
	entries []*Entry
	byName  map[string]*Entry
}

// New builds a database from the given entries, which are not copied.
// All entries are indexed by name (and alias) first. Then the terminal
// variants are linked by name. A variant that can't be found is only a
// warning, the entry just keeps a nil reference. Inconsistent rules and
// repeated names are errors.
func New(entries []*Entry, log *chem.Logger) (*DB, error) {
	log = chem.OrNoop(log)
	n := 0
	for _, e := range entries {
		n += 1 + len(e.Aliases)
	}
	D := &DB{
		entries: entries,
		byName:  make(map[string]*Entry, tableSize(n)),
	}
	for _, e := range entries {
		if err := e.check(); err != nil {
			return nil, err
		}
		for _, name := range e.Names() {
			if _, ok := D.byName[name]; ok {
				return nil, fmt.Errorf("%w: %q", ErrDuplicate, chem.TrimName(name))
			}
			D.byName[name] = e
		}
	}
	for _, e := range entries {
		e.First = D.link(e.FirstName, log)
		e.Last = D.link(e.LastName, log)
	}
	return D, nil
}

func (D *DB) link(name string, log *chem.Logger) *Entry {
	if name == "" {
		return nil
	}
	e, ok := D.byName[name]
	if !ok {
		log.Warn(fmt.Sprintf("terminal residue %s does not exist in topology database", chem.TrimName(name)))
		return nil
	}
	return e
}

// tableSize returns the next power of two not smaller than 2n.
func tableSize(n int) int {
	if n < 1 {
		return 1
	}
	return 1 << bits.Len(uint(2*n-1))
}

func (E *Entry) check() error {
	if len(E.Heavy) == 0 {
		return fmt.Errorf("%w: no heavy atom entries in residue %s", ErrMalformed, chem.TrimName(E.Name))
	}
	if len(E.Rules) == 0 {
		return fmt.Errorf("%w: no hydrogen entries in residue %s", ErrMalformed, chem.TrimName(E.Name))
	}
	for _, r := range E.Rules {
		if err := r.check(); err != nil {
			return fmt.Errorf("residue %s: %w", chem.TrimName(E.Name), err)
		}
	}
	return nil
}

func (R *Rule) check() error {
	if !R.Type.Valid() {
		return fmt.Errorf("%w: hydrogen type %d does not exist", ErrMalformed, int(R.Type))
	}
	if R.Count < 1 || R.Count > 3 {
		return fmt.Errorf("%w: %d hydrogens for atom %s, must be 1 to 3", ErrMalformed, R.Count, chem.TrimName(R.Heavy))
	}
	if R.Count != R.Type.NHydrogens() {
		return fmt.Errorf("%w: type %d builds %d hydrogens, not %d (atom %s)", ErrMalformed, int(R.Type), R.Type.NHydrogens(), R.Count, chem.TrimName(R.Heavy))
	}
	if len(R.Controls) != R.Type.NControls() {
		return fmt.Errorf("%w: type %d needs %d control atoms, %d given (atom %s)", ErrMalformed, int(R.Type), R.Type.NControls(), len(R.Controls), chem.TrimName(R.Heavy))
	}
	return nil
}

// Lookup returns the entry for the residue name. Names shorter than
// 4 characters are formatted first.
func (D *DB) Lookup(name string) (*Entry, bool) {
	if len(name) != chem.NameLen {
		var err error
		if name, err = chem.FormatResName(name); err != nil {
			return nil, false
		}
	}
	e, ok := D.byName[name]
	return e, ok
}

// Entries returns the entries of the database in the order they were given.
func (D *DB) Entries() []*Entry {
	ret := make([]*Entry, len(D.entries))
	copy(ret, D.entries)
	return ret
}

// Len returns the number of entries, not counting aliases.
func (D *DB) Len() int { return len(D.entries) }
