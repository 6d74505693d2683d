/*
 * protonate.go, part of molprep.
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

// Package protonate sets the protonation state of titratable protein
// residues by renaming them, according to the pKa values predicted by
// PROPKA and a translation table. The hydrogen builder then finds the
// topology entry of the right protonation state.
package protonate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	chem "github.com/rmera/molprep"
	"github.com/rmera/molprep/top"
	"github.com/rmera/molprep/zio"
)

var (
	ErrIncomplete = errors.New("incomplete amino acid")
	ErrNoProtein  = errors.New("structure does not contain a protein or peptide")
	ErrNoSummary  = errors.New("no pKa summary found")
)

// Residues whose protonation state can be changed.
var titratable = map[string]bool{
	"ARG ": true, "ASP ": true, "CYS ": true, "GLU ": true,
	"HIS ": true, "LYS ": true, "TYR ": true,
}

// Residues renamed when pH < pKa. The rest of the titratable residues are
// renamed when pH >= pKa.
var protonatedBelow = map[string]bool{"HIS ": true, "ASP ": true, "GLU ": true}

// Table translates the name of a titratable residue into the name of its
// alternative protonation state. Both are formatted residue names.
type Table map[string]string

// TTBError is a problem in a translation table file.
type TTBError struct {
	File string
	Line int
	Msg  string
}

func (err *TTBError) Error() string {
	return fmt.Sprintf("%s: %s (line %d)", err.File, err.Msg, err.Line)
}

func isTTBDelim(r rune) bool {
	return strings.ContainsRune(" =->\t", r)
}

// ReadTTB reads a translation table. Each line has a residue name and
// the name of its protonation variant, separated by any mix of spaces,
// tabs and the characters "=", "-" and ">". Everything after a "#" is a comment.
// Residues that can't be titrated are skipped with a warning.
func ReadTTB(r io.Reader, name string, log *chem.Logger) (Table, error) {
	log = chem.OrNoop(log)
	ret := make(Table)
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		l := s.Text()
		if i := strings.IndexByte(l, '#'); i >= 0 {
			l = l[:i]
		}
		f := strings.FieldsFunc(l, isTTBDelim)
		if len(f) == 0 {
			continue
		}
		if len(f) < 2 {
			return nil, &TTBError{File: name, Line: line, Msg: "no value found in input"}
		}
		key, err := chem.FormatResName(f[0])
		if err != nil {
			return nil, &TTBError{File: name, Line: line, Msg: fmt.Sprintf("residue name %s too long", f[0])}
		}
		if !titratable[key] {
			log.Warn("not a titratable site", "file", name, "line", line, "residue", f[0])
			continue
		}
		val, err := chem.FormatResName(f[1])
		if err != nil {
			return nil, &TTBError{File: name, Line: line, Msg: fmt.Sprintf("residue name %s too long", f[1])}
		}
		ret[key] = val
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ret, nil
}

// ReadTTBFile reads the translation table in the file fname.
func ReadTTBFile(fname string, log *chem.Logger) (Table, error) {
	f, err := zio.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTTB(f, fname, log)
}

// DefaultTable gives the names used by the default topology database.
func DefaultTable() Table {
	return Table{
		"ASP ": "ASH ",
		"GLU ": "GLH ",
		"HIS ": "HIP ",
		"LYS ": "LYN ",
		"CYS ": "CYM ",
		"TYR ": "TYM ",
		"ARG ": "ARN ",
	}
}

// InputStats counts what was written to a PROPKA input.
type InputStats struct {
	Atoms      int
	Residues   int
	Titratable int
}

func orBlank(b byte) byte {
	if b == 0 {
		return ' '
	}
	return b
}

// WriteInput writes the heavy atoms of the standard protein residues of M to
// w, in the order of their topology entries, in the PDB dialect PROPKA
// reads. Only atoms with a blank alternate location or altLoc are
// considered. A residue lacking any of its heavy atoms makes the whole
// input useless, and ErrIncomplete is returned.
func WriteInput(w io.Writer, M *chem.Model, db *top.DB, altLoc byte) (InputStats, error) {
	var st InputStats
	bw := bufio.NewWriter(w)
	serial := 0
	for c := 0; c < M.NChains(); c++ {
		chain := M.Chain(c)
		for _, r := range chain.Residues() {
			res := M.Residue(r)
			entry, ok := db.Lookup(res.Name)
			if !ok || entry.Mol != top.Protein || res.Rec != chem.Standard {
				continue
			}
			for _, heavy := range entry.Heavy {
				i, ok := M.FindAtom(r, heavy, altLoc)
				if !ok {
					return st, fmt.Errorf("%w: %s", ErrIncomplete, M.ResidueID(r))
				}
				a := M.Atom(i)
				serial++
				if serial > 99999 {
					serial = 1
				}
				st.Atoms++
				fmt.Fprintf(bw, "%-6s%5d %4s%c%4s%c%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f\n",
					"ATOM", serial, a.Name, orBlank(a.AltLoc), res.Name, orBlank(chain.ID),
					res.Seq, orBlank(res.ICode), a.Pos.X, a.Pos.Y, a.Pos.Z, a.Occupancy, a.TempFactor)
			}
			st.Residues++
			if titratable[res.Name] {
				st.Titratable++
			}
		}
	}
	//GLY is the smallest amino acid, with 4 heavy atoms.
	if st.Atoms < 5 {
		return st, ErrNoProtein
	}
	return st, bw.Flush()
}

// PKa is a pKa value predicted for one group.
type PKa struct {
	Name  string //formatted residue name, or the group name (N+, C-) as given
	Seq   int
	Chain byte
	Value float64
}

// ReadPKa reads the summary section of a PROPKA output.
func ReadPKa(r io.Reader) ([]PKa, error) {
	s := bufio.NewScanner(r)
	var ret []PKa
	in := false
	found := false
	for s.Scan() {
		l := s.Text()
		if !in {
			if strings.HasPrefix(strings.TrimSpace(l), "SUMMARY OF THIS PREDICTION") {
				in, found = true, true
			}
			continue
		}
		f := strings.Fields(l)
		if len(f) == 0 {
			continue
		}
		if f[0] == "Group" {
			continue
		}
		if strings.HasPrefix(f[0], "---") {
			break
		}
		if len(f) < 4 {
			return nil, fmt.Errorf("propka output: can't parse line %q", l)
		}
		seq, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, fmt.Errorf("propka output: residue number %q: %w", f[1], err)
		}
		val, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			return nil, fmt.Errorf("propka output: pKa %q: %w", f[3], err)
		}
		name := f[0]
		if n, err := chem.FormatResName(name); err == nil {
			name = n
		}
		ret = append(ret, PKa{Name: name, Seq: seq, Chain: f[2][0], Value: val})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoSummary
	}
	return ret, nil
}

// Apply renames the titratable residues of M that, at the given pH, are in
// the protonation state given by the table. HIS, ASP and GLU are renamed
// when pH < pKa, the others when pH >= pKa. It returns the number of
// residues renamed.
func Apply(M *chem.Model, pkas []PKa, ttb Table, pH float64, log *chem.Logger) int {
	log = chem.OrNoop(log)
	n := 0
	for c := 0; c < M.NChains(); c++ {
		chain := M.Chain(c)
		for _, r := range chain.Residues() {
			res := M.Residue(r)
			if !titratable[res.Name] {
				continue
			}
			for _, p := range pkas {
				if p.Name != res.Name || p.Seq != res.Seq || p.Chain != chain.ID {
					continue
				}
				prot, ok := ttb[res.Name]
				if !ok {
					break
				}
				below := pH < p.Value
				if below == protonatedBelow[res.Name] {
					what := "deprotonating"
					if below {
						what = "protonating"
					}
					log.Info(what, "residue", M.ResidueID(r), "pKa", p.Value, "new", chem.TrimName(prot))
					res.Name = prot
					n++
				}
				break
			}
		}
	}
	return n
}

// Runner runs PROPKA on the PDB file input, in the directory dir, and
// returns the path of the file with its results.
type Runner interface {
	Run(ctx context.Context, dir, input string) (string, error)
}

// Exec runs an external PROPKA 3 executable.
type Exec struct {
	Path string //"propka3" if empty. Looked for in the PATH if it has no slashes.
	Args []string
}

func (E Exec) Run(ctx context.Context, dir, input string) (string, error) {
	path := E.Path
	if path == "" {
		path = "propka3"
	}
	args := append(append([]string{}, E.Args...), input)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+".pka"), nil
}

// Options for Run.
type Options struct {
	PH     float64
	AltLoc byte
	Table  Table //DefaultTable() if nil
}

// Run predicts the pKa values of the protein in M with R and renames its
// titratable residues accordingly. It returns the number of residues
// renamed. Nothing is done if M has no titratable residues.
func Run(ctx context.Context, R Runner, M *chem.Model, db *top.DB, O Options, log *chem.Logger) (int, error) {
	log = chem.OrNoop(log)
	if O.AltLoc == 0 {
		O.AltLoc = 'A'
	}
	if O.Table == nil {
		O.Table = DefaultTable()
	}
	dir, err := os.MkdirTemp("", "molprep-propka")
	if err != nil {
		return 0, err
	}
	defer os.RemoveAll(dir)
	input := filepath.Join(dir, "propka.pdb")
	f, err := os.Create(input)
	if err != nil {
		return 0, err
	}
	st, err := WriteInput(f, M, db, O.AltLoc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("PROPKA cannot protonate: %w", err)
	}
	if st.Titratable == 0 {
		return 0, nil
	}
	log.Info("running PROPKA", "titratable", st.Titratable, "residues", st.Residues, "pH", O.PH)
	out, err := R.Run(ctx, dir, input)
	if err != nil {
		return 0, fmt.Errorf("PROPKA cannot protonate: %w", err)
	}
	pf, err := os.Open(out)
	if err != nil {
		return 0, err
	}
	defer pf.Close()
	pkas, err := ReadPKa(pf)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", out, err)
	}
	return Apply(M, pkas, O.Table, O.PH, log), nil
}
