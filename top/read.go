/*
 * read.go, part of molprep.
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
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	chem "github.com/rmera/molprep"
	"github.com/rmera/molprep/zio"
)

//go:embed data/top.dat
var defaultTop string

// Default returns the database embedded in molprep: the standard amino acids
// with their N- and C-terminal variants, the usual protonation variants,
// disulfide-bonded cysteine (CYS2) and water.
func Default(log *chem.Logger) (*DB, error) {
	return Read(strings.NewReader(defaultTop), "default topology", log)
}

// ParseError is returned when a topology file is malformed.
type ParseError struct {
	File string
	Line int //0 when the problem is not in a particular line
	Msg  string
	Err  error
}

func (E *ParseError) Error() string {
	if E.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", E.File, E.Line, E.Msg)
	}
	return fmt.Sprintf("%s: %s", E.File, E.Msg)
}

func (E *ParseError) Unwrap() error { return E.Err }

// ReadFile reads a topology database file, which can be compressed.
func ReadFile(fname string, log *chem.Logger) (*DB, error) {
	f, err := zio.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, fname, log)
}

type parser struct {
	name    string
	line    int
	mol     MolType
	rec     chem.RecordType
	cur     *Entry
	entries []*Entry
}

func (P *parser) errorf(format string, a ...any) error {
	return &ParseError{File: P.name, Line: P.line, Msg: fmt.Sprintf(format, a...), Err: ErrMalformed}
}

// Read parses a topology database from r. name is used in error messages.
// Every malformed record is an error, and the first one found is returned.
func Read(r io.Reader, name string, log *chem.Logger) (*DB, error) {
	P := &parser{name: name, rec: AnyRecord}
	br := bufio.NewReader(r)
	for {
		s, err := br.ReadString('\n')
		if s != "" {
			P.line++
			if perr := P.parse(s); perr != nil {
				return nil, perr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{File: name, Line: P.line, Msg: "read failed", Err: err}
		}
	}
	if P.cur != nil {
		return nil, &ParseError{File: name, Msg: "last END missing", Err: ErrMalformed}
	}
	D, err := New(P.entries, chem.OrNoop(log).WithFile(name))
	if err != nil {
		return nil, &ParseError{File: name, Msg: err.Error(), Err: err}
	}
	return D, nil
}

// cleanLine removes the comments and the surrounding white space from s.
// A backslash quotes the following character, so it can be used to write
// a literal '#'.
func cleanLine(s string) string {
	var b strings.Builder
	quoted := false
	for _, c := range strings.TrimLeftFunc(s, unicode.IsSpace) {
		if !quoted {
			if c == '\\' {
				quoted = true
				continue
			}
			if c == '#' {
				break
			}
		}
		quoted = false
		b.WriteRune(c)
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

func (P *parser) parse(s string) error {
	s = cleanLine(s)
	if s == "" {
		return nil
	}
	if s[0] == '[' {
		return P.section(s)
	}
	f := strings.Fields(s)
	switch f[0] {
	case "RESIDUE":
		return P.residue(f[1:])
	case "RTYPE":
		if len(f) < 2 || len(f[1]) != 1 || !strings.Contains("AH@", f[1]) {
			return P.errorf("unknown residue type %q", strings.Join(f[1:], " "))
		}
		P.rec = chem.RecordType(f[1][0])
	case "FTERM", "LTERM":
		if P.cur == nil {
			return P.errorf("%s not inside residue entry", f[0])
		}
		if len(f) < 2 {
			return P.errorf("invalid terminal entry")
		}
		name, err := chem.FormatResName(f[1])
		if err != nil {
			return P.errorf("residue name %q too long", f[1])
		}
		if f[0] == "FTERM" {
			P.cur.FirstName = name
		} else {
			P.cur.LastName = name
		}
	case "HYDRO":
		return P.hydro(f[1:])
	case "HEAVY":
		if P.cur == nil {
			return P.errorf("HEAVY not inside residue entry")
		}
		if len(f) < 2 {
			return P.errorf("invalid heavy atom record")
		}
		for _, v := range f[1:] {
			name, err := atomName(v)
			if err != nil {
				return P.errorf("atom name %q too long", v)
			}
			P.cur.Heavy = append(P.cur.Heavy, name)
		}
	case "END":
		if P.cur == nil {
			return P.errorf("END not inside residue entry")
		}
		if len(P.cur.Rules) == 0 {
			return P.errorf("no hydrogen entries found in residue %s", chem.TrimName(P.cur.Name))
		}
		if len(P.cur.Heavy) == 0 {
			return P.errorf("no heavy atom entries found in residue %s", chem.TrimName(P.cur.Name))
		}
		P.cur.Rec = P.rec
		P.entries = append(P.entries, P.cur)
		P.cur = nil
	default:
		return P.errorf("unknown keyword %q", f[0])
	}
	return nil
}

func (P *parser) section(s string) error {
	switch strings.TrimSpace(strings.Trim(s, "[]")) {
	case "proteins":
		P.mol = Protein
	case "DNA":
		P.mol = DNA
	case "RNA":
		P.mol = RNA
	case "other":
		P.mol = Other
	default:
		return P.errorf("unknown molecule type %s", s)
	}
	return nil
}

func (P *parser) residue(names []string) error {
	if P.mol == 0 {
		return P.errorf("no molecule type set")
	}
	if P.cur != nil {
		return P.errorf("previous residue %s not properly ENDed", chem.TrimName(P.cur.Name))
	}
	if len(names) == 0 {
		return P.errorf("invalid residue entry")
	}
	e := &Entry{Mol: P.mol}
	for i, v := range names {
		name, err := chem.FormatResName(v)
		if err != nil {
			return P.errorf("residue name %q too long", v)
		}
		if i == 0 {
			e.Name = name
		} else {
			e.Aliases = append(e.Aliases, name)
		}
	}
	P.cur = e
	return nil
}

// hydro parses the fields of a HYDRO record:
// hydrogen count type distance heavy [control...]
func (P *parser) hydro(f []string) error {
	if P.mol == 0 {
		return P.errorf("no molecule type set")
	}
	if P.cur == nil {
		return P.errorf("HYDRO not inside residue entry")
	}
	if len(f) < 5 {
		return P.errorf("only %d fields in HYDRO record, at least 5 needed", len(f))
	}
	if len(f) > 8 {
		return P.errorf("%d fields in HYDRO record, at most 8 allowed", len(f))
	}
	var R Rule
	var err error
	if R.Hydrogen, err = atomName(f[0]); err != nil {
		return P.errorf("atom name %q too long", f[0])
	}
	if R.Count, err = strconv.Atoi(f[1]); err != nil {
		return P.errorf("bad number of hydrogens %q", f[1])
	}
	t, err := strconv.Atoi(f[2])
	if err != nil {
		return P.errorf("bad hydrogen type %q", f[2])
	}
	R.Type = BondType(t)
	if R.Dist, err = strconv.ParseFloat(f[3], 64); err != nil || R.Dist <= 0 {
		return P.errorf("bad X-H distance %q", f[3])
	}
	if R.Heavy, err = atomName(f[4]); err != nil {
		return P.errorf("atom name %q too long", f[4])
	}
	for _, v := range f[5:] {
		ref, err := controlRef(v)
		if err != nil {
			return P.errorf("bad control atom %q", v)
		}
		R.Controls = append(R.Controls, ref)
	}
	if err := R.check(); err != nil {
		return P.errorf("%s", strings.TrimPrefix(err.Error(), ErrMalformed.Error()+": "))
	}
	if _, ok := P.cur.Rule(R.Heavy); ok {
		return P.errorf("second HYDRO record for atom %s", chem.TrimName(R.Heavy))
	}
	P.cur.Rules = append(P.cur.Rules, R)
	return nil
}

// atomName formats an atom name from the topology file. Names starting with
// '<' are taken literally (see chem.LiteralAtomName).
func atomName(s string) (string, error) {
	if strings.HasPrefix(s, "<") {
		return chem.LiteralAtomName(s[1:]), nil
	}
	return chem.FormatAtomName(s)
}

// controlRef parses a control atom name. A '-' in it marks an atom of the
// previous residue: "-C" is the atom " C  " of the preceding residue.
func controlRef(s string) (Ref, error) {
	if strings.HasPrefix(s, "<") || !strings.Contains(s, "-") {
		name, err := atomName(s)
		return Ref{Name: name}, err
	}
	name, err := chem.FormatAtomName(strings.Replace(s, "-", "", 1))
	return Ref{Name: name, Prev: true}, err
}
