/*
 * files.go, part of molprep.
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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	v3 "github.com/rmera/molprep/v3"
	"github.com/rmera/molprep/zio"
)

//PDB read family

const pdbLineLen = 80

// ReadOptions controls what ReadPDB keeps from a PDB file.
type ReadOptions struct {
	ModelNo     int  //MODEL to read. Negative means the first one found.
	RemoveH     bool //drop all hydrogens found in the file
	ReadSSBonds bool //keep the SSBOND records in Model.SSBonds
}

// DefaultReadOptions returns the options to read the first model of a file,
// keeping its hydrogens.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{ModelNo: -1}
}

// PDBStats counts what was read from, or written to, a PDB file.
type PDBStats struct {
	Atoms    int
	Residues int
	Chains   int
}

// ReadPDBFile opens fname, decompressing it if needed (see package zio), and
// reads it with ReadPDB.
func ReadPDBFile(fname string, opts ReadOptions, log *Logger) (*Model, PDBStats, error) {
	r, err := zio.Open(fname)
	if err != nil {
		return nil, PDBStats{}, &PDBError{File: fname, Msg: "can't open file", Err: err}
	}
	defer r.Close()
	return ReadPDB(r, fname, opts, log)
}

type pdbReader struct {
	name  string
	opts  ReadOptions
	log   *Logger
	M     *Model
	stats PDBStats
	line  int

	modelFound bool
	currModel  int
	wantModel  int

	terFound   bool
	chain, res int
	oldSeq     int
	oldICode   byte
	oldChainID byte

	once map[string]bool
}

// ReadPDB reads ATOM/HETATM, TER, MODEL, SSBOND (if requested) and CRYST1
// records from r. name is only used in messages. Some title and REMARK
// records are logged as notes. Atoms must be grouped by residue and residues
// by chain: a new residue starts whenever the residue number or insertion code
// changes, and a new chain when the chain identifier changes or after a TER
// record. Atoms recognized as hydrogens get the element " H".
func ReadPDB(r io.Reader, name string, opts ReadOptions, log *Logger) (*Model, PDBStats, error) {
	P := &pdbReader{
		name:      name,
		opts:      opts,
		log:       OrNoop(log).WithFile(name),
		M:         NewModel(),
		wantModel: opts.ModelNo,
		chain:     -1,
		res:       -1,
		once:      make(map[string]bool),
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		P.line++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if err := P.parseLine(line); err != nil {
			return nil, P.stats, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, P.stats, &PDBError{File: name, Line: P.line, Msg: "read failed", Err: err}
	}
	if P.M.NChains() == 0 {
		return nil, P.stats, &PDBError{File: name, Msg: fmt.Sprintf("%d lines read but", P.line), Err: ErrNoAtoms}
	}
	if P.modelFound {
		P.M.ModelNo = P.wantModel
	}
	P.log.Info("structure read", "atoms", P.stats.Atoms, "residues", P.stats.Residues, "chains", P.stats.Chains)
	return P.M, P.stats, nil
}

func (P *pdbReader) errorf(err error, format string, a ...any) error {
	return &PDBError{File: P.name, Line: P.line, Msg: fmt.Sprintf(format, a...), Err: err}
}

// noteOnce logs msg only the first time key is seen.
func (P *pdbReader) noteOnce(key, msg string) {
	if P.once[key] {
		return
	}
	P.once[key] = true
	P.log.Info(msg)
}

// padLine returns s padded with spaces to the PDB line length, so fixed
// columns can always be sliced.
func padLine(s string) string {
	if len(s) >= pdbLineLen {
		return s
	}
	return s + strings.Repeat(" ", pdbLineLen-len(s))
}

// field returns the trimmed contents of the columns [i,j) of a padded line.
func field(l string, i, j int) string {
	return strings.TrimSpace(l[i:j])
}

func (P *pdbReader) parseLine(line string) error {
	l := padLine(line)
	switch {
	case strings.HasPrefix(l, "ATOM") || strings.HasPrefix(l, "HETATM"):
		return P.parseAtom(line, l)
	case strings.HasPrefix(l, "MODEL"):
		n, err := strconv.Atoi(field(l, 10, 14))
		if err != nil {
			return P.errorf(ErrFormat, "MODEL record requires serial")
		}
		P.modelFound = true
		P.currModel = n
		if P.wantModel < 0 {
			P.wantModel = n
		}
	case strings.HasPrefix(l, "TER"):
		if !P.skipping() {
			P.terFound = true
		}
	case strings.HasPrefix(l, "SSBOND"):
		if P.opts.ReadSSBonds {
			P.parseSSBond(l)
		}
	case strings.HasPrefix(l, "CRYST1"):
		P.M.Cryst1 = strings.TrimRight(line, " ")
	case strings.HasPrefix(l, "HEADER"):
		P.log.Info("header", "text", field(l, 6, pdbLineLen))
		if len(line) > 66 {
			P.M.ID = field(l, 62, 66)
		}
	case strings.HasPrefix(l, "OBSLTE"):
		P.log.Warn("this PDB has been obsoleted", "by", field(l, 31, pdbLineLen))
	case strings.HasPrefix(l, "TITLE"):
		P.log.Info("title", "text", field(l, 10, pdbLineLen))
	case strings.HasPrefix(l, "SPLIT"):
		P.log.Warn("PDB has been split", "ids", field(l, 11, pdbLineLen))
	case strings.HasPrefix(l, "CAVEAT"):
		P.log.Warn("this PDB contains SEVERE ERRORS", "caveat", field(l, 10, pdbLineLen))
	case strings.HasPrefix(l, "EXPDTA"):
		P.log.Info("PDB reports experiment type", "type", field(l, 6, pdbLineLen))
	case strings.HasPrefix(l, "NUMMDL"):
		if n, err := strconv.Atoi(field(l, 10, 24)); err == nil {
			P.log.Info("PDB contains models", "count", n)
		}
	case strings.HasPrefix(l, "MDLTYP"):
		P.log.Info("PDB reports model type", "type", field(l, 10, pdbLineLen))
	case strings.HasPrefix(l, "REMARK   2 RESOLUTION."):
		f := strings.Fields(l[22:])
		if len(f) > 0 {
			if res, err := strconv.ParseFloat(f[0], 64); err == nil {
				P.log.Info("PDB resolution", "angstrom", res)
			}
		}
	case strings.HasPrefix(l, "REMARK   4 "):
		if l[30:36] == "FORMAT" {
			P.log.Info("PDB version", "version", field(l, 40, pdbLineLen))
		}
	case strings.HasPrefix(l, "REMARK 2") && strings.ContainsRune("013456", rune(l[8])) && l[11:15] == " PH ":
		if i := strings.IndexByte(l, ':'); i >= 0 {
			f := strings.Fields(l[i+1:])
			if len(f) > 0 {
				if ph, err := strconv.ParseFloat(f[0], 64); err == nil {
					P.log.Info("PDB reports a pH in REMARK 2nn", "pH", ph)
				}
			}
		}
	case strings.HasPrefix(l, "REMARK 465"):
		P.noteOnce("465", "PDB warns of missing residues")
	case strings.HasPrefix(l, "REMARK 470"):
		P.noteOnce("470", "PDB warns of missing atoms")
	case strings.HasPrefix(l, "REMARK 475"):
		P.noteOnce("475", "PDB warns of residues with zero occupancy")
	case strings.HasPrefix(l, "REMARK 480"):
		P.noteOnce("480", "PDB warns of non-hydrogens with zero occupancy")
	}
	return nil
}

// skipping tells whether we are inside a MODEL we don't want.
func (P *pdbReader) skipping() bool {
	return P.modelFound && P.currModel != P.wantModel
}

func (P *pdbReader) parseAtom(line, l string) error {
	if P.skipping() {
		return nil
	}
	if len(strings.TrimRight(line, " ")) < 54 {
		return P.errorf(ErrFormat, "ATOM/HETATM record without coordinates")
	}
	var err error
	rec := RecordType(l[0])
	a := Atom{
		Serial:  field(l, 6, 11),
		Name:    l[12:16],
		AltLoc:  l[16],
		Element: l[76:78],
		Charge:  field(l, 78, 80),
	}
	resName := l[17:21]
	chainID := l[21]
	seq, err := strconv.Atoi(field(l, 22, 26))
	if err != nil {
		return P.errorf(ErrFormat, "bad residue number %q", l[22:26])
	}
	icode := l[26]
	var c [3]float64
	for i := range c {
		c[i], err = strconv.ParseFloat(field(l, 30+8*i, 38+8*i), 64)
		if err != nil {
			return P.errorf(ErrFormat, "bad coordinate %q", l[30+8*i:38+8*i])
		}
	}
	a.Pos = v3.Vec{X: c[0], Y: c[1], Z: c[2]}
	if s := field(l, 54, 60); s != "" {
		if a.Occupancy, err = strconv.ParseFloat(s, 64); err != nil {
			return P.errorf(ErrFormat, "bad occupancy %q", s)
		}
	}
	if s := field(l, 60, 66); s != "" {
		if a.TempFactor, err = strconv.ParseFloat(s, 64); err != nil {
			return P.errorf(ErrFormat, "bad temperature factor %q", s)
		}
	}
	if IsHydrogen(a.Element, a.Name) {
		if P.opts.RemoveH {
			return nil
		}
		a.Element = HydrogenTag
	} else if strings.TrimSpace(a.Element) == "" {
		if sym, err := symbolFromName(a.Name); err == nil {
			a.Element = FormatElement(sym)
		}
	}

	newChain := P.chain < 0 || chainID != P.oldChainID || P.terFound
	if newChain {
		P.chain = P.M.AddChain(chainID)
		P.oldChainID = chainID
		P.terFound = false
		P.stats.Chains++
	}
	if newChain || seq != P.oldSeq || icode != P.oldICode {
		if gap := seq - P.oldSeq - 1; gap > 0 && !newChain && rec == Standard {
			P.log.Warn("gap in residue numbering", "missing", gap, "before", fmt.Sprintf("%s %d%c %c", TrimName(resName), seq, icode, chainID))
		}
		P.res = P.M.AddResidue(P.chain, resName, seq, icode, rec)
		P.M.Residue(P.res).SegID = l[72:76]
		P.oldSeq = seq
		P.oldICode = icode
		P.stats.Residues++
	}
	cur := P.M.Residue(P.res)
	if cur.Name != resName {
		return P.errorf(ErrResidueName, "residue %s has also the name %s, check SEQADV/REMARK 999", P.M.ResidueID(P.res), TrimName(resName))
	}
	if cur.Rec != rec {
		return P.errorf(ErrMixedRecords, "residue %s", P.M.ResidueID(P.res))
	}
	P.M.AddAtom(P.res, a)
	P.stats.Atoms++
	return nil
}

func (P *pdbReader) parseSSBond(l string) {
	var ss SSBond
	var err error
	ss.Serial, _ = strconv.Atoi(field(l, 7, 10))
	ss.A.Chain = l[15]
	ss.A.ICode = l[21]
	ss.B.Chain = l[29]
	ss.B.ICode = l[35]
	ss.A.SymOp = field(l, 59, 65)
	ss.B.SymOp = field(l, 66, 72)
	ss.A.Seq, err = strconv.Atoi(field(l, 17, 21))
	if err == nil {
		ss.B.Seq, err = strconv.Atoi(field(l, 31, 35))
	}
	if err != nil {
		P.log.Warn("can't read SSBOND record", "line", P.line)
		return
	}
	if s := field(l, 73, 78); s != "" {
		ss.Length, _ = strconv.ParseFloat(s, 64)
	}
	P.M.SSBonds = append(P.M.SSBonds, ss)
}

//End PDB read family

// Format is the flavour of PDB written by WritePDB.
type Format int

const (
	FormatStd Format = iota //80-column standard records
	FormatMin               //minimal records, only what most programs need
)

// ParseFormat converts "std" (or "") and "min" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "std":
		return FormatStd, nil
	case "min":
		return FormatMin, nil
	}
	return FormatStd, fmt.Errorf("unknown PDB format type: %q", s)
}

func (F Format) String() string {
	if F == FormatMin {
		return "min"
	}
	return "std"
}

// WriteOptions controls the output of WritePDB.
type WriteOptions struct {
	Format       Format
	AltLoc       byte   //only atoms with this (or no) alternate location are written. 0 writes all.
	SSName       string //formatted name of cysteines in disulfide bonds
	KeepSSName   bool   //don't write SSName residues back as CYS
	KeepSerial   bool   //write the original serial numbers
	WriteSSBonds bool
	NoCryst      bool
	NoModel      bool
	NoTer        bool //ignored for FormatStd, where TER records are always written
	NoEnd        bool
}

// DefaultWriteOptions returns the options to write standard PDB files.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Format: FormatStd, AltLoc: 'A', SSName: "CYS2"}
}

// WritePDBFile creates fname, compressing it if its extension says so, and
// writes M to it with WritePDB.
func WritePDBFile(fname string, M *Model, opts WriteOptions) (PDBStats, error) {
	w, err := zio.Create(fname)
	if err != nil {
		return PDBStats{}, &PDBError{File: fname, Msg: "can't create file", Err: err}
	}
	stats, err := WritePDB(w, M, opts)
	if err2 := w.Close(); err == nil && err2 != nil {
		err = &PDBError{File: fname, Msg: "can't close file", Err: err2}
	}
	return stats, err
}

// WritePDB writes M in PDB format to w, in chain->residue->atom order,
// so inserted atoms appear where they were spliced.
func WritePDB(w io.Writer, M *Model, opts WriteOptions) (PDBStats, error) {
	var stats PDBStats
	out := bufio.NewWriter(w)
	std := opts.Format == FormatStd
	if M.ID != "" {
		fmt.Fprintf(out, "REMARK   this is a conversion of PDB ID %s\n", M.ID)
	}
	if opts.WriteSSBonds {
		for _, ss := range M.SSBonds {
			fmt.Fprintf(out, "SSBOND %3d CYS %c %4d%c   CYS %c %4d%c                       %6s %6s",
				ss.Serial, ss.A.Chain, ss.A.Seq, ss.A.ICode, ss.B.Chain, ss.B.Seq, ss.B.ICode, ss.A.SymOp, ss.B.SymOp)
			if ss.Length > 0 {
				fmt.Fprintf(out, " %5.2f\n", ss.Length)
			} else {
				fmt.Fprint(out, "      \n")
			}
		}
	}
	if M.Cryst1 != "" && !opts.NoCryst {
		if std {
			fmt.Fprintf(out, "%-80s\n", M.Cryst1)
		} else {
			fmt.Fprintf(out, "%s\n", M.Cryst1)
		}
	}
	writeModel := M.ModelNo > 0 && !opts.NoModel
	if writeModel {
		if std {
			fmt.Fprintf(out, "MODEL     %4d%66s\n", M.ModelNo, " ")
		} else {
			fmt.Fprintf(out, "MODEL     %4d\n", M.ModelNo)
		}
	}
	serno := 0
	next := func() string {
		serno++
		if serno > 99999 {
			serno = 1
		}
		return strconv.Itoa(serno)
	}
	//disulfide cysteines are written as CYS unless asked otherwise
	outName := func(res *Residue) string {
		if len(M.SSBonds) > 0 && !opts.KeepSSName && opts.SSName != "" && res.Name == opts.SSName {
			return "CYS "
		}
		return res.Name
	}
	for c := 0; c < M.NChains(); c++ {
		chain := M.Chain(c)
		stats.Chains++
		var last *Residue
		lastSerial := ""
		for _, r := range chain.Residues() {
			res := M.Residue(r)
			stats.Residues++
			if res.Rec != Standard && res.Rec != Hetero {
				return stats, fmt.Errorf("residue %s: record type %q is unknown", M.ResidueID(r), byte(res.Rec))
			}
			resName := outName(res)
			for _, i := range res.Atoms() {
				a := M.Atom(i)
				if opts.AltLoc != 0 && !a.InAltLoc(opts.AltLoc) {
					continue
				}
				stats.Atoms++
				serial := a.Serial
				if !opts.KeepSerial {
					serial = next()
				}
				lastSerial = serial
				altLoc := a.AltLoc
				if altLoc == 0 {
					altLoc = ' '
				}
				icode := orBlank(res.ICode)
				if std {
					fmt.Fprintf(out, "%-6s%5s %4s%c%4s%c%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f      %-4s%2s%2s\n",
						res.Rec.Record(), serial, a.Name, altLoc, resName, orBlank(chain.ID), res.Seq, icode,
						a.Pos.X, a.Pos.Y, a.Pos.Z, a.Occupancy, a.TempFactor, strings.TrimRight(res.SegID, " "), a.Element, a.Charge)
				} else {
					fmt.Fprintf(out, "%-6s%5s %4s %4s%c%4d    %8.3f%8.3f%8.3f\n",
						res.Rec.Record(), serial, a.Name, resName, orBlank(chain.ID), res.Seq, a.Pos.X, a.Pos.Y, a.Pos.Z)
				}
			}
			last = res
		}
		if last != nil && last.Rec == Standard && (std || !opts.NoTer) {
			if std {
				serial := lastSerial
				if !opts.KeepSerial {
					serial = next()
				}
				fmt.Fprintf(out, "TER   %5s      %4s%c%4d%c%53s\n", serial, outName(last), orBlank(chain.ID), last.Seq, orBlank(last.ICode), " ")
			} else {
				fmt.Fprint(out, "TER\n")
			}
		}
	}
	if writeModel {
		if std {
			fmt.Fprintf(out, "%-80s\n", "ENDMDL")
		} else {
			fmt.Fprint(out, "ENDMDL\n")
		}
	}
	if !opts.NoEnd {
		if std {
			fmt.Fprintf(out, "%-80s\n", "END")
		} else {
			fmt.Fprint(out, "END\n")
		}
	}
	return stats, out.Flush()
}

func orBlank(b byte) byte {
	if b == 0 {
		return ' '
	}
	return b
}
