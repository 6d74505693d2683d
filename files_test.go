/*
 * files_test.go, part of molprep.
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
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// atomLine builds a standard 80-column ATOM/HETATM record.
func atomLine(rec string, serial int, name string, alt byte, res string, chain byte, seq int, x, y, z float64, el string) string {
	return fmt.Sprintf("%-6s%5d %4s%c%4s%c%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f      %-4s%2s%2s\n",
		rec, serial, name, alt, res, chain, seq, ' ', x, y, z, 1.0, 0.0, "", el, "")
}

func TestReadPDBFile(Te *testing.T) {
	M, stats, err := ReadPDBFile("test/crambin4.pdb", DefaultReadOptions(), nil)
	require.NoError(Te, err)
	assert.Equal(Te, PDBStats{Atoms: 28, Residues: 5, Chains: 2}, stats)
	assert.Equal(Te, "1CRN", M.ID)
	assert.True(Te, strings.HasPrefix(M.Cryst1, "CRYST1   40.960"))
	assert.Equal(Te, 2, M.NChains())
	//the water comes after a TER, so it is a chain of its own
	w := M.Residue(M.Chain(1).Residues()[0])
	assert.Equal(Te, "HOH ", w.Name)
	assert.Equal(Te, Hetero, w.Rec)
	ca, ok := M.FindAtom(0, " CA ", 'A')
	require.True(Te, ok)
	assert.InDelta(Te, 16.967, M.Atom(ca).Pos.X, 1e-9)
	assert.Equal(Te, " C", M.Atom(ca).Element)
	assert.InDelta(Te, 10.0, M.Atom(ca).TempFactor, 1e-9)
}

func TestReadPDBHydrogens(Te *testing.T) {
	pdb := atomLine("ATOM", 1, " N  ", ' ', "GLY ", 'A', 1, 0, 0, 0, "N") +
		atomLine("ATOM", 2, " H  ", ' ', "GLY ", 'A', 1, 1, 0, 0, "") +
		atomLine("ATOM", 3, "1HA ", ' ', "GLY ", 'A', 1, 0, 1, 0, "") +
		atomLine("ATOM", 4, " D  ", ' ', "GLY ", 'A', 1, 0, 0, 1, "D") +
		atomLine("ATOM", 5, " CA ", ' ', "GLY ", 'A', 1, 1, 1, 1, "")
	M, stats, err := ReadPDB(strings.NewReader(pdb), "gly", DefaultReadOptions(), nil)
	require.NoError(Te, err)
	assert.Equal(Te, 5, stats.Atoms)
	for i := 1; i < 4; i++ {
		assert.True(Te, M.Atom(i).IsHydrogen(), "atom %d", i)
	}
	//blank element column is guessed
	assert.Equal(Te, " C", M.Atom(4).Element)

	opts := DefaultReadOptions()
	opts.RemoveH = true
	M, stats, err = ReadPDB(strings.NewReader(pdb), "gly", opts, nil)
	require.NoError(Te, err)
	assert.Equal(Te, 2, stats.Atoms)
	assert.Equal(Te, 2, M.Len())
}

func TestReadPDBChains(Te *testing.T) {
	pdb := atomLine("ATOM", 1, " CA ", ' ', "ALA ", 'A', 1, 0, 0, 0, "C") +
		atomLine("ATOM", 2, " CA ", ' ', "ALA ", 'A', 2, 3, 0, 0, "C") +
		atomLine("ATOM", 3, " CA ", ' ', "ALA ", 'B', 2, 6, 0, 0, "C") +
		"TER\n" +
		atomLine("ATOM", 4, " CA ", ' ', "ALA ", 'B', 3, 9, 0, 0, "C") +
		atomLine("ATOM", 5, " CB ", ' ', "ALA ", 'B', 3, 9, 1, 0, "C")
	M, stats, err := ReadPDB(strings.NewReader(pdb), "chains", DefaultReadOptions(), nil)
	require.NoError(Te, err)
	assert.Equal(Te, PDBStats{Atoms: 5, Residues: 4, Chains: 3}, stats)
	assert.Equal(Te, 2, M.Chain(0).Len())
	assert.Equal(Te, byte('B'), M.Chain(1).ID)
	assert.Equal(Te, byte('B'), M.Chain(2).ID)
	assert.Equal(Te, 2, M.Residue(3).Len())
	assert.True(Te, M.IsFirst(3))
	assert.True(Te, M.IsLast(1))
}

func TestReadPDBModels(Te *testing.T) {
	pdb := "MODEL        1\n" +
		atomLine("ATOM", 1, " CA ", ' ', "ALA ", 'A', 1, 1, 1, 1, "C") +
		"ENDMDL\nMODEL        2\n" +
		atomLine("ATOM", 1, " CA ", ' ', "ALA ", 'A', 1, 2, 2, 2, "C") +
		"ENDMDL\n"
	M, _, err := ReadPDB(strings.NewReader(pdb), "models", DefaultReadOptions(), nil)
	require.NoError(Te, err)
	assert.Equal(Te, 1, M.Len())
	assert.Equal(Te, 1, M.ModelNo)
	assert.InDelta(Te, 1.0, M.Atom(0).Pos.X, 1e-9)

	M, _, err = ReadPDB(strings.NewReader(pdb), "models", ReadOptions{ModelNo: 2}, nil)
	require.NoError(Te, err)
	assert.Equal(Te, 1, M.Len())
	assert.Equal(Te, 2, M.ModelNo)
	assert.InDelta(Te, 2.0, M.Atom(0).Pos.X, 1e-9)

	_, _, err = ReadPDB(strings.NewReader(pdb), "models", ReadOptions{ModelNo: 3}, nil)
	assert.True(Te, errors.Is(err, ErrNoAtoms))
}

func TestReadPDBErrors(Te *testing.T) {
	mixed := atomLine("ATOM", 1, " CA ", ' ', "ALA ", 'A', 1, 0, 0, 0, "C") +
		atomLine("HETATM", 2, " CB ", ' ', "ALA ", 'A', 1, 1, 0, 0, "C")
	_, _, err := ReadPDB(strings.NewReader(mixed), "mixed", DefaultReadOptions(), nil)
	assert.True(Te, errors.Is(err, ErrMixedRecords), "%v", err)

	renamed := atomLine("ATOM", 1, " CA ", ' ', "ALA ", 'A', 1, 0, 0, 0, "C") +
		atomLine("ATOM", 2, " CB ", ' ', "SER ", 'A', 1, 1, 0, 0, "C")
	_, _, err = ReadPDB(strings.NewReader(renamed), "renamed", DefaultReadOptions(), nil)
	assert.True(Te, errors.Is(err, ErrResidueName), "%v", err)
	var perr *PDBError
	require.True(Te, errors.As(err, &perr))
	assert.Equal(Te, 2, perr.Line)

	_, _, err = ReadPDB(strings.NewReader("REMARK nothing here\nEND\n"), "empty", DefaultReadOptions(), nil)
	assert.True(Te, errors.Is(err, ErrNoAtoms))

	_, _, err = ReadPDB(strings.NewReader("ATOM      1  CA  ALA A   1      11.104\n"), "short", DefaultReadOptions(), nil)
	assert.True(Te, errors.Is(err, ErrFormat))

	bad := strings.Replace(atomLine("ATOM", 1, " CA ", ' ', "ALA ", 'A', 1, 0, 0, 0, "C"), "   0.000", "   x.000", 1)
	_, _, err = ReadPDB(strings.NewReader(bad), "bad", DefaultReadOptions(), nil)
	assert.True(Te, errors.Is(err, ErrFormat))
}

func TestWritePDB(Te *testing.T) {
	M, _, err := ReadPDBFile("test/crambin4.pdb", DefaultReadOptions(), nil)
	require.NoError(Te, err)
	var buf bytes.Buffer
	stats, err := WritePDB(&buf, M, DefaultWriteOptions())
	require.NoError(Te, err)
	assert.Equal(Te, PDBStats{Atoms: 28, Residues: 5, Chains: 2}, stats)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for _, l := range lines[1:] {
		assert.Len(Te, l, 80, l)
	}
	assert.Equal(Te, "REMARK   this is a conversion of PDB ID 1CRN", lines[0])
	assert.True(Te, strings.HasPrefix(lines[1], "CRYST1"))
	//the protein chain ends with TER, the water chain doesn't
	assert.True(Te, strings.HasPrefix(lines[len(lines)-3], "TER      28      CYS A   4"), lines[len(lines)-3])
	assert.True(Te, strings.HasPrefix(lines[len(lines)-2], "HETATM   29  O   HOH A 101"), lines[len(lines)-2])
	assert.Equal(Te, "END", strings.TrimSpace(lines[len(lines)-1]))

	//what we write, we can read
	M2, stats2, err := ReadPDB(&buf, "again", DefaultReadOptions(), nil)
	require.NoError(Te, err)
	assert.Equal(Te, stats, stats2)
	for i := 0; i < M.Len(); i++ {
		assert.Equal(Te, M.Atom(i).Name, M2.Atom(i).Name)
		assert.InDelta(Te, 0, M.Atom(i).Pos.X-M2.Atom(i).Pos.X, 1e-9)
	}
}

func TestWritePDBMin(Te *testing.T) {
	pdb := atomLine("ATOM", 7, " CA ", 'A', "ALA ", 'A', 1, 0, 0, 0, "C") +
		atomLine("ATOM", 8, " CA ", 'B', "ALA ", 'A', 1, 0.5, 0, 0, "C") +
		atomLine("ATOM", 9, " CB ", ' ', "ALA ", 'A', 1, 1, 0, 0, "C")
	M, _, err := ReadPDB(strings.NewReader(pdb), "alt", DefaultReadOptions(), nil)
	require.NoError(Te, err)
	opts := WriteOptions{Format: FormatMin, AltLoc: 'B', KeepSerial: true, NoTer: true, NoEnd: true}
	var buf bytes.Buffer
	stats, err := WritePDB(&buf, M, opts)
	require.NoError(Te, err)
	assert.Equal(Te, 2, stats.Atoms)
	want := "ATOM      8  CA  ALA A   1       0.500   0.000   0.000\n" +
		"ATOM      9  CB  ALA A   1       1.000   0.000   0.000\n"
	assert.Equal(Te, want, buf.String())

	opts.AltLoc = 0
	opts.NoTer = false
	buf.Reset()
	stats, err = WritePDB(&buf, M, opts)
	require.NoError(Te, err)
	assert.Equal(Te, 3, stats.Atoms)
	assert.True(Te, strings.HasSuffix(buf.String(), "TER\n"))
}

func TestSSBondRecords(Te *testing.T) {
	ss := "SSBOND   1 CYS A    3    CYS A   40                          1555   1555  2.03\n"
	pdb := ss + atomLine("ATOM", 1, " SG ", ' ', "CYS2", 'A', 3, 0, 0, 0, "S") +
		atomLine("ATOM", 2, " SG ", ' ', "CYS2", 'A', 40, 2.03, 0, 0, "S")
	opts := DefaultReadOptions()
	opts.ReadSSBonds = true
	M, _, err := ReadPDB(strings.NewReader(pdb), "ss", opts, nil)
	require.NoError(Te, err)
	require.Len(Te, M.SSBonds, 1)
	b := M.SSBonds[0]
	assert.Equal(Te, 1, b.Serial)
	assert.Equal(Te, SSPartner{Chain: 'A', Seq: 3, ICode: ' ', SymOp: "1555"}, b.A)
	assert.Equal(Te, 40, b.B.Seq)
	assert.InDelta(Te, 2.03, b.Length, 1e-9)

	wo := DefaultWriteOptions()
	wo.WriteSSBonds = true
	wo.NoEnd = true
	var buf bytes.Buffer
	_, err = WritePDB(&buf, M, wo)
	require.NoError(Te, err)
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(Te, strings.TrimSuffix(ss, "\n"), lines[0])
	//disulfide cysteines are written back as CYS
	assert.Equal(Te, "CYS ", lines[1][17:21])
	assert.True(Te, strings.HasPrefix(lines[3], "TER       3      CYS A  40"), lines[3])

	wo.KeepSSName = true
	buf.Reset()
	_, err = WritePDB(&buf, M, wo)
	require.NoError(Te, err)
	assert.Contains(Te, buf.String(), " SG  CYS2A   3")
	assert.Contains(Te, buf.String(), "TER       3      CYS2A  40")
}

func TestWriteSerialWrap(Te *testing.T) {
	M := NewModel()
	r := M.AddResidue(M.AddChain('A'), "GLY ", 1, ' ', Standard)
	for i := 0; i < 99999; i++ {
		M.AddAtom(r, Atom{Name: " CA ", Element: " C", AltLoc: ' ', Occupancy: 1})
	}
	opts := DefaultWriteOptions()
	opts.NoEnd = true
	var buf bytes.Buffer
	stats, err := WritePDB(&buf, M, opts)
	require.NoError(Te, err)
	assert.Equal(Te, 99999, stats.Atoms)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	last := lines[len(lines)-1]
	assert.Equal(Te, "ATOM  99999", lines[len(lines)-2][:11])
	//the TER record wraps like the atoms do
	assert.True(Te, strings.HasPrefix(last, "TER       1      GLY A   1"), last)
	assert.Len(Te, last, 80)
}

func TestCompressedPDB(Te *testing.T) {
	M, _, err := ReadPDBFile("test/crambin4.pdb", DefaultReadOptions(), nil)
	require.NoError(Te, err)
	name := filepath.Join(Te.TempDir(), "crambin4.pdb.gz")
	_, err = WritePDBFile(name, M, DefaultWriteOptions())
	require.NoError(Te, err)
	M2, _, err := ReadPDBFile(name, DefaultReadOptions(), nil)
	require.NoError(Te, err)
	assert.Equal(Te, M.Len(), M2.Len())
}

func TestParseFormat(Te *testing.T) {
	f, err := ParseFormat("min")
	require.NoError(Te, err)
	assert.Equal(Te, FormatMin, f)
	f, err = ParseFormat("")
	require.NoError(Te, err)
	assert.Equal(Te, FormatStd, f)
	_, err = ParseFormat("pdbx")
	assert.Error(Te, err)
}
