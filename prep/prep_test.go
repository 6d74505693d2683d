/*
 * prep_test.go, part of molprep.
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

package prep

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/molprep"
	"github.com/rmera/molprep/config"
	"github.com/rmera/molprep/hbuild"
	"github.com/rmera/molprep/top"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const crambin = "../test/crambin4.pdb"

func cfgFor(Te *testing.T, in, out string) *config.Config {
	C := config.Default()
	C.In = in
	C.Out = filepath.Join(Te.TempDir(), out)
	return C
}

func TestRun(Te *testing.T) {
	C := cfgFor(Te, crambin, "out.pdb.gz")
	R, err := Run(context.Background(), C, nil, nil)
	require.NoError(Te, err)
	assert.Equal(Te, chem.PDBStats{Atoms: 28, Residues: 5, Chains: 2}, R.Read)
	assert.Equal(Te, 28, R.Report.Added)
	assert.Empty(Te, R.Report.Diagnostics)
	assert.Equal(Te, 56, R.Written.Atoms)
	assert.Equal(Te, 0, R.SSBonds)

	//the output has everything
	D, err := top.Default(nil)
	require.NoError(Te, err)
	M, st, err := chem.ReadPDBFile(C.Out, chem.DefaultReadOptions(), nil)
	require.NoError(Te, err)
	assert.Equal(Te, 56, st.Atoms)
	rep, err := hbuild.New(D, hbuild.DefaultOptions(), nil).Build(M)
	require.NoError(Te, err)
	assert.Equal(Te, 0, rep.Added)
}

func TestExtremePH(Te *testing.T) {
	out := filepath.Join(Te.TempDir(), "out.pdb")
	text := "inPDB = " + crambin + "\noutPDB = " + out + "\nprotonate_pH = 14.5\n"
	C, err := config.ParseLegacy(strings.NewReader(text), "input", nil)
	require.NoError(Te, err)
	assert.Equal(Te, 14.5, C.PH)
	R, err := Run(context.Background(), C, nil, nil)
	require.NoError(Te, err)
	assert.Equal(Te, 28, R.Report.Added)
	_, err = os.Stat(out)
	assert.NoError(Te, err)
}

type fakePropKa struct{}

func (fakePropKa) Run(ctx context.Context, dir, input string) (string, error) {
	out := filepath.Join(dir, "propka.pka")
	text := "SUMMARY OF THIS PREDICTION\n       Group      pKa  model-pKa   ligand atom-type\n   CYS   3 A     9.20       9.00\n   CYS   4 A    11.30       9.00\n---------\n"
	return out, os.WriteFile(out, []byte(text), 0o644)
}

func TestRunProtonate(Te *testing.T) {
	C := cfgFor(Te, crambin, "out.pdb")
	C.Protonate = true
	C.PH = 10
	P := &Prep{PropKa: fakePropKa{}}
	R, err := P.Run(context.Background(), C)
	require.NoError(Te, err)
	assert.Equal(Te, 1, R.Protonated)
	//CYM has no thiol hydrogen
	assert.Equal(Te, 27, R.Report.Added)

	//a missing PROPKA is not an error
	C.PropKa = filepath.Join(Te.TempDir(), "no-propka")
	R, err = Run(context.Background(), C, nil, nil)
	require.NoError(Te, err)
	assert.Equal(Te, 0, R.Protonated)
	assert.Equal(Te, 28, R.Report.Added)
}

func TestRunErrors(Te *testing.T) {
	_, err := Run(context.Background(), config.Default(), nil, nil)
	assert.ErrorIs(Te, err, config.ErrInvalid)
	_, err = Run(context.Background(), cfgFor(Te, "../test/none.pdb", "x.pdb"), nil, nil)
	assert.Error(Te, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, cfgFor(Te, crambin, "x.pdb"), nil, nil)
	assert.ErrorIs(Te, err, context.Canceled)
}

func TestRunBatch(Te *testing.T) {
	cfgs := []*config.Config{
		cfgFor(Te, crambin, "a.pdb"),
		cfgFor(Te, "../test/none.pdb", "b.pdb"),
		cfgFor(Te, crambin, "c.pdb.zst"),
	}
	cfgs[2].Format = "min"
	res, err := RunBatch(context.Background(), cfgs, 2, nil, nil)
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "none.pdb")
	require.Len(Te, res, 3)
	assert.Nil(Te, res[1])
	for _, i := range []int{0, 2} {
		require.NotNil(Te, res[i])
		assert.Equal(Te, 28, res[i].Report.Added)
		_, err := os.Stat(cfgs[i].Out)
		assert.NoError(Te, err)
	}
}
