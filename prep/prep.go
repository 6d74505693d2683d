/*
 * prep.go, part of molprep.
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

// Package prep runs the whole preparation of a structure: reading, disulfide
// detection, protonation, hydrogen building and writing.
package prep

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	chem "github.com/rmera/molprep"
	"github.com/rmera/molprep/config"
	"github.com/rmera/molprep/hbuild"
	"github.com/rmera/molprep/protonate"
	"github.com/rmera/molprep/ssbond"
	"github.com/rmera/molprep/top"
)

// Result describes what a run did.
type Result struct {
	In, Out    string
	Read       chem.PDBStats
	Written    chem.PDBStats
	SSBonds    int //disulfide-bonded cysteines renamed
	Protonated int //titratable residues renamed
	Report     *hbuild.Report
}

// Prep holds what is shared among runs. The zero value loads the topology
// database for each run and calls the propka3 executable.
type Prep struct {
	DB     *top.DB          //if nil, taken from the configuration, or the embedded one
	PropKa protonate.Runner //if nil, protonate.Exec with the configured path
	Log    *chem.Logger
}

// Run prepares the structure described by cfg, with the topology database
// db (which can be nil, see Prep.DB).
func Run(ctx context.Context, cfg *config.Config, db *top.DB, log *chem.Logger) (*Result, error) {
	P := &Prep{DB: db, Log: log}
	return P.Run(ctx, cfg)
}

func (P *Prep) db(cfg *config.Config, log *chem.Logger) (*top.DB, error) {
	switch {
	case P.DB != nil:
		return P.DB, nil
	case cfg.Top != "":
		return top.ReadFile(cfg.Top, log)
	}
	return top.Default(log)
}

// Run prepares the structure described by cfg.
func (P *Prep) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := chem.OrNoop(P.Log).WithFile(cfg.In)
	db, err := P.db(cfg, log)
	if err != nil {
		return nil, err
	}
	res := &Result{In: cfg.In, Out: cfg.Out}
	M, st, err := chem.ReadPDBFile(cfg.In, cfg.Read(), log)
	if err != nil {
		return nil, err
	}
	res.Read = st
	log.Info("structure read", "atoms", st.Atoms, "residues", st.Residues, "chains", st.Chains)

	if cfg.ReadSSBonds {
		if res.SSBonds, err = ssbond.FromRecords(M, cfg.SSName, log); err != nil {
			return nil, err
		}
	} else if ssbond.Count(M, cfg.SSName) > 1 {
		bonds, err := ssbond.Detect(M, ssbond.Options{Name: cfg.SSName, AltLoc: cfg.Engine().AltLoc}, log)
		if err != nil {
			return nil, err
		}
		res.SSBonds = 2 * len(bonds)
	}

	if cfg.Protonate {
		if res.Protonated, err = P.protonate(ctx, cfg, M, db, log); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Report, err = hbuild.New(db, cfg.Engine(), log).Build(M)
	if err != nil {
		return nil, err
	}
	if res.Written, err = chem.WritePDBFile(cfg.Out, M, cfg.Write()); err != nil {
		return nil, err
	}
	log.Info("structure written", "file", cfg.Out, "atoms", res.Written.Atoms)
	return res, nil
}

// protonate renames the titratable residues. Failures of PROPKA itself only
// mean the structure is not protonated, and are logged.
func (P *Prep) protonate(ctx context.Context, cfg *config.Config, M *chem.Model, db *top.DB, log *chem.Logger) (int, error) {
	table := protonate.DefaultTable()
	if cfg.TTB != "" {
		var err error
		if table, err = protonate.ReadTTBFile(cfg.TTB, log); err != nil {
			return 0, err
		}
	}
	R := P.PropKa
	if R == nil {
		R = protonate.Exec{Path: cfg.PropKa}
	}
	n, err := protonate.Run(ctx, R, M, db, protonate.Options{PH: cfg.PH, AltLoc: cfg.Engine().AltLoc, Table: table}, log)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		log.Warn("structure not protonated", "error", err)
		return 0, nil
	}
	return n, nil
}

// RunBatch prepares the structures of cfgs concurrently, with at most
// workers runs at the same time (no limit if workers < 1). The database,
// which is only read, is loaded once for all configurations without a
// topology file of their own. The results are in the order of cfgs, with
// nil for the runs that failed. The errors of those runs are joined in
// the returned error.
func RunBatch(ctx context.Context, cfgs []*config.Config, workers int, db *top.DB, log *chem.Logger) ([]*Result, error) {
	log = chem.OrNoop(log)
	if db == nil {
		var err error
		if db, err = top.Default(log); err != nil {
			return nil, err
		}
	}
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			P := &Prep{DB: db, Log: log}
			if cfg.Top != "" {
				P.DB = nil
			}
			r, err := P.Run(ctx, cfg)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", cfg.In, err)
				return nil
			}
			results[i] = r
			return nil
		})
	}
	g.Wait()
	return results, errors.Join(errs...)
}
