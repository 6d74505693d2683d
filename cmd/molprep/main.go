/*
 * main.go, part of molprep.
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

// Command molprep adds hydrogens to PDB structures.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	chem "github.com/rmera/molprep"
	"github.com/rmera/molprep/chemplot"
	"github.com/rmera/molprep/config"
	"github.com/rmera/molprep/prep"
	"github.com/rmera/molprep/top"
	"github.com/rmera/molprep/zio"
)

const version = "1.0.0"

// Globals are the flags shared by all commands.
type Globals struct {
	LogLevel string `name:"log-level" enum:"debug,info,warn,error" default:"info" help:"Minimum level of the messages logged (${enum})."`
	LogJSON  bool   `name:"log-json" help:"Log in JSON instead of text."`
	Plot     string `name:"plot" type:"path" help:"Save a histogram of the X-H distances of the added hydrogens to this file."`
}

func (G *Globals) logger() *chem.Logger {
	var lv slog.Level
	lv.UnmarshalText([]byte(G.LogLevel))
	if G.LogJSON {
		return chem.NewJSONLogger(os.Stderr, lv)
	}
	return chem.NewTextLogger(os.Stderr, lv)
}

var CLI struct {
	Globals `embed:""`

	Run     RunCmd     `cmd:"" help:"Run with the settings of a configuration file (YAML or legacy key = value)."`
	Build   BuildCmd   `cmd:"" help:"Add hydrogens to a PDB file."`
	Batch   BatchCmd   `cmd:"" help:"Add hydrogens to several PDB files concurrently."`
	Top     TopCmd     `cmd:"" help:"Print the topology database."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// RunCmd reads a configuration file, or the standard input.
type RunCmd struct {
	Config string `arg:"" optional:"" type:"existingfile" help:"Configuration file. The standard input, in legacy format, if not given."`
}

func (c *RunCmd) Run(ctx context.Context, G *Globals) error {
	log := G.logger()
	var cfg *config.Config
	var err error
	if c.Config == "" {
		cfg, err = config.ParseLegacy(os.Stdin, "stdin", log)
	} else {
		cfg, err = config.Load(c.Config, log)
	}
	if err != nil {
		return err
	}
	res, err := prep.Run(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	return report(G, log, res)
}

// Options maps the options of a configuration to flags.
type Options struct {
	Top          string  `name:"top" type:"existingfile" help:"Topology database. The embedded one if not given."`
	TTB          string  `name:"ttb" type:"existingfile" help:"Titratable residue translation table."`
	PropKa       string  `name:"propka" help:"PROPKA executable." default:"propka3"`
	Format       string  `name:"format" enum:"std,min" default:"std" help:"Output format (${enum})."`
	AltLoc       string  `name:"altloc" default:"A" help:"Alternate location to process."`
	SSName       string  `name:"ss-name" default:"CYS2" help:"Name of cysteines in disulfide bonds."`
	Model        int     `name:"model" default:"-1" help:"Model to read. The first one if negative."`
	PH           float64 `name:"ph" default:"7.0" help:"pH for protonation."`
	RemoveH      bool    `name:"remove-h" help:"Remove the hydrogens of the input first."`
	Protonate    bool    `name:"protonate" help:"Set protonation states with PROPKA."`
	ReadSSBonds  bool    `name:"read-ssbonds" help:"Take disulfide bonds from SSBOND records instead of detecting them."`
	WriteSSBonds bool    `name:"write-ssbonds" help:"Write SSBOND records."`
	KeepSSName   bool    `name:"keep-ss-name" help:"Don't write disulfide-bonded cysteines back as CYS."`
	KeepSerial   bool    `name:"keep-serial" help:"Keep the atom serial numbers of the input."`
	NoModel      bool    `name:"no-model" help:"Don't write MODEL records."`
	NoCryst      bool    `name:"no-cryst" help:"Don't write the CRYST1 record."`
	NoTer        bool    `name:"no-ter" help:"Don't write TER records (min format only)."`
	NoEnd        bool    `name:"no-end" help:"Don't write the END record."`
	NoNTerm      bool    `name:"no-nterm" help:"Don't use N-terminal protein variants."`
	NoCTerm      bool    `name:"no-cterm" help:"Don't use C-terminal protein variants."`
	No5Term      bool    `name:"no-5term" help:"Don't use 5' terminal nucleic acid variants."`
	No3Term      bool    `name:"no-3term" help:"Don't use 3' terminal nucleic acid variants."`
	WarnOcc      bool    `name:"warn-occ" help:"Warn about atoms with zero occupancy."`
}

func (O *Options) config(in, out string) *config.Config {
	return &config.Config{
		In: in, Out: out, Top: O.Top, TTB: O.TTB, PropKa: O.PropKa,
		Format: O.Format, AltLoc: O.AltLoc, SSName: O.SSName, ModelNo: O.Model, PH: O.PH,
		RemoveH: O.RemoveH, Protonate: O.Protonate, ReadSSBonds: O.ReadSSBonds, WriteSSBonds: O.WriteSSBonds,
		KeepSSName: O.KeepSSName, KeepSerial: O.KeepSerial,
		NoModel: O.NoModel, NoCryst: O.NoCryst, NoTer: O.NoTer, NoEnd: O.NoEnd,
		NTerm: !O.NoNTerm, CTerm: !O.NoCTerm,
		DNA5Term: !O.No5Term, DNA3Term: !O.No3Term, RNA5Term: !O.No5Term, RNA3Term: !O.No3Term,
		WarnOcc: O.WarnOcc,
	}
}

// BuildCmd prepares one file.
type BuildCmd struct {
	In  string `arg:"" type:"existingfile" help:"Input PDB file, possibly compressed."`
	Out string `arg:"" help:"Output PDB file. Compressed according to its extension."`
	Options `embed:""`
}

func (c *BuildCmd) Run(ctx context.Context, G *Globals) error {
	log := G.logger()
	res, err := prep.Run(ctx, c.config(c.In, c.Out), nil, log)
	if err != nil {
		return err
	}
	return report(G, log, res)
}

// BatchCmd prepares many files.
type BatchCmd struct {
	In      []string `arg:"" type:"existingfile" help:"Input PDB files."`
	OutDir  string   `name:"out-dir" required:"" type:"path" help:"Directory for the output files, which keep the input names."`
	Workers int      `name:"workers" short:"j" default:"4" help:"Files processed at the same time."`
	Options `embed:""`
}

func (c *BatchCmd) Run(ctx context.Context, G *Globals) error {
	log := G.logger()
	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return err
	}
	cfgs := make([]*config.Config, len(c.In))
	for i, in := range c.In {
		cfgs[i] = c.config(in, filepath.Join(c.OutDir, filepath.Base(in)))
	}
	var db *top.DB
	if c.Top != "" {
		var err error
		if db, err = top.ReadFile(c.Top, log); err != nil {
			return err
		}
	}
	results, err := prep.RunBatch(ctx, cfgs, c.Workers, db, log)
	var dists []float64
	for _, r := range results {
		if r == nil {
			continue
		}
		fmt.Printf("%s: %d hydrogens added, %d warnings\n", r.Out, r.Report.Added, len(r.Report.Diagnostics))
		dists = append(dists, r.Report.Dists()...)
	}
	if perr := plot(G, log, dists); err == nil {
		err = perr
	}
	return err
}

// TopCmd prints a topology database.
type TopCmd struct {
	Top string `arg:"" optional:"" type:"existingfile" help:"Topology file. The embedded database if not given."`
	Out string `name:"out" short:"o" help:"Output file. The standard output if not given."`
}

func (c *TopCmd) Run(G *Globals) error {
	log := G.logger()
	var db *top.DB
	var err error
	if c.Top != "" {
		db, err = top.ReadFile(c.Top, log)
	} else {
		db, err = top.Default(log)
	}
	if err != nil {
		return err
	}
	if c.Out == "" {
		return top.Write(os.Stdout, db)
	}
	w, err := zio.Create(c.Out)
	if err != nil {
		return err
	}
	if err := top.Write(w, db); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println("molprep", version)
	return nil
}

func report(G *Globals, log *chem.Logger, res *prep.Result) error {
	r := res.Report
	fmt.Printf("%s: %d hydrogens added, %d atoms written\n", res.Out, r.Added, res.Written.Atoms)
	if len(r.NotFound) > 0 {
		fmt.Printf("residues not in the topology database: %s\n", chem.JoinNames(r.NotFound))
	}
	return plot(G, log, r.Dists())
}

func plot(G *Globals, log *chem.Logger, dists []float64) error {
	if G.Plot == "" || len(dists) == 0 {
		return nil
	}
	mean, sd := chemplot.Summary(dists)
	log.Info("X-H distances", "mean", mean, "sd", sd, "n", len(dists))
	return chemplot.BondLengthHistogram(dists, "X-H distances of added hydrogens", G.Plot)
}

func main() {
	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx := kong.Parse(&CLI,
		kong.Name("molprep"),
		kong.Description("Adds missing hydrogens to PDB structures, following a topology database."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.BindTo(sigctx, (*context.Context)(nil)),
		kong.Bind(&CLI.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
