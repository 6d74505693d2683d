/*
 * config.go, part of molprep.
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

// Package config holds the settings of a molprep run. They can be read from
// YAML files or from the key = value input files of the original molprep.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	chem "github.com/rmera/molprep"
	"github.com/rmera/molprep/hbuild"
)

// ErrInvalid is returned for settings that can't be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the set of options for preparing one structure.
type Config struct {
	In     string `yaml:"in"`
	Out    string `yaml:"out"`
	Top    string `yaml:"top,omitempty"` //topology file. The embedded database is used if empty.
	TTB    string `yaml:"ttb,omitempty"` //titratable translation table. The default one is used if empty.
	PropKa string `yaml:"propka,omitempty"`

	Format  string  `yaml:"format"`
	AltLoc  string  `yaml:"altloc"`
	SSName  string  `yaml:"ss_name"`
	ModelNo int     `yaml:"model"`
	PH      float64 `yaml:"ph"`

	RemoveH      bool `yaml:"remove_h"`
	Protonate    bool `yaml:"protonate"`
	ReadSSBonds  bool `yaml:"read_ssbonds"`
	WriteSSBonds bool `yaml:"write_ssbonds"`
	KeepSSName   bool `yaml:"keep_ss_name"`
	KeepSerial   bool `yaml:"keep_serial"`
	NoModel      bool `yaml:"no_model"`
	NoCryst      bool `yaml:"no_cryst"`
	NoTer        bool `yaml:"no_ter"`
	NoEnd        bool `yaml:"no_end"`
	NTerm        bool `yaml:"nterm"`
	CTerm        bool `yaml:"cterm"`
	DNA5Term     bool `yaml:"dna5term"`
	DNA3Term     bool `yaml:"dna3term"`
	RNA5Term     bool `yaml:"rna5term"`
	RNA3Term     bool `yaml:"rna3term"`
	WarnOcc      bool `yaml:"warn_occ"`
}

// Default returns the settings molprep uses for anything not given.
func Default() *Config {
	return &Config{
		Format:   "std",
		AltLoc:   "A",
		SSName:   "CYS2",
		ModelNo:  -1,
		PH:       7.0,
		NTerm:    true,
		CTerm:    true,
		DNA5Term: true,
		DNA3Term: true,
		RNA5Term: true,
		RNA3Term: true,
	}
}

// Load reads the configuration in path. Files ending in .yaml or .yml are
// YAML, anything else is a legacy input file. Relative file names in
// it are taken relative to the current directory.
func Load(path string, log *chem.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	}
	return ParseLegacy(bytes.NewReader(data), path, log)
}

// ParseYAML reads a YAML configuration. Missing keys keep their default values.
func ParseYAML(data []byte) (*Config, error) {
	C := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(C); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return C, nil
}

// YAML returns the configuration as a YAML document.
func (C *Config) YAML() ([]byte, error) {
	return yaml.Marshal(C)
}

// legacyFlags maps the boolean keys of legacy input files to their fields.
func (C *Config) legacyFlags() map[string]*bool {
	return map[string]*bool{
		"remh":     &C.RemoveH,
		"nomodel":  &C.NoModel,
		"nocryst":  &C.NoCryst,
		"noter":    &C.NoTer,
		"noend":    &C.NoEnd,
		"prot":     &C.Protonate,
		"rssb":     &C.ReadSSBonds,
		"wrss":     &C.WriteSSBonds,
		"keepssn":  &C.KeepSSName,
		"keepser":  &C.KeepSerial,
		"nterm":    &C.NTerm,
		"cterm":    &C.CTerm,
		"dna5term": &C.DNA5Term,
		"dna3term": &C.DNA3Term,
		"rna5term": &C.RNA5Term,
		"rna3term": &C.RNA3Term,
		"warnocc":  &C.WarnOcc,
	}
}

func isLegacyDelim(r rune) bool {
	return r == ' ' || r == '=' || r == '\t'
}

// ParseLegacy reads a legacy molprep input: one "key = value" pair per line,
// "#" comments. Boolean values starting with y or t (any case) mean true,
// anything else false.
func ParseLegacy(r io.Reader, name string, log *chem.Logger) (*Config, error) {
	log = chem.OrNoop(log)
	C := Default()
	flags := C.legacyFlags()
	s := bufio.NewScanner(r)
	line := 0
	fail := func(format string, a ...any) error {
		return fmt.Errorf("%w: %s: %s (line %d)", ErrInvalid, name, fmt.Sprintf(format, a...), line)
	}
	for s.Scan() {
		line++
		l := s.Text()
		if i := strings.IndexByte(l, '#'); i >= 0 {
			l = l[:i]
		}
		f := strings.FieldsFunc(l, isLegacyDelim)
		if len(f) == 0 {
			continue
		}
		if len(f) < 2 {
			return nil, fail("no value found in input")
		}
		key, val := f[0], f[1]
		switch key {
		case "inPDB":
			C.In = val
		case "outPDB":
			C.Out = val
		case "top_file":
			C.Top = val
		case "protonate_ttb":
			C.TTB = val
		case "propka":
			C.PropKa = val
		case "output_format":
			C.Format = val
		case "altloc":
			C.AltLoc = val[:1]
		case "ss_name":
			if len(val) > chem.NameLen {
				return nil, fail("ss_name cannot be longer than %d characters", chem.NameLen)
			}
			C.SSName = val
		case "model_no":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fail("cannot convert model number %q", val)
			}
			C.ModelNo = n
		case "protonate_pH":
			pH, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fail("cannot convert pH %q", val)
			}
			C.PH = pH
		default:
			p, ok := flags[key]
			if !ok {
				return nil, fail("unknown parameter %s", key)
			}
			c := strings.ToLower(val)[0]
			*p = c == 'y' || c == 't'
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if C.PH <= 0 || C.PH >= 14 {
		log.Warn("extreme pH", "pH", C.PH)
	}
	return C, nil
}

// Legacy writes C as a legacy molprep input file.
func (C *Config) Legacy(w io.Writer) error {
	bw := bufio.NewWriter(w)
	str := func(k, v string) {
		if v != "" {
			fmt.Fprintf(bw, "%s = %s\n", k, v)
		}
	}
	str("inPDB", C.In)
	str("outPDB", C.Out)
	str("top_file", C.Top)
	str("protonate_ttb", C.TTB)
	str("propka", C.PropKa)
	str("output_format", C.Format)
	str("altloc", C.AltLoc)
	str("ss_name", C.SSName)
	fmt.Fprintf(bw, "model_no = %d\n", C.ModelNo)
	fmt.Fprintf(bw, "protonate_pH = %s\n", strconv.FormatFloat(C.PH, 'f', -1, 64))
	for _, k := range []string{"remh", "nomodel", "nocryst", "noter", "noend", "prot", "rssb", "wrss", "keepssn", "keepser", "nterm", "cterm", "dna5term", "dna3term", "rna5term", "rna3term", "warnocc"} {
		v := "no"
		if *C.legacyFlags()[k] {
			v = "yes"
		}
		fmt.Fprintf(bw, "%s = %s\n", k, v)
	}
	return bw.Flush()
}

// Validate checks that C can be used for a run.
func (C *Config) Validate() error {
	var errs []error
	if C.In == "" {
		errs = append(errs, errors.New("PDB input file required"))
	}
	if C.Out == "" {
		errs = append(errs, errors.New("PDB output file required"))
	}
	if len(C.AltLoc) != 1 {
		errs = append(errs, fmt.Errorf("altloc must be 1 character, not %q", C.AltLoc))
	}
	if _, err := chem.FormatResName(C.SSName); err != nil {
		errs = append(errs, fmt.Errorf("ss_name %q must have 1 to %d characters", C.SSName, chem.NameLen))
	}
	if _, err := chem.ParseFormat(C.Format); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (C *Config) altLoc() byte {
	if C.AltLoc == "" {
		return 'A'
	}
	return C.AltLoc[0]
}

// Engine returns the options for the hydrogen builder.
func (C *Config) Engine() hbuild.Options {
	return hbuild.Options{
		AltLoc:   C.altLoc(),
		NTerm:    C.NTerm,
		CTerm:    C.CTerm,
		DNA5Term: C.DNA5Term,
		DNA3Term: C.DNA3Term,
		RNA5Term: C.RNA5Term,
		RNA3Term: C.RNA3Term,
		WarnOcc:  C.WarnOcc,
	}
}

// Read returns the options for the PDB reader.
func (C *Config) Read() chem.ReadOptions {
	return chem.ReadOptions{ModelNo: C.ModelNo, RemoveH: C.RemoveH, ReadSSBonds: C.ReadSSBonds}
}

// Write returns the options for the PDB writer. C is assumed valid.
func (C *Config) Write() chem.WriteOptions {
	f, _ := chem.ParseFormat(C.Format)
	ss, _ := chem.FormatResName(C.SSName)
	return chem.WriteOptions{
		Format:       f,
		AltLoc:       C.altLoc(),
		SSName:       ss,
		KeepSSName:   C.KeepSSName,
		KeepSerial:   C.KeepSerial,
		WriteSSBonds: C.WriteSSBonds,
		NoCryst:      C.NoCryst,
		NoModel:      C.NoModel,
		NoTer:        C.NoTer,
		NoEnd:        C.NoEnd,
	}
}
