/*
 * interfaces.go, part of molprep.
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
	"errors"
	"fmt"
	"strings"
)

// Atomer is the interface for any object that gives access to a list of atoms
// by index.
type Atomer interface {
	//Atom returns the Atom corresponding to the index i.
	Atom(i int) *Atom

	//Len returns the number of atoms in the object.
	Len() int
}

// Error is the interface for errors that all packages in this library implement.
// Decorate allows to add information when the error is passed up.
// Each call also returns the "decoration" slice of strings resulting from the current call.
// If passed an empty string, it just returns the current value.
type Error interface {
	Error() string
	Decorate(string) []string
}

// CError is the error type of the chem package.
type CError struct {
	msg      string
	deco     []string
	critical bool
	err      error
}

func newCError(err error, critical bool, caller string, format string, a ...any) *CError {
	return &CError{msg: fmt.Sprintf(format, a...), deco: []string{caller}, critical: critical, err: err}
}

// Error returns a string with an error message.
func (E *CError) Error() string {
	if E.err != nil {
		return fmt.Sprintf("%s: %s", E.msg, E.err.Error())
	}
	return E.msg
}

// Decorate adds the dec string to the decoration slice and returns the
// resulting slice. An empty string just returns the current value.
func (E *CError) Decorate(dec string) []string {
	if dec != "" {
		E.deco = append(E.deco, dec)
	}
	return E.deco
}

// Critical returns whether the error is critical or it can be ignored.
func (E *CError) Critical() bool { return E.critical }

// Unwrap returns the sentinel error, if any, that the CError wraps.
func (E *CError) Unwrap() error { return E.err }

// Sentinel errors, to be matched with errors.Is.
var (
	ErrNameTooLong  = errors.New("name too long")
	ErrEmptyName    = errors.New("empty name")
	ErrNoAtoms      = errors.New("no atoms read")
	ErrMixedRecords = errors.New("residue has both ATOM and HETATM records")
	ErrResidueName  = errors.New("residue has also other name")
	ErrFormat       = errors.New("malformed record")
	ErrIndex        = errors.New("index out of range")
)

// PDBError is returned when reading or writing a PDB file fails. It carries
// the file name and the line where the problem was found (0 if the line
// doesn't apply).
type PDBError struct {
	File string
	Line int
	Msg  string
	Err  error
	deco []string
}

func (E *PDBError) Error() string {
	var b strings.Builder
	b.WriteString(E.File)
	if E.Line > 0 {
		fmt.Fprintf(&b, ":%d", E.Line)
	}
	b.WriteString(": ")
	b.WriteString(E.Msg)
	if E.Err != nil {
		b.WriteString(": ")
		b.WriteString(E.Err.Error())
	}
	return b.String()
}

// Decorate adds the dec string to the decoration slice and returns it.
func (E *PDBError) Decorate(dec string) []string {
	if dec != "" {
		E.deco = append(E.deco, dec)
	}
	return E.deco
}

func (E *PDBError) Unwrap() error { return E.Err }
