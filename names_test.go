/*
 * names_test.go, part of molprep.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAtomName(Te *testing.T) {
	for in, want := range map[string]string{"N": " N  ", "CA": " CA ", "HB1": " HB1", "HD21": "HD21"} {
		got, err := FormatAtomName(in)
		require.NoError(Te, err)
		assert.Equal(Te, want, got, in)
	}
	_, err := FormatAtomName("HD211")
	assert.True(Te, errors.Is(err, ErrNameTooLong))
	_, err = FormatAtomName("")
	assert.True(Te, errors.Is(err, ErrEmptyName))
	assert.Equal(Te, " HB1", LiteralAtomName("_HB1"))
	assert.Equal(Te, "C  A", LiteralAtomName("C*-A"))
	assert.Equal(Te, "ND  ", LiteralAtomName("ND"))
}

func TestFormatResName(Te *testing.T) {
	for in, want := range map[string]string{"K": "  K ", "NA": " NA ", "ALA": "ALA ", "CYS2": "CYS2"} {
		got, err := FormatResName(in)
		require.NoError(Te, err)
		assert.Equal(Te, want, got, in)
	}
	_, err := FormatResName("CYSXX")
	assert.True(Te, errors.Is(err, ErrNameTooLong))
}

func TestNumberedName(Te *testing.T) {
	assert.Equal(Te, " H1 ", NumberedName(" H  ", '1'))
	assert.Equal(Te, " HB2", NumberedName(" HB ", '2'))
	assert.Equal(Te, "HD21", NumberedName(" HD2", '1'))
	assert.Equal(Te, "HG13", NumberedName(" HG1", '3'))
}

func TestIsHydrogen(Te *testing.T) {
	assert.True(Te, IsHydrogen(" H", " CA "))
	assert.True(Te, IsHydrogen("D ", " D  "))
	assert.False(Te, IsHydrogen(" C", " HA "))
	assert.True(Te, IsHydrogen("  ", " HA "))
	assert.True(Te, IsHydrogen("", "1HB "))
	assert.False(Te, IsHydrogen("", " CA "))
	assert.False(Te, IsHydrogen("", "    "))
	s, err := symbolFromName("ZN  ")
	require.NoError(Te, err)
	assert.Equal(Te, "Zn", s)
	s, err = symbolFromName(" OG1")
	require.NoError(Te, err)
	assert.Equal(Te, "O", s)
	_, err = symbolFromName(" X  ")
	assert.Error(Te, err)
	assert.Equal(Te, "ZN", FormatElement("Zn"))
	assert.Equal(Te, " C", FormatElement("c"))
}

func TestOrderedSet(Te *testing.T) {
	var s OrderedSet[string]
	assert.True(Te, s.Add("XXX "))
	assert.True(Te, s.Add("ALA "))
	assert.False(Te, s.Add("XXX "))
	assert.Equal(Te, []string{"XXX ", "ALA "}, s.Items())
	assert.True(Te, s.Has("ALA "))
	assert.Equal(Te, "XXX ALA", JoinNames(s.Items()))
	s.Reset()
	assert.Equal(Te, 0, s.Len())
	assert.False(Te, s.Has("ALA "))
}
