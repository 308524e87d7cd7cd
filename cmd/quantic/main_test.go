/*
 * main_test.go, part of quantic.
 *
 *
 * Copyright 2024 The quantic Authors
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

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
)

const ethanol = "../../testdata/ethanol.pdb"

//execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("QUANTIC_DATA_PATH", "../../data")
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "data_path: ../../data\n")
	assert.Contains(t, out, "bond_distances: "+filepath.Join("../../data", "bond_distances.yml"))
}

func TestBondsCommand(t *testing.T) {
	out, err := execute(t, "bonds", ethanol)
	require.NoError(t, err)
	assert.Contains(t, out, "atoms: 9\n")
	assert.Contains(t, out, "mass: 46.02\n")
	assert.Contains(t, out, "centroid: ")
	assert.Contains(t, out, "bonds: 8\n")
	assert.Contains(t, out, "near: 0\n")
	assert.Contains(t, out, "missing: 0\n")
	assert.Contains(t, out, "fragments: 1\n")
}

func TestBondsCommandJSON(t *testing.T) {
	written := filepath.Join(t.TempDir(), "ethanol.pdb")
	out, err := execute(t, "bonds", "--json", "--out", written, ethanol)
	require.NoError(t, err)
	var doc struct {
		Atoms []json.RawMessage
		Bonds [][2]int
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Atoms, 9)
	assert.Len(t, doc.Bonds, 8)

	S, err := chem.ReadPDB(written)
	require.NoError(t, err)
	assert.Len(t, S.Bonds, 8)
}

func TestIonsCommand(t *testing.T) {
	written := filepath.Join(t.TempDir(), "ions.xyz")
	out, err := execute(t, "ions", "--ion", "cl", "--count", "3", "--seed", "7", ethanol, written)
	require.NoError(t, err)
	assert.Equal(t, "added 3 Cl ions\n", out)
	S, err := chem.ReadStructure(written)
	require.NoError(t, err)
	assert.Equal(t, 12, S.Len())
	assert.Equal(t, "Cl", S.Types[11])

	_, err = execute(t, "ions", "--ion", "Xx", ethanol, written)
	assert.Equal(t, chem.MalformedInput, chem.KindOf(err))
}

func TestSolvateCommand(t *testing.T) {
	written := filepath.Join(t.TempDir(), "wet.pdb")
	out, err := execute(t, "solvate", "--box", "4", "--seed", "1", "--center", ethanol, written)
	require.NoError(t, err)
	assert.Contains(t, out, "added ")
	S, err := chem.ReadPDB(written)
	require.NoError(t, err)
	assert.Greater(t, S.Len(), 9)
	assert.Equal(t, 0, (S.Len()-9)%3)
	solute := &chem.Structure{Coords: S.Coords[:9], Types: S.Types[:9]}
	assert.InDelta(t, 0, r3.Norm(solute.Centroid()), 0.01)
}

func TestProcessCommandBadInput(t *testing.T) {
	_, err := execute(t, "relax", "--cycles", "0", ethanol)
	assert.Equal(t, chem.MalformedInput, chem.KindOf(err))
	_, err = execute(t, "minimize", "--cycles", "1", "missing.pdb")
	assert.Error(t, err)
}
