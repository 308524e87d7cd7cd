/*
 * config_test.go, part of quantic.
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

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chem "github.com/amphiquantic/quantic"
)

//isolate keeps the user's own environment and config files out of the tests.
func isolate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"QUANTIC_DATA_PATH", LegacyDataEnv, "QUANTIC_BOND_DISTANCES", "QUANTIC_ATOM_PROPERTIES",
		"QUANTIC_SHADERS", "QUANTIC_CPUS", "QUANTIC_POWER_PREFERENCE"} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	isolate(t)
	C, err := Load(New(""))
	require.NoError(t, err)
	assert.Equal(t, "data", C.DataPath)
	assert.Equal(t, filepath.Join("data", "bond_distances.yml"), C.BondDistances)
	assert.Equal(t, filepath.Join("data", "atom_properties.yml"), C.AtomProperties)
	assert.Empty(t, C.Shaders)
	assert.Equal(t, runtime.NumCPU(), C.Cpus)
	assert.False(t, C.LowPower())
	assert.Empty(t, C.File)
	assert.Len(t, C.Settings(), 6)
}

func TestFile(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "custom.yaml")
	content := "data_path: /opt/quantic\natom_properties: /etc/atoms.yml\ncpus: 3\npower_preference: Low-Power\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	C, err := Load(New(file))
	require.NoError(t, err)
	assert.Equal(t, "/opt/quantic", C.DataPath)
	assert.Equal(t, filepath.Join("/opt/quantic", "bond_distances.yml"), C.BondDistances)
	assert.Equal(t, "/etc/atoms.yml", C.AtomProperties)
	assert.Equal(t, 3, C.Cpus)
	assert.True(t, C.LowPower())
	assert.Equal(t, file, C.File)
}

func TestEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv(LegacyDataEnv, "/legacy")
	C, err := Load(New(""))
	require.NoError(t, err)
	assert.Equal(t, "/legacy", C.DataPath)

	t.Setenv("QUANTIC_DATA_PATH", "/new")
	t.Setenv("QUANTIC_CPUS", "0")
	t.Setenv("QUANTIC_SHADERS", "/shaders")
	C, err = Load(New(""))
	require.NoError(t, err)
	assert.Equal(t, "/new", C.DataPath)
	assert.Equal(t, 1, C.Cpus)
	assert.Equal(t, "/shaders", C.Shaders)
}

func TestErrors(t *testing.T) {
	isolate(t)
	_, err := Load(New(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Equal(t, chem.ReferenceDataUnavailable, chem.KindOf(err))

	t.Setenv("QUANTIC_POWER_PREFERENCE", "turbo")
	_, err = Load(New(""))
	assert.Equal(t, chem.MalformedInput, chem.KindOf(err))
}
