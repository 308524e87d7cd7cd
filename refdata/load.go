/*
 * load.go, part of quantic.
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

package refdata

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	chem "github.com/amphiquantic/quantic"
)

//the on-disk layout of the bond distance table.
type bondFile struct {
	BondDistances map[string][]float64 `yaml:"bond_distances" toml:"bond_distances"`
}

//the on-disk layout of one atom property entry.
type atomEntry struct {
	Color   []float32 `yaml:"color" toml:"color"`
	Radius  float32   `yaml:"radius" toml:"radius"`
	Valence int       `yaml:"valence" toml:"valence"`
}

//Load reads a bond distance table from path. YAML (.yml, .yaml) and
//TOML (.toml) files are supported, optionally compressed with zstd (.zst suffix).
//The distances go under a "bond_distances" mapping of "A-B" keys to [min, max].
//Any failure is a ReferenceDataUnavailable error, which is meant to abort startup.
func Load(path string) (*Table, error) {
	log.Printf("Loading bond data from: %s", path)
	data, format, err := readFile(path)
	if err != nil {
		return nil, chem.WrapError(chem.ReferenceDataUnavailable, err, "can't read bond distance table "+path, "Load")
	}
	var f bondFile
	if err := unmarshal(data, format, &f); err != nil {
		return nil, chem.WrapError(chem.ReferenceDataUnavailable, err, "can't parse bond distance table "+path, "Load")
	}
	if len(f.BondDistances) == 0 {
		return nil, chem.NewError(chem.ReferenceDataUnavailable, "no bond_distances entries in "+path, "Load")
	}
	ranges := make(map[string][2]float64, len(f.BondDistances))
	for k, v := range f.BondDistances {
		if len(v) != 2 {
			return nil, chem.NewError(chem.ReferenceDataUnavailable, fmt.Sprintf("entry %s in %s needs exactly 2 distances, has %d", k, path, len(v)), "Load")
		}
		ranges[k] = [2]float64{v[0], v[1]}
	}
	T, err := NewTable(ranges)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Load")
	}
	return T, nil
}

//LoadAtomProperties reads an atom property table (element symbol to color
//triple, radius and valence) from path, with the same formats and failure
//semantics as Load.
func LoadAtomProperties(path string) (AtomProperties, error) {
	log.Printf("Loading atom data from: %s", path)
	data, format, err := readFile(path)
	if err != nil {
		return nil, chem.WrapError(chem.ReferenceDataUnavailable, err, "can't read atom property table "+path, "LoadAtomProperties")
	}
	raw := make(map[string]atomEntry)
	if err := unmarshal(data, format, &raw); err != nil {
		return nil, chem.WrapError(chem.ReferenceDataUnavailable, err, "can't parse atom property table "+path, "LoadAtomProperties")
	}
	atoms := make(map[string]Atom, len(raw))
	for k, v := range raw {
		if len(v.Color) != 3 {
			return nil, chem.NewError(chem.ReferenceDataUnavailable, fmt.Sprintf("color of %s in %s needs 3 components", k, path), "LoadAtomProperties")
		}
		atoms[k] = Atom{Color: [3]float32{v.Color[0], v.Color[1], v.Color[2]}, Radius: v.Radius, Valence: v.Valence}
	}
	return normalizeAtoms(atoms), nil
}

//readFile returns the (decompressed) contents of path and its format
//("yaml" or "toml"), guessed from the extension.
func readFile(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	var r io.Reader = f
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, "", err
		}
		defer dec.Close()
		r = dec
		name = strings.TrimSuffix(name, ".zst")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	format := "yaml"
	if filepath.Ext(name) == ".toml" {
		format = "toml"
	}
	return data, format, nil
}

func unmarshal(data []byte, format string, v any) error {
	if format == "toml" {
		return toml.NewDecoder(bytes.NewReader(data)).Decode(v)
	}
	return yaml.Unmarshal(data, v)
}
