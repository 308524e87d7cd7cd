/*
 * atoms.go, part of quantic.
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

import chem "github.com/amphiquantic/quantic"

//Atom holds the display and valence properties of one element.
type Atom struct {
	Color   [3]float32 `yaml:"color" toml:"color" json:"color"`
	Radius  float32    `yaml:"radius" toml:"radius" json:"radius"`
	Valence int        `yaml:"valence" toml:"valence" json:"valence"`
}

//AtomProperties maps element symbols to their properties.
//Like Table, it is not modified after loading.
type AtomProperties map[string]Atom

//Lookup returns the properties for symbol, and whether they exist.
func (A AtomProperties) Lookup(symbol string) (Atom, bool) {
	at, ok := A[chem.NormalizeSymbol(symbol)]
	return at, ok
}

//MaxBonds returns the valence of symbol, or 0 if there is not
//a specified number of bonds for it.
func (A AtomProperties) MaxBonds(symbol string) int {
	return A[chem.NormalizeSymbol(symbol)].Valence
}

func normalizeAtoms(in map[string]Atom) AtomProperties {
	out := make(AtomProperties, len(in))
	for k, v := range in {
		out[chem.NormalizeSymbol(k)] = v
	}
	return out
}
