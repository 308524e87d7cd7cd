/*
 * atomicdata.go, part of quantic.
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

package chem

import "strings"

//A map for assigning atomic numbers to elements.
//The atomic number is the code used for element types in GPU buffers.
var symbolNumber = map[string]uint32{
	"H":  1,
	"He": 2,
	"Li": 3,
	"Be": 4,
	"B":  5,
	"C":  6,
	"N":  7,
	"O":  8,
	"F":  9,
	"Ne": 10,
	"Na": 11,
	"Mg": 12,
	"Al": 13,
	"Si": 14,
	"P":  15,
	"S":  16,
	"Cl": 17,
	"Ar": 18,
	"K":  19,
	"Ca": 20,
	"Cr": 24,
	"Mn": 25,
	"Fe": 26,
	"Co": 27,
	"Ni": 28,
	"Cu": 29,
	"Zn": 30,
	"Se": 34,
	"Br": 35,
	"Rb": 37,
	"Sr": 38,
	"Mo": 42,
	"Ag": 47,
	"Cd": 48,
	"I":  53,
	"Cs": 55,
	"Pt": 78,
	"Au": 79,
	"Hg": 80,
}

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//ElementCode returns the numeric code (the atomic number) for an element symbol,
//or 0 if the symbol is not known. Symbols are matched case-insensitively, so "CL"
//and "Cl" give the same code.
func ElementCode(symbol string) uint32 {
	return symbolNumber[NormalizeSymbol(symbol)]
}

//Mass returns the atomic mass for symbol, or 0 if not known.
func Mass(symbol string) float64 {
	return symbolMass[NormalizeSymbol(symbol)]
}

//NormalizeSymbol trims symbol and capitalizes it the usual way ("CL" -> "Cl").
func NormalizeSymbol(symbol string) string {
	s := strings.TrimSpace(symbol)
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
