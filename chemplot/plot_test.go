/*
 * plot_test.go, part of quantic.
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

package chemplot

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
	"github.com/amphiquantic/quantic/refdata"
)

func TestBondLengthHistogram(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "lengths.png")
	err := BondLengthHistogram([]float64{1.09, 1.1, 1.08, 1.53, 1.43, 0.96}, 5, "Bond lengths", name)
	if err != nil {
		Te.Fatal(err)
	}
	if st, err := os.Stat(name); err != nil || st.Size() == 0 {
		Te.Errorf("plot not written: %v", err)
	}
	if err := BondLengthHistogram(nil, 5, "", name); chem.KindOf(err) != chem.MalformedInput {
		Te.Error("empty data accepted")
	}
}

func TestMolecule(Te *testing.T) {
	S, err := chem.NewStructure([]r3.Vec{{}, {X: 0.96}, {X: -0.24, Y: 0.93}}, []string{"O", "H", "Xx"})
	if err != nil {
		Te.Fatal(err)
	}
	S.Bonds = []chem.Pair{{I: 0, J: 1}, {I: 0, J: 2}}
	atoms := refdata.AtomProperties{"O": {Color: [3]float32{1, 0, 0}, Radius: 0.66}, "H": {Color: [3]float32{1, 1, 1}, Radius: 0.31}}
	name := filepath.Join(Te.TempDir(), "water.svg")
	if err := Molecule(S, atoms, "water", name); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(name); err != nil {
		Te.Error(err)
	}
	if c := rgb([3]float32{1, 0.5, -1}); c.R != 255 || c.G != 128 || c.B != 0 {
		Te.Errorf("bad color conversion %v", c)
	}
}
