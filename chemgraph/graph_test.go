/*
 * graph_test.go, part of quantic.
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

package chemgraph

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
)

func TestGraph(Te *testing.T) {
	//a chain 0-1-2 plus a separate pair 3-4 and a lone atom 5.
	coords := []r3.Vec{{}, {X: 1}, {X: 2}, {Y: 5}, {Y: 6}, {Z: 9}}
	bonds := []chem.Pair{{I: 0, J: 1}, {I: 1, J: 2}, {I: 3, J: 4}, {I: 1, J: 0}}
	G, err := New(coords, bonds)
	if err != nil {
		Te.Fatal(err)
	}
	if G.Len() != 6 || G.Degree(1) != 2 || G.Degree(5) != 0 {
		Te.Errorf("bad degrees: %d %d", G.Degree(1), G.Degree(5))
	}
	if n := G.Neighbors(1); len(n) != 2 || n[0] != 0 || n[1] != 2 {
		Te.Errorf("bad neighbors %v", n)
	}
	frags := G.Fragments()
	if len(frags) != 3 || len(frags[0]) != 3 || frags[1][0] != 3 || frags[2][0] != 5 {
		Te.Errorf("bad fragments %v", frags)
	}
	p, w := G.ShortestPath(0, 2)
	if len(p) != 3 || p[1] != 1 || math.Abs(w-2) > 1e-12 {
		Te.Errorf("bad path %v %f", p, w)
	}
	if p, _ := G.ShortestPath(0, 4); p != nil {
		Te.Errorf("path between disconnected atoms: %v", p)
	}
	if _, err := New(coords, []chem.Pair{{I: 2, J: 2}}); chem.KindOf(err) != chem.MalformedInput {
		Te.Error("self bond accepted")
	}
}
