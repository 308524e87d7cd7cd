/*
 * bonds_test.go, part of quantic.
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

package bonds

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
	"github.com/amphiquantic/quantic/refdata"
)

func testTable(t *testing.T) *refdata.Table {
	t.Helper()
	T, err := refdata.NewTable(map[string][2]float64{
		"C-C": {1.2, 1.6},
		"C-H": {0.95, 1.15},
		"N-N": {1.85, 1.95},
		"O-H": {0.9, 1.05},
	})
	require.NoError(t, err)
	return T
}

func TestConfirmed(t *testing.T) {
	E := NewEngine(testTable(t))
	res, err := E.Determine([]r3.Vec{{}, {X: 1.5}}, []string{"C", "C"})
	require.NoError(t, err)
	assert.Equal(t, []chem.Pair{{I: 0, J: 1}}, res.Confirmed)
	assert.Empty(t, res.Near)
	assert.Empty(t, res.Missing)
}

func TestMissing(t *testing.T) {
	E := NewEngine(testTable(t))
	coords := []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	res, err := E.Determine(coords, []string{"Y", "X", "X", "Y"})
	require.NoError(t, err)
	assert.Empty(t, res.Confirmed)
	assert.Empty(t, res.Near)
	//X-X and Y-Y pairs are missing too, X-Y is reported once.
	assert.Equal(t, []refdata.PairKey{{A: "X", B: "X"}, {A: "X", B: "Y"}, {A: "Y", B: "Y"}}, res.MissingPairs())
}

func TestNear(t *testing.T) {
	E := NewEngine(testTable(t))
	res, err := E.Determine([]r3.Vec{{}, {X: 2.0}}, []string{"N", "N"})
	require.NoError(t, err)
	assert.Empty(t, res.Confirmed)
	assert.Equal(t, []chem.Pair{{I: 0, J: 1}}, res.Near)
	assert.Empty(t, res.Missing)
}

func TestDropped(t *testing.T) {
	E := NewEngine(testTable(t))
	res, err := E.Determine([]r3.Vec{{}, {X: 2.5}}, []string{"N", "N"})
	require.NoError(t, err)
	assert.Empty(t, res.Confirmed)
	assert.Empty(t, res.Near)
	assert.Empty(t, res.Missing)
}

func TestSymmetricLookup(t *testing.T) {
	E := NewEngine(testTable(t))
	r1, err := E.Determine([]r3.Vec{{}, {X: 1.09}}, []string{"H", "C"})
	require.NoError(t, err)
	r2, err := E.Determine([]r3.Vec{{}, {X: 1.09}}, []string{"C", "H"})
	require.NoError(t, err)
	assert.Equal(t, []chem.Pair{{I: 0, J: 1}}, r1.Confirmed)
	assert.Equal(t, r1, r2)
}

func TestSmallAndMalformed(t *testing.T) {
	E := NewEngine(testTable(t))
	for _, n := range []int{0, 1} {
		res, err := E.Determine(make([]r3.Vec, n), make([]string, n))
		require.NoError(t, err)
		assert.Empty(t, res.Confirmed)
		assert.Empty(t, res.Near)
		assert.Empty(t, res.Missing)
	}
	_, err := E.Determine(make([]r3.Vec, 3), []string{"C", "C"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, chem.ErrMalformedInput))

	_, err = NewEngine(nil).Determine(make([]r3.Vec, 2), []string{"C", "C"})
	assert.Equal(t, chem.ReferenceDataUnavailable, chem.KindOf(err))
}

func randomMolecule(n int, seed int64) ([]r3.Vec, []string) {
	rng := rand.New(rand.NewSource(seed))
	elements := []string{"C", "H", "N", "O", "S"}
	coords := make([]r3.Vec, n)
	types := make([]string, n)
	for i := range coords {
		coords[i] = r3.Vec{X: rng.Float64() * 6, Y: rng.Float64() * 6, Z: rng.Float64() * 6}
		types[i] = elements[rng.Intn(len(elements))]
	}
	return coords, types
}

func TestParallelDeterministic(t *testing.T) {
	coords, types := randomMolecule(120, 7)
	ref, err := NewEngine(testTable(t), &Options{cpus: 1}).Determine(coords, types)
	require.NoError(t, err)
	for _, cpus := range []int{2, 3, 8, 500} {
		o := DefaultOptions()
		o.Cpus(cpus)
		res, err := NewEngine(testTable(t), o).Determine(coords, types)
		require.NoError(t, err)
		assert.Equal(t, ref, res, "cpus=%d", cpus)
	}
}

func TestDisjointAndOrdered(t *testing.T) {
	coords, types := randomMolecule(80, 11)
	coordsCopy := append([]r3.Vec(nil), coords...)
	res, err := NewEngine(testTable(t)).Determine(coords, types)
	require.NoError(t, err)
	assert.Equal(t, coordsCopy, coords)
	seen := make(map[chem.Pair]bool)
	for _, p := range append(append([]chem.Pair(nil), res.Confirmed...), res.Near...) {
		assert.Less(t, p.I, p.J)
		assert.False(t, seen[p], "pair %v classified twice", p)
		seen[p] = true
	}
	assert.Len(t, res.All(), len(res.Confirmed)+len(res.Near))
}

func TestOptionsCpus(t *testing.T) {
	o := DefaultOptions()
	prev := o.Cpus(3)
	assert.Greater(t, prev, 0)
	assert.Equal(t, 3, o.Cpus())
	o.Cpus(-1)
	assert.Equal(t, 3, o.Cpus())
}
