/*
 * json_test.go, part of quantic.
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

package chemjson

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
	"github.com/amphiquantic/quantic/refdata"
)

func TestEncodeDecode(t *testing.T) {
	S, err := chem.NewStructure([]r3.Vec{{}, {X: 0.96}, {Y: 0.96}}, []string{"O", "H", "Zz"})
	require.NoError(t, err)
	S.Bonds = []chem.Pair{{I: 0, J: 1}}
	atoms := refdata.AtomProperties{"O": {Color: [3]float32{1, 0, 0}, Radius: 0.66}, "H": {Color: [3]float32{1, 1, 1}, Radius: 0.31}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, S, atoms, []chem.Pair{{I: 0, J: 2}}, []refdata.PairKey{{A: "O", B: "Zz"}}))

	var J Structure
	require.NoError(t, json.Unmarshal(buf.Bytes(), &J))
	require.Len(t, J.Atoms, 3)
	assert.Equal(t, [3]float32{1, 0, 0}, J.Atoms[0].Color)
	assert.Equal(t, defaultColor, J.Atoms[2].Color)
	assert.Equal(t, defaultRadius, J.Atoms[2].Radius)
	assert.Equal(t, [][2]int{{0, 1}}, J.Bonds)
	assert.Equal(t, [][2]int{{0, 2}}, J.Near)
	assert.Equal(t, []string{"O-Zz"}, J.Missing)

	S2, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, S.Coords, S2.Coords)
	assert.Equal(t, S.Types, S2.Types)
	assert.Equal(t, S.Bonds, S2.Bonds)

	_, err = Decode(strings.NewReader(`{"atoms":[{"index":0,"symbol":"C"}],"bonds":[[0,4]]}`))
	assert.Equal(t, chem.MalformedInput, chem.KindOf(err))
}

func TestError(t *testing.T) {
	err := chem.ErrDecorate(chem.NewError(chem.InvalidProcessKind, "unknown process kind \"x\"", "ParseProcessKind"), "main")
	var buf bytes.Buffer
	require.NoError(t, NewError(err).Send(&buf))
	var J Error
	require.NoError(t, json.Unmarshal(buf.Bytes(), &J))
	assert.True(t, J.IsError)
	assert.Equal(t, "invalid process kind", J.Kind)
	assert.Equal(t, []string{"ParseProcessKind", "main"}, J.Function)
	assert.False(t, J.Critical)
}
