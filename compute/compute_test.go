/*
 * compute_test.go, part of quantic.
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

package compute

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *fakeProvider) {
	t.Helper()
	K, err := EmbeddedKernels()
	require.NoError(t, err)
	P := &fakeProvider{dev: &fakeDevice{}}
	D, err := NewDispatcher(P, K)
	require.NoError(t, err)
	return D, P
}

//water returns a water molecule with coordinates exactly representable in float32.
func water() ([]r3.Vec, []string, []chem.Pair) {
	coords := []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 0.75, Y: 0.5, Z: 0}, {X: -0.75, Y: 0.5, Z: 0}}
	return coords, []string{"O", "H", "H"}, []chem.Pair{{I: 0, J: 1}, {I: 0, J: 2}}
}

func TestParseProcessKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseProcessKind(strings.ToUpper(k.String()))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseProcessKind("anneal")
	assert.True(t, errors.Is(err, chem.ErrInvalidProcessKind))
	assert.Equal(t, "ProcessKind(7)", ProcessKind(7).String())

	var k ProcessKind
	require.NoError(t, k.UnmarshalText([]byte(" simulate ")))
	assert.Equal(t, Simulate, k)
	text, err := Minimize.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "minimize", string(text))
}

func TestPacking(t *testing.T) {
	assert.Equal(t, []uint32{NoBond, NoBond}, decodeU32(packBonds(nil)))
	assert.Equal(t, []uint32{0, 2, 1, 2}, decodeU32(packBonds([]chem.Pair{{I: 0, J: 2}, {I: 1, J: 2}})))
	assert.Equal(t, []uint32{6, 0, 17, 1}, decodeU32(packCodes([]string{"C", "Xx", "CL", "h"})))

	raw := packParams(Job{StepSize: 0.5, MaxSteps: 9, Kind: Simulate})
	require.Len(t, raw, 16)
	p := decodeParams(raw)
	assert.Equal(t, float32(0.5), p.StepSize)
	assert.Equal(t, uint32(9), p.MaxSteps)
	assert.Equal(t, uint32(Simulate), p.ProcessKind)

	coords := []r3.Vec{{X: 1, Y: 2, Z: 3}, {X: -0.5, Y: 0.25, Z: 8}}
	assert.Equal(t, coords, unpackPositions(packPositions(coords), 2))

	for n, want := range map[int]uint32{1: 1, 63: 1, 64: 1, 65: 2, 130: 3} {
		assert.Equal(t, want, workgroups(n), "n=%d", n)
	}
}

func TestMalformedNeverReachesDevice(t *testing.T) {
	D, P := newTestDispatcher(t)
	coords, types, bonds := water()
	cases := []struct {
		name   string
		coords []r3.Vec
		types  []string
		bonds  []chem.Pair
		job    Job
		kind   chem.ErrorKind
	}{
		{"lengths", coords, types[:2], bonds, Job{Kind: Relax}, chem.MalformedInput},
		{"range", coords, types, []chem.Pair{{I: 0, J: 3}}, Job{Kind: Relax}, chem.MalformedInput},
		{"negative", coords, types, []chem.Pair{{I: -1, J: 1}}, Job{Kind: Relax}, chem.MalformedInput},
		{"self", coords, types, []chem.Pair{{I: 1, J: 1}}, Job{Kind: Relax}, chem.MalformedInput},
		{"kind", coords, types, bonds, Job{Kind: ProcessKind(3)}, chem.InvalidProcessKind},
	}
	for _, c := range cases {
		_, err := D.Run(c.coords, c.types, c.bonds, c.job)
		require.Error(t, err, c.name)
		assert.Equal(t, c.kind, chem.KindOf(err), c.name)
	}
	assert.Equal(t, 0, P.acquired)
}

func TestEmptyStructure(t *testing.T) {
	D, P := newTestDispatcher(t)
	ret, err := D.Run(nil, nil, nil, Job{StepSize: 0.1, MaxSteps: 10, Kind: Minimize})
	require.NoError(t, err)
	assert.Empty(t, ret)
	assert.NotNil(t, ret)
	assert.Equal(t, 0, P.acquired)
}

func TestDeviceUnavailable(t *testing.T) {
	K, err := EmbeddedKernels()
	require.NoError(t, err)
	P := &fakeProvider{err: errors.New("no adapter")}
	D, err := NewDispatcher(P, K)
	require.NoError(t, err)
	coords, types, bonds := water()
	before := append([]r3.Vec(nil), coords...)
	_, err = D.Run(coords, types, bonds, Job{StepSize: 0.1, MaxSteps: 5, Kind: Relax})
	require.Error(t, err)
	assert.True(t, errors.Is(err, chem.ErrDeviceUnavailable))
	assert.Equal(t, before, coords)
	assert.Equal(t, 1, P.acquired)
}

func TestZeroStepsIdentity(t *testing.T) {
	D, _ := newTestDispatcher(t)
	coords, types, bonds := water()
	for _, k := range Kinds() {
		ret, err := D.Run(coords, types, bonds, Job{StepSize: 0.3, MaxSteps: 0, Kind: k})
		require.NoError(t, err, k.String())
		assert.Equal(t, coords, ret, k.String())
	}
}

func TestOrderAndLength(t *testing.T) {
	D, _ := newTestDispatcher(t)
	coords := make([]r3.Vec, 130)
	types := make([]string, 130)
	for i := range coords {
		coords[i] = r3.Vec{X: float64(i), Y: -float64(i) / 2, Z: 1}
		types[i] = "C"
	}
	before := append([]r3.Vec(nil), coords...)
	ret, err := D.Run(coords, types, []chem.Pair{{I: 3, J: 4}}, Job{StepSize: 0.5, MaxSteps: 2, Kind: Relax})
	require.NoError(t, err)
	require.Len(t, ret, len(coords))
	assert.Equal(t, before, coords)
	for i := range ret {
		want := coords[i]
		if i == 3 || i == 4 {
			want.X += 1
		}
		assert.Equal(t, want, ret[i], "atom %d", i)
	}
}

func TestSingleDispatch(t *testing.T) {
	D, P := newTestDispatcher(t)
	dev := P.dev
	n := 130
	coords := make([]r3.Vec, n)
	types := make([]string, n)
	for i := range types {
		types[i] = "H"
	}
	_, err := D.Run(coords, types, nil, Job{StepSize: 0.01, MaxSteps: 50, Kind: Simulate})
	require.NoError(t, err)
	assert.Equal(t, 1, dev.dispatches)
	assert.Equal(t, uint32(3), dev.groups)

	require.Len(t, dev.uploads, 4)
	labels := []string{dev.uploads[0].label, dev.uploads[1].label, dev.uploads[2].label, dev.uploads[3].label}
	assert.Equal(t, []string{"positions", "params", "codes", "bonds"}, labels)
	assert.Equal(t, []Access{ReadWrite, Uniform, ReadOnly, ReadOnly},
		[]Access{dev.uploads[0].access, dev.uploads[1].access, dev.uploads[2].access, dev.uploads[3].access})
	assert.Equal(t, uint32(50), decodeParams(dev.uploads[1].data).MaxSteps)
	assert.Equal(t, []uint32{NoBond, NoBond}, decodeU32(dev.uploads[3].data))
	require.Len(t, dev.stagings, 1)
	assert.Len(t, dev.stagings[0].data, 12*n)
	require.Len(t, dev.pipelines, 1)
	assert.Contains(t, dev.pipelines[0].source, "@workgroup_size(64)")

	assert.Equal(t, 0, dev.live)
	assert.Equal(t, 1, dev.released)
}

func TestFailuresRelease(t *testing.T) {
	coords, types, bonds := water()
	job := Job{StepSize: 0.1, MaxSteps: 3, Kind: Minimize}
	cases := []struct {
		name string
		dev  *fakeDevice
		kind chem.ErrorKind
	}{
		{"pipeline", &fakeDevice{failPipeline: true}, chem.DeviceUnavailable},
		{"dispatch", &fakeDevice{failDispatch: true}, chem.ReadbackFailure},
		{"readback", &fakeDevice{failRead: true}, chem.ReadbackFailure},
	}
	K, err := EmbeddedKernels()
	require.NoError(t, err)
	for _, c := range cases {
		D, err := NewDispatcher(&fakeProvider{dev: c.dev}, K)
		require.NoError(t, err)
		_, err = D.Run(coords, types, bonds, job)
		require.Error(t, err, c.name)
		assert.Equal(t, c.kind, chem.KindOf(err), c.name)
		assert.Equal(t, 0, c.dev.live, c.name)
		assert.Equal(t, 1, c.dev.released, c.name)
	}
}

func TestSession(t *testing.T) {
	D, P := newTestDispatcher(t)
	coords, types, bonds := water()
	job := Job{StepSize: 0.25, MaxSteps: 2, Kind: Relax}
	want, err := D.Run(coords, types, bonds, job)
	require.NoError(t, err)

	S, err := D.Session()
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		got, err := S.Run(coords, types, bonds, job)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 2, P.acquired)
	assert.Equal(t, 1, P.dev.released)
	S.Close()
	S.Close()
	assert.Equal(t, 2, P.dev.released)
	_, err = S.Run(coords, types, bonds, job)
	assert.True(t, errors.Is(err, chem.ErrDeviceUnavailable))
}

func TestKernels(t *testing.T) {
	K, err := EmbeddedKernels()
	require.NoError(t, err)
	for _, k := range Kinds() {
		src, err := K.Source(k)
		require.NoError(t, err)
		for _, s := range []string{"fn main", "@workgroup_size(64)", "0xFFFFFFFFu", "var<uniform> params", "arrayLength(&positions) / 3u"} {
			assert.Contains(t, src, s, k.String())
		}
	}
	_, err = K.Source(ProcessKind(5))
	assert.Equal(t, chem.InvalidProcessKind, chem.KindOf(err))

	dir := t.TempDir()
	for _, k := range []ProcessKind{Relax, Minimize} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, k.String()+".wgsl"), []byte(K[k]), 0o644))
	}
	_, err = DirKernels(dir)
	assert.Equal(t, chem.ReferenceDataUnavailable, chem.KindOf(err))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "simulate.wgsl"), []byte(K[Simulate]), 0o644))
	K2, err := DirKernels(dir)
	require.NoError(t, err)
	assert.Equal(t, K, K2)

	_, err = NewDispatcher(&fakeProvider{}, KernelSet{Relax: "x"})
	assert.Equal(t, chem.ReferenceDataUnavailable, chem.KindOf(err))
	_, err = NewDispatcher(nil, K)
	assert.Equal(t, chem.DeviceUnavailable, chem.KindOf(err))
}

func TestJobValidate(t *testing.T) {
	assert.NoError(t, Job{StepSize: 0.1, Kind: Simulate}.Validate())
	nan := float32(0)
	nan = nan / nan
	assert.Equal(t, chem.MalformedInput, chem.KindOf(Job{StepSize: nan}.Validate()))
}
