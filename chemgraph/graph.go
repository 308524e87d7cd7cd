/*
 * graph.go, part of quantic.
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
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
)

//Graph is the bond graph of a structure: one node per atom, with the atom
//index as ID, and one undirected edge per bond, weighted with the bond length.
type Graph struct {
	g *simple.WeightedUndirectedGraph
	n int
}

//New builds the bond graph for the atoms in coords and the given bonds.
//Repeated bonds are added only once.
func New(coords []r3.Vec, bonds []chem.Pair) (*Graph, error) {
	if err := chem.CheckPairs(bonds, len(coords)); err != nil {
		return nil, chem.ErrDecorate(err, "chemgraph.New")
	}
	G := &Graph{g: simple.NewWeightedUndirectedGraph(0, math.Inf(1)), n: len(coords)}
	for i := range coords {
		G.g.AddNode(simple.Node(i))
	}
	for _, b := range bonds {
		w := r3.Norm(r3.Sub(coords[b.I], coords[b.J]))
		G.g.SetWeightedEdge(G.g.NewWeightedEdge(simple.Node(b.I), simple.Node(b.J), w))
	}
	return G, nil
}

//Len returns the number of atoms in the graph.
func (G *Graph) Len() int {
	return G.n
}

//Graph returns the underlying gonum graph.
func (G *Graph) Graph() graph.WeightedUndirected {
	return G.g
}

//Neighbors returns the atoms bonded to atom i, sorted.
func (G *Graph) Neighbors(i int) []int {
	return ids(graph.NodesOf(G.g.From(int64(i))))
}

//Degree returns the number of bonds of atom i.
func (G *Graph) Degree(i int) int {
	return G.g.From(int64(i)).Len()
}

//Fragments returns the atoms of each connected fragment. Each fragment is
//sorted, and the fragments are sorted by their first atom.
func (G *Graph) Fragments() [][]int {
	comps := topo.ConnectedComponents(G.g)
	ret := make([][]int, 0, len(comps))
	for _, c := range comps {
		ret = append(ret, ids(c))
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0] < ret[j][0] })
	return ret
}

//ShortestPath returns the atoms on the shortest path, by bond length, between
//atoms from and to, both included, and its length. The path is nil
//if the atoms are not connected.
func (G *Graph) ShortestPath(from, to int) ([]int, float64) {
	if from < 0 || to < 0 || from >= G.n || to >= G.n {
		return nil, math.Inf(1)
	}
	sh := path.DijkstraFrom(simple.Node(from), G.g)
	nodes, w := sh.To(int64(to))
	if len(nodes) == 0 {
		return nil, math.Inf(1)
	}
	ret := make([]int, len(nodes))
	for k, n := range nodes {
		ret[k] = int(n.ID())
	}
	return ret, w
}

func ids(nodes []graph.Node) []int {
	ret := make([]int, len(nodes))
	for k, n := range nodes {
		ret[k] = int(n.ID())
	}
	sort.Ints(ret)
	return ret
}
